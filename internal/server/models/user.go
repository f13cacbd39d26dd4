// Package models defines the persistent record types of the account
// service.
package models

import "time"

// User is an account record. Deletion is logical: IsActive flips to false
// and the row is retained.
type User struct {
	ID             string
	Email          string
	HashedPassword string
	FullName       string
	Slug           string
	IsActive       bool
	IsSuperuser    bool
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
