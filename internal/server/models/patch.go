package models

// UserPatch carries a partial update of a user record. A nil field means
// "leave unchanged"; update logic applies each field explicitly instead of
// iterating dynamic attribute maps.
type UserPatch struct {
	Email       *string
	FullName    *string
	Password    *string
	IsActive    *bool
	IsSuperuser *bool
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Email == nil && p.FullName == nil && p.Password == nil &&
		p.IsActive == nil && p.IsSuperuser == nil
}
