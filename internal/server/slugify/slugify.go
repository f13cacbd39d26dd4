// Package slugify derives unique, URL-safe slugs from display names.
package slugify

import (
	"fmt"

	"github.com/gosimple/slug"
)

// suffixWidth is the zero-padded width of the numeric disambiguation
// suffix: "ana-lopez", "ana-lopez-001", "ana-lopez-002", ...
const suffixWidth = 3

// Base converts a display name into its slug form ("Ana López" →
// "ana-lopez"). An empty or unconvertible name yields "user".
func Base(name string) string {
	s := slug.Make(name)
	if s == "" {
		return "user"
	}
	return s
}

// Unique returns base if it does not collide with any taken slug;
// otherwise the first free base-NNN candidate, counting from 001.
func Unique(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		used[t] = struct{}{}
	}

	if _, ok := used[base]; !ok {
		return base
	}

	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s-%0*d", base, suffixWidth, n)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}
