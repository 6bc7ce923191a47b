package entity

import "strings"

type User struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id,omitempty"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Role       string `json:"role,omitempty"`
	HRID       string `json:"hrId,omitempty"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
}

const RoleHR = "hr"

// ProfileComplete reports whether the user may be granted dashboard access.
func (u *User) ProfileComplete() bool {
	if u == nil {
		return false
	}
	return u.Role != "" && u.Department != "" && u.Position != ""
}

// DisplayNameFromEmail derives the provisional name used before the profile is collected.
func DisplayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
