// Package models defines server-side data models persisted in the database.
package models

import "time"

// Role is the authorization level of a user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleViewer:
		return true
	}
	return false
}

// User is an operator account. Users are never deleted, only deactivated.
type User struct {
	ID         string
	UserName   string
	Role       Role
	SecretHash string
	Active     bool
	CreatedAt  time.Time
}
