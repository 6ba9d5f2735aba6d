// Package identity carries the authenticated caller through the system.
// Operations take an explicit Identity argument; there is no ambient
// "current user" context value feeding authorization decisions.
package identity

import "github.com/google/uuid"

type Role string

const (
	RoleUser   Role = "user"
	RoleDoctor Role = "doctor"
	RoleAdmin  Role = "admin"
)

// Identity is the authenticated caller: a stable id plus its role.
type Identity struct {
	ID   uuid.UUID
	Role Role
}

func (i Identity) IsDoctor() bool { return i.Role == RoleDoctor }
func (i Identity) IsAdmin() bool  { return i.Role == RoleAdmin }
