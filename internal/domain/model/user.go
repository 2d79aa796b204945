package model

import (
	"time"
)

type Role string

const (
	RoleFreelancer Role = "FREELANCER"
	RoleClient     Role = "CLIENT"
)

// Roles lists every role a session can carry.
var Roles = []Role{RoleFreelancer, RoleClient}

func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

func (r Role) Valid() bool {
	switch r {
	case RoleFreelancer, RoleClient:
		return true
	}
	return false
}

// In reports whether r is one of allowed. Unknown roles are never allowed.
func (r Role) In(allowed ...Role) bool {
	if !r.Valid() {
		return false
	}
	for _, a := range allowed {
		if a == r {
			return true
		}
	}
	return false
}

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Not exposed
	Role           Role      `json:"role"`
	Avatar         *string   `json:"avatar,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Public returns a copy safe to send to clients.
func (u *User) Public() *User {
	cp := *u
	cp.HashedPassword = ""
	return &cp
}
