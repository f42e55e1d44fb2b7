package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the platform-wide role of an authenticated user.
type Role string

const (
	RoleStudent     Role = "student"
	RoleContributor Role = "contributor"
	RoleAdmin       Role = "admin"
)

// UnknownRoleError indicates a role value outside the defined set. It
// signals a corrupted user record, so it is surfaced as a hard failure
// rather than silently mapped to the lowest or highest privilege.
type UnknownRoleError struct {
	Role Role
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("unknown role %q", string(e.Role))
}

// roleLevels defines the strict total order student < contributor < admin.
var roleLevels = map[Role]int{
	RoleStudent:     1,
	RoleContributor: 2,
	RoleAdmin:       3,
}

// Level returns the numeric privilege level of the role.
func (r Role) Level() (int, error) {
	lvl, ok := roleLevels[r]
	if !ok {
		return 0, &UnknownRoleError{Role: r}
	}
	return lvl, nil
}

// AtLeast reports whether r sits at or above other in the role order.
func (r Role) AtLeast(other Role) (bool, error) {
	a, err := r.Level()
	if err != nil {
		return false, err
	}
	b, err := other.Level()
	if err != nil {
		return false, err
	}
	return a >= b, nil
}

// Valid reports whether the role is one of the defined values.
func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// ParseRole converts a raw string into a Role or returns UnknownRoleError.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", &UnknownRoleError{Role: r}
	}
	return r, nil
}

// Actor is an authenticated user as seen by the authorization core.
type Actor struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterRequest is the payload for creating a new account.
// New accounts always start as students; promotion is an admin operation.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required,min=2,max=120"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest is the payload for email/password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateRoleRequest is the admin payload for changing a user's role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=student contributor admin"`
}
