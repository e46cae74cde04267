package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
	RoleNurse  Role = "nurse"
	RoleStaff  Role = "staff"
	RoleUser   Role = "user"
)

// roleRanks is the total order used for authorization. Unknown roles rank 0
// and satisfy no requirement.
var roleRanks = map[Role]int{
	RoleAdmin:  5,
	RoleDoctor: 4,
	RoleNurse:  3,
	RoleStaff:  2,
	RoleUser:   1,
}

func (r Role) Rank() int {
	return roleRanks[Role(strings.ToLower(string(r)))]
}

// Satisfies reports whether the role meets a required role's rank.
func (r Role) Satisfies(required Role) bool {
	rank := r.Rank()
	return rank > 0 && rank >= required.Rank()
}

func (r Role) Valid() bool {
	return r.Rank() > 0
}

type Account struct {
	ID             int64     `db:"user_id" json:"id"`
	Username       string    `db:"username" json:"username"`
	PasswordDigest string    `db:"password_digest" json:"-"`
	Role           Role      `db:"role" json:"role"`
	FullName       string    `db:"full_name" json:"full_name"`
	Email          string    `db:"email" json:"email,omitempty"`
	Phone          string    `db:"phone" json:"phone,omitempty"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type CreateAccountRequest struct {
	Username string `validate:"required,min=3,max=64"`
	Password string `validate:"required,min=6"`
	Role     string `validate:"required,oneof=admin doctor nurse staff user"`
	FullName string `validate:"required,max=128"`
	Email    string `validate:"omitempty,email"`
	Phone    string `validate:"omitempty,max=32"`
}

type UpdateProfileRequest struct {
	FullName *string `validate:"omitempty,max=128"`
	Email    *string `validate:"omitempty,email"`
	Phone    *string `validate:"omitempty,max=32"`
}
