package model

import "time"

// Roles recognized by the authorization rules. Every registered user
// starts as RoleUser; RoleAdmin is granted out of band.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated principal extracted from a verified
// session token. It carries only what authorization decisions need.
type Identity struct {
	UserID int64
	Role   string
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
