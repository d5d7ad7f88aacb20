package domain

import "time"

// Roles recognised by the back office.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the authenticated subject resolved from a bearer credential.
type Identity struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
}
