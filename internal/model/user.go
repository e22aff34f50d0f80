package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleStudent = "student"
	RoleCook    = "cook"
	RoleAdmin   = "admin"
)

// User represents an account of any role.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	FullName     string    `json:"fullName" db:"full_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// RegisterRequest represents the payload for student registration.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

// LoginRequest represents the payload for authentication.
type LoginRequest struct {
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the authenticated user.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
