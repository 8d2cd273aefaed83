// Package models holds the server-side data model and the request schemas
// validated at the HTTP boundary.
package models

import "time"

// User is a stored user record. PasswordHash is never serialized to JSON and
// must never leave the server.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// SignUpRequest is the JSON body for POST /api/auth/signup.
type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
