package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Actor is the resolved caller identity every facade operation is scoped by.
// The engine trusts the identity collaborator that produced it.
type Actor struct {
	ID   string
	Role UserRole
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	jwt.RegisteredClaims
}

// Actor converts claims into the facade actor.
func (c *JWTClaims) Actor() Actor {
	return Actor{ID: c.UserID, Role: c.Role}
}

// LoginResponse returns the issued token and user record.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        *User     `json:"user"`
}
