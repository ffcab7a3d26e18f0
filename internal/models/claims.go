package models

import "github.com/golang-jwt/jwt/v5"

// Claims are the JWT claims this service verifies. Tokens are issued by the
// external auth service; this service only checks them.
type Claims struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// contextKey is unexported to keep context values collision-free.
type contextKey string

// UserContextKey carries the verified user id through request contexts.
const UserContextKey contextKey = "user_id"
