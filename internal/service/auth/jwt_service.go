package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService validates bearer tokens and, for development tooling, mints them.
type JWTService interface {
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies the signature and registered claims and returns
	// the user the token was issued for.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated view of an access token.
type Claims struct {
	// UserID comes from the uid claim, falling back to sub.
	UserID    uuid.UUID `json:"uid,omitempty"`
	TokenType string    `json:"type,omitempty"`
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
