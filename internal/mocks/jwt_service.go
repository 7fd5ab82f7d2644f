package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-cards/internal/service/auth"
)

// MockJWTService implements auth.JWTService. Without Fn overrides it returns
// Token/Err from GenerateToken and Claims/ValidateErr from ValidateToken.
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	Token       string
	Err         error
	Claims      *auth.Claims
	ValidateErr error
}

func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return m.Token, m.Err
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// NewMockJWTServiceForUser accepts every token as an access token for userID.
func NewMockJWTServiceForUser(userID uuid.UUID) *MockJWTService {
	return &MockJWTService{
		Claims: &auth.Claims{UserID: userID, Subject: userID.String(), TokenType: "access"},
	}
}
