package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TokenVerifier resolves a bearer credential to the caller's user ID.
type TokenVerifier struct {
	jwt JWTService
}

// NewTokenVerifier creates a TokenVerifier backed by jwtService.
func NewTokenVerifier(jwtService JWTService) *TokenVerifier {
	return &TokenVerifier{jwt: jwtService}
}

// Verify returns the user ID carried by an access token. Every failure wraps
// ErrUnauthenticated together with the specific cause.
func (v *TokenVerifier) Verify(ctx context.Context, credential string) (uuid.UUID, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrUnauthenticated, ErrMissingToken)
	}

	claims, err := v.jwt.ValidateToken(ctx, credential)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	return claims.UserID, nil
}
