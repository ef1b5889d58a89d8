package mocks

import (
	"context"

	"github.com/google/uuid"
)

// MockIdentityVerifier implements middleware.IdentityVerifier for testing
type MockIdentityVerifier struct {
	VerifyFn func(ctx context.Context, credential string) (uuid.UUID, error)

	// Default values used when VerifyFn is nil
	UserID uuid.UUID
	Err    error

	// Credentials records every credential passed to Verify
	Credentials []string
}

// Verify implements the middleware.IdentityVerifier interface
func (m *MockIdentityVerifier) Verify(ctx context.Context, credential string) (uuid.UUID, error) {
	m.Credentials = append(m.Credentials, credential)
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, credential)
	}
	if m.Err != nil {
		return uuid.Nil, m.Err
	}
	return m.UserID, nil
}
