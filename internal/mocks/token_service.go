package mocks

import (
	"context"
	"sync"

	"github.com/ShipIM/database-refactoring/internal/service/auth"
)

// MockTokenService implements auth.TokenService for testing
type MockTokenService struct {
	// IssueFn allows test cases to mock the Issue behavior
	IssueFn func(ctx context.Context, subject string, extra map[string]any) (string, error)

	// VerifyFn allows test cases to mock the Verify behavior
	VerifyFn func(ctx context.Context, token string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token     string
	Err       error
	Claims    *auth.Claims
	VerifyErr error

	mu             sync.Mutex
	IssuedSubjects []string
}

var _ auth.TokenService = (*MockTokenService)(nil)

// Issue implements the auth.TokenService interface
func (m *MockTokenService) Issue(ctx context.Context, subject string, extra map[string]any) (string, error) {
	m.mu.Lock()
	m.IssuedSubjects = append(m.IssuedSubjects, subject)
	m.mu.Unlock()

	if m.IssueFn != nil {
		return m.IssueFn(ctx, subject, extra)
	}
	return m.Token, m.Err
}

// Verify implements the auth.TokenService interface
func (m *MockTokenService) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, token)
	}
	return m.Claims, m.VerifyErr
}

// Issued returns the subjects tokens were issued for, in call order.
func (m *MockTokenService) Issued() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.IssuedSubjects...)
}
