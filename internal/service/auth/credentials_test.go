package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/mocks"
	"github.com/ShipIM/database-refactoring/internal/service"
	"github.com/ShipIM/database-refactoring/internal/service/auth"
)

func TestCredentialVerifier(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	users := mocks.NewMockUserStore()
	users.Users["user@example.com"] = &domain.User{Login: "user@example.com", HashedPassword: "stored-hash"}
	identity, err := service.NewIdentityService(users, nil)
	require.NoError(t, err)

	passwords := &mocks.MockPasswordVerifier{ShouldSucceed: true}
	verifier := auth.NewCredentialVerifier(identity, passwords)

	user, err := verifier.Verify(ctx, "user@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Login)
	assert.Equal(t, "stored-hash", passwords.CompareCalledWith.HashedPassword)
	assert.Equal(t, "password1", passwords.CompareCalledWith.Password)

	passwords.ShouldSucceed = false
	_, err = verifier.Verify(ctx, "user@example.com", "password1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = verifier.Verify(ctx, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Equal(t, 2, passwords.CompareCallCount, "unknown logins never reach the password check")

	users.GetByLoginError = errors.New("connection refused")
	_, err = verifier.Verify(ctx, "user@example.com", "password1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}
