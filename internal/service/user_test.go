package service

import (
	"context"
	"testing"

	"shop-checkout-service/internal/apperr"
	"shop-checkout-service/internal/config"
	"shop-checkout-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) UserService {
	t.Helper()
	db := newTestDB(t)
	return NewUserService(repository.NewUserRepository(db), &config.JWT{
		Secret:      "test-secret",
		ExpiryHours: 1,
	})
}

func TestSignUpAndSignIn(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, token, err := svc.SignUp(ctx, "Ada", "ada@example.com", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "hunter2", user.PasswordHash)

	claims, err := ParseToken(&config.JWT{Secret: "test-secret"}, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	signedIn, _, err := svc.SignIn(ctx, "ada@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, "Ada", "ada@example.com", "hunter2")
	require.NoError(t, err)

	_, _, err = svc.SignUp(ctx, "Other", "ada@example.com", "secret")
	assert.True(t, apperr.Is(err, apperr.ErrMalformedRequest))
}

func TestSignIn_WrongPassword(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, "Ada", "ada@example.com", "hunter2")
	require.NoError(t, err)

	_, _, err = svc.SignIn(ctx, "ada@example.com", "wrong")
	assert.True(t, apperr.Is(err, apperr.ErrUnauthenticated))

	_, _, err = svc.SignIn(ctx, "nobody@example.com", "hunter2")
	assert.True(t, apperr.Is(err, apperr.ErrUnauthenticated))
}

func TestParseToken_BadToken(t *testing.T) {
	_, err := ParseToken(&config.JWT{Secret: "test-secret"}, "not-a-token")
	assert.Error(t, err)

	svc := newUserService(t)
	_, token, err := svc.SignUp(context.Background(), "Ada", "ada@example.com", "hunter2")
	require.NoError(t, err)

	// wrong secret must not validate
	_, err = ParseToken(&config.JWT{Secret: "other-secret"}, token)
	assert.Error(t, err)
}
