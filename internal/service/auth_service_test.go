package service

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/repository"
	"marketplace/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-chars"

func TestAuthService_SignupAndLogin(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testSecret)
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, SignupInput{Username: "alice", Email: " Alice@Example.com ", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "correct-horse", user.Password)

	id, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	_, _, err = svc.Signup(ctx, SignupInput{Username: "alice2", Email: "alice@example.com", Password: "correct-horse"})
	assertAppError(t, err, models.CodeConflict)

	_, _, err = svc.Signup(ctx, SignupInput{Username: "alice", Email: "other@example.com", Password: "correct-horse"})
	assertAppError(t, err, models.CodeConflict)

	logged, token, err := svc.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assertAppError(t, err, models.CodeUnauthorized)

	_, _, err = svc.Login(ctx, "nobody@example.com", "correct-horse")
	assertAppError(t, err, models.CodeUnauthorized)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	t.Parallel()
	svc := NewAuthService(noopUserRepo(), testSecret)

	for _, in := range []SignupInput{
		{Username: "", Email: "a@example.com", Password: "password1"},
		{Username: "alice", Email: "not-an-email", Password: "password1"},
		{Username: "alice", Email: "a@example.com", Password: "short"},
	} {
		_, _, err := svc.Signup(context.Background(), in)
		assertValidationError(t, err)
	}
}

func TestAuthService_ParseToken_Rejections(t *testing.T) {
	t.Parallel()
	svc := NewAuthService(noopUserRepo(), testSecret)

	sign := func(claims jwt.RegisteredClaims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	base := func() jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   "7",
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
	}

	valid := sign(base(), testSecret)
	id, err := svc.ParseToken(valid)
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	wrongSecret := sign(base(), "another-secret-that-is-32-chars-long")
	wrongAudience := base()
	wrongAudience.Audience = jwt.ClaimStrings{"someone-else"}
	wrongIssuer := base()
	wrongIssuer.Issuer = "someone-else"
	expired := base()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	badSubject := base()
	badSubject.Subject = "abc"

	for name, token := range map[string]string{
		"garbage":        "not.a.token",
		"wrong secret":   wrongSecret,
		"wrong audience": sign(wrongAudience, testSecret),
		"wrong issuer":   sign(wrongIssuer, testSecret),
		"expired":        sign(expired, testSecret),
		"bad subject":    sign(badSubject, testSecret),
	} {
		_, err := svc.ParseToken(token)
		assert.Error(t, err, name)
	}
}
