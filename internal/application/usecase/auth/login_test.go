package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmakela/profiili/internal/domain/account"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/auth"
	"github.com/jmakela/profiili/pkg/logger"
)

type fakeAccountRepo struct {
	accounts map[string]*account.Account
}

func (f *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	acc, ok := f.accounts[email]
	if !ok {
		return nil, apperror.NewNotFound("account", email)
	}
	return acc, nil
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	accountID := uuid.New()
	repo := &fakeAccountRepo{accounts: map[string]*account.Account{
		"jm@example.com": {ID: accountID, Email: "jm@example.com", PasswordHash: hash},
	}}
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	uc := NewLoginUseCase(repo, jwtSvc, logger.NewNop())

	t.Run("valid credentials", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), LoginInput{
			Email:    "jm@example.com",
			Password: "correct horse battery staple",
		})
		require.NoError(t, err)
		require.NotEmpty(t, out.AccessToken)

		claims, err := jwtSvc.ValidateToken(out.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, accountID, claims.ProfileID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), LoginInput{
			Email:    "jm@example.com",
			Password: "wrong",
		})
		require.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), LoginInput{
			Email:    "nobody@example.com",
			Password: "whatever",
		})
		require.ErrorIs(t, err, apperror.ErrUnauthorized)
	})
}
