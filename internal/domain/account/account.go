package account

import (
	"context"

	"github.com/google/uuid"
)

// Account is a login identity. Its id doubles as the profile id.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
}

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
}
