package persistence

import (
	"context"

	"github.com/jmakela/profiili/internal/domain/account"
)

type postgresAccountRepo struct {
	db DB
}

func NewPostgresAccountRepo(db DB) account.Repository {
	return &postgresAccountRepo{db: db}
}

func (r *postgresAccountRepo) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	query := `
		SELECT id, email, name, password_hash
		FROM accounts
		WHERE email = $1
	`
	a := &account.Account{}
	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, email).Scan(
		&a.ID, &a.Email, &a.Name, &a.PasswordHash,
	)
	if err != nil {
		return nil, mapError(err, "account", email)
	}
	return a, nil
}
