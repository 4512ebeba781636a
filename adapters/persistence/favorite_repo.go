package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/jmakela/profiili/internal/domain/favorite"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

type postgresFavoriteRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresFavoriteRepo(db DB, logger logger.Logger) favorite.Repository {
	return &postgresFavoriteRepo{db: db, logger: logger}
}

func (r *postgresFavoriteRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*favorite.Favorite, error) {
	query := `
		SELECT id, owner_id, kind, target_id, created_at
		FROM favorites
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := QuerierFromCtx(ctx, r.db).Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query favorites", err)
	}
	defer rows.Close()

	favorites := make([]*favorite.Favorite, 0)
	for rows.Next() {
		f := &favorite.Favorite{}
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Kind, &f.TargetID, &f.CreatedAt); err != nil {
			return nil, apperror.NewInternal("failed to scan favorite row", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating favorite rows", err)
	}
	return favorites, nil
}

func (r *postgresFavoriteRepo) Save(ctx context.Context, f *favorite.Favorite) error {
	query := `
		INSERT INTO favorites (id, owner_id, kind, target_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_id, kind, target_id) DO NOTHING
	`
	_, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, f.ID, f.OwnerID, f.Kind, f.TargetID, f.CreatedAt)
	if err != nil {
		return apperror.NewInternal("failed to save favorite", err)
	}
	return nil
}

func (r *postgresFavoriteRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM favorites WHERE id = $1 AND owner_id = $2`
	cmdTag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete favorite", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("favorite", id.String())
	}
	return nil
}

func (r *postgresFavoriteRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	query := `SELECT count(*) FROM favorites WHERE owner_id = $1`
	if err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, apperror.NewInternal("failed to count favorites", err)
	}
	return count, nil
}
