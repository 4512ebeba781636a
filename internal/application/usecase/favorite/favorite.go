package favorite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jmakela/profiili/adapters/persistence"
	"github.com/jmakela/profiili/internal/application/service"
	"github.com/jmakela/profiili/internal/domain/favorite"
	"github.com/jmakela/profiili/internal/validation"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

type UseCase struct {
	favorites favorite.Repository
	tx        service.TxManager
	logger    logger.Logger
}

func NewUseCase(favorites favorite.Repository, tx service.TxManager, log logger.Logger) *UseCase {
	return &UseCase{favorites: favorites, tx: tx, logger: log}
}

func (uc *UseCase) List(ctx context.Context, ownerID uuid.UUID) ([]*favorite.Favorite, error) {
	return uc.favorites.ListByOwner(ctx, ownerID)
}

// Add bookmarks the target. Bookmarking the same target twice is a no-op
// rather than an error.
func (uc *UseCase) Add(ctx context.Context, ownerID uuid.UUID, kind string, targetID uuid.UUID) (*favorite.Favorite, error) {
	f := &favorite.Favorite{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Kind:      kind,
		TargetID:  targetID,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("favorite validation failed", err)
	}

	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		persistence.MarkProfileModified(ctx, ownerID, "favorite.add")

		count, err := uc.favorites.CountByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		if err := validation.EnsureLimit(validation.ItemFavorite, count+1); err != nil {
			return err
		}
		return uc.favorites.Save(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (uc *UseCase) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		persistence.MarkProfileModified(ctx, ownerID, "favorite.delete")
		return uc.favorites.Delete(ctx, id, ownerID)
	})
}
