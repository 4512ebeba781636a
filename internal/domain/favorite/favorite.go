package favorite

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	KindJobOpportunity       = "job_opportunity"
	KindEducationOpportunity = "education_opportunity"
)

// Favorite bookmarks an external opportunity for one profile. The
// (owner, kind, target) triple is unique; re-adding is a no-op.
type Favorite struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Kind      string    `json:"kind"`
	TargetID  uuid.UUID `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (f *Favorite) Validate() error {
	switch f.Kind {
	case KindJobOpportunity, KindEducationOpportunity:
	default:
		return errors.New("invalid favorite kind")
	}
	if f.TargetID == uuid.Nil {
		return errors.New("target id is required")
	}
	return nil
}

type Repository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Favorite, error)
	// Save inserts the favorite unless the same (kind, target) pair already
	// exists for the owner, in which case it leaves the existing row alone.
	Save(ctx context.Context, f *Favorite) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}
