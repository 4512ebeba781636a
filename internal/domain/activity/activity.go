package activity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Activity is a free-form engagement (volunteering, hobby project, position
// of trust) holding the qualifications earned through it.
type Activity struct {
	ID             uuid.UUID        `json:"id"`
	OwnerID        uuid.UUID        `json:"owner_id"`
	Name           string           `json:"name"`
	Qualifications []*Qualification `json:"qualifications"`
}

type Qualification struct {
	ID           uuid.UUID  `json:"id"`
	ActivityID   uuid.UUID  `json:"activity_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Competencies []string   `json:"competencies"`
}

// EntityID implements reconcile.Entity.
func (q *Qualification) EntityID() uuid.UUID { return q.ID }

func (a *Activity) Validate() error {
	if a.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func (q *Qualification) Validate() error {
	if q.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type ActivityRepository interface {
	// ListByOwner returns activities with their qualifications populated.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Activity, error)
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*Activity, error)
	FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*Activity, error)
	Save(ctx context.Context, a *Activity) error
	Update(ctx context.Context, a *Activity) error
	DeleteByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (int, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}

type QualificationRepository interface {
	Save(ctx context.Context, q *Qualification) error
	Update(ctx context.Context, q *Qualification) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByActivity(ctx context.Context, activityID uuid.UUID) (int, error)
}
