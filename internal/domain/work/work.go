package work

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Workplace is an employer record owned by one profile. Roles live under it
// and never migrate to another workplace.
type Workplace struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Name      string     `json:"name"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Roles     []*Role    `json:"roles"`
}

type Role struct {
	ID           uuid.UUID  `json:"id"`
	WorkplaceID  uuid.UUID  `json:"workplace_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Competencies []string   `json:"competencies"`
}

// EntityID implements reconcile.Entity.
func (r *Role) EntityID() uuid.UUID { return r.ID }

func (w *Workplace) Validate() error {
	if w.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func (r *Role) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type WorkplaceRepository interface {
	// ListByOwner returns workplaces with their roles populated.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Workplace, error)
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*Workplace, error)
	Save(ctx context.Context, w *Workplace) error
	Update(ctx context.Context, w *Workplace) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}

type RoleRepository interface {
	ListByWorkplace(ctx context.Context, workplaceID uuid.UUID) ([]*Role, error)
	Save(ctx context.Context, r *Role) error
	Update(ctx context.Context, r *Role) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByWorkplace(ctx context.Context, workplaceID uuid.UUID) error
	CountByWorkplace(ctx context.Context, workplaceID uuid.UUID) (int, error)
}
