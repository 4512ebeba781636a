package education

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Category groups education entries within one profile. Names are unique per
// owner; the database constraint is the backstop for concurrent creation.
type Category struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// Entry is a single education record, optionally grouped under a category.
type Entry struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Competencies []string   `json:"competencies"`
}

// EntityID implements reconcile.Entity.
func (e *Entry) EntityID() uuid.UUID { return e.ID }

func (e *Entry) Validate() error {
	if e.Name == "" {
		return errors.New("name is required")
	}
	if e.StartDate != nil && e.EndDate != nil && e.EndDate.Before(*e.StartDate) {
		return errors.New("end date precedes start date")
	}
	return nil
}

type CategoryRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Category, error)
	Save(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	// DeleteOrphaned removes the owner's categories that no entry references
	// anymore. Idempotent.
	DeleteOrphaned(ctx context.Context, ownerID uuid.UUID) error
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}

type EntryRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Entry, error)
	// ListByOwnerAndCategory returns the entries in one category;
	// categoryID == nil selects the uncategorized entries.
	ListByOwnerAndCategory(ctx context.Context, ownerID uuid.UUID, categoryID *uuid.UUID) ([]*Entry, error)
	FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*Entry, error)
	Save(ctx context.Context, e *Entry) error
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}
