package profile

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile is the root record every other collection hangs off. UpdatedAt is
// touched at most once per write transaction, just before commit.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Headline  string    `json:"headline"`
	Bio       string    `json:"bio"`
	PhotoURL  string    `json:"photo_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Competency is one competency URI aggregated across the profile's
// education entries, work roles and activity qualifications.
type Competency struct {
	URI     string   `json:"uri"`
	Sources []string `json:"sources"`
}

const (
	SourceEducation = "education"
	SourceWork      = "work"
	SourceActivity  = "activity"
)

type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	SetPhotoURL(ctx context.Context, id uuid.UUID, url string) error
	// ListCompetencies aggregates competency URIs across all collections,
	// with the source kinds each URI appears in.
	ListCompetencies(ctx context.Context, id uuid.UUID) ([]Competency, error)
}
