package profile

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/jmakela/profiili/adapters/persistence"
	"github.com/jmakela/profiili/internal/application/service"
	"github.com/jmakela/profiili/internal/domain/profile"
	"github.com/jmakela/profiili/pkg/logger"
)

var tracer = otel.Tracer("profile_usecase")

// Cache is the read cache in front of the profile repository. Implemented by
// the redis adapter; a nil-safe noop is fine in tests.
type Cache interface {
	Get(ctx context.Context, id uuid.UUID) (*profile.Profile, bool)
	Set(ctx context.Context, p *profile.Profile)
}

type UseCase struct {
	profiles profile.Repository
	cache    Cache
	tx       service.TxManager
	logger   logger.Logger
}

func NewUseCase(profiles profile.Repository, cache Cache, tx service.TxManager, log logger.Logger) *UseCase {
	return &UseCase{
		profiles: profiles,
		cache:    cache,
		tx:       tx,
		logger:   log,
	}
}

func (uc *UseCase) Get(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "Get")
	defer span.End()

	if uc.cache != nil {
		if p, ok := uc.cache.Get(ctx, id); ok {
			return p, nil
		}
	}

	p, err := uc.profiles.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Set(ctx, p)
	}
	return p, nil
}

type UpdateInput struct {
	Headline string
	Bio      string
}

func (uc *UseCase) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*profile.Profile, error) {
	var p *profile.Profile
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		persistence.MarkProfileModified(ctx, id, "profile.update")

		var err error
		p, err = uc.profiles.Get(ctx, id)
		if err != nil {
			return err
		}
		p.Headline = in.Headline
		p.Bio = in.Bio
		return uc.profiles.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Competencies returns every competency URI on the profile with the
// collection kinds it came from.
func (uc *UseCase) Competencies(ctx context.Context, id uuid.UUID) ([]profile.Competency, error) {
	ctx, span := tracer.Start(ctx, "Competencies")
	defer span.End()

	var competencies []profile.Competency
	err := uc.tx.RunInReadTx(ctx, func(ctx context.Context) error {
		var err error
		competencies, err = uc.profiles.ListCompetencies(ctx, id)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return competencies, nil
}
