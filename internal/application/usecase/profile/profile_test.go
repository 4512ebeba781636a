package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmakela/profiili/internal/domain/profile"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*profile.Profile
	getCalls int
}

func (f *fakeProfileRepo) Get(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	f.getCalls++
	p, ok := f.profiles[id]
	if !ok {
		return nil, apperror.NewNotFound("profile", id.String())
	}
	return p, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	if _, ok := f.profiles[p.ID]; !ok {
		return apperror.NewNotFound("profile", p.ID.String())
	}
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeProfileRepo) SetPhotoURL(ctx context.Context, id uuid.UUID, url string) error {
	p, ok := f.profiles[id]
	if !ok {
		return apperror.NewNotFound("profile", id.String())
	}
	p.PhotoURL = url
	return nil
}

func (f *fakeProfileRepo) ListCompetencies(ctx context.Context, id uuid.UUID) ([]profile.Competency, error) {
	return []profile.Competency{
		{URI: "urn:skill:go", Sources: []string{profile.SourceWork, profile.SourceEducation}},
	}, nil
}

type fakeCache struct {
	entries map[uuid.UUID]*profile.Profile
}

func (f *fakeCache) Get(ctx context.Context, id uuid.UUID) (*profile.Profile, bool) {
	p, ok := f.entries[id]
	return p, ok
}

func (f *fakeCache) Set(ctx context.Context, p *profile.Profile) {
	f.entries[p.ID] = p
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTx) RunInReadTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestGet_SecondReadComesFromCache(t *testing.T) {
	id := uuid.New()
	repo := &fakeProfileRepo{profiles: map[uuid.UUID]*profile.Profile{
		id: {ID: id, Headline: "Gopher"},
	}}
	cache := &fakeCache{entries: map[uuid.UUID]*profile.Profile{}}
	uc := NewUseCase(repo, cache, passthroughTx{}, logger.NewNop())

	first, err := uc.Get(context.Background(), id)
	require.NoError(t, err)
	second, err := uc.Get(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.getCalls)
}

func TestGet_MissingProfile(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[uuid.UUID]*profile.Profile{}}
	uc := NewUseCase(repo, nil, passthroughTx{}, logger.NewNop())

	_, err := uc.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdate_OverwritesHeadlineAndBio(t *testing.T) {
	id := uuid.New()
	repo := &fakeProfileRepo{profiles: map[uuid.UUID]*profile.Profile{
		id: {ID: id, Headline: "Old", Bio: "Old bio"},
	}}
	uc := NewUseCase(repo, nil, passthroughTx{}, logger.NewNop())

	p, err := uc.Update(context.Background(), id, UpdateInput{Headline: "New", Bio: "New bio"})
	require.NoError(t, err)
	assert.Equal(t, "New", p.Headline)
	assert.Equal(t, "New bio", repo.profiles[id].Bio)
}

func TestCompetencies_ReturnsAggregatedURIs(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[uuid.UUID]*profile.Profile{}}
	uc := NewUseCase(repo, nil, passthroughTx{}, logger.NewNop())

	competencies, err := uc.Competencies(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, competencies, 1)
	assert.Equal(t, "urn:skill:go", competencies[0].URI)
	assert.Contains(t, competencies[0].Sources, profile.SourceWork)
}
