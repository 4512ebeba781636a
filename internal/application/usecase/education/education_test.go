package education

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmakela/profiili/adapters/persistence"
	"github.com/jmakela/profiili/internal/domain/education"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

type opsRecorder struct {
	ops []string
}

func (r *opsRecorder) record(op string) {
	r.ops = append(r.ops, op)
}

func (r *opsRecorder) contains(op string) bool {
	for _, o := range r.ops {
		if o == op {
			return true
		}
	}
	return false
}

type fakeCategoryRepo struct {
	rec        *opsRecorder
	categories []*education.Category
}

func (f *fakeCategoryRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*education.Category, error) {
	out := make([]*education.Category, 0)
	for _, c := range f.categories {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) Save(ctx context.Context, c *education.Category) error {
	f.rec.record("category.save")
	f.categories = append(f.categories, c)
	return nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, c *education.Category) error {
	f.rec.record("category.update")
	for i, existing := range f.categories {
		if existing.ID == c.ID {
			f.categories[i] = c
			return nil
		}
	}
	return apperror.NewNotFound("education category", c.ID.String())
}

func (f *fakeCategoryRepo) DeleteOrphaned(ctx context.Context, ownerID uuid.UUID) error {
	f.rec.record("category.delete_orphaned")
	return nil
}

func (f *fakeCategoryRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	return len(f.categories), nil
}

type fakeEntryRepo struct {
	rec         *opsRecorder
	entries     []*education.Entry
	forcedCount int
}

func sameCategory(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f *fakeEntryRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*education.Entry, error) {
	out := make([]*education.Entry, 0)
	for _, e := range f.entries {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntryRepo) ListByOwnerAndCategory(ctx context.Context, ownerID uuid.UUID, categoryID *uuid.UUID) ([]*education.Entry, error) {
	out := make([]*education.Entry, 0)
	for _, e := range f.entries {
		if e.OwnerID == ownerID && sameCategory(e.CategoryID, categoryID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntryRepo) FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*education.Entry, error) {
	wanted := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make([]*education.Entry, 0)
	for _, e := range f.entries {
		if _, ok := wanted[e.ID]; ok && e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntryRepo) Save(ctx context.Context, e *education.Entry) error {
	f.rec.record("entry.save")
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeEntryRepo) Update(ctx context.Context, e *education.Entry) error {
	f.rec.record("entry.update")
	for i, existing := range f.entries {
		if existing.ID == e.ID {
			f.entries[i] = e
			return nil
		}
	}
	return apperror.NewNotFound("education entry", e.ID.String())
}

func (f *fakeEntryRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	f.rec.record("entry.delete")
	for i, e := range f.entries {
		if e.ID == id && e.OwnerID == ownerID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFound("education entry", id.String())
}

func (f *fakeEntryRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	if f.forcedCount > 0 {
		return f.forcedCount, nil
	}
	return len(f.entries), nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTx) RunInReadTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestUseCase() (*UseCase, *fakeCategoryRepo, *fakeEntryRepo, *opsRecorder) {
	rec := &opsRecorder{}
	cats := &fakeCategoryRepo{rec: rec}
	entries := &fakeEntryRepo{rec: rec}
	uc := NewUseCase(cats, entries, passthroughTx{}, logger.NewNop())
	return uc, cats, entries, rec
}

func strptr(s string) *string { return &s }

func TestMerge_CreatesCategoryAndEntries(t *testing.T) {
	uc, cats, entries, _ := newTestUseCase()
	ownerID := uuid.New()

	result, err := uc.Merge(context.Background(), ownerID,
		&CategoryPatch{Name: strptr("Degrees")},
		[]EntryPatch{
			{Name: "BSc Computer Science"},
			{Name: "MSc Computer Science"},
		},
	)
	require.NoError(t, err)
	require.Len(t, result, 2)
	require.Len(t, cats.categories, 1)
	assert.Equal(t, "Degrees", cats.categories[0].Name)
	for _, e := range entries.entries {
		require.NotNil(t, e.CategoryID)
		assert.Equal(t, cats.categories[0].ID, *e.CategoryID)
		assert.Equal(t, ownerID, e.OwnerID)
	}
}

func TestMerge_UnlistedEntryIsDeletedThenOrphansSwept(t *testing.T) {
	uc, cats, entries, rec := newTestUseCase()
	ownerID := uuid.New()
	category := &education.Category{ID: uuid.New(), OwnerID: ownerID, Name: "Courses"}
	cats.categories = []*education.Category{category}
	kept := &education.Entry{ID: uuid.New(), OwnerID: ownerID, CategoryID: &category.ID, Name: "Algorithms"}
	doomed := &education.Entry{ID: uuid.New(), OwnerID: ownerID, CategoryID: &category.ID, Name: "Databases"}
	entries.entries = []*education.Entry{kept, doomed}

	result, err := uc.Merge(context.Background(), ownerID,
		&CategoryPatch{ID: &category.ID},
		[]EntryPatch{{ID: kept.ID, Name: "Advanced Algorithms"}},
	)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Advanced Algorithms", result[0].Name)
	require.Len(t, entries.entries, 1)

	require.NotEmpty(t, rec.ops)
	assert.Equal(t, "category.delete_orphaned", rec.ops[len(rec.ops)-1])
	assert.True(t, rec.contains("entry.delete"))
}

func TestMerge_UnknownIDFailsWithoutWrites(t *testing.T) {
	uc, _, entries, rec := newTestUseCase()
	ownerID := uuid.New()
	existing := &education.Entry{ID: uuid.New(), OwnerID: ownerID, Name: "Self study"}
	entries.entries = []*education.Entry{existing}

	_, err := uc.Merge(context.Background(), ownerID, nil, []EntryPatch{
		{Name: "fresh entry"},
		{ID: uuid.New(), Name: "addresses nothing"},
	})
	require.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Empty(t, rec.ops)
	assert.Len(t, entries.entries, 1)
}

func TestMerge_NilCategoryTargetsUncategorizedOnly(t *testing.T) {
	uc, cats, entries, _ := newTestUseCase()
	ownerID := uuid.New()
	category := &education.Category{ID: uuid.New(), OwnerID: ownerID, Name: "Degrees"}
	cats.categories = []*education.Category{category}
	uncategorized := &education.Entry{ID: uuid.New(), OwnerID: ownerID, Name: "Open course"}
	categorized := &education.Entry{ID: uuid.New(), OwnerID: ownerID, CategoryID: &category.ID, Name: "BSc"}
	entries.entries = []*education.Entry{uncategorized, categorized}

	result, err := uc.Merge(context.Background(), ownerID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, result)
	require.Len(t, entries.entries, 1)
	assert.Equal(t, categorized.ID, entries.entries[0].ID)
}

func TestUpsert_NeverDeletes(t *testing.T) {
	uc, _, entries, rec := newTestUseCase()
	ownerID := uuid.New()
	first := &education.Entry{ID: uuid.New(), OwnerID: ownerID, Name: "First"}
	second := &education.Entry{ID: uuid.New(), OwnerID: ownerID, Name: "Second"}
	entries.entries = []*education.Entry{first, second}

	result, err := uc.Upsert(context.Background(), ownerID, nil, []EntryPatch{
		{ID: first.ID, Name: "First, renamed"},
		{Name: "Third"},
	})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Len(t, entries.entries, 3)
	assert.False(t, rec.contains("entry.delete"))
}

func TestUpsert_MovesEntryIntoResolvedCategory(t *testing.T) {
	uc, cats, entries, rec := newTestUseCase()
	ownerID := uuid.New()
	entry := &education.Entry{ID: uuid.New(), OwnerID: ownerID, Name: "Course"}
	entries.entries = []*education.Entry{entry}

	_, err := uc.Upsert(context.Background(), ownerID,
		&CategoryPatch{Name: strptr("Continuing education")},
		[]EntryPatch{{ID: entry.ID, Name: "Course"}},
	)
	require.NoError(t, err)
	require.Len(t, cats.categories, 1)
	require.NotNil(t, entries.entries[0].CategoryID)
	assert.Equal(t, cats.categories[0].ID, *entries.entries[0].CategoryID)
	assert.True(t, rec.contains("category.delete_orphaned"))
}

func TestUpsert_UnknownIDFailsBeforeAnyWrite(t *testing.T) {
	uc, _, entries, rec := newTestUseCase()
	ownerID := uuid.New()

	_, err := uc.Upsert(context.Background(), ownerID, nil, []EntryPatch{
		{Name: "would be created"},
		{ID: uuid.New(), Name: "missing"},
	})
	require.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Empty(t, rec.ops)
	assert.Empty(t, entries.entries)
}

func TestDelete_RemovesEntriesAndSweepsOrphans(t *testing.T) {
	uc, _, entries, rec := newTestUseCase()
	ownerID := uuid.New()
	first := &education.Entry{ID: uuid.New(), OwnerID: ownerID, Name: "First"}
	second := &education.Entry{ID: uuid.New(), OwnerID: ownerID, Name: "Second"}
	entries.entries = []*education.Entry{first, second}

	err := uc.Delete(context.Background(), ownerID, []uuid.UUID{first.ID, second.ID})
	require.NoError(t, err)
	assert.Empty(t, entries.entries)
	assert.Equal(t, "category.delete_orphaned", rec.ops[len(rec.ops)-1])
}

func TestDelete_UnknownIDFailsClosed(t *testing.T) {
	uc, _, entries, _ := newTestUseCase()
	ownerID := uuid.New()
	existing := &education.Entry{ID: uuid.New(), OwnerID: ownerID, Name: "Kept"}
	entries.entries = []*education.Entry{existing}

	err := uc.Delete(context.Background(), ownerID, []uuid.UUID{existing.ID, uuid.New()})
	require.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Len(t, entries.entries, 1)
}

func TestMerge_EntryLimitExceeded(t *testing.T) {
	uc, _, entries, _ := newTestUseCase()
	entries.forcedCount = 10_001
	ownerID := uuid.New()

	_, err := uc.Merge(context.Background(), ownerID, nil, []EntryPatch{{Name: "one too many"}})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestMerge_SingleProfileTimestampPerTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rec := &opsRecorder{}
	tm := persistence.NewTxManager(mock, logger.NewNop())
	uc := NewUseCase(&fakeCategoryRepo{rec: rec}, &fakeEntryRepo{rec: rec}, tm, logger.NewNop())
	ownerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE profiles SET updated_at = now\(\)`).
		WithArgs(ownerID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	_, err = uc.Merge(context.Background(), ownerID, nil, []EntryPatch{
		{Name: "First"},
		{Name: "Second"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
