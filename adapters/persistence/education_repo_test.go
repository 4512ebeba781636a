package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/require"

	"github.com/jmakela/profiili/internal/domain/education"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestEducationCategoryRepo_DeleteOrphaned(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresEducationCategoryRepo(mock, logger.NewNop())
	ownerID := uuid.New()

	mock.ExpectExec(`DELETE FROM education_categories c\s+WHERE c.owner_id = \$1\s+AND NOT EXISTS`).
		WithArgs(ownerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	err := repo.DeleteOrphaned(context.Background(), ownerID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEducationCategoryRepo_SaveDuplicateNameIsConflict(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresEducationCategoryRepo(mock, logger.NewNop())
	category := &education.Category{ID: uuid.New(), OwnerID: uuid.New(), Name: "Degrees"}

	mock.ExpectExec(`INSERT INTO education_categories`).
		WithArgs(category.ID, category.OwnerID, category.Name, category.Description).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "education_categories_owner_id_name_key"})

	err := repo.Save(context.Background(), category)
	require.ErrorIs(t, err, apperror.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEducationCategoryRepo_UpdateMissingRowIsNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresEducationCategoryRepo(mock, logger.NewNop())
	category := &education.Category{ID: uuid.New(), OwnerID: uuid.New(), Name: "Courses"}

	mock.ExpectExec(`UPDATE education_categories`).
		WithArgs(category.ID, category.Name, category.Description, category.OwnerID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), category)
	require.ErrorIs(t, err, apperror.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEducationEntryRepo_ListByOwnerAndNilCategory(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresEducationEntryRepo(mock, logger.NewNop())
	ownerID := uuid.New()
	entryID := uuid.New()

	rows := pgxmock.NewRows([]string{
		"id", "owner_id", "category_id", "name", "description",
		"start_date", "end_date", "competencies",
	}).AddRow(entryID, ownerID, nil, "Self study", "", nil, nil, nil)

	mock.ExpectQuery(`SELECT .* FROM education_entries WHERE .*category_id IS NULL`).
		WithArgs(ownerID).
		WillReturnRows(rows)

	entries, err := repo.ListByOwnerAndCategory(context.Background(), ownerID, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, entryID, entries[0].ID)
	require.Nil(t, entries[0].CategoryID)
	require.NotNil(t, entries[0].Competencies)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEducationEntryRepo_DeleteMissingRowIsNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresEducationEntryRepo(mock, logger.NewNop())
	entryID := uuid.New()

	mock.ExpectExec(`DELETE FROM education_entries`).
		WithArgs(entryID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), entryID, uuid.New())
	require.ErrorIs(t, err, apperror.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEducationEntryRepo_CountByOwner(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresEducationEntryRepo(mock, logger.NewNop())
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM education_entries WHERE owner_id = \$1`).
		WithArgs(ownerID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	require.Equal(t, 42, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
