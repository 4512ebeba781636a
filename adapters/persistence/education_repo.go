package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jmakela/profiili/internal/domain/education"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type postgresEducationCategoryRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresEducationCategoryRepo(db DB, logger logger.Logger) education.CategoryRepository {
	return &postgresEducationCategoryRepo{db: db, logger: logger}
}

func scanCategory(row pgx.Row) (*education.Category, error) {
	c := &education.Category{}
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresEducationCategoryRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*education.Category, error) {
	query := `
		SELECT id, owner_id, name, description
		FROM education_categories
		WHERE owner_id = $1
		ORDER BY name
	`
	rows, err := QuerierFromCtx(ctx, r.db).Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query education categories", err)
	}
	defer rows.Close()

	categories := make([]*education.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan education category row", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating education category rows", err)
	}
	return categories, nil
}

func (r *postgresEducationCategoryRepo) Save(ctx context.Context, c *education.Category) error {
	query := `
		INSERT INTO education_categories (id, owner_id, name, description)
		VALUES ($1, $2, $3, $4)
	`
	_, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, c.ID, c.OwnerID, c.Name, c.Description)
	if err != nil {
		// the (owner_id, name) unique constraint is the backstop for
		// concurrent creation of same-named categories
		return mapError(err, "education category", c.Name)
	}
	return nil
}

func (r *postgresEducationCategoryRepo) Update(ctx context.Context, c *education.Category) error {
	query := `
		UPDATE education_categories SET name = $2, description = $3
		WHERE id = $1 AND owner_id = $4
	`
	cmdTag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, c.ID, c.Name, c.Description, c.OwnerID)
	if err != nil {
		return mapError(err, "education category", c.ID.String())
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("education category", c.ID.String())
	}
	return nil
}

func (r *postgresEducationCategoryRepo) DeleteOrphaned(ctx context.Context, ownerID uuid.UUID) error {
	query := `
		DELETE FROM education_categories c
		WHERE c.owner_id = $1
		AND NOT EXISTS (
			SELECT 1 FROM education_entries e WHERE e.category_id = c.id
		)
	`
	_, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete orphaned education categories", err)
	}
	return nil
}

func (r *postgresEducationCategoryRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	query := `SELECT count(*) FROM education_categories WHERE owner_id = $1`
	if err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, apperror.NewInternal("failed to count education categories", err)
	}
	return count, nil
}

type postgresEducationEntryRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresEducationEntryRepo(db DB, logger logger.Logger) education.EntryRepository {
	return &postgresEducationEntryRepo{db: db, logger: logger}
}

func scanEntry(row pgx.Row) (*education.Entry, error) {
	e := &education.Entry{}
	err := row.Scan(
		&e.ID, &e.OwnerID, &e.CategoryID, &e.Name, &e.Description,
		&e.StartDate, &e.EndDate, &e.Competencies,
	)
	if err != nil {
		return nil, err
	}
	if e.Competencies == nil {
		e.Competencies = []string{}
	}
	return e, nil
}

func scanEntries(rows pgx.Rows) ([]*education.Entry, error) {
	defer rows.Close()
	entries := make([]*education.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan education entry row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating education entry rows", err)
	}
	return entries, nil
}

const entryColumns = "id, owner_id, category_id, name, description, start_date, end_date, competencies"

func (r *postgresEducationEntryRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*education.Entry, error) {
	builder := psql.Select(entryColumns).
		From("education_entries").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("start_date NULLS LAST", "name")

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list education entries query", err)
	}
	rows, err := QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query education entries", err)
	}
	return scanEntries(rows)
}

func (r *postgresEducationEntryRepo) ListByOwnerAndCategory(ctx context.Context, ownerID uuid.UUID, categoryID *uuid.UUID) ([]*education.Entry, error) {
	// sq.Eq renders a nil category as IS NULL, selecting the uncategorized set
	builder := psql.Select(entryColumns).
		From("education_entries").
		Where(sq.Eq{"owner_id": ownerID, "category_id": categoryID}).
		OrderBy("start_date NULLS LAST", "name")

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list education entries by category query", err)
	}
	rows, err := QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query education entries by category", err)
	}
	return scanEntries(rows)
}

func (r *postgresEducationEntryRepo) FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*education.Entry, error) {
	builder := psql.Select(entryColumns).
		From("education_entries").
		Where(sq.Eq{"owner_id": ownerID, "id": ids})

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build find education entries query", err)
	}
	rows, err := QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query education entries by ids", err)
	}
	return scanEntries(rows)
}

func (r *postgresEducationEntryRepo) Save(ctx context.Context, e *education.Entry) error {
	query := `
		INSERT INTO education_entries (id, owner_id, category_id, name, description, start_date, end_date, competencies)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query,
		e.ID, e.OwnerID, e.CategoryID, e.Name, e.Description, e.StartDate, e.EndDate, e.Competencies,
	)
	if err != nil {
		return mapError(err, "education entry", e.ID.String())
	}
	return nil
}

func (r *postgresEducationEntryRepo) Update(ctx context.Context, e *education.Entry) error {
	query := `
		UPDATE education_entries SET
			category_id = $2, name = $3, description = $4,
			start_date = $5, end_date = $6, competencies = $7
		WHERE id = $1 AND owner_id = $8
	`
	cmdTag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query,
		e.ID, e.CategoryID, e.Name, e.Description, e.StartDate, e.EndDate, e.Competencies, e.OwnerID,
	)
	if err != nil {
		return mapError(err, "education entry", e.ID.String())
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("education entry", e.ID.String())
	}
	return nil
}

func (r *postgresEducationEntryRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM education_entries WHERE id = $1 AND owner_id = $2`
	cmdTag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete education entry", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("education entry", id.String())
	}
	return nil
}

func (r *postgresEducationEntryRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	query := `SELECT count(*) FROM education_entries WHERE owner_id = $1`
	if err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, apperror.NewInternal("failed to count education entries", err)
	}
	return count, nil
}
