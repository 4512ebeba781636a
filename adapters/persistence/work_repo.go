package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jmakela/profiili/internal/domain/work"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

type postgresWorkplaceRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresWorkplaceRepo(db DB, logger logger.Logger) work.WorkplaceRepository {
	return &postgresWorkplaceRepo{db: db, logger: logger}
}

func scanWorkplace(row pgx.Row) (*work.Workplace, error) {
	w := &work.Workplace{Roles: []*work.Role{}}
	if err := row.Scan(&w.ID, &w.OwnerID, &w.Name, &w.StartDate, &w.EndDate); err != nil {
		return nil, err
	}
	return w, nil
}

func scanRole(row pgx.Row) (*work.Role, error) {
	r := &work.Role{}
	err := row.Scan(&r.ID, &r.WorkplaceID, &r.Name, &r.Description, &r.StartDate, &r.EndDate, &r.Competencies)
	if err != nil {
		return nil, err
	}
	if r.Competencies == nil {
		r.Competencies = []string{}
	}
	return r, nil
}

const roleColumns = "id, workplace_id, name, description, start_date, end_date, competencies"

func (r *postgresWorkplaceRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*work.Workplace, error) {
	q := QuerierFromCtx(ctx, r.db)

	query := `
		SELECT id, owner_id, name, start_date, end_date
		FROM workplaces
		WHERE owner_id = $1
		ORDER BY start_date DESC NULLS LAST, name
	`
	rows, err := q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query workplaces", err)
	}

	workplaces := make([]*work.Workplace, 0)
	index := make(map[uuid.UUID]*work.Workplace)
	for rows.Next() {
		w, scanErr := scanWorkplace(rows)
		if scanErr != nil {
			rows.Close()
			return nil, apperror.NewInternal("failed to scan workplace row", scanErr)
		}
		workplaces = append(workplaces, w)
		index[w.ID] = w
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating workplace rows", err)
	}

	if len(workplaces) == 0 {
		return workplaces, nil
	}

	roleQuery := `
		SELECT r.id, r.workplace_id, r.name, r.description, r.start_date, r.end_date, r.competencies
		FROM work_roles r
		JOIN workplaces w ON w.id = r.workplace_id
		WHERE w.owner_id = $1
		ORDER BY r.start_date DESC NULLS LAST, r.name
	`
	roleRows, err := q.Query(ctx, roleQuery, ownerID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query work roles", err)
	}
	defer roleRows.Close()
	for roleRows.Next() {
		role, err := scanRole(roleRows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan work role row", err)
		}
		if w, ok := index[role.WorkplaceID]; ok {
			w.Roles = append(w.Roles, role)
		}
	}
	if err := roleRows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating work role rows", err)
	}
	return workplaces, nil
}

func (r *postgresWorkplaceRepo) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*work.Workplace, error) {
	q := QuerierFromCtx(ctx, r.db)

	query := `
		SELECT id, owner_id, name, start_date, end_date
		FROM workplaces
		WHERE id = $1 AND owner_id = $2
	`
	w, err := scanWorkplace(q.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, mapError(err, "workplace", id.String())
	}

	roleQuery := `
		SELECT ` + roleColumns + `
		FROM work_roles
		WHERE workplace_id = $1
		ORDER BY start_date DESC NULLS LAST, name
	`
	rows, err := q.Query(ctx, roleQuery, id)
	if err != nil {
		return nil, apperror.NewInternal("failed to query work roles", err)
	}
	defer rows.Close()
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan work role row", err)
		}
		w.Roles = append(w.Roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating work role rows", err)
	}
	return w, nil
}

func (r *postgresWorkplaceRepo) Save(ctx context.Context, w *work.Workplace) error {
	query := `
		INSERT INTO workplaces (id, owner_id, name, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, w.ID, w.OwnerID, w.Name, w.StartDate, w.EndDate)
	if err != nil {
		return mapError(err, "workplace", w.ID.String())
	}
	return nil
}

func (r *postgresWorkplaceRepo) Update(ctx context.Context, w *work.Workplace) error {
	query := `
		UPDATE workplaces SET name = $2, start_date = $3, end_date = $4
		WHERE id = $1 AND owner_id = $5
	`
	cmdTag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, w.ID, w.Name, w.StartDate, w.EndDate, w.OwnerID)
	if err != nil {
		return mapError(err, "workplace", w.ID.String())
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("workplace", w.ID.String())
	}
	return nil
}

func (r *postgresWorkplaceRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM workplaces WHERE id = $1 AND owner_id = $2`
	cmdTag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete workplace", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("workplace", id.String())
	}
	return nil
}

func (r *postgresWorkplaceRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	query := `SELECT count(*) FROM workplaces WHERE owner_id = $1`
	if err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, apperror.NewInternal("failed to count workplaces", err)
	}
	return count, nil
}

type postgresRoleRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresRoleRepo(db DB, logger logger.Logger) work.RoleRepository {
	return &postgresRoleRepo{db: db, logger: logger}
}

func (r *postgresRoleRepo) ListByWorkplace(ctx context.Context, workplaceID uuid.UUID) ([]*work.Role, error) {
	builder := psql.Select(roleColumns).
		From("work_roles").
		Where(sq.Eq{"workplace_id": workplaceID}).
		OrderBy("start_date DESC NULLS LAST", "name")

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list work roles query", err)
	}
	rows, err := QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query work roles", err)
	}
	defer rows.Close()

	roles := make([]*work.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan work role row", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating work role rows", err)
	}
	return roles, nil
}

func (r *postgresRoleRepo) Save(ctx context.Context, role *work.Role) error {
	query := `
		INSERT INTO work_roles (id, workplace_id, name, description, start_date, end_date, competencies)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query,
		role.ID, role.WorkplaceID, role.Name, role.Description, role.StartDate, role.EndDate, role.Competencies,
	)
	if err != nil {
		return mapError(err, "work role", role.ID.String())
	}
	return nil
}

func (r *postgresRoleRepo) Update(ctx context.Context, role *work.Role) error {
	query := `
		UPDATE work_roles SET
			name = $2, description = $3, start_date = $4, end_date = $5, competencies = $6
		WHERE id = $1
	`
	cmdTag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query,
		role.ID, role.Name, role.Description, role.StartDate, role.EndDate, role.Competencies,
	)
	if err != nil {
		return mapError(err, "work role", role.ID.String())
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("work role", role.ID.String())
	}
	return nil
}

func (r *postgresRoleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM work_roles WHERE id = $1`
	cmdTag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		return apperror.NewInternal("failed to delete work role", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("work role", id.String())
	}
	return nil
}

func (r *postgresRoleRepo) DeleteByWorkplace(ctx context.Context, workplaceID uuid.UUID) error {
	query := `DELETE FROM work_roles WHERE workplace_id = $1`
	if _, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, workplaceID); err != nil {
		return apperror.NewInternal("failed to delete work roles of workplace", err)
	}
	return nil
}

func (r *postgresRoleRepo) CountByWorkplace(ctx context.Context, workplaceID uuid.UUID) (int, error) {
	var count int
	query := `SELECT count(*) FROM work_roles WHERE workplace_id = $1`
	if err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, workplaceID).Scan(&count); err != nil {
		return 0, apperror.NewInternal("failed to count work roles", err)
	}
	return count, nil
}
