package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jmakela/profiili/internal/domain/activity"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

type postgresActivityRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresActivityRepo(db DB, logger logger.Logger) activity.ActivityRepository {
	return &postgresActivityRepo{db: db, logger: logger}
}

func scanQualification(row pgx.Row) (*activity.Qualification, error) {
	q := &activity.Qualification{}
	err := row.Scan(&q.ID, &q.ActivityID, &q.Name, &q.Description, &q.StartDate, &q.EndDate, &q.Competencies)
	if err != nil {
		return nil, err
	}
	if q.Competencies == nil {
		q.Competencies = []string{}
	}
	return q, nil
}

const qualificationColumns = "id, activity_id, name, description, start_date, end_date, competencies"

func (r *postgresActivityRepo) listWithQualifications(ctx context.Context, builder sq.SelectBuilder) ([]*activity.Activity, error) {
	q := QuerierFromCtx(ctx, r.db)

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list activities query", err)
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query activities", err)
	}

	activities := make([]*activity.Activity, 0)
	index := make(map[uuid.UUID]*activity.Activity)
	activityIDs := make([]uuid.UUID, 0)
	for rows.Next() {
		a := &activity.Activity{Qualifications: []*activity.Qualification{}}
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Name); err != nil {
			rows.Close()
			return nil, apperror.NewInternal("failed to scan activity row", err)
		}
		activities = append(activities, a)
		index[a.ID] = a
		activityIDs = append(activityIDs, a.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating activity rows", err)
	}

	if len(activities) == 0 {
		return activities, nil
	}

	qualBuilder := psql.Select(qualificationColumns).
		From("activity_qualifications").
		Where(sq.Eq{"activity_id": activityIDs}).
		OrderBy("start_date DESC NULLS LAST", "name")
	sql, args, err = qualBuilder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list qualifications query", err)
	}
	qualRows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query qualifications", err)
	}
	defer qualRows.Close()
	for qualRows.Next() {
		qual, err := scanQualification(qualRows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan qualification row", err)
		}
		if a, ok := index[qual.ActivityID]; ok {
			a.Qualifications = append(a.Qualifications, qual)
		}
	}
	if err := qualRows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating qualification rows", err)
	}
	return activities, nil
}

func (r *postgresActivityRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*activity.Activity, error) {
	return r.listWithQualifications(ctx, psql.
		Select("id, owner_id, name").
		From("activities").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("name"))
}

func (r *postgresActivityRepo) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*activity.Activity, error) {
	activities, err := r.listWithQualifications(ctx, psql.
		Select("id, owner_id, name").
		From("activities").
		Where(sq.Eq{"id": id, "owner_id": ownerID}))
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, apperror.NewNotFound("activity", id.String())
	}
	return activities[0], nil
}

func (r *postgresActivityRepo) FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*activity.Activity, error) {
	return r.listWithQualifications(ctx, psql.
		Select("id, owner_id, name").
		From("activities").
		Where(sq.Eq{"id": ids, "owner_id": ownerID}))
}

func (r *postgresActivityRepo) Save(ctx context.Context, a *activity.Activity) error {
	query := `INSERT INTO activities (id, owner_id, name) VALUES ($1, $2, $3)`
	if _, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, a.ID, a.OwnerID, a.Name); err != nil {
		return mapError(err, "activity", a.ID.String())
	}
	return nil
}

func (r *postgresActivityRepo) Update(ctx context.Context, a *activity.Activity) error {
	query := `UPDATE activities SET name = $2 WHERE id = $1 AND owner_id = $3`
	cmdTag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, a.ID, a.Name, a.OwnerID)
	if err != nil {
		return mapError(err, "activity", a.ID.String())
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("activity", a.ID.String())
	}
	return nil
}

func (r *postgresActivityRepo) DeleteByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (int, error) {
	builder := psql.Delete("activities").Where(sq.Eq{"owner_id": ownerID, "id": ids})
	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, apperror.NewInternal("failed to build delete activities query", err)
	}
	cmdTag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return 0, apperror.NewInternal("failed to delete activities", err)
	}
	return int(cmdTag.RowsAffected()), nil
}

func (r *postgresActivityRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	query := `SELECT count(*) FROM activities WHERE owner_id = $1`
	if err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, apperror.NewInternal("failed to count activities", err)
	}
	return count, nil
}

type postgresQualificationRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresQualificationRepo(db DB, logger logger.Logger) activity.QualificationRepository {
	return &postgresQualificationRepo{db: db, logger: logger}
}

func (r *postgresQualificationRepo) Save(ctx context.Context, q *activity.Qualification) error {
	query := `
		INSERT INTO activity_qualifications (id, activity_id, name, description, start_date, end_date, competencies)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query,
		q.ID, q.ActivityID, q.Name, q.Description, q.StartDate, q.EndDate, q.Competencies,
	)
	if err != nil {
		return mapError(err, "qualification", q.ID.String())
	}
	return nil
}

func (r *postgresQualificationRepo) Update(ctx context.Context, q *activity.Qualification) error {
	query := `
		UPDATE activity_qualifications SET
			name = $2, description = $3, start_date = $4, end_date = $5, competencies = $6
		WHERE id = $1
	`
	cmdTag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query,
		q.ID, q.Name, q.Description, q.StartDate, q.EndDate, q.Competencies,
	)
	if err != nil {
		return mapError(err, "qualification", q.ID.String())
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("qualification", q.ID.String())
	}
	return nil
}

func (r *postgresQualificationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM activity_qualifications WHERE id = $1`
	cmdTag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		return apperror.NewInternal("failed to delete qualification", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("qualification", id.String())
	}
	return nil
}

func (r *postgresQualificationRepo) CountByActivity(ctx context.Context, activityID uuid.UUID) (int, error) {
	var count int
	query := `SELECT count(*) FROM activity_qualifications WHERE activity_id = $1`
	if err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, activityID).Scan(&count); err != nil {
		return 0, apperror.NewInternal("failed to count qualifications", err)
	}
	return count, nil
}
