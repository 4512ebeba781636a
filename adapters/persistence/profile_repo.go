package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/jmakela/profiili/internal/domain/profile"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

type postgresProfileRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresProfileRepo(db DB, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

func (r *postgresProfileRepo) Get(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	query := `
		SELECT id, headline, bio, photo_url, updated_at
		FROM profiles
		WHERE id = $1
	`
	p := &profile.Profile{}
	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Headline, &p.Bio, &p.PhotoURL, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, "profile", id.String())
	}
	return p, nil
}

func (r *postgresProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	query := `
		UPDATE profiles SET headline = $2, bio = $3
		WHERE id = $1
	`
	cmdTag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, p.ID, p.Headline, p.Bio)
	if err != nil {
		return apperror.NewInternal("failed to update profile", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("profile", p.ID.String())
	}
	return nil
}

func (r *postgresProfileRepo) SetPhotoURL(ctx context.Context, id uuid.UUID, url string) error {
	query := `UPDATE profiles SET photo_url = $2 WHERE id = $1`
	cmdTag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, id, url)
	if err != nil {
		return apperror.NewInternal("failed to set profile photo", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("profile", id.String())
	}
	return nil
}

// ListCompetencies folds the competency URI arrays of every collection into
// one deduplicated list with the source kinds each URI appears in.
func (r *postgresProfileRepo) ListCompetencies(ctx context.Context, id uuid.UUID) ([]profile.Competency, error) {
	query := `
		SELECT uri, array_agg(DISTINCT source ORDER BY source) AS sources
		FROM (
			SELECT unnest(competencies) AS uri, 'education' AS source
			FROM education_entries WHERE owner_id = $1
			UNION ALL
			SELECT unnest(r.competencies), 'work'
			FROM work_roles r
			JOIN workplaces w ON w.id = r.workplace_id
			WHERE w.owner_id = $1
			UNION ALL
			SELECT unnest(q.competencies), 'activity'
			FROM activity_qualifications q
			JOIN activities a ON a.id = q.activity_id
			WHERE a.owner_id = $1
		) refs
		GROUP BY uri
		ORDER BY uri
	`
	rows, err := QuerierFromCtx(ctx, r.db).Query(ctx, query, id)
	if err != nil {
		return nil, apperror.NewInternal("failed to query competencies", err)
	}
	defer rows.Close()

	competencies := make([]profile.Competency, 0)
	for rows.Next() {
		var c profile.Competency
		if err := rows.Scan(&c.URI, &c.Sources); err != nil {
			return nil, apperror.NewInternal("failed to scan competency row", err)
		}
		competencies = append(competencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating competency rows", err)
	}
	return competencies, nil
}
