package activity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jmakela/profiili/adapters/persistence"
	"github.com/jmakela/profiili/internal/application/service"
	"github.com/jmakela/profiili/internal/domain/activity"
	"github.com/jmakela/profiili/internal/reconcile"
	"github.com/jmakela/profiili/internal/validation"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

type UseCase struct {
	activities     activity.ActivityRepository
	qualifications activity.QualificationRepository
	tx             service.TxManager
	logger         logger.Logger
}

func NewUseCase(activities activity.ActivityRepository, qualifications activity.QualificationRepository, tx service.TxManager, log logger.Logger) *UseCase {
	return &UseCase{
		activities:     activities,
		qualifications: qualifications,
		tx:             tx,
		logger:         log,
	}
}

// QualificationPatch is one submitted qualification. A zero ID means it is
// new.
type QualificationPatch struct {
	ID           uuid.UUID
	Name         string
	Description  string
	StartDate    *time.Time
	EndDate      *time.Time
	Competencies []string
}

// PatchID implements reconcile.Patch.
func (p QualificationPatch) PatchID() uuid.UUID { return p.ID }

type CreateActivityInput struct {
	Name           string
	Qualifications []QualificationPatch
}

// UpdateActivityInput carries the new activity fields. A nil Qualifications
// slice leaves the qualifications alone; a non-nil one replaces the set in
// full.
type UpdateActivityInput struct {
	Name           string
	Qualifications []QualificationPatch
}

func (uc *UseCase) List(ctx context.Context, ownerID uuid.UUID) ([]*activity.Activity, error) {
	return uc.activities.ListByOwner(ctx, ownerID)
}

func (uc *UseCase) Get(ctx context.Context, id, ownerID uuid.UUID) (*activity.Activity, error) {
	return uc.activities.FindByID(ctx, id, ownerID)
}

func (uc *UseCase) Create(ctx context.Context, ownerID uuid.UUID, in CreateActivityInput) (*activity.Activity, error) {
	var a *activity.Activity
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		persistence.MarkProfileModified(ctx, ownerID, "activity.create")

		count, err := uc.activities.CountByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		if err := validation.EnsureLimit(validation.ItemActivity, count+1); err != nil {
			return err
		}
		if err := validation.EnsureLimit(validation.ItemQualification, len(in.Qualifications)); err != nil {
			return err
		}

		a = &activity.Activity{
			ID:             uuid.New(),
			OwnerID:        ownerID,
			Name:           in.Name,
			Qualifications: []*activity.Qualification{},
		}
		if err := a.Validate(); err != nil {
			return apperror.NewInvalidInput("activity validation failed", err)
		}
		if err := uc.activities.Save(ctx, a); err != nil {
			return err
		}

		for _, p := range in.Qualifications {
			q, err := uc.createQualification(ctx, a.ID, p)
			if err != nil {
				return err
			}
			a.Qualifications = append(a.Qualifications, q)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (uc *UseCase) Update(ctx context.Context, ownerID, activityID uuid.UUID, in UpdateActivityInput) (*activity.Activity, error) {
	var a *activity.Activity
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		persistence.MarkProfileModified(ctx, ownerID, "activity.update")

		var err error
		a, err = uc.activities.FindByID(ctx, activityID, ownerID)
		if err != nil {
			return err
		}

		a.Name = in.Name
		if err := a.Validate(); err != nil {
			return apperror.NewInvalidInput("activity validation failed", err)
		}
		if err := uc.activities.Update(ctx, a); err != nil {
			return err
		}

		if in.Qualifications == nil {
			return nil
		}
		return uc.mergeQualifications(ctx, a, in.Qualifications)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (uc *UseCase) mergeQualifications(ctx context.Context, a *activity.Activity, patches []QualificationPatch) error {
	merger := reconcile.Merger[*activity.Activity, *activity.Qualification, QualificationPatch]{
		Add: func(ctx context.Context, a *activity.Activity, p QualificationPatch) (*activity.Qualification, error) {
			return uc.createQualification(ctx, a.ID, p)
		},
		Update: func(ctx context.Context, q *activity.Qualification, p QualificationPatch) error {
			applyQualificationPatch(q, p)
			if err := q.Validate(); err != nil {
				return apperror.NewInvalidInput("qualification validation failed", err)
			}
			return uc.qualifications.Update(ctx, q)
		},
		Delete: func(ctx context.Context, q *activity.Qualification) error {
			return uc.qualifications.Delete(ctx, q.ID)
		},
	}

	ok, err := merger.Merge(ctx, a, &a.Qualifications, patches)
	if err != nil {
		return err
	}
	if !ok {
		return unknownQualificationError(a.Qualifications, patches)
	}

	count, err := uc.qualifications.CountByActivity(ctx, a.ID)
	if err != nil {
		return err
	}
	return validation.EnsureLimit(validation.ItemQualification, count)
}

// Delete removes the given activities with their qualifications. The whole
// batch is verified before anything is touched.
func (uc *UseCase) Delete(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) error {
	return uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		persistence.MarkProfileModified(ctx, ownerID, "activity.delete")

		found, err := uc.activities.FindByIDs(ctx, ownerID, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*activity.Activity, len(found))
		for _, a := range found {
			byID[a.ID] = a
		}
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				return apperror.NewNotFound("activity", id.String())
			}
		}

		// Qualifications first, then the activities in one statement.
		for _, a := range found {
			for _, q := range a.Qualifications {
				if err := uc.qualifications.Delete(ctx, q.ID); err != nil {
					return err
				}
			}
		}
		_, err = uc.activities.DeleteByIDs(ctx, ownerID, ids)
		return err
	})
}

func (uc *UseCase) createQualification(ctx context.Context, activityID uuid.UUID, p QualificationPatch) (*activity.Qualification, error) {
	q := &activity.Qualification{
		ID:         uuid.New(),
		ActivityID: activityID,
	}
	applyQualificationPatch(q, p)
	if err := q.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("qualification validation failed", err)
	}
	if err := uc.qualifications.Save(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func applyQualificationPatch(q *activity.Qualification, p QualificationPatch) {
	q.Name = p.Name
	q.Description = p.Description
	q.StartDate = p.StartDate
	q.EndDate = p.EndDate
	q.Competencies = p.Competencies
	if q.Competencies == nil {
		q.Competencies = []string{}
	}
}

func unknownQualificationError(existing []*activity.Qualification, patches []QualificationPatch) error {
	known := make(map[uuid.UUID]struct{}, len(existing))
	for _, q := range existing {
		known[q.ID] = struct{}{}
	}
	for _, p := range patches {
		if p.ID == uuid.Nil {
			continue
		}
		if _, ok := known[p.ID]; !ok {
			return apperror.NewNotFound("qualification", p.ID.String())
		}
	}
	return apperror.NewNotFound("qualification", "unknown")
}
