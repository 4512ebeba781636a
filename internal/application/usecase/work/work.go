package work

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jmakela/profiili/adapters/persistence"
	"github.com/jmakela/profiili/internal/application/service"
	"github.com/jmakela/profiili/internal/domain/work"
	"github.com/jmakela/profiili/internal/reconcile"
	"github.com/jmakela/profiili/internal/validation"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

type UseCase struct {
	workplaces work.WorkplaceRepository
	roles      work.RoleRepository
	tx         service.TxManager
	logger     logger.Logger
}

func NewUseCase(workplaces work.WorkplaceRepository, roles work.RoleRepository, tx service.TxManager, log logger.Logger) *UseCase {
	return &UseCase{
		workplaces: workplaces,
		roles:      roles,
		tx:         tx,
		logger:     log,
	}
}

// RolePatch is one submitted role. A zero ID means the role is new.
type RolePatch struct {
	ID           uuid.UUID
	Name         string
	Description  string
	StartDate    *time.Time
	EndDate      *time.Time
	Competencies []string
}

// PatchID implements reconcile.Patch.
func (p RolePatch) PatchID() uuid.UUID { return p.ID }

type CreateWorkplaceInput struct {
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
	Roles     []RolePatch
}

// UpdateWorkplaceInput carries the new workplace fields. A nil Roles slice
// leaves the roles alone; a non-nil slice (including an empty one) replaces
// the role set in full.
type UpdateWorkplaceInput struct {
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
	Roles     []RolePatch
}

func (uc *UseCase) List(ctx context.Context, ownerID uuid.UUID) ([]*work.Workplace, error) {
	return uc.workplaces.ListByOwner(ctx, ownerID)
}

func (uc *UseCase) Get(ctx context.Context, id, ownerID uuid.UUID) (*work.Workplace, error) {
	return uc.workplaces.FindByID(ctx, id, ownerID)
}

func (uc *UseCase) Create(ctx context.Context, ownerID uuid.UUID, in CreateWorkplaceInput) (*work.Workplace, error) {
	var wp *work.Workplace
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		persistence.MarkProfileModified(ctx, ownerID, "work.create")

		count, err := uc.workplaces.CountByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		if err := validation.EnsureLimit(validation.ItemWorkplace, count+1); err != nil {
			return err
		}
		if err := validation.EnsureLimit(validation.ItemRole, len(in.Roles)); err != nil {
			return err
		}

		wp = &work.Workplace{
			ID:        uuid.New(),
			OwnerID:   ownerID,
			Name:      in.Name,
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			Roles:     []*work.Role{},
		}
		if err := wp.Validate(); err != nil {
			return apperror.NewInvalidInput("workplace validation failed", err)
		}
		if err := uc.workplaces.Save(ctx, wp); err != nil {
			return err
		}

		for _, p := range in.Roles {
			role, err := uc.createRole(ctx, wp.ID, p)
			if err != nil {
				return err
			}
			wp.Roles = append(wp.Roles, role)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wp, nil
}

func (uc *UseCase) Update(ctx context.Context, ownerID, workplaceID uuid.UUID, in UpdateWorkplaceInput) (*work.Workplace, error) {
	var wp *work.Workplace
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		persistence.MarkProfileModified(ctx, ownerID, "work.update")

		var err error
		wp, err = uc.workplaces.FindByID(ctx, workplaceID, ownerID)
		if err != nil {
			return err
		}

		wp.Name = in.Name
		wp.StartDate = in.StartDate
		wp.EndDate = in.EndDate
		if err := wp.Validate(); err != nil {
			return apperror.NewInvalidInput("workplace validation failed", err)
		}
		if err := uc.workplaces.Update(ctx, wp); err != nil {
			return err
		}

		if in.Roles == nil {
			return nil
		}
		return uc.mergeRoles(ctx, wp, in.Roles)
	})
	if err != nil {
		return nil, err
	}
	return wp, nil
}

// mergeRoles full-replaces the workplace's role set with the patches.
func (uc *UseCase) mergeRoles(ctx context.Context, wp *work.Workplace, patches []RolePatch) error {
	merger := reconcile.Merger[*work.Workplace, *work.Role, RolePatch]{
		Add: func(ctx context.Context, wp *work.Workplace, p RolePatch) (*work.Role, error) {
			return uc.createRole(ctx, wp.ID, p)
		},
		Update: func(ctx context.Context, r *work.Role, p RolePatch) error {
			applyRolePatch(r, p)
			if err := r.Validate(); err != nil {
				return apperror.NewInvalidInput("role validation failed", err)
			}
			return uc.roles.Update(ctx, r)
		},
		Delete: func(ctx context.Context, r *work.Role) error {
			return uc.roles.Delete(ctx, r.ID)
		},
	}

	ok, err := merger.Merge(ctx, wp, &wp.Roles, patches)
	if err != nil {
		return err
	}
	if !ok {
		return unknownRoleError(wp.Roles, patches)
	}

	count, err := uc.roles.CountByWorkplace(ctx, wp.ID)
	if err != nil {
		return err
	}
	return validation.EnsureLimit(validation.ItemRole, count)
}

// Delete removes the workplace and its roles, roles first so the workplace
// row never outlives a dangling reference.
func (uc *UseCase) Delete(ctx context.Context, ownerID, workplaceID uuid.UUID) error {
	return uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		persistence.MarkProfileModified(ctx, ownerID, "work.delete")

		if _, err := uc.workplaces.FindByID(ctx, workplaceID, ownerID); err != nil {
			return err
		}
		if err := uc.roles.DeleteByWorkplace(ctx, workplaceID); err != nil {
			return err
		}
		return uc.workplaces.Delete(ctx, workplaceID, ownerID)
	})
}

func (uc *UseCase) createRole(ctx context.Context, workplaceID uuid.UUID, p RolePatch) (*work.Role, error) {
	r := &work.Role{
		ID:          uuid.New(),
		WorkplaceID: workplaceID,
	}
	applyRolePatch(r, p)
	if err := r.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("role validation failed", err)
	}
	if err := uc.roles.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func applyRolePatch(r *work.Role, p RolePatch) {
	r.Name = p.Name
	r.Description = p.Description
	r.StartDate = p.StartDate
	r.EndDate = p.EndDate
	r.Competencies = p.Competencies
	if r.Competencies == nil {
		r.Competencies = []string{}
	}
}

func unknownRoleError(existing []*work.Role, patches []RolePatch) error {
	known := make(map[uuid.UUID]struct{}, len(existing))
	for _, r := range existing {
		known[r.ID] = struct{}{}
	}
	for _, p := range patches {
		if p.ID == uuid.Nil {
			continue
		}
		if _, ok := known[p.ID]; !ok {
			return apperror.NewNotFound("role", p.ID.String())
		}
	}
	return apperror.NewNotFound("role", "unknown")
}
