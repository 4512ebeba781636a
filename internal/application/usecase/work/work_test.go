package work

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmakela/profiili/internal/domain/work"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

type opsRecorder struct {
	ops []string
}

func (r *opsRecorder) record(op string) { r.ops = append(r.ops, op) }

func (r *opsRecorder) indexOf(op string) int {
	for i, o := range r.ops {
		if o == op {
			return i
		}
	}
	return -1
}

type fakeWorkplaceRepo struct {
	rec        *opsRecorder
	workplaces []*work.Workplace
}

func (f *fakeWorkplaceRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*work.Workplace, error) {
	out := make([]*work.Workplace, 0)
	for _, w := range f.workplaces {
		if w.OwnerID == ownerID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWorkplaceRepo) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*work.Workplace, error) {
	for _, w := range f.workplaces {
		if w.ID == id && w.OwnerID == ownerID {
			return w, nil
		}
	}
	return nil, apperror.NewNotFound("workplace", id.String())
}

func (f *fakeWorkplaceRepo) Save(ctx context.Context, w *work.Workplace) error {
	f.rec.record("workplace.save")
	f.workplaces = append(f.workplaces, w)
	return nil
}

func (f *fakeWorkplaceRepo) Update(ctx context.Context, w *work.Workplace) error {
	f.rec.record("workplace.update")
	return nil
}

func (f *fakeWorkplaceRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	f.rec.record("workplace.delete")
	for i, w := range f.workplaces {
		if w.ID == id && w.OwnerID == ownerID {
			f.workplaces = append(f.workplaces[:i], f.workplaces[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFound("workplace", id.String())
}

func (f *fakeWorkplaceRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	return len(f.workplaces), nil
}

type fakeRoleRepo struct {
	rec   *opsRecorder
	roles []*work.Role
}

func (f *fakeRoleRepo) ListByWorkplace(ctx context.Context, workplaceID uuid.UUID) ([]*work.Role, error) {
	out := make([]*work.Role, 0)
	for _, r := range f.roles {
		if r.WorkplaceID == workplaceID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRoleRepo) Save(ctx context.Context, r *work.Role) error {
	f.rec.record("role.save")
	f.roles = append(f.roles, r)
	return nil
}

func (f *fakeRoleRepo) Update(ctx context.Context, r *work.Role) error {
	f.rec.record("role.update")
	return nil
}

func (f *fakeRoleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.rec.record("role.delete")
	for i, r := range f.roles {
		if r.ID == id {
			f.roles = append(f.roles[:i], f.roles[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFound("role", id.String())
}

func (f *fakeRoleRepo) DeleteByWorkplace(ctx context.Context, workplaceID uuid.UUID) error {
	f.rec.record("role.delete_by_workplace")
	kept := f.roles[:0]
	for _, r := range f.roles {
		if r.WorkplaceID != workplaceID {
			kept = append(kept, r)
		}
	}
	f.roles = kept
	return nil
}

func (f *fakeRoleRepo) CountByWorkplace(ctx context.Context, workplaceID uuid.UUID) (int, error) {
	count := 0
	for _, r := range f.roles {
		if r.WorkplaceID == workplaceID {
			count++
		}
	}
	return count, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTx) RunInReadTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestUseCase() (*UseCase, *fakeWorkplaceRepo, *fakeRoleRepo, *opsRecorder) {
	rec := &opsRecorder{}
	workplaces := &fakeWorkplaceRepo{rec: rec}
	roles := &fakeRoleRepo{rec: rec}
	uc := NewUseCase(workplaces, roles, passthroughTx{}, logger.NewNop())
	return uc, workplaces, roles, rec
}

func TestCreate_WithRoles(t *testing.T) {
	uc, workplaces, roles, _ := newTestUseCase()
	ownerID := uuid.New()

	wp, err := uc.Create(context.Background(), ownerID, CreateWorkplaceInput{
		Name: "Acme Oy",
		Roles: []RolePatch{
			{Name: "Engineer", Competencies: []string{"urn:skill:go"}},
			{Name: "Lead"},
		},
	})
	require.NoError(t, err)
	require.Len(t, wp.Roles, 2)
	assert.Len(t, workplaces.workplaces, 1)
	assert.Len(t, roles.roles, 2)
	for _, r := range roles.roles {
		assert.Equal(t, wp.ID, r.WorkplaceID)
	}
}

func TestCreate_RoleLimitEnforced(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	patches := make([]RolePatch, 1_001)
	for i := range patches {
		patches[i] = RolePatch{Name: fmt.Sprintf("Role %d", i)}
	}
	_, err := uc.Create(context.Background(), uuid.New(), CreateWorkplaceInput{
		Name:  "Acme Oy",
		Roles: patches,
	})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestUpdate_NilRolesLeavesRolesAlone(t *testing.T) {
	uc, workplaces, roles, rec := newTestUseCase()
	ownerID := uuid.New()
	role := &work.Role{ID: uuid.New(), Name: "Engineer"}
	wp := &work.Workplace{ID: uuid.New(), OwnerID: ownerID, Name: "Acme Oy", Roles: []*work.Role{role}}
	role.WorkplaceID = wp.ID
	workplaces.workplaces = []*work.Workplace{wp}
	roles.roles = []*work.Role{role}

	updated, err := uc.Update(context.Background(), ownerID, wp.ID, UpdateWorkplaceInput{Name: "Acme Corp"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.Len(t, roles.roles, 1)
	assert.Equal(t, -1, rec.indexOf("role.delete"))
}

func TestUpdate_EmptyRolesDeletesAll(t *testing.T) {
	uc, workplaces, roles, _ := newTestUseCase()
	ownerID := uuid.New()
	wp := &work.Workplace{ID: uuid.New(), OwnerID: ownerID, Name: "Acme Oy"}
	first := &work.Role{ID: uuid.New(), WorkplaceID: wp.ID, Name: "Engineer"}
	second := &work.Role{ID: uuid.New(), WorkplaceID: wp.ID, Name: "Lead"}
	wp.Roles = []*work.Role{first, second}
	workplaces.workplaces = []*work.Workplace{wp}
	roles.roles = []*work.Role{first, second}

	updated, err := uc.Update(context.Background(), ownerID, wp.ID, UpdateWorkplaceInput{
		Name:  "Acme Oy",
		Roles: []RolePatch{},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Roles)
	assert.Empty(t, roles.roles)
}

func TestUpdate_UnknownRoleIDFailsClosed(t *testing.T) {
	uc, workplaces, roles, rec := newTestUseCase()
	ownerID := uuid.New()
	wp := &work.Workplace{ID: uuid.New(), OwnerID: ownerID, Name: "Acme Oy"}
	role := &work.Role{ID: uuid.New(), WorkplaceID: wp.ID, Name: "Engineer"}
	wp.Roles = []*work.Role{role}
	workplaces.workplaces = []*work.Workplace{wp}
	roles.roles = []*work.Role{role}

	_, err := uc.Update(context.Background(), ownerID, wp.ID, UpdateWorkplaceInput{
		Name:  "Acme Oy",
		Roles: []RolePatch{{ID: uuid.New(), Name: "Phantom"}},
	})
	require.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Len(t, roles.roles, 1)
	assert.Equal(t, -1, rec.indexOf("role.delete"))
	assert.Equal(t, -1, rec.indexOf("role.save"))
}

func TestDelete_RolesGoBeforeWorkplace(t *testing.T) {
	uc, workplaces, roles, rec := newTestUseCase()
	ownerID := uuid.New()
	wp := &work.Workplace{ID: uuid.New(), OwnerID: ownerID, Name: "Acme Oy"}
	role := &work.Role{ID: uuid.New(), WorkplaceID: wp.ID, Name: "Engineer"}
	workplaces.workplaces = []*work.Workplace{wp}
	roles.roles = []*work.Role{role}

	err := uc.Delete(context.Background(), ownerID, wp.ID)
	require.NoError(t, err)
	assert.Empty(t, workplaces.workplaces)
	assert.Empty(t, roles.roles)

	rolesAt := rec.indexOf("role.delete_by_workplace")
	workplaceAt := rec.indexOf("workplace.delete")
	require.NotEqual(t, -1, rolesAt)
	require.NotEqual(t, -1, workplaceAt)
	assert.Less(t, rolesAt, workplaceAt)
}

func TestDelete_UnknownWorkplace(t *testing.T) {
	uc, _, _, rec := newTestUseCase()

	err := uc.Delete(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Empty(t, rec.ops)
}
