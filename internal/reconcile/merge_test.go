package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeItem struct {
	id   uuid.UUID
	name string
}

func (f *fakeItem) EntityID() uuid.UUID { return f.id }

type fakePatch struct {
	id   uuid.UUID
	name string
}

func (p fakePatch) PatchID() uuid.UUID { return p.id }

type fakeParent struct{ id uuid.UUID }

// recorder wires a Merger whose callbacks log every call.
type recorder struct {
	added   []string
	updated []string
	deleted []string
	failAdd error
}

func (r *recorder) merger() Merger[*fakeParent, *fakeItem, fakePatch] {
	return Merger[*fakeParent, *fakeItem, fakePatch]{
		Add: func(_ context.Context, _ *fakeParent, p fakePatch) (*fakeItem, error) {
			if r.failAdd != nil {
				return nil, r.failAdd
			}
			r.added = append(r.added, p.name)
			return &fakeItem{id: uuid.New(), name: p.name}, nil
		},
		Update: func(_ context.Context, e *fakeItem, p fakePatch) error {
			r.updated = append(r.updated, p.name)
			e.name = p.name
			return nil
		},
		Delete: func(_ context.Context, e *fakeItem) error {
			r.deleted = append(r.deleted, e.name)
			return nil
		},
	}
}

func ids(items []*fakeItem) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(items))
	for _, it := range items {
		set[it.id] = true
	}
	return set
}

func TestMerge_PureAdditions(t *testing.T) {
	rec := &recorder{}
	m := rec.merger()
	parent := &fakeParent{id: uuid.New()}

	existing := []*fakeItem{}
	ok, err := m.Merge(context.Background(), parent, &existing, []fakePatch{
		{name: "x"}, {name: "y"},
	})

	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, existing, 2)
	assert.NotEqual(t, existing[0].id, existing[1].id)
	assert.Equal(t, []string{"x", "y"}, rec.added)
	assert.Empty(t, rec.updated)
	assert.Empty(t, rec.deleted)
}

func TestMerge_UnknownIDFailsClosed(t *testing.T) {
	rec := &recorder{}
	m := rec.merger()
	a := &fakeItem{id: uuid.New(), name: "a"}
	existing := []*fakeItem{a}

	ok, err := m.Merge(context.Background(), &fakeParent{}, &existing, []fakePatch{
		{id: uuid.New(), name: "ghost"},
	})

	require.NoError(t, err)
	assert.False(t, ok)
	// fail closed: no callback ran, collection untouched
	assert.Empty(t, rec.added)
	assert.Empty(t, rec.updated)
	assert.Empty(t, rec.deleted)
	require.Len(t, existing, 1)
	assert.Same(t, a, existing[0])
}

func TestMerge_UnknownIDCheckedBeforeAnyMutation(t *testing.T) {
	rec := &recorder{}
	m := rec.merger()
	a := &fakeItem{id: uuid.New(), name: "a"}
	existing := []*fakeItem{a}

	// A valid new item followed by an unknown id: nothing may be created.
	ok, err := m.Merge(context.Background(), &fakeParent{}, &existing, []fakePatch{
		{name: "new"},
		{id: uuid.New(), name: "ghost"},
	})

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, rec.added)
	require.Len(t, existing, 1)
}

func TestMerge_UnlistedIsDeleted(t *testing.T) {
	rec := &recorder{}
	m := rec.merger()
	a := &fakeItem{id: uuid.New(), name: "a"}
	b := &fakeItem{id: uuid.New(), name: "b"}
	existing := []*fakeItem{a, b}

	ok, err := m.Merge(context.Background(), &fakeParent{}, &existing, []fakePatch{
		{id: a.id, name: "a2"},
	})

	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, existing, 1)
	assert.Equal(t, a.id, existing[0].id)
	assert.Equal(t, "a2", existing[0].name)
	assert.Equal(t, []string{"b"}, rec.deleted)
}

func TestMerge_DuplicateIDsCollapseToLast(t *testing.T) {
	rec := &recorder{}
	m := rec.merger()
	a := &fakeItem{id: uuid.New(), name: "a"}
	existing := []*fakeItem{a}

	ok, err := m.Merge(context.Background(), &fakeParent{}, &existing, []fakePatch{
		{id: a.id, name: "first"},
		{id: a.id, name: "second"},
	})

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"second"}, rec.updated, "update applied exactly once, last occurrence wins")
	assert.Equal(t, "second", a.name)
	assert.Empty(t, rec.deleted)
}

func TestMerge_IdempotentFullReplace(t *testing.T) {
	rec := &recorder{}
	m := rec.merger()
	existing := []*fakeItem{}

	ok, err := m.Merge(context.Background(), &fakeParent{}, &existing, []fakePatch{
		{name: "x"}, {name: "y"},
	})
	require.NoError(t, err)
	require.True(t, ok)
	first := ids(existing)

	// Second round carries the ids assigned by the first.
	again := make([]fakePatch, 0, len(existing))
	for _, it := range existing {
		again = append(again, fakePatch{id: it.id, name: it.name})
	}
	ok, err = m.Merge(context.Background(), &fakeParent{}, &existing, again)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, first, ids(existing))
	assert.Empty(t, rec.deleted)
	assert.Len(t, rec.added, 2, "no additional creates on the second round")
}

func TestMerge_EmptyPatchListDeletesEverything(t *testing.T) {
	rec := &recorder{}
	m := rec.merger()
	existing := []*fakeItem{
		{id: uuid.New(), name: "a"},
		{id: uuid.New(), name: "b"},
	}

	ok, err := m.Merge(context.Background(), &fakeParent{}, &existing, nil)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, existing)
	assert.ElementsMatch(t, []string{"a", "b"}, rec.deleted)
}

func TestMerge_AddErrorPropagates(t *testing.T) {
	boom := errors.New("insert failed")
	rec := &recorder{failAdd: boom}
	m := rec.merger()
	existing := []*fakeItem{}

	_, err := m.Merge(context.Background(), &fakeParent{}, &existing, []fakePatch{{name: "x"}})

	assert.ErrorIs(t, err, boom)
}
