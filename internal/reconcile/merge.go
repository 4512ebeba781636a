// Package reconcile implements the diff engine that keeps an owner's
// persisted child collection in sync with a client-submitted patch list.
package reconcile

import (
	"context"

	"github.com/google/uuid"
)

// Entity is a persisted member of an owned collection.
type Entity interface {
	EntityID() uuid.UUID
}

// Patch is an incoming item. PatchID returns uuid.Nil when the item has not
// been persisted yet.
type Patch interface {
	PatchID() uuid.UUID
}

// Merger reconciles an existing collection of entities, owned by a parent,
// against a list of patches. The three operations are supplied by the
// calling service; the merger itself never touches storage directly.
type Merger[P any, E Entity, D Patch] struct {
	Add    func(ctx context.Context, parent P, patch D) (E, error)
	Update func(ctx context.Context, entity E, patch D) error
	Delete func(ctx context.Context, entity E) error
}

// Merge applies patches to existing, mutating the slice in place so it
// reflects the final state: addressed entities are updated, unaddressed
// entities are deleted, patches without an id become new entities.
//
// Returns (false, nil) when a patch addresses an id that is not present in
// existing. In that case no Add/Update/Delete call has been made; the caller
// is expected to map this to a not-found error and roll the transaction back.
//
// Duplicate addressed ids collapse to the last occurrence in patch order;
// earlier occurrences are dropped silently.
func (m Merger[P, E, D]) Merge(ctx context.Context, parent P, existing *[]E, patches []D) (bool, error) {
	index := make(map[uuid.UUID]E, len(*existing))
	for _, e := range *existing {
		if _, ok := index[e.EntityID()]; !ok {
			index[e.EntityID()] = e
		}
	}

	var fresh []D
	winner := make(map[uuid.UUID]int, len(patches))
	for i, d := range patches {
		id := d.PatchID()
		if id == uuid.Nil {
			fresh = append(fresh, d)
			continue
		}
		if _, ok := index[id]; !ok {
			return false, nil
		}
		winner[id] = i
	}

	for i, d := range patches {
		id := d.PatchID()
		if id == uuid.Nil || winner[id] != i {
			continue
		}
		if err := m.Update(ctx, index[id], d); err != nil {
			return false, err
		}
		delete(index, id)
	}

	// Everything still in the index was not addressed by any patch.
	kept := make([]E, 0, len(*existing)-len(index)+len(fresh))
	for _, e := range *existing {
		if _, doomed := index[e.EntityID()]; doomed {
			if err := m.Delete(ctx, e); err != nil {
				return false, err
			}
			continue
		}
		kept = append(kept, e)
	}

	for _, d := range fresh {
		e, err := m.Add(ctx, parent, d)
		if err != nil {
			return false, err
		}
		kept = append(kept, e)
	}

	*existing = kept
	return true, nil
}
