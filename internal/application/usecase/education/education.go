package education

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jmakela/profiili/adapters/persistence"
	"github.com/jmakela/profiili/internal/application/service"
	"github.com/jmakela/profiili/internal/domain/education"
	"github.com/jmakela/profiili/internal/reconcile"
	"github.com/jmakela/profiili/internal/validation"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

var tracer = otel.Tracer("education_usecase")

type UseCase struct {
	categories education.CategoryRepository
	entries    education.EntryRepository
	tx         service.TxManager
	logger     logger.Logger
}

func NewUseCase(categories education.CategoryRepository, entries education.EntryRepository, tx service.TxManager, log logger.Logger) *UseCase {
	return &UseCase{
		categories: categories,
		entries:    entries,
		tx:         tx,
		logger:     log,
	}
}

// EntryPatch is one submitted education entry. A zero ID means the entry does
// not exist yet.
type EntryPatch struct {
	ID           uuid.UUID
	Name         string
	Description  string
	StartDate    *time.Time
	EndDate      *time.Time
	Competencies []string
}

// PatchID implements reconcile.Patch.
func (p EntryPatch) PatchID() uuid.UUID { return p.ID }

// CategoryEntries is one group in the List response. A nil Category holds the
// uncategorized entries.
type CategoryEntries struct {
	Category *education.Category `json:"category"`
	Entries  []*education.Entry  `json:"entries"`
}

// Merge replaces the full contents of one category with the submitted
// entries: addressed entries are updated, new ones created, and everything
// in the category the patch list does not mention is deleted. A nil category
// patch targets the uncategorized set.
func (uc *UseCase) Merge(ctx context.Context, ownerID uuid.UUID, categoryPatch *CategoryPatch, entryPatches []EntryPatch) ([]*education.Entry, error) {
	ctx, span := tracer.Start(ctx, "Merge")
	defer span.End()
	span.SetAttributes(attribute.Int("patch_count", len(entryPatches)))

	var result []*education.Entry
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		persistence.MarkProfileModified(ctx, ownerID, "education.merge")

		category, err := uc.resolveCategory(ctx, ownerID, categoryPatch)
		if err != nil {
			return err
		}
		var categoryID *uuid.UUID
		if category != nil {
			categoryID = &category.ID
		}

		existing, err := uc.entries.ListByOwnerAndCategory(ctx, ownerID, categoryID)
		if err != nil {
			return err
		}

		merger := reconcile.Merger[*uuid.UUID, *education.Entry, EntryPatch]{
			Add: func(ctx context.Context, categoryID *uuid.UUID, p EntryPatch) (*education.Entry, error) {
				return uc.createEntry(ctx, ownerID, categoryID, p)
			},
			Update: func(ctx context.Context, e *education.Entry, p EntryPatch) error {
				applyEntryPatch(e, p)
				if err := e.Validate(); err != nil {
					return apperror.NewInvalidInput("education entry validation failed", err)
				}
				return uc.entries.Update(ctx, e)
			},
			Delete: func(ctx context.Context, e *education.Entry) error {
				return uc.entries.Delete(ctx, e.ID, ownerID)
			},
		}

		ok, err := merger.Merge(ctx, categoryID, &existing, entryPatches)
		if err != nil {
			return err
		}
		if !ok {
			return unknownEntryError(existing, entryPatches)
		}

		if err := uc.ensureEntryLimit(ctx, ownerID); err != nil {
			return err
		}
		if err := uc.categories.DeleteOrphaned(ctx, ownerID); err != nil {
			return err
		}

		result = existing
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return result, nil
}

// Upsert updates the addressed entries and creates the unaddressed ones,
// moving all of them into the resolved category. Unlike Merge it never
// deletes anything. An unknown addressed id fails the whole call before any
// entry is written.
func (uc *UseCase) Upsert(ctx context.Context, ownerID uuid.UUID, categoryPatch *CategoryPatch, entryPatches []EntryPatch) ([]*education.Entry, error) {
	ctx, span := tracer.Start(ctx, "Upsert")
	defer span.End()

	var result []*education.Entry
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		persistence.MarkProfileModified(ctx, ownerID, "education.upsert")

		category, err := uc.resolveCategory(ctx, ownerID, categoryPatch)
		if err != nil {
			return err
		}
		var categoryID *uuid.UUID
		if category != nil {
			categoryID = &category.ID
		}

		// Duplicate addressed ids collapse to the last occurrence, matching
		// the full-replace merge.
		winner := make(map[uuid.UUID]int, len(entryPatches))
		var addressedIDs []uuid.UUID
		for i, p := range entryPatches {
			if p.ID == uuid.Nil {
				continue
			}
			if _, seen := winner[p.ID]; !seen {
				addressedIDs = append(addressedIDs, p.ID)
			}
			winner[p.ID] = i
		}

		byID := make(map[uuid.UUID]*education.Entry, len(addressedIDs))
		if len(addressedIDs) > 0 {
			found, err := uc.entries.FindByIDs(ctx, ownerID, addressedIDs)
			if err != nil {
				return err
			}
			for _, e := range found {
				byID[e.ID] = e
			}
			for _, id := range addressedIDs {
				if _, ok := byID[id]; !ok {
					return apperror.NewNotFound("education entry", id.String())
				}
			}
		}

		for i, p := range entryPatches {
			if p.ID == uuid.Nil {
				e, err := uc.createEntry(ctx, ownerID, categoryID, p)
				if err != nil {
					return err
				}
				result = append(result, e)
				continue
			}
			if winner[p.ID] != i {
				continue
			}
			e := byID[p.ID]
			applyEntryPatch(e, p)
			e.CategoryID = categoryID
			if err := e.Validate(); err != nil {
				return apperror.NewInvalidInput("education entry validation failed", err)
			}
			if err := uc.entries.Update(ctx, e); err != nil {
				return err
			}
			result = append(result, e)
		}

		if err := uc.ensureEntryLimit(ctx, ownerID); err != nil {
			return err
		}
		// Moving entries between categories can leave the old one empty.
		return uc.categories.DeleteOrphaned(ctx, ownerID)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return result, nil
}

// Delete removes the given entries and sweeps any category left empty.
func (uc *UseCase) Delete(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "Delete")
	defer span.End()

	return uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		persistence.MarkProfileModified(ctx, ownerID, "education.delete")

		found, err := uc.entries.FindByIDs(ctx, ownerID, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*education.Entry, len(found))
		for _, e := range found {
			byID[e.ID] = e
		}
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				return apperror.NewNotFound("education entry", id.String())
			}
		}

		for _, e := range found {
			if err := uc.entries.Delete(ctx, e.ID, ownerID); err != nil {
				return err
			}
		}
		return uc.categories.DeleteOrphaned(ctx, ownerID)
	})
}

// List returns the owner's entries grouped by category, uncategorized last.
func (uc *UseCase) List(ctx context.Context, ownerID uuid.UUID) ([]CategoryEntries, error) {
	var groups []CategoryEntries
	err := uc.tx.RunInReadTx(ctx, func(ctx context.Context) error {
		categories, err := uc.categories.ListByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		entries, err := uc.entries.ListByOwner(ctx, ownerID)
		if err != nil {
			return err
		}

		byCategory := make(map[uuid.UUID][]*education.Entry)
		var uncategorized []*education.Entry
		for _, e := range entries {
			if e.CategoryID == nil {
				uncategorized = append(uncategorized, e)
				continue
			}
			byCategory[*e.CategoryID] = append(byCategory[*e.CategoryID], e)
		}

		groups = make([]CategoryEntries, 0, len(categories)+1)
		for _, c := range categories {
			groups = append(groups, CategoryEntries{Category: c, Entries: byCategory[c.ID]})
		}
		if len(uncategorized) > 0 {
			groups = append(groups, CategoryEntries{Entries: uncategorized})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (uc *UseCase) ListCategories(ctx context.Context, ownerID uuid.UUID) ([]*education.Category, error) {
	return uc.categories.ListByOwner(ctx, ownerID)
}

func (uc *UseCase) createEntry(ctx context.Context, ownerID uuid.UUID, categoryID *uuid.UUID, p EntryPatch) (*education.Entry, error) {
	e := &education.Entry{
		ID:      uuid.New(),
		OwnerID: ownerID,
	}
	applyEntryPatch(e, p)
	e.CategoryID = categoryID
	if err := e.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("education entry validation failed", err)
	}
	if err := uc.entries.Save(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (uc *UseCase) ensureEntryLimit(ctx context.Context, ownerID uuid.UUID) error {
	count, err := uc.entries.CountByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	return validation.EnsureLimit(validation.ItemEducationEntry, count)
}

func applyEntryPatch(e *education.Entry, p EntryPatch) {
	e.Name = p.Name
	e.Description = p.Description
	e.StartDate = p.StartDate
	e.EndDate = p.EndDate
	e.Competencies = p.Competencies
	if e.Competencies == nil {
		e.Competencies = []string{}
	}
}

// unknownEntryError names the first addressed id missing from the existing
// collection.
func unknownEntryError(existing []*education.Entry, patches []EntryPatch) error {
	known := make(map[uuid.UUID]struct{}, len(existing))
	for _, e := range existing {
		known[e.ID] = struct{}{}
	}
	for _, p := range patches {
		if p.ID == uuid.Nil {
			continue
		}
		if _, ok := known[p.ID]; !ok {
			return apperror.NewNotFound("education entry", p.ID.String())
		}
	}
	return apperror.NewNotFound("education entry", "unknown")
}
