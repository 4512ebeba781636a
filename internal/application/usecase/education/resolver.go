package education

import (
	"context"

	"github.com/google/uuid"

	"github.com/jmakela/profiili/internal/domain/education"
	"github.com/jmakela/profiili/internal/validation"
	"github.com/jmakela/profiili/pkg/apperror"
)

// CategoryPatch references a category by id, by name, or both. Nil fields are
// left untouched on an existing category.
type CategoryPatch struct {
	ID          *uuid.UUID
	Name        *string
	Description *string
}

// resolveCategory finds or creates the category a patch refers to. A nil
// patch resolves to the uncategorized set. A reference matching more than one
// of the owner's categories (id hit and name hit on different rows) is
// rejected rather than guessed at.
func (uc *UseCase) resolveCategory(ctx context.Context, ownerID uuid.UUID, patch *CategoryPatch) (*education.Category, error) {
	if patch == nil {
		return nil, nil
	}

	all, err := uc.categories.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var matches []*education.Category
	for _, c := range all {
		if patch.ID != nil && c.ID == *patch.ID {
			matches = append(matches, c)
			continue
		}
		if patch.Name != nil && c.Name == *patch.Name {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		if patch.ID != nil {
			return nil, apperror.NewNotFound("education category", patch.ID.String())
		}
		if patch.Name == nil {
			return nil, apperror.NewInvalidInput("category name is required to create a category", nil)
		}
		if err := validation.EnsureLimit(validation.ItemEducationCategory, len(all)+1); err != nil {
			return nil, err
		}
		c := &education.Category{
			ID:      uuid.New(),
			OwnerID: ownerID,
			Name:    *patch.Name,
		}
		if patch.Description != nil {
			c.Description = *patch.Description
		}
		if err := uc.categories.Save(ctx, c); err != nil {
			return nil, err
		}
		return c, nil

	case 1:
		c := matches[0]
		changed := false
		if patch.Name != nil && c.Name != *patch.Name {
			c.Name = *patch.Name
			changed = true
		}
		if patch.Description != nil && c.Description != *patch.Description {
			c.Description = *patch.Description
			changed = true
		}
		if changed {
			if err := uc.categories.Update(ctx, c); err != nil {
				return nil, err
			}
		}
		return c, nil

	default:
		return nil, apperror.NewInvalidInput("category reference matches more than one category", nil)
	}
}
