package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmakela/profiili/pkg/apperror"
)

func TestEnsureLimit(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		count   int
		wantErr bool
	}{
		{"at ceiling is fine", ItemActivity, Limit(ItemActivity), false},
		{"one over fails", ItemActivity, Limit(ItemActivity) + 1, true},
		{"zero is fine", ItemFavorite, 0, false},
		{"unknown item never fails", Item("bogus"), 1 << 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EnsureLimit(tt.item, tt.count)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrInvalidInput), "limit errors are validation failures")
		})
	}
}
