// Package validation holds profile-wide validation rules shared by the
// usecase layer.
package validation

import "github.com/jmakela/profiili/pkg/apperror"

// Item identifies a limited profile collection.
type Item string

const (
	ItemWorkplace         Item = "workplace"
	ItemRole              Item = "role"
	ItemEducationCategory Item = "education category"
	ItemEducationEntry    Item = "education entry"
	ItemActivity          Item = "activity"
	ItemQualification     Item = "qualification"
	ItemFavorite          Item = "favorite"
)

// Per-owner (or per-parent, for nested items) ceilings.
var limits = map[Item]int{
	ItemWorkplace:         100_000,
	ItemRole:              1_000,
	ItemEducationCategory: 1_000,
	ItemEducationEntry:    10_000,
	ItemActivity:          1_000,
	ItemQualification:     1_000,
	ItemFavorite:          1_000,
}

// Limit returns the ceiling for the given item.
func Limit(item Item) int {
	return limits[item]
}

// EnsureLimit fails when count exceeds the item's ceiling. It must be called
// with a count that reflects the in-transaction state, after any deletes of
// the same operation have been applied.
func EnsureLimit(item Item, count int) error {
	if max, ok := limits[item]; ok && count > max {
		return apperror.NewLimitExceeded(string(item), max)
	}
	return nil
}
