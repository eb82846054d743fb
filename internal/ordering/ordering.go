// Package ordering computes sparse floating-point position keys for sibling
// entities (lists within a board, cards within a list). Inserting between two
// neighbors takes their midpoint, so most moves touch a single row. Repeated
// insertion at the same boundary shrinks the gap; once two adjacent positions
// become indistinguishable the whole sibling sequence is renumbered to
// integers spaced by 1.
package ordering

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Epsilon is the smallest distinguishable gap between two adjacent
// positions. Anything below it triggers a rebalance.
const Epsilon = 1e-9

// Entry is the projection of a positioned sibling the engine operates on.
type Entry struct {
	ID        uuid.UUID
	Position  float64
	CreatedAt time.Time
}

// Sort orders entries ascending by position. Ties are broken by creation
// time and then by ID so the resulting order is always deterministic.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Position != entries[j].Position {
			return entries[i].Position < entries[j].Position
		}
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ID.String() < entries[j].ID.String()
	})
}

// Append returns the position for a new entry placed after all siblings:
// last position + 1, or 0 for an empty collection.
func Append(sorted []Entry) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)-1].Position + 1
}

// ForIndex returns the position that places an entry at index i among the
// given siblings, which must be sorted ascending.
func ForIndex(sorted []Entry, i int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	switch {
	case i <= 0:
		return sorted[0].Position / 2
	case i >= len(sorted)-1:
		return sorted[len(sorted)-1].Position + 1
	default:
		return (sorted[i-1].Position + sorted[i].Position) / 2
	}
}

// NeedsRebalance reports whether any two adjacent positions in the sorted
// sequence are closer than Epsilon.
func NeedsRebalance(sorted []Entry) bool {
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Position-sorted[i-1].Position < Epsilon {
			return true
		}
	}
	return false
}

// Rebalance renumbers the sorted sequence to integer positions 0, 1, 2, …
// preserving the existing order. It returns the entries whose position
// actually changed.
func Rebalance(sorted []Entry) []Entry {
	changed := make([]Entry, 0, len(sorted))
	for i := range sorted {
		want := float64(i)
		if sorted[i].Position != want {
			sorted[i].Position = want
			changed = append(changed, sorted[i])
		}
	}
	return changed
}
