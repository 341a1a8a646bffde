package board

import "slices"

// ReconcileReport counts what a reconciliation did, for startup logging.
type ReconcileReport struct {
	Added     int // in source only
	Pruned    int // in persisted only
	Redefined int // definition fields changed upstream
	Preserved int // merged with nothing to restamp
}

// Reconcile merges the source dataset with a persisted snapshot.
//
// Output order and membership follow source exactly. For cards present on
// both sides, column, priority and notes come from persisted and every other
// field from source. updatedAt is restamped with clock only when a definition
// field differs; otherwise the persisted value is kept.
func Reconcile(source []Card, persisted *BoardState, clock Clock) []Card {
	cards, _ := ReconcileWithReport(source, persisted, clock)
	return cards
}

// ReconcileWithReport is Reconcile plus a summary of the merge.
func ReconcileWithReport(source []Card, persisted *BoardState, clock Clock) ([]Card, ReconcileReport) {
	var report ReconcileReport
	if persisted == nil {
		report.Added = len(source)
		return slices.Clone(source), report
	}

	saved := make(map[string]Card, len(persisted.Cards))
	for _, c := range persisted.Cards {
		saved[c.ID] = c
	}

	out := make([]Card, 0, len(source))
	seen := make(map[string]bool, len(source))
	for _, src := range source {
		seen[src.ID] = true
		prev, ok := saved[src.ID]
		if !ok {
			report.Added++
			out = append(out, src)
			continue
		}

		// A persisted enum outside its set falls back to the source value.
		merged := src
		if validColumns[prev.Column] {
			merged.Column = prev.Column
		}
		if validPriorities[prev.Priority] {
			merged.Priority = prev.Priority
		}
		merged.Notes = prev.Notes
		if DefinitionsEqual(src, prev) {
			merged.UpdatedAt = prev.UpdatedAt
			report.Preserved++
		} else {
			merged.UpdatedAt = clock()
			report.Redefined++
		}
		out = append(out, merged)
	}

	for id := range saved {
		if !seen[id] {
			report.Pruned++
		}
	}
	return out, report
}

// DefinitionsEqual reports whether a and b agree on every source-owned field.
// Sequences compare element-wise in order; a nil and an empty sequence are equal.
func DefinitionsEqual(a, b Card) bool {
	return a.Title == b.Title &&
		a.Slug == b.Slug &&
		a.Epic == b.Epic &&
		phaseEqual(a.Phase, b.Phase) &&
		slices.Equal(a.Dependencies, b.Dependencies) &&
		a.Artifacts == b.Artifacts &&
		slices.Equal(a.Specs, b.Specs) &&
		slices.Equal(a.Tags, b.Tags) &&
		a.CreatedAt.Equal(b.CreatedAt)
}

func phaseEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
