package board

import "strings"

// PriorityFilter is a Priority or AllPriorities.
type PriorityFilter string

// EpicFilter is an EpicID or AllEpics.
type EpicFilter string

const (
	AllPriorities PriorityFilter = "all"
	AllEpics      EpicFilter     = "all"
)

// Filter selects cards for a view. Zero values impose no restriction.
type Filter struct {
	Search   string
	Priority PriorityFilter
	Epic     EpicFilter
}

// Matches reports whether card passes the search, priority and epic
// predicates together.
func (f Filter) Matches(card Card) bool {
	return f.matchesSearch(card) && f.matchesPriority(card) && f.matchesEpic(card)
}

func (f Filter) matchesSearch(card Card) bool {
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), q) }

	if contains(card.Title) {
		return true
	}
	for _, t := range card.Tags {
		if contains(t) {
			return true
		}
	}
	for _, s := range card.Specs {
		if contains(s.Name) {
			return true
		}
	}
	if contains(GetEpic(card.Epic).Title) {
		return true
	}
	return card.Phase != nil && contains(*card.Phase)
}

func (f Filter) matchesPriority(card Card) bool {
	return f.Priority == "" || f.Priority == AllPriorities || Priority(f.Priority) == card.Priority
}

func (f Filter) matchesEpic(card Card) bool {
	return f.Epic == "" || f.Epic == AllEpics || EpicID(f.Epic) == card.Epic
}

// View returns the cards passing f, in input order.
func View(cards []Card, f Filter) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// ColumnCards returns View(cards, f) restricted to column. This is the
// per-column render order and the candidate list for a reorder.
func ColumnCards(cards []Card, f Filter, column ColumnID) []Card {
	out := make([]Card, 0)
	for _, c := range View(cards, f) {
		if c.Column == column {
			out = append(out, c)
		}
	}
	return out
}

// CountByColumn returns how many cards sit in each column.
func CountByColumn(cards []Card) map[ColumnID]int {
	counts := make(map[ColumnID]int, len(Columns))
	for _, c := range cards {
		counts[c.Column]++
	}
	return counts
}

// CountByEpic returns how many cards belong to each epic.
func CountByEpic(cards []Card) map[EpicID]int {
	counts := make(map[EpicID]int, len(Epics))
	for _, c := range cards {
		counts[c.Epic]++
	}
	return counts
}

// UnresolvedDependencies returns the dependencies of card that are not
// satisfied: ids missing from cards or whose card is not done.
func UnresolvedDependencies(card Card, cards []Card) []string {
	column := make(map[string]ColumnID, len(cards))
	for _, c := range cards {
		column[c.ID] = c.Column
	}
	var open []string
	for _, dep := range card.Dependencies {
		if col, ok := column[dep]; !ok || col != ColumnDone {
			open = append(open, dep)
		}
	}
	return open
}
