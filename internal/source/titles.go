package source

import (
	"strings"

	"github.com/mgraves-column/openspec-tracking/internal/board"
)

// KebabToTitle capitalizes each dash-separated word: "add-oauth" → "Add Oauth".
func KebabToTitle(kebab string) string {
	words := strings.Split(kebab, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// InferColumn guesses a workflow column from the artifacts a change carries.
// Front-matter decides the real column; this only feeds hints.
func InferColumn(artifacts board.Artifacts, specs []board.SubSpec) board.ColumnID {
	switch {
	case artifacts.WorkPlan || artifacts.Tasks:
		return board.ColumnInProgress
	case len(specs) > 0 && artifacts.Design:
		return board.ColumnSpecced
	case artifacts.Design:
		return board.ColumnDesign
	case artifacts.Proposal:
		return board.ColumnProposed
	default:
		return board.ColumnBacklog
	}
}
