package board

import (
	"slices"
	"time"
)

// CardPatch holds partial update fields for a card. Nil fields are left
// unchanged. ID and UpdatedAt are not patchable.
type CardPatch struct {
	Title        *string    `json:"title,omitempty"`
	Slug         *string    `json:"slug,omitempty"`
	Column       *ColumnID  `json:"column,omitempty"`
	Priority     *Priority  `json:"priority,omitempty"`
	Epic         *EpicID    `json:"epic,omitempty"`
	Phase        *string    `json:"phase,omitempty"` // "" clears the phase
	Dependencies []string   `json:"dependencies,omitempty"`
	Artifacts    *Artifacts `json:"artifacts,omitempty"`
	Specs        []SubSpec  `json:"specs,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

// Validate rejects enumerated values outside their sets.
func (p CardPatch) Validate() error {
	if p.Column != nil {
		if err := ValidateColumn(*p.Column); err != nil {
			return err
		}
	}
	if p.Priority != nil {
		if err := ValidatePriority(*p.Priority); err != nil {
			return err
		}
	}
	if p.Epic != nil {
		if err := ValidateEpic(*p.Epic); err != nil {
			return err
		}
	}
	return nil
}

// IsEmpty reports whether the patch sets no field.
func (p CardPatch) IsEmpty() bool {
	return p.Title == nil && p.Slug == nil && p.Column == nil &&
		p.Priority == nil && p.Epic == nil && p.Phase == nil &&
		p.Dependencies == nil && p.Artifacts == nil && p.Specs == nil &&
		p.Tags == nil && p.Notes == nil && p.CreatedAt == nil
}

// apply returns c with every non-nil patch field copied in.
func (p CardPatch) apply(c Card) Card {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Slug != nil {
		c.Slug = *p.Slug
	}
	if p.Column != nil {
		c.Column = *p.Column
	}
	if p.Priority != nil {
		c.Priority = *p.Priority
	}
	if p.Epic != nil {
		c.Epic = *p.Epic
	}
	if p.Phase != nil {
		if *p.Phase == "" {
			c.Phase = nil
		} else {
			c.Phase = StringPtr(*p.Phase)
		}
	}
	if p.Dependencies != nil {
		c.Dependencies = slices.Clone(p.Dependencies)
	}
	if p.Artifacts != nil {
		c.Artifacts = *p.Artifacts
	}
	if p.Specs != nil {
		c.Specs = slices.Clone(p.Specs)
	}
	if p.Tags != nil {
		c.Tags = slices.Clone(p.Tags)
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.CreatedAt != nil {
		c.CreatedAt = *p.CreatedAt
	}
	return c
}

// MoveCard returns a new collection where the card with id sits in column to
// and carries updatedAt = now. The stamp is applied even when the column does
// not change. An unknown id leaves every card as it was.
func MoveCard(cards []Card, id string, to ColumnID, now time.Time) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		if c.ID == id {
			c.Column = to
			c.UpdatedAt = now
		}
		out[i] = c
	}
	return out
}

// UpdateCard returns a new collection where patch is shallow-merged into the
// card with id and updatedAt = now. An unknown id changes nothing.
func UpdateCard(cards []Card, id string, patch CardPatch, now time.Time) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		if c.ID == id {
			c = patch.apply(c)
			c.UpdatedAt = now
		}
		out[i] = c
	}
	return out
}

// ReorderWithinColumn returns a new collection with column's cards first, in
// orderedIDs order, followed by every other card in its prior relative order.
//
// Ids missing from the store, ids of cards in another column, and repeats are
// skipped. Cards of column left out of orderedIDs are dropped, so callers must
// pass the complete list. No card's column or updatedAt changes.
func ReorderWithinColumn(cards []Card, column ColumnID, orderedIDs []string) []Card {
	byID := make(map[string]Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	out := make([]Card, 0, len(cards))
	placed := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		c, ok := byID[id]
		if !ok || c.Column != column || placed[id] {
			continue
		}
		placed[id] = true
		out = append(out, c)
	}
	for _, c := range cards {
		if c.Column != column {
			out = append(out, c)
		}
	}
	return out
}

// droppedByReorder lists the ids of column that ReorderWithinColumn would
// drop for orderedIDs.
func droppedByReorder(cards []Card, column ColumnID, orderedIDs []string) []string {
	listed := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		listed[id] = true
	}
	var dropped []string
	for _, c := range cards {
		if c.Column == column && !listed[c.ID] {
			dropped = append(dropped, c.ID)
		}
	}
	return dropped
}
