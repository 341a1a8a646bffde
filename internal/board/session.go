package board

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Saver persists the card store after a mutation.
type Saver interface {
	Save(cards []Card, dataVersion int) error
}

// Session owns the card store for the lifetime of a process. Every mutation
// replaces the collection wholesale and hands it to the Saver. Reads after a
// write observe that write.
type Session struct {
	mu     sync.Mutex
	source Dataset
	cards  []Card
	clock  Clock
	saver  Saver
	logger *zap.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock replaces the wall clock used for timestamps.
func WithClock(c Clock) SessionOption {
	return func(s *Session) { s.clock = c }
}

// WithSaver sets where the store is written after each mutation.
func WithSaver(saver Saver) SessionOption {
	return func(s *Session) { s.saver = saver }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// NewSession builds the initial card store by reconciling source with the
// persisted snapshot (nil when there is none).
func NewSession(source Dataset, persisted *BoardState, opts ...SessionOption) *Session {
	s := &Session{
		source: source,
		clock:  SystemClock,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	cards, report := ReconcileWithReport(source.Cards, persisted, s.clock)
	s.cards = cards

	fields := []zap.Field{
		zap.Int("cards", len(cards)),
		zap.Int("dataVersion", source.DataVersion),
		zap.Int("added", report.Added),
		zap.Int("pruned", report.Pruned),
		zap.Int("redefined", report.Redefined),
		zap.Int("preserved", report.Preserved),
	}
	if persisted != nil && persisted.DataVersion != source.DataVersion {
		fields = append(fields, zap.Int("snapshotDataVersion", persisted.DataVersion))
		s.logger.Info("source dataset changed since last save", fields...)
	} else {
		s.logger.Debug("board reconciled", fields...)
	}
	return s
}

// DataVersion returns the source dataset fingerprint.
func (s *Session) DataVersion() int {
	return s.source.DataVersion
}

// Cards returns the full store in its current order.
func (s *Session) Cards() []Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cards)
}

// Card returns the card with id.
func (s *Session) Card(id string) (Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// View returns the filtered store.
func (s *Session) View(f Filter) []Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View(s.cards, f)
}

// ColumnCards returns the filtered store restricted to column.
func (s *Session) ColumnCards(f Filter, column ColumnID) []Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ColumnCards(s.cards, f, column)
}

// Snapshot returns the envelope for the current store. LastSaved is the
// current clock reading.
func (s *Session) Snapshot() BoardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BoardState{
		Cards:       slices.Clone(s.cards),
		Version:     EnvelopeVersion,
		DataVersion: s.source.DataVersion,
		LastSaved:   s.clock(),
	}
}

// MoveCard places the card with id in column to. An invalid column is
// rejected; an unknown id is a no-op.
func (s *Session) MoveCard(id string, to ColumnID) error {
	if err := ValidateColumn(to); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(MoveCard(s.cards, id, to, s.clock()), "move", zap.String("card", id), zap.String("column", string(to)))
	return nil
}

// UpdateCard merges patch into the card with id. Invalid enum values are
// rejected; an unknown id is a no-op.
func (s *Session) UpdateCard(id string, patch CardPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(UpdateCard(s.cards, id, patch, s.clock()), "update", zap.String("card", id))
	return nil
}

// ReorderWithinColumn reorders column's cards to orderedIDs.
func (s *Session) ReorderWithinColumn(column ColumnID, orderedIDs []string) error {
	if err := ValidateColumn(column); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if dropped := droppedByReorder(s.cards, column, orderedIDs); len(dropped) > 0 {
		s.logger.Warn("reorder omitted cards of the column; they are removed from the board",
			zap.String("column", string(column)), zap.Strings("dropped", dropped))
	}
	s.replace(ReorderWithinColumn(s.cards, column, orderedIDs), "reorder", zap.String("column", string(column)))
	return nil
}

// Reset replaces the store with the source dataset, discarding user state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(slices.Clone(s.source.Cards), "reset")
}

// ReplaceCards swaps in cards wholesale, as an import-replace. An empty or
// repeated id, or an invalid column, priority or epic, rejects the whole set
// and the store is unchanged.
func (s *Session) ReplaceCards(cards []Card) error {
	seen := make(map[string]bool, len(cards))
	for i, c := range cards {
		if c.ID == "" {
			return fmt.Errorf("card %d: %w", i, ErrMissingID)
		}
		if seen[c.ID] {
			return fmt.Errorf("card %q: %w", c.ID, ErrDuplicateID)
		}
		seen[c.ID] = true
		if err := validateCard(c); err != nil {
			return fmt.Errorf("card %q: %w", c.ID, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(slices.Clone(cards), "import-replace", zap.Int("cards", len(cards)))
	return nil
}

// ReconcileImported runs an imported envelope through the reconciler against
// the session's source dataset and installs the result.
func (s *Session) ReconcileImported(state *BoardState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cards, report := ReconcileWithReport(s.source.Cards, state, s.clock)
	s.replace(cards, "import-reconcile",
		zap.Int("added", report.Added),
		zap.Int("pruned", report.Pruned),
		zap.Int("redefined", report.Redefined))
}

// replace installs cards and persists them. Must hold s.mu.
func (s *Session) replace(cards []Card, op string, fields ...zap.Field) {
	s.cards = cards
	s.logger.Debug("board "+op, fields...)
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(s.cards, s.source.DataVersion); err != nil {
		s.logger.Warn("persisting board failed", append(fields, zap.String("op", op), zap.Error(err))...)
	}
}

func validateCard(c Card) error {
	if err := ValidateColumn(c.Column); err != nil {
		return err
	}
	if err := ValidatePriority(c.Priority); err != nil {
		return err
	}
	return ValidateEpic(c.Epic)
}
