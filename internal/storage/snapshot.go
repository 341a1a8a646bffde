package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mgraves-column/openspec-tracking/internal/board"
	"go.uber.org/zap"
)

// StorageKey is the single fixed key holding the serialized envelope.
const StorageKey = "openspec-board-state"

var (
	// ErrInvalidSnapshot is returned by Import when the content is not valid JSON.
	ErrInvalidSnapshot = errors.New("invalid JSON file")
	// ErrReadSnapshot is returned by Import when the stream cannot be read.
	ErrReadSnapshot = errors.New("failed to read file")
)

// Store reads and writes BoardState envelopes through a Backend. It
// satisfies board.Saver.
type Store struct {
	backend Backend
	clock   board.Clock
	logger  *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for lastSaved.
func WithClock(c board.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the store logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates a snapshot Store over backend.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{backend: backend, clock: board.SystemClock, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the saved envelope, or nil when nothing usable is stored.
// Missing, unreadable and malformed snapshots all mean "no prior state".
func (s *Store) Load(ctx context.Context) *board.BoardState {
	raw, err := s.backend.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("reading saved board failed; starting from source", zap.Error(err))
		}
		return nil
	}
	if len(raw) == 0 {
		return nil
	}

	var state board.BoardState
	if err := json.Unmarshal(raw, &state); err != nil {
		s.logger.Warn("saved board is malformed; starting from source", zap.Error(err))
		return nil
	}
	return &state
}

// Save writes {cards, version, dataVersion, lastSaved} under StorageKey,
// replacing whatever was there.
func (s *Store) Save(cards []board.Card, dataVersion int) error {
	data, err := json.Marshal(s.envelope(cards, dataVersion))
	if err != nil {
		return fmt.Errorf("marshaling board state: %w", err)
	}
	if err := s.backend.Put(context.Background(), StorageKey, data); err != nil {
		return fmt.Errorf("saving board state: %w", err)
	}
	return nil
}

// Export returns the envelope pretty-printed for download. Stored state is
// not touched.
func (s *Store) Export(cards []board.Card, dataVersion int) ([]byte, error) {
	data, err := json.MarshalIndent(s.envelope(cards, dataVersion), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling export: %w", err)
	}
	return data, nil
}

// ExportToFile writes Export output into dir under ExportFilename and returns
// the file path.
func (s *Store) ExportToFile(dir string, cards []board.Card, dataVersion int) (string, error) {
	data, err := s.Export(cards, dataVersion)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, ExportFilename(s.clock()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// Import parses an externally supplied envelope. It does not validate or
// reconcile cards; the caller decides how to apply the result.
func (s *Store) Import(ctx context.Context, r io.Reader) (*board.BoardState, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadSnapshot, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var state board.BoardState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return &state, nil
}

// ImportFile opens path and imports it.
func (s *Store) ImportFile(ctx context.Context, path string) (*board.BoardState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadSnapshot, err)
	}
	defer func() { _ = f.Close() }()
	return s.Import(ctx, f)
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) envelope(cards []board.Card, dataVersion int) board.BoardState {
	if cards == nil {
		cards = []board.Card{}
	}
	return board.BoardState{
		Cards:       cards,
		Version:     board.EnvelopeVersion,
		DataVersion: dataVersion,
		LastSaved:   s.clock(),
	}
}

// ExportFilename names an export file after the day it was taken.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("openspec-board-%s.json", now.UTC().Format("2006-01-02"))
}
