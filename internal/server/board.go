package server

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mgraves-column/openspec-tracking/internal/board"
	"github.com/mgraves-column/openspec-tracking/internal/config"
	"github.com/mgraves-column/openspec-tracking/internal/source"
	"github.com/mgraves-column/openspec-tracking/internal/storage"
	"go.uber.org/zap"
)

// Board bundles a reconciled session with the store persisting it.
type Board struct {
	Session *board.Session
	Store   *storage.Store
	Config  config.Config
}

// Open loads the source dataset, restores the saved board and reconciles
// the two into a Session.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Board, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ds, err := LoadSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	backend, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}
	store := storage.NewStore(backend, storage.WithLogger(logger.Named("storage")))

	session := board.NewSession(ds, store.Load(ctx),
		board.WithSaver(store),
		board.WithLogger(logger.Named("board")),
	)
	logger.Info("board ready",
		zap.Int("cards", len(session.Cards())),
		zap.Int("data_version", ds.DataVersion),
		zap.Bool("ephemeral", cfg.Ephemeral))

	return &Board{Session: session, Store: store, Config: cfg}, nil
}

// Close releases the storage backend.
func (b *Board) Close() error {
	return b.Store.Close()
}

func openBackend(cfg config.Config) (storage.Backend, error) {
	if cfg.Ephemeral {
		return storage.NewMemoryBackend(), nil
	}
	backend, err := storage.NewSQLiteBackend(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return backend, nil
}

// LoadSource reads the dataset file. When it does not exist yet, the dataset
// is generated from the proposals directory and written out for next time.
func LoadSource(ctx context.Context, cfg config.Config, logger *zap.Logger) (board.Dataset, error) {
	ds, err := source.LoadDataset(cfg.DatasetPath)
	if err == nil {
		logger.Debug("dataset loaded", zap.String("path", cfg.DatasetPath), zap.Int("cards", len(ds.Cards)))
		return ds, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return board.Dataset{}, err
	}

	logger.Info("no dataset file, generating from proposals",
		zap.String("dataset", cfg.DatasetPath), zap.String("proposals", cfg.ProposalsPath))
	ds, err = source.Generate(ctx, cfg.ProposalsPath, source.Options{Logger: logger.Named("source")})
	if err != nil {
		return board.Dataset{}, fmt.Errorf("no dataset at %s and generation failed: %w", cfg.DatasetPath, err)
	}
	if err := source.WriteDataset(cfg.DatasetPath, ds); err != nil {
		logger.Warn("writing generated dataset failed", zap.Error(err))
	}
	return ds, nil
}
