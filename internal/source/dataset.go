package source

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgraves-column/openspec-tracking/internal/board"
)

// tmpSuffix names the scratch file WriteDataset renames over the dataset.
const tmpSuffix = ".tmp"

// WriteDataset writes ds as indented JSON, creating parent directories.
func WriteDataset(path string, ds board.Dataset) error {
	if ds.Cards == nil {
		ds.Cards = []board.Card{}
	}
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating dataset directory: %w", err)
	}
	tmp := path + tmpSuffix
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing dataset: %w", err)
	}
	return nil
}

// LoadDataset reads a dataset file. Cards must have unique ids and known
// column, priority and epic values.
func LoadDataset(path string) (board.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return board.Dataset{}, fmt.Errorf("reading dataset: %w", err)
	}
	var ds board.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return board.Dataset{}, fmt.Errorf("parsing dataset %s: %w", path, err)
	}

	seen := make(map[string]bool, len(ds.Cards))
	for i := range ds.Cards {
		c := &ds.Cards[i]
		if seen[c.ID] {
			return board.Dataset{}, fmt.Errorf("dataset %s: duplicate card id %q", path, c.ID)
		}
		seen[c.ID] = true
		if err := validateCard(*c); err != nil {
			return board.Dataset{}, fmt.Errorf("dataset %s: card %q: %w", path, c.ID, err)
		}
		c.Dependencies = nonNil(c.Dependencies)
		c.Tags = nonNil(c.Tags)
		if c.Specs == nil {
			c.Specs = []board.SubSpec{}
		}
	}
	if ds.Cards == nil {
		ds.Cards = []board.Card{}
	}
	return ds, nil
}

func validateCard(c board.Card) error {
	if c.ID == "" {
		return fmt.Errorf("missing id")
	}
	if err := board.ValidateColumn(c.Column); err != nil {
		return err
	}
	if err := board.ValidatePriority(c.Priority); err != nil {
		return err
	}
	return board.ValidateEpic(c.Epic)
}
