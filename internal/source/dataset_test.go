package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mgraves-column/openspec-tracking/internal/board"
)

func TestWriteLoadDataset_RoundTrip(t *testing.T) {
	ds, err := Generate(context.Background(), changesFixture(t), Options{Clock: fixedClock})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out", "dataset.json")

	if err := WriteDataset(path, ds); err != nil {
		t.Fatalf("WriteDataset: %v", err)
	}
	got, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if diff := cmp.Diff(ds, got); diff != "" {
		t.Errorf("dataset mismatch (-want +got):\n%s", diff)
	}

	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestWriteDataset_EmptyCardsIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	if err := WriteDataset(path, board.Dataset{DataVersion: 3}); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"cards": []`) {
		t.Errorf("expected empty cards array, got %s", data)
	}
}

func TestLoadDataset_NormalizesMissingSlices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	writeFile(t, filepath.Dir(path), "dataset.json",
		`{"dataVersion":1,"cards":[{"id":"a","column":"done","priority":"low","epic":"connectors"}]}`)

	ds, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	c := ds.Cards[0]
	if c.Dependencies == nil || c.Tags == nil || c.Specs == nil {
		t.Errorf("expected non-nil slices, got %+v", c)
	}
}

func TestLoadDataset_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		is      error
	}{
		{"malformed", `{"cards": [`, "parsing dataset", nil},
		{"bad column", `{"cards":[{"id":"a","column":"shipped","priority":"low","epic":"connectors"}]}`, `card "a"`, board.ErrInvalidColumn},
		{"bad epic", `{"cards":[{"id":"a","column":"done","priority":"low","epic":"moon"}]}`, `card "a"`, board.ErrInvalidEpic},
		{"duplicate", `{"cards":[{"id":"a","column":"done","priority":"low","epic":"connectors"},{"id":"a","column":"done","priority":"low","epic":"connectors"}]}`, "duplicate card id", nil},
		{"missing id", `{"cards":[{"column":"done","priority":"low","epic":"connectors"}]}`, "missing id", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "ds.json", tt.content)

			_, err := LoadDataset(filepath.Join(dir, "ds.json"))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("expected %v in chain, got %v", tt.is, err)
			}
		})
	}
}

func TestLoadDataset_MissingFile(t *testing.T) {
	_, err := LoadDataset(filepath.Join(t.TempDir(), "none.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}
