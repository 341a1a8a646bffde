// Package source builds the Source Dataset from an openspec changes
// directory. Every change directory with a proposal.md becomes one card; its
// YAML front-matter carries the board metadata and the files next to it
// describe which artifacts exist.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mgraves-column/openspec-tracking/internal/board"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ArchiveDir is the changes sub-directory that is never scanned.
const ArchiveDir = "archive"

// ProposalFile marks a directory as a change.
const ProposalFile = "proposal.md"

// Options tunes Generate.
type Options struct {
	// Logger receives skip warnings. Defaults to a no-op logger.
	Logger *zap.Logger
	// Clock provides the generation day used for updatedAt.
	Clock board.Clock
	// Concurrency bounds parallel directory scans. Defaults to NumCPU.
	Concurrency int
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Clock == nil {
		o.Clock = board.SystemClock
	}
	if o.Concurrency <= 0 {
		o.Concurrency = runtime.NumCPU()
	}
	return o
}

// Generate scans root and returns the dataset it describes. Any invalid change
// fails the whole run; all problems are reported together.
func Generate(ctx context.Context, root string, opts Options) (board.Dataset, error) {
	opts = opts.withDefaults()

	dirs, err := changeDirs(root)
	if err != nil {
		return board.Dataset{}, err
	}
	opts.Logger.Debug("scanning changes", zap.String("root", root), zap.Int("dirs", len(dirs)))

	today := midnight(opts.Clock())
	cards := make([]*board.Card, len(dirs))
	errs := make([]error, len(dirs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, dir := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cards[i], errs[i] = processChange(filepath.Join(root, dir), dir, today, opts.Logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return board.Dataset{}, err
	}
	if err := multierr.Combine(errs...); err != nil {
		return board.Dataset{}, err
	}

	out := make([]board.Card, 0, len(cards))
	for _, c := range cards {
		if c != nil {
			out = append(out, *c)
		}
	}
	slices.SortFunc(out, func(a, b board.Card) int { return strings.Compare(a.ID, b.ID) })

	version, err := DataVersion(out)
	if err != nil {
		return board.Dataset{}, err
	}
	return board.Dataset{DataVersion: version, Cards: out}, nil
}

// changeDirs lists root's sub-directories, minus the archive, sorted.
func changeDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("openspec path does not exist: %s", root)
		}
		return nil, fmt.Errorf("reading openspec path: %w", err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != ArchiveDir {
			dirs = append(dirs, e.Name())
		}
	}
	slices.Sort(dirs)
	return dirs, nil
}

// processChange builds the card for one change directory. A nil card with a
// nil error means the directory was skipped.
func processChange(dir, id string, today time.Time, logger *zap.Logger) (*board.Card, error) {
	raw, err := os.ReadFile(filepath.Join(dir, ProposalFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("change has no proposal.md, skipping", zap.String("change", id))
			return nil, nil
		}
		return nil, fmt.Errorf("[%s] reading proposal: %w", id, err)
	}

	fm, body, err := parseFrontmatter(id, string(raw))
	if err != nil {
		return nil, err
	}

	title, ok := extractTitle(body)
	if !ok {
		title = KebabToTitle(id)
	}
	specs, err := listSpecs(dir)
	if err != nil {
		return nil, fmt.Errorf("[%s] %w", id, err)
	}
	created, _ := fm.createdDay()

	card := board.Card{
		ID:           id,
		Title:        title,
		Slug:         id,
		Column:       board.ColumnID(fm.Column),
		Priority:     board.Priority(fm.Priority),
		Epic:         board.EpicID(fm.Epic),
		Phase:        fm.Phase,
		Dependencies: nonNil(fm.Dependencies),
		Artifacts:    detectArtifacts(dir),
		Specs:        specs,
		Tags:         nonNil(fm.Tags),
		Notes:        fm.Notes,
		CreatedAt:    created,
		UpdatedAt:    today,
	}
	return &card, nil
}

func detectArtifacts(dir string) board.Artifacts {
	exists := func(names ...string) bool {
		for _, n := range names {
			if _, err := os.Stat(filepath.Join(dir, n)); err == nil {
				return true
			}
		}
		return false
	}
	return board.Artifacts{
		Proposal: exists(ProposalFile),
		Design:   exists("design.md"),
		WorkPlan: exists("work-plan.md", "WORK_PLAN.md"),
		TestSpec: exists("test-spec.md", "TEST_SPECIFICATION.md"),
		Tasks:    exists("tasks.md"),
	}
}

// listSpecs returns one SubSpec per directory under specs/, sorted by id.
func listSpecs(dir string) ([]board.SubSpec, error) {
	specs := []board.SubSpec{}
	entries, err := os.ReadDir(filepath.Join(dir, "specs"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return specs, nil
		}
		return nil, fmt.Errorf("reading specs: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		specs = append(specs, board.SubSpec{
			ID:   e.Name(),
			Name: KebabToTitle(e.Name()),
			Path: "specs/" + e.Name() + "/spec.md",
		})
	}
	slices.SortFunc(specs, func(a, b board.SubSpec) int { return strings.Compare(a.ID, b.ID) })
	return specs, nil
}

// DataVersion fingerprints a card list: the first 8 hex digits of the SHA-256
// of its JSON encoding, reduced mod 1 000 000.
func DataVersion(cards []board.Card) (int, error) {
	if cards == nil {
		cards = []board.Card{}
	}
	data, err := json.Marshal(cards)
	if err != nil {
		return 0, fmt.Errorf("encoding cards: %w", err)
	}
	sum := sha256.Sum256(data)
	n, err := strconv.ParseUint(hex.EncodeToString(sum[:4]), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing digest: %w", err)
	}
	return int(n % 1_000_000), nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
