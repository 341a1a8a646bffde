package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mgraves-column/openspec-tracking/internal/board"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var generatedAt = time.Date(2026, 2, 23, 15, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return generatedAt }

// writeFile creates path under root with content, making parent directories.
func writeFile(t *testing.T, root, path, content string) {
	t.Helper()
	full := filepath.Join(root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

const oauthProposal = `---
epic: security-foundation
priority: high
column: design
phase: Phase 4
dependencies:
  - mfa
tags: [auth, sso]
createdAt: 2026-01-05
notes: waiting on IdP
---

# Change: Add OAuth login

Body text.
`

const mfaProposal = `---
epic: governance
priority: low
column: backlog
createdAt: "2026-01-06T09:15:00Z"
---

No heading here.
`

func changesFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "add-oauth/proposal.md", oauthProposal)
	writeFile(t, root, "add-oauth/design.md", "# Design")
	writeFile(t, root, "add-oauth/WORK_PLAN.md", "plan")
	writeFile(t, root, "add-oauth/specs/token-store/spec.md", "spec")
	writeFile(t, root, "add-oauth/specs/login-flow/spec.md", "spec")
	writeFile(t, root, "add-oauth/specs/README.md", "not a spec dir")
	writeFile(t, root, "mfa/proposal.md", mfaProposal)
	writeFile(t, root, "mfa/test-spec.md", "tests")
	writeFile(t, root, "notes-only/README.md", "no proposal")
	writeFile(t, root, "archive/old-change/proposal.md", "garbage, never read")
	writeFile(t, root, "stray.md", "file at the root")
	return root
}

func TestGenerate_BuildsCardsFromProposals(t *testing.T) {
	ds, err := Generate(context.Background(), changesFixture(t), Options{Clock: fixedClock})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	today := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	want := []board.Card{
		{
			ID: "add-oauth", Title: "Add OAuth login", Slug: "add-oauth",
			Column: board.ColumnDesign, Priority: board.PriorityHigh, Epic: board.EpicSecurityFoundation,
			Phase:        board.StringPtr("Phase 4"),
			Dependencies: []string{"mfa"},
			Artifacts:    board.Artifacts{Proposal: true, Design: true, WorkPlan: true},
			Specs: []board.SubSpec{
				{ID: "login-flow", Name: "Login Flow", Path: "specs/login-flow/spec.md"},
				{ID: "token-store", Name: "Token Store", Path: "specs/token-store/spec.md"},
			},
			Tags:      []string{"auth", "sso"},
			Notes:     "waiting on IdP",
			CreatedAt: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			UpdatedAt: today,
		},
		{
			ID: "mfa", Title: "Mfa", Slug: "mfa",
			Column: board.ColumnBacklog, Priority: board.PriorityLow, Epic: board.EpicGovernance,
			Dependencies: []string{},
			Artifacts:    board.Artifacts{Proposal: true, TestSpec: true},
			Specs:        []board.SubSpec{},
			Tags:         []string{},
			CreatedAt:    time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
			UpdatedAt:    today,
		},
	}
	if diff := cmp.Diff(want, ds.Cards); diff != "" {
		t.Errorf("cards mismatch (-want +got):\n%s", diff)
	}

	wantVersion, _ := DataVersion(want)
	if ds.DataVersion != wantVersion {
		t.Errorf("DataVersion = %d, want %d", ds.DataVersion, wantVersion)
	}
}

func TestGenerate_WarnsOnMissingProposal(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	_, err := Generate(context.Background(), changesFixture(t), Options{Logger: zap.New(core), Clock: fixedClock})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	skipped := logs.FilterMessage("change has no proposal.md, skipping").All()
	if len(skipped) != 1 {
		t.Fatalf("expected 1 skip warning, got %d", len(skipped))
	}
	if got := skipped[0].ContextMap()["change"]; got != "notes-only" {
		t.Errorf("skipped change = %v, want notes-only", got)
	}
}

func TestGenerate_AccumulatesErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "bad-epic/proposal.md", "---\nepic: moonshots\npriority: urgent\ncolumn: design\n---\n# X\n")
	writeFile(t, root, "no-fm/proposal.md", "# Just a heading\n")
	writeFile(t, root, "fine/proposal.md", mfaProposal)

	_, err := Generate(context.Background(), root, Options{Clock: fixedClock})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrInvalidFrontmatter) {
		t.Errorf("expected ErrInvalidFrontmatter in %v", err)
	}
	if !errors.Is(err, ErrNoFrontmatter) {
		t.Errorf("expected ErrNoFrontmatter in %v", err)
	}
	msg := err.Error()
	for _, want := range []string{
		"[bad-epic]",
		`invalid or missing epic: "moonshots"`,
		`invalid or missing priority: "urgent"`,
		"missing createdAt",
		"[no-fm]",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}

func TestGenerate_EmptyFrontmatterIsMissing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "empty/proposal.md", "---\n---\n# Empty\n")

	_, err := Generate(context.Background(), root, Options{})
	if !errors.Is(err, ErrNoFrontmatter) {
		t.Fatalf("expected ErrNoFrontmatter, got %v", err)
	}
}

func TestGenerate_MissingRoot(t *testing.T) {
	_, err := Generate(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{})
	if err == nil || !strings.Contains(err.Error(), "openspec path does not exist") {
		t.Fatalf("expected missing-path error, got %v", err)
	}
}

func TestGenerate_EmptyRoot(t *testing.T) {
	ds, err := Generate(context.Background(), t.TempDir(), Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(ds.Cards) != 0 {
		t.Errorf("expected no cards, got %d", len(ds.Cards))
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, changesFixture(t), Options{Concurrency: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGenerate_DeterministicAcrossConcurrency(t *testing.T) {
	root := changesFixture(t)

	serial, err := Generate(context.Background(), root, Options{Clock: fixedClock, Concurrency: 1})
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := Generate(context.Background(), root, Options{Clock: fixedClock, Concurrency: 8})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(serial, parallel); diff != "" {
		t.Errorf("dataset differs by concurrency (-serial +parallel):\n%s", diff)
	}
}

func TestDataVersion_Stability(t *testing.T) {
	cards := []board.Card{{ID: "a", Title: "A", Column: board.ColumnBacklog}}

	v1, err := DataVersion(cards)
	if err != nil {
		t.Fatal(err)
	}
	v2, _ := DataVersion(cards)
	if v1 != v2 {
		t.Errorf("DataVersion not stable: %d vs %d", v1, v2)
	}
	if v1 < 0 || v1 >= 1_000_000 {
		t.Errorf("DataVersion out of range: %d", v1)
	}

	cards[0].Title = "B"
	v3, _ := DataVersion(cards)
	if v3 == v1 {
		t.Errorf("DataVersion did not change with content")
	}
}

func TestDataVersion_NilAndEmptyMatch(t *testing.T) {
	a, _ := DataVersion(nil)
	b, _ := DataVersion([]board.Card{})
	if a != b {
		t.Errorf("nil and empty differ: %d vs %d", a, b)
	}
}

// --- front-matter ---

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantMeta string
		wantBody string
		wantOK   bool
	}{
		{"basic", "---\na: 1\n---\nbody", "a: 1", "body", true},
		{"crlf", "---\r\na: 1\r\n---\r\nbody", "a: 1", "body", true},
		{"no fence", "# Title\n", "", "# Title\n", false},
		{"unterminated", "---\na: 1\n", "", "---\na: 1\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body, ok := splitFrontmatter(tt.doc)
			if ok != tt.wantOK || meta != tt.wantMeta || body != tt.wantBody {
				t.Errorf("splitFrontmatter(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.doc, meta, body, ok, tt.wantMeta, tt.wantBody, tt.wantOK)
			}
		})
	}
}

func TestParseFrontmatter_PhaseNull(t *testing.T) {
	fm, _, err := parseFrontmatter("x", "---\nepic: connectors\npriority: medium\ncolumn: done\nphase: null\ncreatedAt: 2026-03-01\n---\n")
	if err != nil {
		t.Fatalf("parseFrontmatter: %v", err)
	}
	if fm.Phase != nil {
		t.Errorf("Phase = %q, want nil", *fm.Phase)
	}
	if fm.CreatedAt != "2026-03-01" {
		t.Errorf("CreatedAt = %q", fm.CreatedAt)
	}
}

func TestParseFrontmatter_BadCreatedAt(t *testing.T) {
	_, _, err := parseFrontmatter("x", "---\nepic: connectors\npriority: medium\ncolumn: done\ncreatedAt: someday\n---\n")
	if !errors.Is(err, ErrInvalidFrontmatter) {
		t.Fatalf("expected ErrInvalidFrontmatter, got %v", err)
	}
	if !strings.Contains(err.Error(), `invalid createdAt: "someday"`) {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestParseFrontmatter_MalformedYAML(t *testing.T) {
	_, _, err := parseFrontmatter("x", "---\nepic: [unclosed\n---\n")
	if !errors.Is(err, ErrInvalidFrontmatter) {
		t.Fatalf("expected ErrInvalidFrontmatter, got %v", err)
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		body string
		want string
		ok   bool
	}{
		{"# Proposal: Unified Search\n", "Unified Search", true},
		{"intro\n\n# rfc:   Lowercase label\n", "Lowercase label", true},
		{"## Only a subheading\n", "", false},
		{"# Plain title  \n# Second\n", "Plain title", true},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := extractTitle(tt.body)
		if got != tt.want || ok != tt.ok {
			t.Errorf("extractTitle(%q) = (%q, %v), want (%q, %v)", tt.body, got, ok, tt.want, tt.ok)
		}
	}
}
