package source

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mgraves-column/openspec-tracking/internal/board"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoFrontmatter is returned when proposal.md has no YAML front-matter block.
	ErrNoFrontmatter = errors.New("proposal.md has no YAML frontmatter")
	// ErrInvalidFrontmatter is returned when front-matter fails to parse or validate.
	ErrInvalidFrontmatter = errors.New("frontmatter validation failed")
)

const fence = "---"

// frontmatter is the YAML block at the top of a change's proposal.md.
type frontmatter struct {
	Epic         string   `yaml:"epic"`
	Priority     string   `yaml:"priority"`
	Column       string   `yaml:"column"`
	Phase        *string  `yaml:"phase"`
	Dependencies []string `yaml:"dependencies"`
	Tags         []string `yaml:"tags"`
	CreatedAt    string   `yaml:"createdAt"`
	Notes        string   `yaml:"notes"`
}

var (
	headingRe     = regexp.MustCompile(`(?m)^#[ \t]+(.+)$`)
	titlePrefixRe = regexp.MustCompile(`(?i)^(?:Change|Proposal|RFC|Feature|Enhancement):\s*`)
)

// splitFrontmatter separates the leading "---" fenced block from the body.
// ok is false when the document does not open with a fence or never closes it.
func splitFrontmatter(doc string) (meta, body string, ok bool) {
	doc = strings.TrimPrefix(doc, "\ufeff")
	doc = strings.ReplaceAll(doc, "\r\n", "\n")

	first, rest, found := strings.Cut(doc, "\n")
	if !found || strings.TrimSpace(first) != fence {
		return "", doc, false
	}

	lines := strings.Split(rest, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == fence {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n"), true
		}
	}
	return "", doc, false
}

// parseFrontmatter decodes and validates the front-matter of a proposal.
func parseFrontmatter(id, doc string) (frontmatter, string, error) {
	meta, body, ok := splitFrontmatter(doc)
	if !ok {
		return frontmatter{}, body, fmt.Errorf("[%s] %w", id, ErrNoFrontmatter)
	}

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(meta), &node); err != nil {
		return frontmatter{}, body, fmt.Errorf("[%s] %w: %v", id, ErrInvalidFrontmatter, err)
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode || len(node.Content[0].Content) == 0 {
		return frontmatter{}, body, fmt.Errorf("[%s] %w", id, ErrNoFrontmatter)
	}

	var fm frontmatter
	if err := node.Content[0].Decode(&fm); err != nil {
		return frontmatter{}, body, fmt.Errorf("[%s] %w: %v", id, ErrInvalidFrontmatter, err)
	}
	if err := fm.validate(); err != nil {
		return frontmatter{}, body, fmt.Errorf("[%s] %w: %v", id, ErrInvalidFrontmatter, err)
	}
	return fm, body, nil
}

func (fm frontmatter) validate() error {
	var problems []string
	if board.ValidateEpic(board.EpicID(fm.Epic)) != nil {
		problems = append(problems, fmt.Sprintf("invalid or missing epic: %q", fm.Epic))
	}
	if board.ValidatePriority(board.Priority(fm.Priority)) != nil {
		problems = append(problems, fmt.Sprintf("invalid or missing priority: %q", fm.Priority))
	}
	if board.ValidateColumn(board.ColumnID(fm.Column)) != nil {
		problems = append(problems, fmt.Sprintf("invalid or missing column: %q", fm.Column))
	}
	if fm.CreatedAt == "" {
		problems = append(problems, "missing createdAt")
	} else if _, err := fm.createdDay(); err != nil {
		problems = append(problems, fmt.Sprintf("invalid createdAt: %q", fm.CreatedAt))
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, ", "))
	}
	return nil
}

// createdDay keeps only the calendar date of createdAt, at midnight UTC.
func (fm frontmatter) createdDay() (time.Time, error) {
	day, _, _ := strings.Cut(strings.TrimSpace(fm.CreatedAt), "T")
	day, _, _ = strings.Cut(day, " ")
	return time.Parse("2006-01-02", day)
}

// extractTitle returns the first level-one heading, minus a leading
// "Change:"-style label.
func extractTitle(body string) (string, bool) {
	m := headingRe.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	title := titlePrefixRe.ReplaceAllString(strings.TrimSpace(m[1]), "")
	return title, title != ""
}
