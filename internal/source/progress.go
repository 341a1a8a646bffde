package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TasksFile holds a change's checkbox task list.
const TasksFile = "tasks.md"

// Progress counts the checkboxes of a tasks.md.
type Progress struct {
	Done  int
	Total int
}

// TaskProgress counts "- [x]" and "- [ ]" items in dir/tasks.md. ok is false
// when the file is missing or has no checkboxes.
func TaskProgress(dir string) (p Progress, ok bool, err error) {
	data, err := os.ReadFile(filepath.Join(dir, TasksFile))
	if errors.Is(err, os.ErrNotExist) {
		return Progress{}, false, nil
	}
	if err != nil {
		return Progress{}, false, fmt.Errorf("reading %s: %w", TasksFile, err)
	}

	content := string(data)
	p.Done = strings.Count(content, "- [x]") + strings.Count(content, "- [X]")
	p.Total = p.Done + strings.Count(content, "- [ ]")
	return p, p.Total > 0, nil
}
