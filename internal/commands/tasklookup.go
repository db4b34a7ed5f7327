package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/store"
	"todo/internal/task"
)

var (
	// ErrOutOfRange indicates a list number with no task.
	ErrOutOfRange = errors.New("task number out of range")

	// ErrTaskNotFound indicates an id prefix matching no task.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousRef indicates an id prefix matching several tasks.
	ErrAmbiguousRef = errors.New("ambiguous task reference")
)

// today returns the current calendar date for cfg's clock.
func today(cfg *config.Config) task.Date {
	return task.Today(cfg.Clock()())
}

// dateLayout returns the configured due date layout.
func dateLayout(cfg *config.Config) string {
	if cfg.DateFormat == "" {
		return task.DefaultDateLayout
	}
	return cfg.DateFormat
}

// numbering returns the list number of each task id, taken from the
// unfiltered projection. Filtering keeps relative order, so a task has the
// same number under every filter.
func numbering(tasks []task.Task, day task.Date) map[string]int {
	items := task.Project(tasks, task.FilterAll, day, task.DefaultDateLayout)
	nums := make(map[string]int, len(items))
	for i, it := range items {
		nums[it.Task.ID] = i + 1
	}
	return nums
}

// resolveTask finds the task ref points to. A number is looked up in the
// unfiltered projection first, then as an id prefix when it has one.
func resolveTask(tasks []task.Task, day task.Date, ref TaskRef) (task.Task, error) {
	if ref.Num > 0 || ref.Prefix == "" {
		items := task.Project(tasks, task.FilterAll, day, task.DefaultDateLayout)
		if ref.Num >= 1 && ref.Num <= len(items) {
			return items[ref.Num-1].Task, nil
		}
		if ref.Prefix == "" {
			return task.Task{}, fmt.Errorf("%w: %d", ErrOutOfRange, ref.Num)
		}
		t, err := matchPrefix(tasks, ref.Prefix)
		if errors.Is(err, ErrTaskNotFound) {
			return task.Task{}, fmt.Errorf("%w: %d", ErrOutOfRange, ref.Num)
		}
		return t, err
	}
	return matchPrefix(tasks, ref.Prefix)
}

// matchPrefix finds the one task whose id equals or starts with prefix.
func matchPrefix(tasks []task.Task, prefix string) (task.Task, error) {
	var found []task.Task
	for _, t := range tasks {
		if strings.EqualFold(t.ID, prefix) {
			return t, nil
		}
		if strings.HasPrefix(strings.ToLower(t.ID), prefix) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return task.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return task.Task{}, fmt.Errorf("%w: %s", ErrAmbiguousRef, prefix)
	}
}

// lookupTask parses args as a task reference and resolves it against the
// store's current tasks. On failure it reports the error and returns a
// non-zero exit code.
func lookupTask(cfg *config.Config, st *store.Store, args []string, errOut io.Writer) (task.Task, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return task.Task{}, exitcode.UserError
	}

	t, err := resolveTask(st.Tasks(), today(cfg), ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return task.Task{}, exitcode.UserError
	}
	return t, exitcode.Success
}
