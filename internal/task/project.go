package task

import (
	"fmt"
	"slices"
	"strings"
)

// Filter restricts which tasks a projection shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// Filters lists the valid filters in display order.
var Filters = []Filter{FilterAll, FilterPending, FilterCompleted}

// ParseFilter parses a filter name (case-insensitive, trimmed).
// The empty string means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPending:
		return FilterPending, nil
	case FilterCompleted:
		return FilterCompleted, nil
	}
	return "", fmt.Errorf("invalid filter: %s", s)
}

// Keep reports whether t passes the filter.
func (f Filter) Keep(t Task) bool {
	switch f {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Item is one entry of a projection.
type Item struct {
	Task   Task
	Label  string
	Status DueStatus
}

// Compare orders tasks for display: incomplete before completed, then among
// incomplete tasks dated before undated and earlier due dates first.
// All other pairs compare equal so a stable sort keeps their input order.
func Compare(a, b Task) int {
	if a.Completed != b.Completed {
		if a.Completed {
			return 1
		}
		return -1
	}
	if a.Completed {
		return 0
	}
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	default:
		return a.DueDate.Compare(*b.DueDate)
	}
}

// Project filters and sorts tasks and labels each with its due status.
// The input slice is never modified.
func Project(tasks []Task, f Filter, today Date, layout string) []Item {
	kept := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Keep(t) {
			kept = append(kept, t)
		}
	}
	slices.SortStableFunc(kept, Compare)

	items := make([]Item, len(kept))
	for i, t := range kept {
		items[i] = Item{
			Task:   t,
			Label:  FormatDueDate(t.DueDate, t.Completed, today, layout),
			Status: Classify(t.DueDate, t.Completed, today),
		}
	}
	return items
}

// Progress returns the number of completed tasks and the total.
func Progress(tasks []Task) (completed, total int) {
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return completed, len(tasks)
}
