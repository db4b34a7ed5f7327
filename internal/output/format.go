// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/task"
)

const (
	// ListSeparator separates successive renders in watch mode.
	ListSeparator = "------------"

	// NoTasks is printed when the projection is empty.
	NoTasks = "no tasks found"
)

// Styles colours due labels. Colours are only emitted when the writer
// the styles were created for is a terminal.
type Styles struct {
	overdue  lipgloss.Style
	today    lipgloss.Style
	tomorrow lipgloss.Style
	done     lipgloss.Style
}

// NewStyles creates label styles for w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		overdue:  r.NewStyle().Foreground(lipgloss.Color("1")),
		today:    r.NewStyle().Foreground(lipgloss.Color("3")),
		tomorrow: r.NewStyle().Foreground(lipgloss.Color("6")),
		done:     r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Label returns the item's due label, styled by its status.
func (s Styles) Label(item task.Item) string {
	if item.Task.Completed {
		return s.done.Render(item.Label)
	}
	switch item.Status {
	case task.DueOverdue:
		return s.overdue.Render(item.Label)
	case task.DueToday:
		return s.today.Render(item.Label)
	case task.DueTomorrow:
		return s.tomorrow.Render(item.Label)
	default:
		return item.Label
	}
}

// FormatItem formats a task line.
// Format: "{N:>4}  [x] {TEXT}  ({LABEL})\n"
func FormatItem(w io.Writer, num int, item task.Item, s Styles) {
	mark := " "
	if item.Task.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s  (%s)\n", num, mark, normalizeText(item.Task.Text), s.Label(item))
}

// FormatProgress formats the "X of Y completed" summary line.
func FormatProgress(w io.Writer, completed, total int) {
	fmt.Fprintf(w, "%d of %d completed\n", completed, total)
}

// normalizeText normalizes task text for display.
// Newlines and tabs become spaces; blank text becomes "(untitled)".
func normalizeText(text string) string {
	text = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ", "\t", " ").Replace(text)
	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
