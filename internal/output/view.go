package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"todo/internal/task"
)

// Format selects how a list is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat parses a --format value. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s", s)
	}
}

// ItemView is the structured form of one listed task.
type ItemView struct {
	Number    int    `json:"number" yaml:"number" toml:"number"`
	ID        string `json:"id" yaml:"id" toml:"id"`
	Text      string `json:"text" yaml:"text" toml:"text"`
	Completed bool   `json:"completed" yaml:"completed" toml:"completed"`
	CreatedAt string `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
	DueDate   string `json:"dueDate,omitempty" yaml:"dueDate,omitempty" toml:"dueDate,omitempty"`
	Label     string `json:"label" yaml:"label" toml:"label"`
	Status    string `json:"status" yaml:"status" toml:"status"`
}

// View is the structured form of a projection plus progress counts.
type View struct {
	Filter    string     `json:"filter" yaml:"filter" toml:"filter"`
	Completed int        `json:"completed" yaml:"completed" toml:"completed"`
	Total     int        `json:"total" yaml:"total" toml:"total"`
	Tasks     []ItemView `json:"tasks" yaml:"tasks" toml:"tasks"`
}

// NewView builds a View. number maps a task id to its list number.
func NewView(f task.Filter, items []task.Item, number func(id string) int, completed, total int) View {
	v := View{
		Filter:    string(f),
		Completed: completed,
		Total:     total,
		Tasks:     make([]ItemView, 0, len(items)),
	}
	for _, it := range items {
		iv := ItemView{
			Number:    number(it.Task.ID),
			ID:        it.Task.ID,
			Text:      it.Task.Text,
			Completed: it.Task.Completed,
			CreatedAt: it.Task.CreatedAt.UTC().Format(time.RFC3339),
			Label:     it.Label,
			Status:    it.Status.String(),
		}
		if it.Task.DueDate != nil {
			iv.DueDate = it.Task.DueDate.String()
		}
		v.Tasks = append(v.Tasks, iv)
	}
	return v
}

// Render writes v to w in a structured format.
func Render(w io.Writer, f Format, v View) error {
	switch f {
	case FormatJSON:
		b, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		b = append(b, '\n')
		_, err = w.Write(b)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(v); err != nil {
			return fmt.Errorf("failed to encode toml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported structured format: %s", f)
	}
}
