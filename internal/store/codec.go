package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"todo/internal/task"
)

// record is the persisted form of a task.
type record struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt any    `json:"createdAt"` // RFC 3339 string; epoch milliseconds accepted on read
	DueDate   any    `json:"dueDate"`   // YYYY-MM-DD; RFC 3339 accepted on read
}

// Encode serializes tasks as a JSON array in collection order.
func Encode(tasks []task.Task) (string, error) {
	recs := make([]record, len(tasks))
	for i, t := range tasks {
		recs[i] = record{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
		if t.DueDate != nil {
			recs[i].DueDate = t.DueDate.String()
		}
	}
	data, err := sonic.ConfigStd.Marshal(recs)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return string(data), nil
}

// Decode parses a snapshot written by Encode.
// Entries without an id or text, with an unreadable createdAt or dueDate,
// and repeated ids are dropped and reported in skipped. Only a snapshot that
// is not a JSON array of objects is an error.
func Decode(data string) (tasks []task.Task, skipped int, err error) {
	if strings.TrimSpace(data) == "" || strings.TrimSpace(data) == "null" {
		return nil, 0, nil
	}

	var recs []record
	if err := sonic.ConfigStd.UnmarshalFromString(data, &recs); err != nil {
		return nil, 0, fmt.Errorf("decode tasks: %w", err)
	}

	seen := make(map[string]bool, len(recs))
	tasks = make([]task.Task, 0, len(recs))
	for _, r := range recs {
		text := strings.TrimSpace(r.Text)
		if r.ID == "" || text == "" || seen[r.ID] {
			skipped++
			continue
		}
		created, err := parseCreatedAt(r.CreatedAt)
		if err != nil {
			skipped++
			continue
		}
		due, err := parseDueDate(r.DueDate)
		if err != nil {
			skipped++
			continue
		}
		seen[r.ID] = true
		tasks = append(tasks, task.Task{
			ID:        r.ID,
			Text:      text,
			Completed: r.Completed,
			CreatedAt: created,
			DueDate:   due,
		})
	}
	return tasks, skipped, nil
}

func parseCreatedAt(v any) (time.Time, error) {
	switch v := v.(type) {
	case nil:
		return time.Time{}, nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid createdAt: %q", v)
		}
		return t.UTC(), nil
	case float64:
		return time.UnixMilli(int64(v)).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("invalid createdAt: %v", v)
	}
}

func parseDueDate(v any) (*task.Date, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		d, err := task.ParseDate(v)
		if err != nil {
			return nil, fmt.Errorf("invalid dueDate: %q", v)
		}
		return &d, nil
	default:
		return nil, fmt.Errorf("invalid dueDate: %v", v)
	}
}
