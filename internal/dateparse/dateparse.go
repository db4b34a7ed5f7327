// Package dateparse turns user-entered due dates into calendar dates.
package dateparse

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"todo/internal/task"
)

// ErrEmpty is returned for blank input.
var ErrEmpty = errors.New("due date required")

var parser = newParser()

// isoShape matches input meant as YYYY-MM-DD, valid or not.
var isoShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// Parse returns the date described by s, relative to now.
// Accepts YYYY-MM-DD and natural language such as "tomorrow" or
// "in 3 days".
func Parse(s string, now time.Time) (task.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return task.Date{}, ErrEmpty
	}
	if d, err := task.ParseDate(s); err == nil {
		return d, nil
	}
	if isoShape.MatchString(s) {
		return task.Date{}, fmt.Errorf("invalid due date: %s", s)
	}

	r, err := parser.Parse(s, now)
	if err != nil {
		return task.Date{}, fmt.Errorf("invalid due date: %s: %w", s, err)
	}
	// A partial match such as a clock time inside other text is not a date.
	if r == nil || r.Index != 0 || len(strings.TrimSpace(r.Text)) != len(s) {
		return task.Date{}, fmt.Errorf("invalid due date: %s", s)
	}
	return task.DateOf(r.Time), nil
}
