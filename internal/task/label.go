package task

// Due-date labels.
const (
	LabelNoDeadline  = "no deadline"
	LabelOverdue     = "overdue"
	LabelDueToday    = "due today"
	LabelDueTomorrow = "due tomorrow"
)

// DefaultDateLayout formats due dates that are neither overdue, today nor
// tomorrow.
const DefaultDateLayout = "Jan 2, 2006"

// DueStatus classifies a task's deadline relative to today.
type DueStatus int

const (
	DueNone DueStatus = iota
	DueOverdue
	DueToday
	DueTomorrow
	DueLater
)

func (s DueStatus) String() string {
	switch s {
	case DueNone:
		return "none"
	case DueOverdue:
		return "overdue"
	case DueToday:
		return "today"
	case DueTomorrow:
		return "tomorrow"
	case DueLater:
		return "later"
	default:
		return "unknown"
	}
}

// Classify returns the deadline status of a task.
//
// Only incomplete tasks can be overdue. A completed task with a past due date
// is DueLater, while a completed task due today or tomorrow keeps that status.
func Classify(due *Date, completed bool, today Date) DueStatus {
	if due == nil {
		return DueNone
	}
	diff := due.DaysSince(today)
	switch {
	case !completed && diff < 0:
		return DueOverdue
	case diff == 0:
		return DueToday
	case diff == 1:
		return DueTomorrow
	default:
		return DueLater
	}
}

// FormatDueDate returns the human-readable due label for a task.
// layout is a Go time layout; empty means DefaultDateLayout.
func FormatDueDate(due *Date, completed bool, today Date, layout string) string {
	switch Classify(due, completed, today) {
	case DueNone:
		return LabelNoDeadline
	case DueOverdue:
		return LabelOverdue
	case DueToday:
		return LabelDueToday
	case DueTomorrow:
		return LabelDueTomorrow
	}
	if layout == "" {
		layout = DefaultDateLayout
	}
	return due.Format(layout)
}
