package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// MinIDPrefix is the shortest id prefix accepted as a task reference.
const MinIDPrefix = 4

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num    int    // 1-based list number, 0 if the ref is not all digits
	Prefix string // id prefix; empty for numbers shorter than MinIDPrefix
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
// 1. No args → ErrTaskRefRequired
// 2. All digits → list number as shown by `todo list`. Numbers of at least
//    MinIDPrefix digits are also kept as an id prefix, used when no task has
//    that number (ids imported from older snapshots are all digits).
// 3. At least MinIDPrefix id characters → id prefix (case-insensitive)
// 4. Otherwise → error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("too many arguments: %s", strings.Join(args[1:], " "))
	}

	arg := strings.TrimSpace(args[0])
	if arg == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			// Too large for a list number; only usable as an id prefix.
			return TaskRef{Prefix: arg}, nil
		}
		ref := TaskRef{Num: num}
		if len(arg) >= MinIDPrefix {
			ref.Prefix = arg
		}
		return ref, nil
	}

	if len(arg) >= MinIDPrefix && isIDPrefix(arg) {
		return TaskRef{Prefix: strings.ToLower(arg)}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// String returns the reference as the user would type it.
func (r TaskRef) String() string {
	if r.Num > 0 || r.Prefix == "" {
		return strconv.Itoa(r.Num)
	}
	return r.Prefix
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isIDPrefix returns true if s only holds characters that appear in ids.
func isIDPrefix(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-') {
			return false
		}
	}
	return true
}
