package commands

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"todo/internal/config"
	"todo/internal/task"
)

func testConfig(now time.Time) *config.Config {
	return &config.Config{Now: func() time.Time { return now }}
}

func TestParseTaskRef_Number(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 5 {
		t.Errorf("expected Num 5, got %d", ref.Num)
	}
	if ref.Prefix != "" {
		t.Errorf("expected no prefix, got %q", ref.Prefix)
	}
}

func TestParseTaskRef_IDPrefix(t *testing.T) {
	ref, err := ParseTaskRef([]string{"3F2A-9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Prefix != "3f2a-9" {
		t.Errorf("expected lowercased prefix, got %q", ref.Prefix)
	}
	if ref.Num != 0 {
		t.Errorf("expected Num 0, got %d", ref.Num)
	}
}

func TestParseTaskRef_NoArgs_Error(t *testing.T) {
	_, err := ParseTaskRef(nil)
	if !errors.Is(err, ErrTaskRefRequired) {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}

	_, err = ParseTaskRef([]string{"  "})
	if !errors.Is(err, ErrTaskRefRequired) {
		t.Errorf("expected ErrTaskRefRequired for blank arg, got %v", err)
	}
}

func TestParseTaskRef_ShortPrefix_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{"abc"})
	if err == nil {
		t.Fatal("expected error for short prefix")
	}
	expectedMsg := "invalid task reference: abc"
	if err.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, err.Error())
	}
}

func TestParseTaskRef_InvalidCharacters_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{"ab_cd"})
	if err == nil || err.Error() != "invalid task reference: ab_cd" {
		t.Errorf("expected invalid reference error, got %v", err)
	}
}

func TestParseTaskRef_TooManyArgs_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{"1", "2"})
	if err == nil || err.Error() != "too many arguments: 2" {
		t.Errorf("expected too many arguments error, got %v", err)
	}
}

func TestTaskRef_String(t *testing.T) {
	if got := (TaskRef{Num: 7}).String(); got != "7" {
		t.Errorf("expected %q, got %q", "7", got)
	}
	if got := (TaskRef{Prefix: "abcd"}).String(); got != "abcd" {
		t.Errorf("expected %q, got %q", "abcd", got)
	}
}

var lookupDay = task.NewDate(2024, 1, 10)

func lookupTasks() []task.Task {
	due := task.NewDate(2024, 1, 12)
	return []task.Task{
		{ID: "aaaa1111", Text: "undated"},
		{ID: "aaab2222", Text: "done", Completed: true},
		{ID: "cccc3333", Text: "dated", DueDate: &due},
	}
}

func TestResolveTask_NumberFollowsDisplayOrder(t *testing.T) {
	tasks := lookupTasks()
	want := []string{"dated", "undated", "done"}
	for i, text := range want {
		got, err := resolveTask(tasks, lookupDay, TaskRef{Num: i + 1})
		if err != nil {
			t.Fatalf("ref %d: unexpected error: %v", i+1, err)
		}
		if got.Text != text {
			t.Errorf("ref %d: expected %q, got %q", i+1, text, got.Text)
		}
	}
}

func TestResolveTask_OutOfRange(t *testing.T) {
	for _, n := range []int{0, 4} {
		_, err := resolveTask(lookupTasks(), lookupDay, TaskRef{Num: n})
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("ref %d: expected ErrOutOfRange, got %v", n, err)
		}
	}
}

func TestResolveTask_Prefix(t *testing.T) {
	got, err := resolveTask(lookupTasks(), lookupDay, TaskRef{Prefix: "cccc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "cccc3333" {
		t.Errorf("expected cccc3333, got %s", got.ID)
	}
}

func TestResolveTask_AmbiguousPrefix(t *testing.T) {
	_, err := resolveTask(lookupTasks(), lookupDay, TaskRef{Prefix: "aaa"})
	if !errors.Is(err, ErrAmbiguousRef) {
		t.Fatalf("expected ErrAmbiguousRef, got %v", err)
	}
	if err.Error() != "ambiguous task reference: aaa" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestResolveTask_UnknownPrefix(t *testing.T) {
	_, err := resolveTask(lookupTasks(), lookupDay, TaskRef{Prefix: "ffff"})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestNumbering_StableAcrossFilters(t *testing.T) {
	tasks := lookupTasks()
	nums := numbering(tasks, lookupDay)

	pending := task.Project(tasks, task.FilterPending, lookupDay, "")
	for i, it := range pending {
		if nums[it.Task.ID] != i+1 {
			t.Errorf("pending item %d: expected number %d, got %d", i, i+1, nums[it.Task.ID])
		}
	}
	if nums["aaab2222"] != 3 {
		t.Errorf("expected completed task numbered 3, got %d", nums["aaab2222"])
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"y", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out strings.Builder
		got := confirm(strings.NewReader(tt.in), &out, "sure? ")
		if got != tt.want {
			t.Errorf("confirm(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestConfirm_NilReader(t *testing.T) {
	var out strings.Builder
	if confirm(nil, &out, "sure? ") {
		t.Error("expected false without input")
	}
	if out.String() != "sure? \n" {
		t.Errorf("expected prompt, got %q", out.String())
	}
}

func TestToday_UsesConfigClock(t *testing.T) {
	cfg := testConfig(time.Date(2024, 3, 1, 23, 59, 0, 0, time.Local))
	if got := today(cfg); got != task.NewDate(2024, 3, 1) {
		t.Errorf("expected 2024-03-01, got %s", got)
	}
}

func TestParseTaskRef_LongNumberKeepsPrefix(t *testing.T) {
	ref, err := ParseTaskRef([]string{"1700000000000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 1700000000000 {
		t.Errorf("expected Num 1700000000000, got %d", ref.Num)
	}
	if ref.Prefix != "1700000000000" {
		t.Errorf("expected digits kept as prefix, got %q", ref.Prefix)
	}
}

func digitTasks() []task.Task {
	return []task.Task{
		{ID: "1700000000000", Text: "first"},
		{ID: "1700000005000", Text: "second"},
		{ID: "1800000000000", Text: "third"},
	}
}

func TestResolveTask_DigitIDPrefix(t *testing.T) {
	ref, err := ParseTaskRef([]string{"1800"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := resolveTask(digitTasks(), lookupDay, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "third" {
		t.Errorf("expected third, got %q", got.Text)
	}
}

func TestResolveTask_NumberWinsOverDigitPrefix(t *testing.T) {
	tasks := append(digitTasks(), task.Task{ID: "x1", Text: "fourth"})
	for i := 0; i < 1996; i++ {
		tasks = append(tasks, task.Task{ID: "pad" + strconv.Itoa(i), Text: "pad"})
	}
	ref, err := ParseTaskRef([]string{"1800"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := resolveTask(tasks, lookupDay, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "pad1795" {
		t.Errorf("expected task numbered 1800, got %s", got.ID)
	}
}

func TestResolveTask_DigitRefNoMatch(t *testing.T) {
	ref, _ := ParseTaskRef([]string{"9999"})
	_, err := resolveTask(digitTasks(), lookupDay, ref)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if err.Error() != "task number out of range: 9999" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestResolveTask_AmbiguousDigitPrefix(t *testing.T) {
	ref, _ := ParseTaskRef([]string{"17000"})
	if _, err := resolveTask(digitTasks(), lookupDay, ref); !errors.Is(err, ErrAmbiguousRef) {
		t.Errorf("expected ErrAmbiguousRef, got %v", err)
	}
}
