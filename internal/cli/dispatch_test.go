package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/storage"
	"todo/internal/store"
	"todo/internal/testutil"
)

// testFactory creates a backend factory that returns the given FakeKV.
func testFactory(kv *testutil.FakeKV) cli.BackendFactory {
	return func(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (storage.KV, error) {
		return kv, nil
	}
}

// run dispatches args with a private config dir.
func run(t *testing.T, d *cli.Dispatcher, dir string, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	full := args
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		full = append([]string{args[0], "--config", dir}, args[1:]...)
	}
	code = d.Run(context.Background(), full, strings.NewReader(""), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeKV()))

	_, stderr, code := run(t, dispatcher, t.TempDir(), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeKV()))

	_, stderr, code := run(t, dispatcher, t.TempDir(), "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeKV()))

	stdout, stderr, code := run(t, dispatcher, t.TempDir(), "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeKV()))

	stdout, stderr, code := run(t, dispatcher, t.TempDir(), "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected 'todo 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeKV()))

	_, stderr, code := run(t, dispatcher, t.TempDir(), "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeKV()))

	_, stderr, code := run(t, dispatcher, t.TempDir(), "add", "--due")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -due\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NoArgsLists(t *testing.T) {
	kv := testutil.NewFakeKV()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(kv))

	var stdout, stderr bytes.Buffer
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	code := dispatcher.Run(context.Background(), nil, nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout.String() != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout.String())
	}
	if kv.Gets() != 1 {
		t.Errorf("expected one load, got %d", kv.Gets())
	}
}

func TestDispatcher_AddThenList(t *testing.T) {
	kv := testutil.NewFakeKV()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(kv))
	dir := t.TempDir()

	if _, stderr, code := run(t, dispatcher, dir, "add", "Buy", "milk"); code != exitcode.Success {
		t.Fatalf("add failed: %d %q", code, stderr)
	}
	if _, stderr, code := run(t, dispatcher, dir, "create", "--quiet", "Walk dog"); code != exitcode.Success {
		t.Fatalf("create failed: %d %q", code, stderr)
	}
	if _, stderr, code := run(t, dispatcher, dir, "done", "2"); code != exitcode.Success {
		t.Fatalf("done failed: %d %q", code, stderr)
	}

	stdout, _, code := run(t, dispatcher, dir, "list")
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "   1  [ ] Buy milk  (no deadline)\n   2  [x] Walk dog  (no deadline)\n1 of 2 completed\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestDispatcher_SaveFailureStillSucceeds(t *testing.T) {
	kv := testutil.NewFakeKV()
	kv.FailSets(errors.New("disk full"))
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(kv))

	stdout, stderr, code := run(t, dispatcher, t.TempDir(), "add", "Task")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected %q, got %q", "ok\n", stdout)
	}
	if !strings.Contains(stderr, "level=warning") || !strings.Contains(stderr, "disk full") {
		t.Errorf("expected a logged warning, got %q", stderr)
	}
}

func TestDispatcher_BackendFailure(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (storage.KV, error) {
		return nil, errors.New("connection refused")
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	_, stderr, code := run(t, dispatcher, t.TempDir(), "list")

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: connection refused\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_UnknownBackendIsConfigError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte("backend: etcd\n"), 0600); err != nil {
		t.Fatal(err)
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	_, stderr, code := run(t, dispatcher, dir, "list")

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if stderr != "error: config error: unknown backend: etcd\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_InvalidSettingsFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte("backend: [unclosed\n"), 0600); err != nil {
		t.Fatal(err)
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeKV()))

	_, stderr, code := run(t, dispatcher, dir, "list")

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.HasPrefix(stderr, "error: config error: ") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_FileBackendEndToEnd(t *testing.T) {
	dir := t.TempDir()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	if _, stderr, code := run(t, dispatcher, dir, "add", "--due", "2099-12-31", "Renew passport"); code != exitcode.Success {
		t.Fatalf("add failed: %d %q", code, stderr)
	}

	data, err := os.ReadFile(filepath.Join(dir, store.DefaultKey+".json"))
	if err != nil {
		t.Fatalf("expected snapshot file: %v", err)
	}
	if !strings.Contains(string(data), `"dueDate":"2099-12-31"`) {
		t.Errorf("unexpected snapshot %s", data)
	}

	stdout, _, code := run(t, dispatcher, dir, "list", "--filter", "pending")
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "   1  [ ] Renew passport  (Dec 31, 2099)\n0 of 1 completed\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}
