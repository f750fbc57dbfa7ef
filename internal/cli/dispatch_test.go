package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

func run(t *testing.T, factory cli.ServiceFactory, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	// Isolate from the developer's real config directory.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var outBuf, errBuf bytes.Buffer
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	code = dispatcher.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", false)

	stdout, stderr, code := run(t, testFactory(svc))

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "   1  [ ] Buy milk\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if !svc.Closed() {
		t.Error("service should be closed after the command")
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	stdout, stderr, code := run(t, nil, "help")

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
	stdout, _, code := run(t, nil, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected 'todo 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, nil, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "add", "--desc")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -desc\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_AliasAndCommandFlags(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := run(t, testFactory(svc), "create", "--desc", "Q3 summary", "Write", "report")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok 1\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	tasks := svc.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Write report" || tasks[0].Description != "Q3 summary" {
		t.Errorf("unexpected tasks %+v", tasks)
	}
}

func TestDispatcher_EditFlagsResetBetweenRuns(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateTask(context.Background(), "Buy milk", "2 litres")

	if _, stderr, code := run(t, testFactory(svc), "edit", "--title", "Buy oat milk", "1"); code != exitcode.Success {
		t.Fatalf("first edit failed: %q", stderr)
	}
	if _, stderr, code := run(t, testFactory(svc), "edit", "--desc", "", "1"); code != exitcode.Success {
		t.Fatalf("second edit failed: %q", stderr)
	}

	got := svc.Tasks()[0]
	if got.Title != "Buy oat milk" || got.Description != "" {
		t.Errorf("unexpected task %+v", got)
	}
}

func TestDispatcher_FactoryErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		want string
	}{
		{"auth", fmt.Errorf("%w: not logged in (run: todo login)", config.ErrAuth), exitcode.AuthError, "error: auth error: not logged in (run: todo login)\n"},
		{"storage", &service.StorageError{Op: "open store", Err: errors.New("locked")}, exitcode.BackendError, "error: backend error: storage: open store: locked\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
				return nil, tc.err
			}
			_, stderr, code := run(t, factory, "list")
			if code != tc.code {
				t.Errorf("expected exit code %d, got %d", tc.code, code)
			}
			if stderr != tc.want {
				t.Errorf("expected %q, got %q", tc.want, stderr)
			}
		})
	}
}

func TestDispatcher_InvalidSettings(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte("remote:\n  source: carrier-pigeon\n"), 0600); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "list", "--config", dir)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "unknown remote.source: carrier-pigeon") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_ConfigFlagReachesFactory(t *testing.T) {
	dir := t.TempDir()
	var gotDir string
	var gotDebug bool
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		gotDir, gotDebug = cfg.Dir, cfg.Debug
		return testutil.NewFakeService(), nil
	}

	_, _, code := run(t, factory, "status", "--config", dir, "--debug", "--quiet")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if gotDir != dir || !gotDebug {
		t.Errorf("factory saw dir=%q debug=%v", gotDir, gotDebug)
	}
}
