package sevenzip

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nathannncurtis/Study-Aggregator/internal/services"
)

type fakeExecutor struct {
	lines    []string
	err      error
	lastArgs []string
}

func (f *fakeExecutor) Run(_ context.Context, _ string, args []string, onLine func(string)) error {
	f.lastArgs = args
	for _, line := range f.lines {
		onLine(line)
	}
	return f.err
}

func TestExtractBuildsCommandLine(t *testing.T) {
	exec := &fakeExecutor{}
	client, err := New("/usr/bin/7z", 300, WithExecutor(exec))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	dest := t.TempDir()
	if err := client.Extract(context.Background(), "/input/a.zip", dest, "secret"); err != nil {
		t.Fatalf("extract: %v", err)
	}

	want := []string{"x", "/input/a.zip", "-o" + dest, "-y", "-psecret"}
	if len(exec.lastArgs) != len(want) {
		t.Fatalf("unexpected args: %v", exec.lastArgs)
	}
	for i := range want {
		if exec.lastArgs[i] != want[i] {
			t.Fatalf("arg %d: got %q, want %q", i, exec.lastArgs[i], want[i])
		}
	}
}

func TestExtractAlwaysPassesPasswordSwitch(t *testing.T) {
	exec := &fakeExecutor{}
	client, err := New("/usr/bin/7z", 300, WithExecutor(exec))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := client.Extract(context.Background(), "/input/a.zip", t.TempDir(), ""); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if exec.lastArgs[len(exec.lastArgs)-1] != "-p" {
		t.Fatalf("expected bare -p switch, got %v", exec.lastArgs)
	}
}

func TestExtractMapsWrongPasswordDiagnostics(t *testing.T) {
	exec := &fakeExecutor{
		lines: []string{"Extracting archive", "ERROR: Wrong password : a.dcm"},
		err:   fmt.Errorf("exit status 2"),
	}
	client, err := New("/usr/bin/7z", 300, WithExecutor(exec))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	extractErr := client.Extract(context.Background(), "/input/a.zip", t.TempDir(), "bad")
	if !errors.Is(extractErr, services.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", extractErr)
	}
}

func TestExtractPassesThroughOtherFailures(t *testing.T) {
	exec := &fakeExecutor{
		lines: []string{"ERROR: CRC failed"},
		err:   fmt.Errorf("exit status 2"),
	}
	client, err := New("/usr/bin/7z", 300, WithExecutor(exec))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	extractErr := client.Extract(context.Background(), "/input/a.zip", t.TempDir(), "pw")
	if extractErr == nil || errors.Is(extractErr, services.ErrWrongPassword) {
		t.Fatalf("expected generic failure, got %v", extractErr)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := New("   ", 300); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestDiscoverHonorsExistingOverride(t *testing.T) {
	// An override pointing at a missing file yields nothing rather than
	// falling back to PATH.
	if got := Discover("/nonexistent/7z-binary"); got != "" {
		t.Fatalf("expected empty result for missing override, got %q", got)
	}
}
