package sevenzip

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/nathannncurtis/Study-Aggregator/internal/services"
)

// wellKnownLocations are probed before falling back to PATH lookup.
var wellKnownLocations = []string{
	"/usr/bin/7z",
	"/usr/bin/7zz",
	"/usr/local/bin/7z",
	"/opt/homebrew/bin/7z",
	`C:\Program Files\7-Zip\7z.exe`,
	`C:\Program Files (x86)\7-Zip\7z.exe`,
}

var pathNames = []string{"7z", "7zz", "7za"}

// Discover locates a 7-Zip executable. An explicit override is honored when
// it exists; otherwise well-known locations and PATH are searched. Returns
// the empty string when nothing is found.
func Discover(override string) string {
	if override = strings.TrimSpace(override); override != "" {
		if info, err := os.Stat(override); err == nil && !info.IsDir() {
			return override
		}
		return ""
	}
	for _, location := range wellKnownLocations {
		if info, err := os.Stat(location); err == nil && !info.IsDir() {
			return location
		}
	}
	for _, name := range pathNames {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps 7-Zip CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs a 7-Zip client around the given binary.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("seven-zip binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Extract unpacks an archive into destDir. The password is always passed on
// the command line, even when empty, so the tool fails instead of prompting
// on its own terminal. Authentication failures are returned as
// services.ErrWrongPassword; a timeout as services.ErrTimeout.
func (c *Client) Extract(ctx context.Context, archivePath, destDir, password string) error {
	if destDir == "" {
		return errors.New("destination directory required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{"x", archivePath, "-o" + destDir, "-y", "-p" + password}

	var mu sync.Mutex
	var diagnostics []string
	err := c.exec.Run(runCtx, c.binary, args, func(line string) {
		mu.Lock()
		if len(diagnostics) < 64 {
			diagnostics = append(diagnostics, line)
		}
		mu.Unlock()
	})
	if err == nil {
		return nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "sevenzip", "extract", archivePath, err)
	}
	if indicatesWrongPassword(diagnostics) {
		return services.Wrap(services.ErrWrongPassword, "sevenzip", "extract", archivePath, nil)
	}
	return fmt.Errorf("seven-zip extract %s: %w", archivePath, err)
}

func indicatesWrongPassword(lines []string) bool {
	for _, line := range lines {
		lowered := strings.ToLower(line)
		if strings.Contains(lowered, "wrong password") {
			return true
		}
		if strings.Contains(lowered, "can not open encrypted archive") {
			return true
		}
	}
	return false
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if onLine != nil {
				onLine(scanner.Text())
			}
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
