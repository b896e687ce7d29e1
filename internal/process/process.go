// Package process runs external commands from a discrete argument vector.
// It never builds a shell string, so arguments carrying user text are passed
// to the child process verbatim.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds reads when the caller passes no timeout.
const DefaultTimeout = 8 * time.Second

// stderrLimit caps how much stderr is kept for error messages.
const stderrLimit = 64 * 1024

// waitDelay bounds how long Wait blocks on pipes after the process is killed.
const waitDelay = time.Second

// Result contains the captured output of a finished command.
type Result struct {
	// Stdout is everything the command wrote to standard output.
	Stdout []byte

	// Stderr is the (possibly truncated) standard error output.
	Stderr string

	// ExitCode is the process exit status (0 on success).
	ExitCode int

	// Duration is how long the command ran.
	Duration time.Duration
}

// LaunchError reports that the command could not be started at all,
// typically because the binary is missing or not executable.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("cannot launch %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// TimeoutError reports that the command was killed after exceeding its timeout.
type TimeoutError struct {
	Command string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %v", e.Command, e.Timeout)
}

// ExitError reports a non-zero exit status. It is an application-level
// failure, not a crash: Stderr usually says what went wrong.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Command, e.ExitCode, e.Stderr)
}

// Executor runs commands. The zero value is ready to use.
type Executor struct {
	// Dir is the working directory for commands. Empty means the current one.
	Dir string

	// Env, if non-nil, replaces the process environment for commands.
	Env []string
}

// New creates an Executor with default settings.
func New() *Executor {
	return &Executor{}
}

// Run executes name with args and waits at most timeout for it to finish.
// A timeout <= 0 falls back to DefaultTimeout so reads are always bounded.
func (e *Executor) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (*Result, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := e.run(ctx, name, args)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return res, &TimeoutError{Command: name, Timeout: timeout}
	}
	return res, err
}

// Exec executes name with args without a read timeout. Hosts use it for
// mutation commands selected by the user; only ctx can stop it.
func (e *Executor) Exec(ctx context.Context, name string, args ...string) (*Result, error) {
	return e.run(ctx, name, args)
}

// LookPath reports whether name resolves to an executable.
func (e *Executor) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (e *Executor) run(ctx context.Context, name string, args []string) (*Result, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Dir
	cmd.Env = e.Env
	cmd.WaitDelay = waitDelay

	var stdout bytes.Buffer
	stderr := newCappedBuffer(stderrLimit)
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
	}
	if err == nil {
		return res, nil
	}

	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, &ExitError{Command: name, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	// exec.Error (not found in PATH) or a PathError from Start.
	return res, &LaunchError{Command: name, Err: err}
}
