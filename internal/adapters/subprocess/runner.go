// Package subprocess invokes external binaries with a bounded timeout and
// bounded captured output.
package subprocess

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

const (
	// DefaultTimeout bounds one extractor invocation.
	DefaultTimeout = 2 * time.Minute
	// DefaultMaxOutput caps captured stdout/stderr per stream.
	DefaultMaxOutput = 10 << 20 // 10 MiB
	// excerptLimit caps each field of a formatted diagnostic.
	excerptLimit = 500
)

var errOutputTooLarge = errors.New("captured output exceeded limit")

// ExecError describes a failed subprocess invocation.
type ExecError struct {
	Message       string
	ExitCode      int // -1 when the process did not report one
	Signal        string
	Timeout       bool
	StderrExcerpt string
	StdoutExcerpt string
}

// Error formats a single-line diagnostic with every field truncated, used
// both for logging and for the failure reasons surfaced to the caller.
func (e *ExecError) Error() string {
	var b strings.Builder
	b.WriteString(truncate(e.Message))
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " (exit code %d)", e.ExitCode)
	}
	if e.Signal != "" {
		fmt.Fprintf(&b, " (signal %s)", e.Signal)
	}
	if e.StderrExcerpt != "" {
		b.WriteString(" stderr: " + truncate(e.StderrExcerpt))
	}
	if e.StdoutExcerpt != "" {
		b.WriteString(" stdout: " + truncate(e.StdoutExcerpt))
	}
	return b.String()
}

// Runner executes external binaries. The zero value is not usable; use New.
type Runner struct {
	timeout   time.Duration
	maxOutput int64
}

// New creates a Runner. Zero arguments select the defaults.
func New(timeout time.Duration, maxOutput int64) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutput
	}
	return &Runner{timeout: timeout, maxOutput: maxOutput}
}

// Run invokes the binary with the given arguments and returns captured
// stdout and stderr. On failure the returned error is an *ExecError.
func (r *Runner) Run(ctx context.Context, binary string, args []string) ([]byte, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, args...)
	stdout := &cappedBuffer{limit: r.maxOutput}
	stderr := &cappedBuffer{limit: r.maxOutput}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	runErr := cmd.Run()
	if runErr == nil {
		return stdout.buf.Bytes(), stderr.buf.Bytes(), nil
	}

	execErr := &ExecError{
		ExitCode:      -1,
		StderrExcerpt: strings.TrimSpace(stderr.buf.String()),
		StdoutExcerpt: strings.TrimSpace(stdout.buf.String()),
	}

	switch {
	case stdout.overflowed || stderr.overflowed:
		execErr.Message = fmt.Sprintf("%s produced more than %d bytes of output", binary, r.maxOutput)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		execErr.Timeout = true
		execErr.Message = fmt.Sprintf("%s timed out after %s", binary, r.timeout)
	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			execErr.ExitCode = exitErr.ExitCode()
			if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
				execErr.Signal = ws.Signal().String()
			}
			execErr.Message = fmt.Sprintf("%s failed", binary)
		} else {
			execErr.Message = fmt.Sprintf("%s could not be executed: %v", binary, runErr)
		}
	}

	return nil, nil, execErr
}

// truncate collapses s to a single line capped at excerptLimit characters.
func truncate(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
	if len(s) > excerptLimit {
		return s[:excerptLimit] + "..."
	}
	return s
}

// cappedBuffer rejects writes that would grow it past limit, failing the
// copy inside exec and aborting the command.
type cappedBuffer struct {
	limit      int64
	buf        bytes.Buffer
	overflowed bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if int64(b.buf.Len())+int64(len(p)) > b.limit {
		b.overflowed = true
		return 0, errOutputTooLarge
	}
	return b.buf.Write(p)
}
