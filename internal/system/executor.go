package system

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
)

// stderrTailLines bounds how much of a failed command's stderr is kept in the error.
const stderrTailLines = 20

// CommandError describes a command that could not be started or exited non-zero.
type CommandError struct {
	Dir      string
	Name     string
	Args     []string
	ExitCode int // -1 when the process never ran
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.CommandLine())
	if e.ExitCode >= 0 {
		fmt.Fprintf(&sb, " exited with status %d", e.ExitCode)
	} else {
		fmt.Fprintf(&sb, " could not be run: %v", e.Err)
	}
	if e.Stderr != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Stderr)
	}
	return sb.String()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// CommandLine returns the command as a shell-quoted string.
func (e *CommandError) CommandLine() string {
	return shellquote.Join(append([]string{e.Name}, e.Args...)...)
}

// osExecutor implements CommandExecutor using real OS operations.
// Child stderr is forwarded to the configured writer and also kept for errors.
type osExecutor struct {
	stderr io.Writer
}

// NewOSExecutor returns an executor that forwards child stderr to w.
// A nil w discards it.
func NewOSExecutor(w io.Writer) CommandExecutor {
	if w == nil {
		w = io.Discard
	}
	return &osExecutor{stderr: w}
}

func (e *osExecutor) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.MultiWriter(e.stderr, &stderr)

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	cmdErr := &CommandError{
		Dir:      dir,
		Name:     name,
		Args:     args,
		ExitCode: -1,
		Stderr:   tail(stderr.String(), stderrTailLines),
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		cmdErr.ExitCode = exitErr.ExitCode()
	}
	return stdout.Bytes(), cmdErr
}

// tail returns the last n non-empty lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
