// Package git wraps the git command line with the operations the deploy
// workflow needs: fetching, dated branch creation, merging and cleanup.
package git

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// CommandExecutor runs an external command and returns its combined output.
// Implementations must return a *CommandError when the command exits non-zero.
type CommandExecutor interface {
	Run(name string, args ...string) (string, error)
}

// CommandError describes a command that exited with a non-zero status
type CommandError struct {
	Command  string
	Output   string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Command, e.Output)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecExecutor runs commands with os/exec in Dir.
type ExecExecutor struct {
	// Dir is the working directory; empty means the process working directory
	Dir string

	// Trace, when set, receives one line per executed command
	Trace io.Writer
}

// NewExecExecutor creates an executor rooted at dir
func NewExecExecutor(dir string) *ExecExecutor {
	return &ExecExecutor{Dir: dir}
}

// Run executes name with args and returns the trimmed combined output.
func (e *ExecExecutor) Run(name string, args ...string) (string, error) {
	command := strings.TrimSpace(name + " " + strings.Join(args, " "))
	if e.Trace != nil {
		fmt.Fprintf(e.Trace, "+ %s\n", command)
	}

	cmd := exec.Command(name, args...)
	cmd.Dir = e.Dir
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return output, &CommandError{
			Command:  command,
			Output:   output,
			ExitCode: exitCode,
			Err:      err,
		}
	}
	return output, nil
}
