package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes external commands.
// This interface allows mocking command execution in tests.
type CommandRunner interface {
	// Run executes a command in workDir and returns its stdout untrimmed.
	// A non-zero exit or a missing binary yields a *CommandError.
	Run(ctx context.Context, workDir, name string, args ...string) (stdout string, err error)
}

// ExecRunner is the default CommandRunner using exec.CommandContext.
// Cancelling the context kills the running process.
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, workDir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg == "" {
			msg = err.Error()
		}
		return stdout.String(), &CommandError{
			Command: name,
			Args:    args,
			WorkDir: workDir,
			Output:  msg,
			Err:     err,
		}
	}

	return stdout.String(), nil
}

// CommandError represents a failed external command.
type CommandError struct {
	Command string   // Binary that was run (e.g., "git", "gh")
	Args    []string // Arguments passed to the binary
	WorkDir string   // Directory the command ran in
	Output  string   // stderr, else stdout, else the exec error text
	Err     error    // Underlying exec error
}

// CommandLine returns the command and its arguments joined by spaces.
func (e *CommandError) CommandLine() string {
	return commandLine(e.Command, e.Args)
}

func (e *CommandError) Error() string {
	msg := e.Output
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = "command failed"
	}
	return fmt.Sprintf("command %q failed: %s", e.CommandLine(), msg)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
