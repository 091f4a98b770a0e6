package message

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/randalmurphal/hotfix/git"
)

var (
	// ErrEmptyMessage indicates the generator produced no usable line.
	ErrEmptyMessage = errors.New("generator produced an empty message")

	// ErrNoGenerator indicates no generator command is configured.
	ErrNoGenerator = errors.New("no commit message generator configured")
)

// Generator produces a commit message suggestion for the pending changes.
type Generator interface {
	Generate(ctx context.Context) (string, error)
}

// CommandGenerator runs an external command and uses the first non-empty
// line of its stdout as the message.
type CommandGenerator struct {
	runner  git.CommandRunner
	workDir string
	name    string
	args    []string
}

// NewCommandGenerator creates a generator for command, which is split on
// whitespace into a binary and its arguments. An empty command returns nil.
func NewCommandGenerator(runner git.CommandRunner, workDir, command string) *CommandGenerator {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}
	if runner == nil {
		runner = git.NewExecRunner()
	}
	return &CommandGenerator{
		runner:  runner,
		workDir: workDir,
		name:    fields[0],
		args:    fields[1:],
	}
}

// Generate implements Generator.
func (g *CommandGenerator) Generate(ctx context.Context) (string, error) {
	if g == nil {
		return "", ErrNoGenerator
	}
	out, err := g.runner.Run(ctx, g.workDir, g.name, g.args...)
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
	return "", ErrEmptyMessage
}

// Resolver picks the suggested commit message for a run.
type Resolver struct {
	Generator Generator    // Optional; nil skips straight to the fallback
	Templates *Loader      // Source of the fallback template
	Logger    *slog.Logger // Generator failures are logged at debug level
}

// Suggest returns the generator's message, or the rendered fallback when the
// generator is absent, fails, or returns nothing. Only a broken fallback
// template is an error.
func (r *Resolver) Suggest(ctx context.Context, vars Vars) (string, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if r.Generator != nil {
		msg, err := r.Generator.Generate(ctx)
		if err == nil && strings.TrimSpace(msg) != "" {
			return strings.TrimSpace(msg), nil
		}
		logger.Debug("commit message generator unavailable, using fallback", "error", err)
	}

	return Fallback(r.Templates, vars)
}

// Fallback renders the fallback commit message.
func Fallback(loader *Loader, vars Vars) (string, error) {
	if loader == nil {
		loader = NewLoader()
	}
	msg, err := loader.Render(TemplateCommitFallback, vars)
	if err != nil {
		return "", fmt.Errorf("fallback commit message: %w", err)
	}
	if msg == "" {
		return "", fmt.Errorf("fallback commit message: %w", ErrEmptyMessage)
	}
	return msg, nil
}

// VarsAt returns template vars with the timestamp set from t.
func VarsAt(t time.Time) Vars {
	return Vars{Timestamp: t.Format(TimestampLayout)}
}
