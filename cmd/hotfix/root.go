package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/hotfix/config"
	"github.com/randalmurphal/hotfix/console"
	herrors "github.com/randalmurphal/hotfix/errors"
	"github.com/randalmurphal/hotfix/git"
)

// app holds the process I/O and the flag values shared by every command.
type app struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	workDir string
	runner  git.CommandRunner // Nil uses git.ExecRunner

	trunk      string
	remote     string
	provider   string
	generator  string
	mergeDelay string
	yes        bool
	verbose    bool
	noColor    bool
}

// runFailure marks errors from the hotfix run itself, as opposed to
// command-line usage errors.
type runFailure struct {
	err error
}

func (f *runFailure) Error() string { return f.err.Error() }
func (f *runFailure) Unwrap() error { return f.err }

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hotfix",
		Short: "Ship pending changes on trunk as a merged pull request",
		Long: `hotfix turns uncommitted changes on the trunk branch into a merged pull request.

It creates a hotfix-<timestamp> branch, commits and pushes the changes, opens a
pull request, merges it (falling back to the browser when auto-merge is not
possible), and returns you to an up-to-date trunk. Any failure after the branch
is created restores the original branch.

Configuration is read from ~/.config/hotfix/config.yaml, .hotfix.yaml in the
repository root, and HOTFIX_* environment variables. See 'hotfix config'.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.runHotfix(cmd.Context()); err != nil {
				return &runFailure{err: err}
			}
			return nil
		},
	}
	cmd.SetVersionTemplate("hotfix {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVar(&a.trunk, "trunk", "", "trunk branch to start from and merge into (default main)")
	flags.StringVar(&a.remote, "remote", "", "remote to push to and pull from (default origin)")
	flags.StringVar(&a.provider, "provider", "", "code host provider: gh, github, gitlab, or auto (default gh)")
	flags.StringVar(&a.generator, "generator", "", "command that prints a suggested commit message")
	flags.StringVar(&a.mergeDelay, "merge-delay", "", "wait before merging the pull request (default 2s)")
	flags.BoolVarP(&a.yes, "yes", "y", false, "accept the suggested commit message without prompting")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(newConfigCmd(a))
	return cmd
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, a *app) int {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var failure *runFailure
	if errors.As(err, &failure) {
		fmt.Fprintf(a.stderr, "\nError: %s\n", herrors.Format(failure.err))
	} else {
		fmt.Fprintf(a.stderr, "Error: %v\nRun 'hotfix --help' for usage.\n", err)
	}
	return 1
}

// flagValues returns the command-line layer for the config resolver.
// Empty values are ignored by the resolver.
func (a *app) flagValues() map[string]string {
	flags := map[string]string{
		config.KeyTrunk:      a.trunk,
		config.KeyRemote:     a.remote,
		config.KeyProvider:   a.provider,
		config.KeyGenerator:  a.generator,
		config.KeyMergeDelay: a.mergeDelay,
	}
	if a.noColor {
		flags[config.KeyNoColor] = "true"
	}
	return flags
}

// newLogger writes text logs to stderr: warnings by default, debug with --verbose.
func (a *app) newLogger() *slog.Logger {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}

// colorEnabled reports whether stdout should get styled output.
func (a *app) colorEnabled(noColor bool) bool {
	f, ok := a.stdout.(*os.File)
	if !ok {
		return false
	}
	return console.ColorEnabled(f, noColor)
}

func (a *app) commandRunner() git.CommandRunner {
	if a.runner != nil {
		return a.runner
	}
	return git.NewExecRunner()
}
