package main

import (
	"context"
	"time"

	"github.com/randalmurphal/hotfix/config"
	"github.com/randalmurphal/hotfix/console"
	herrors "github.com/randalmurphal/hotfix/errors"
	"github.com/randalmurphal/hotfix/git"
	"github.com/randalmurphal/hotfix/message"
	"github.com/randalmurphal/hotfix/notify"
	"github.com/randalmurphal/hotfix/pr"
	"github.com/randalmurphal/hotfix/workflow"
)

// runHotfix wires the configured collaborators and runs the pipeline once.
func (a *app) runHotfix(ctx context.Context) error {
	logger := a.newLogger()

	resolver := config.NewHotfixResolver(a.workDir, a.stderr)
	settings, err := config.LoadSettings(resolver.Resolve(a.flagValues()))
	if err != nil {
		return &herrors.CLIError{
			Err:        err,
			Message:    "Invalid configuration.",
			Details:    err.Error(),
			Suggestion: "Run 'hotfix config' to see each value and where it came from.",
		}
	}

	runner := a.commandRunner()
	gitCtx, err := git.NewContext(a.workDir, git.WithRunner(runner), git.WithRemote(settings.Remote))
	if err != nil {
		return err
	}

	provider, err := a.newProvider(ctx, gitCtx, settings)
	if err != nil {
		return err
	}
	logger.Debug("using provider", "provider", provider.Name())

	templates := message.NewLoader(settings.TemplateDir(resolver.GitRoot()))
	messages := &message.Resolver{Templates: templates, Logger: logger}
	if gen := message.NewCommandGenerator(runner, gitCtx.WorkDir(), settings.Generator); gen != nil {
		messages.Generator = gen
	}

	lines := console.NewLinePrompter(a.stdin, a.stdout)
	var prompter console.Prompter = lines
	if a.yes {
		prompter = console.AcceptingPrompter{Out: a.stdout, Confirm: lines}
	}

	orch, err := workflow.NewOrchestrator(workflow.Deps{
		Git:       gitCtx,
		Provider:  provider,
		Messages:  messages,
		Templates: templates,
		Prompter:  prompter,
		Printer:   console.NewPrinter(a.stdout, a.colorEnabled(settings.NoColor)),
		Notifier: notify.New(notify.Config{
			SlackWebhook: settings.SlackWebhook,
			WebhookURL:   settings.WebhookURL,
			Logger:       logger,
		}),
		Logger: logger,
	}, workflow.Options{
		Trunk:      settings.Trunk,
		Remote:     settings.Remote,
		MergeDelay: mergeDelay(settings),
	})
	if err != nil {
		return err
	}

	state, err := orch.Run(ctx)
	if err != nil {
		return err
	}

	logger.Debug("hotfix complete", "summary", state.Summary())
	return nil
}

// newProvider builds the configured code host provider, reading the remote
// URL when the provider needs owner and repo.
func (a *app) newProvider(ctx context.Context, gitCtx *git.Context, settings config.Settings) (pr.Provider, error) {
	var remoteURL string
	if pr.NeedsRemoteURL(settings.Provider) {
		url, err := gitCtx.RemoteURL(ctx, settings.Remote)
		if err != nil {
			if ok, _ := gitCtx.IsRepository(ctx); !ok {
				return nil, herrors.NewNotInGitRepoError()
			}
			return nil, err
		}
		remoteURL = url
	}

	return pr.NewProvider(settings.Provider, remoteURL, pr.ProviderConfig{
		Runner:      gitCtx.Runner(),
		WorkDir:     gitCtx.WorkDir(),
		GitHubToken: settings.GitHubToken,
		GitLabToken: settings.GitLabToken,
		GitLabURL:   settings.GitLabURL,
	})
}

// mergeDelay maps a configured zero delay to "no wait"; the orchestrator
// treats an unset zero as its default.
func mergeDelay(s config.Settings) time.Duration {
	if s.MergeDelay == 0 {
		return -1
	}
	return s.MergeDelay
}
