package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Configuration keys.
const (
	KeyTrunk        = "trunk"
	KeyRemote       = "remote"
	KeyProvider     = "provider"
	KeyGenerator    = "generator"
	KeyMergeDelay   = "merge_delay"
	KeyTemplatesDir = "templates_dir"
	KeyGitHubToken  = "github_token"
	KeyGitLabToken  = "gitlab_token"
	KeyGitLabURL    = "gitlab_url"
	KeySlackWebhook = "slack_webhook"
	KeyWebhookURL   = "webhook_url"
	KeyNoColor      = "no_color"
)

// Names used to locate config files and environment variables.
const (
	EnvPrefix     = "HOTFIX_"
	AppDir        = "hotfix"
	LocalFileName = ".hotfix.yaml"
)

// Defaults returns the built-in value of every key.
func Defaults() map[string]string {
	return map[string]string{
		KeyTrunk:        "main",
		KeyRemote:       "origin",
		KeyProvider:     "gh",
		KeyGenerator:    "",
		KeyMergeDelay:   "2s",
		KeyTemplatesDir: filepath.Join(".hotfix", "templates"),
		KeyGitHubToken:  "",
		KeyGitLabToken:  "",
		KeyGitLabURL:    "",
		KeySlackWebhook: "",
		KeyWebhookURL:   "",
		KeyNoColor:      "false",
	}
}

// Keys returns every known key.
func Keys() []string {
	return []string{
		KeyTrunk, KeyRemote, KeyProvider, KeyGenerator, KeyMergeDelay,
		KeyTemplatesDir, KeyGitHubToken, KeyGitLabToken, KeyGitLabURL,
		KeySlackWebhook, KeyWebhookURL, KeyNoColor,
	}
}

// SecretKeys are never read from or written to the shared local file.
func SecretKeys() []string {
	return []string{KeyGitHubToken, KeyGitLabToken, KeySlackWebhook}
}

// GlobalConfigPath returns ~/.config/hotfix/config.yaml, or "" when the home
// directory is unknown.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppDir, "config.yaml")
}

// NewHotfixResolver creates the resolver for this tool, starting the git
// root search at startDir.
func NewHotfixResolver(startDir string, warn io.Writer) *Resolver {
	return NewResolver(Options{
		EnvPrefix:   EnvPrefix,
		GlobalPath:  GlobalConfigPath(),
		LocalName:   LocalFileName,
		StartDir:    startDir,
		Defaults:    Defaults(),
		LocalDenied: SecretKeys(),
		WarnWriter:  warn,
	})
}

// NewHotfixStore creates a Store matching the resolver's files.
func NewHotfixStore(r *Resolver) Store {
	return Store{
		GlobalPath:  r.GlobalPath(),
		LocalPath:   r.LocalPath(),
		Keys:        Keys(),
		LocalDenied: SecretKeys(),
	}
}

// Settings is the typed view of a resolved configuration.
type Settings struct {
	Trunk        string
	Remote       string
	Provider     string
	Generator    string
	MergeDelay   time.Duration
	TemplatesDir string
	GitHubToken  string
	GitLabToken  string
	GitLabURL    string
	SlackWebhook string
	WebhookURL   string
	NoColor      bool
}

var validProviders = []string{"gh", "github", "gitlab", "auto"}

// LoadSettings converts and validates resolved values.
func LoadSettings(cfg *Resolved) (Settings, error) {
	s := Settings{
		Trunk:        cfg.Get(KeyTrunk),
		Remote:       cfg.Get(KeyRemote),
		Provider:     cfg.Get(KeyProvider),
		Generator:    cfg.Get(KeyGenerator),
		TemplatesDir: cfg.Get(KeyTemplatesDir),
		GitHubToken:  cfg.Get(KeyGitHubToken),
		GitLabToken:  cfg.Get(KeyGitLabToken),
		GitLabURL:    cfg.Get(KeyGitLabURL),
		SlackWebhook: cfg.Get(KeySlackWebhook),
		WebhookURL:   cfg.Get(KeyWebhookURL),
	}

	if s.Trunk == "" {
		return Settings{}, fmt.Errorf("%s must not be empty", KeyTrunk)
	}
	if s.Remote == "" {
		return Settings{}, fmt.Errorf("%s must not be empty", KeyRemote)
	}
	if !contains(validProviders, s.Provider) {
		return Settings{}, fmt.Errorf("invalid %s %q (from %s): want one of gh, github, gitlab, auto",
			KeyProvider, s.Provider, cfg.Source(KeyProvider))
	}

	delay, err := time.ParseDuration(cfg.Get(KeyMergeDelay))
	if err != nil || delay < 0 {
		return Settings{}, fmt.Errorf("invalid %s %q (from %s): want a duration such as 2s",
			KeyMergeDelay, cfg.Get(KeyMergeDelay), cfg.Source(KeyMergeDelay))
	}
	s.MergeDelay = delay

	if v := cfg.Get(KeyNoColor); v != "" {
		noColor, err := strconv.ParseBool(v)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid %s %q: want true or false", KeyNoColor, v)
		}
		s.NoColor = noColor
	}

	return s, nil
}

// TemplateDir returns TemplatesDir, joined to root when it is relative.
func (s Settings) TemplateDir(root string) string {
	if s.TemplatesDir == "" || filepath.IsAbs(s.TemplatesDir) || root == "" {
		return s.TemplatesDir
	}
	return filepath.Join(root, s.TemplatesDir)
}
