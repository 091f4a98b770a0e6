package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// newRepo creates a directory with a .git marker and returns its path.
func newRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolver_Defaults(t *testing.T) {
	r := NewResolver(Options{
		StartDir: t.TempDir(),
		Defaults: map[string]string{"trunk": "main"},
	})

	cfg := r.Resolve(nil)
	if got := cfg.Get("trunk"); got != "main" {
		t.Errorf("trunk = %q, want %q", got, "main")
	}
	if got := cfg.Source("trunk"); got != SourceDefault {
		t.Errorf("source = %q, want %q", got, SourceDefault)
	}
}

func TestResolver_Priority(t *testing.T) {
	repo := newRepo(t)
	global := filepath.Join(t.TempDir(), "config.yaml")

	writeFile(t, global, "trunk: develop\nremote: upstream\nprovider: gitlab\n")
	writeFile(t, filepath.Join(repo, ".hotfix.yaml"), "remote: fork\nprovider: github\n")
	t.Setenv("TESTHF_PROVIDER", "auto")

	r := NewResolver(Options{
		EnvPrefix:  "TESTHF_",
		GlobalPath: global,
		LocalName:  ".hotfix.yaml",
		StartDir:   repo,
		Defaults: map[string]string{
			"trunk":       "main",
			"remote":      "origin",
			"provider":    "gh",
			"merge_delay": "2s",
		},
	})

	cfg := r.Resolve(map[string]string{"merge_delay": "0s", "trunk": ""})

	tests := []struct {
		key    string
		value  string
		source Source
	}{
		{"trunk", "develop", SourceGlobal},
		{"remote", "fork", SourceLocal},
		{"provider", "auto", SourceEnv},
		{"merge_delay", "0s", SourceFlag},
	}
	for _, tt := range tests {
		if got, src := cfg.Get(tt.key), cfg.Source(tt.key); got != tt.value || src != tt.source {
			t.Errorf("%s = (%q, %s), want (%q, %s)", tt.key, got, src, tt.value, tt.source)
		}
	}

	if r.GitRoot() != repo {
		t.Errorf("GitRoot() = %q, want %q", r.GitRoot(), repo)
	}
	if r.LocalPath() != filepath.Join(repo, ".hotfix.yaml") {
		t.Errorf("LocalPath() = %q", r.LocalPath())
	}
}

func TestResolver_LocalFromSubdirectory(t *testing.T) {
	repo := newRepo(t)
	sub := filepath.Join(repo, "pkg", "deep")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(repo, ".hotfix.yaml"), "trunk: release\n")

	cfg := NewResolver(Options{LocalName: ".hotfix.yaml", StartDir: sub, Defaults: map[string]string{"trunk": "main"}}).Resolve(nil)
	if got := cfg.Get("trunk"); got != "release" {
		t.Errorf("trunk = %q, want %q", got, "release")
	}
}

func TestResolver_LocalDeniedKeys(t *testing.T) {
	repo := newRepo(t)
	writeFile(t, filepath.Join(repo, ".hotfix.yaml"), "github_token: leaked\ntrunk: main\n")

	var warn bytes.Buffer
	r := NewResolver(Options{
		LocalName:   ".hotfix.yaml",
		StartDir:    repo,
		Defaults:    map[string]string{"github_token": "", "trunk": "x"},
		LocalDenied: []string{"github_token"},
		WarnWriter:  &warn,
	})
	cfg := r.Resolve(nil)

	if got := cfg.Get("github_token"); got != "" {
		t.Errorf("github_token = %q, want it ignored", got)
	}
	if got := cfg.Get("trunk"); got != "main" {
		t.Errorf("trunk = %q, want %q", got, "main")
	}
	if len(r.Warnings) != 1 || !strings.Contains(warn.String(), "github_token") {
		t.Errorf("Warnings = %v, output = %q", r.Warnings, warn.String())
	}
}

func TestResolver_MalformedFile(t *testing.T) {
	global := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, global, "trunk: [unclosed\n")

	r := NewResolver(Options{GlobalPath: global, StartDir: t.TempDir(), Defaults: map[string]string{"trunk": "main"}})
	cfg := r.Resolve(nil)

	if got := cfg.Get("trunk"); got != "main" {
		t.Errorf("trunk = %q, want default", got)
	}
	if len(r.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one", r.Warnings)
	}
}

func TestResolver_ScalarTypes(t *testing.T) {
	global := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, global, "no_color: true\nport: 8080\nempty:\n")

	cfg := NewResolver(Options{GlobalPath: global, StartDir: t.TempDir()}).Resolve(nil)

	if got := cfg.Get("no_color"); got != "true" {
		t.Errorf("no_color = %q, want %q", got, "true")
	}
	if got := cfg.Get("port"); got != "8080" {
		t.Errorf("port = %q, want %q", got, "8080")
	}
	if got := cfg.Source("empty"); got != "" {
		t.Errorf("empty source = %q, want unset", got)
	}
}

func TestResolver_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	cfg := NewResolver(Options{StartDir: t.TempDir(), Defaults: map[string]string{"no_color": "false"}}).Resolve(nil)
	if got := cfg.Get("no_color"); got != "true" {
		t.Errorf("no_color = %q, want %q", got, "true")
	}
	if got := cfg.Source("no_color"); got != SourceEnv {
		t.Errorf("source = %q, want %q", got, SourceEnv)
	}
}

func TestResolved_Keys(t *testing.T) {
	cfg := NewResolver(Options{StartDir: t.TempDir(), Defaults: map[string]string{"b": "1", "a": "2"}}).Resolve(nil)

	if got := cfg.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Keys() = %v, want sorted", got)
	}
}

func TestFindGitRoot(t *testing.T) {
	repo := newRepo(t)
	sub := filepath.Join(repo, "a", "b")
	_ = os.MkdirAll(sub, 0o755)

	if got := findGitRoot(sub); got != repo {
		t.Errorf("findGitRoot() = %q, want %q", got, repo)
	}
}

func TestFindGitRoot_WorktreeFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".git"), "gitdir: /elsewhere/.git/worktrees/x\n")

	if got := findGitRoot(dir); got != dir {
		t.Errorf("findGitRoot() = %q, want %q", got, dir)
	}
}
