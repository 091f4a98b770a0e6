package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Options configures a Resolver.
type Options struct {
	// EnvPrefix is prepended to upper-cased key names for environment lookup.
	// With "HOTFIX_", key "merge_delay" maps to HOTFIX_MERGE_DELAY.
	EnvPrefix string

	// GlobalPath is the user-wide config file. Empty disables the layer.
	GlobalPath string

	// LocalName is the per-repository config file name, looked up in the
	// git root found from StartDir. Empty disables the layer.
	LocalName string

	// StartDir is where the git root search begins. Defaults to ".".
	StartDir string

	// Defaults provides the value of every known key.
	Defaults map[string]string

	// LocalDenied lists keys that are ignored (with a warning) when they
	// appear in the local file, such as credentials.
	LocalDenied []string

	// WarnWriter receives warnings. Nil keeps them only in Warnings.
	WarnWriter io.Writer
}

// Resolver merges configuration layers.
// Priority (highest to lowest): flags > env > local > global > defaults.
type Resolver struct {
	opts      Options
	gitRoot   string
	localPath string

	// Warnings collects non-fatal issues found while resolving.
	Warnings []string
}

// NewResolver creates a resolver, locating the git root for the local layer.
func NewResolver(opts Options) *Resolver {
	if opts.StartDir == "" {
		opts.StartDir = "."
	}
	r := &Resolver{opts: opts}
	if root := findGitRoot(opts.StartDir); root != "" {
		r.gitRoot = root
		if opts.LocalName != "" {
			r.localPath = filepath.Join(root, opts.LocalName)
		}
	}
	return r
}

// Value is a resolved configuration value and where it came from.
type Value struct {
	Value  string
	Source Source
}

// Resolved holds the final merged configuration.
type Resolved struct {
	values map[string]Value
}

// Get returns the value for a key, or "" if it is unset.
func (c *Resolved) Get(key string) string {
	return c.values[key].Value
}

// Source returns where a key's value came from.
func (c *Resolved) Source(key string) Source {
	return c.values[key].Source
}

// Keys returns every key in sorted order.
func (c *Resolved) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Resolved) set(key, value string, src Source) {
	c.values[key] = Value{Value: value, Source: src}
}

// Resolve merges all layers. Non-empty flag values override everything.
func (r *Resolver) Resolve(flags map[string]string) *Resolved {
	cfg := &Resolved{values: make(map[string]Value)}

	for k, v := range r.opts.Defaults {
		cfg.set(k, v, SourceDefault)
	}
	r.applyFile(cfg, r.opts.GlobalPath, SourceGlobal, nil)
	r.applyFile(cfg, r.localPath, SourceLocal, r.opts.LocalDenied)
	r.applyEnv(cfg)

	for k, v := range flags {
		if v != "" {
			cfg.set(k, v, SourceFlag)
		}
	}
	return cfg
}

func (r *Resolver) applyFile(cfg *Resolved, path string, src Source, denied []string) {
	if path == "" {
		return
	}
	values, err := readFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.warn("could not read %s: %v", path, err)
		}
		return
	}
	for k, v := range values {
		if contains(denied, k) {
			r.warn("ignoring %q in %s; set it in the global config or the environment", k, path)
			continue
		}
		if v != "" {
			cfg.set(k, v, src)
		}
	}
}

func (r *Resolver) applyEnv(cfg *Resolved) {
	if r.opts.EnvPrefix != "" {
		for _, key := range cfg.Keys() {
			name := r.opts.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
			if v := os.Getenv(name); v != "" {
				cfg.set(key, v, SourceEnv)
			}
		}
	}

	// https://no-color.org
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.set("no_color", "true", SourceEnv)
	}
}

func (r *Resolver) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	if r.opts.WarnWriter != nil {
		fmt.Fprintf(r.opts.WarnWriter, "Warning: %s\n", msg)
	}
}

// GitRoot returns the detected git root directory, or "".
func (r *Resolver) GitRoot() string {
	return r.gitRoot
}

// GlobalPath returns the path to the global config file.
func (r *Resolver) GlobalPath() string {
	return r.opts.GlobalPath
}

// LocalPath returns the path to the local config file, or "" outside a repository.
func (r *Resolver) LocalPath() string {
	return r.localPath
}

// readFile parses a flat YAML mapping into strings.
func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}

	values := make(map[string]string, len(parsed))
	for k, v := range parsed {
		values[k] = toString(v)
	}
	return values, nil
}

func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(val)
	default:
		return ""
	}
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// findGitRoot walks up from startDir to the directory holding .git, which
// may be a directory or, for worktrees, a file.
func findGitRoot(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
