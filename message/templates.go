package message

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Template names.
const (
	TemplateCommitFallback = "commit-fallback"
	TemplatePRBody         = "pr-body"
)

// TimestampLayout renders times shown to people (messages, PR bodies).
const TimestampLayout = "2006-01-02 15:04:05"

//go:embed templates/*.txt
var embeddedTemplates embed.FS

// Vars are the values available to every template.
type Vars struct {
	Timestamp string // Human-readable run time
	Branch    string // Generated branch name
	RunID     string // Run correlation ID
	Message   string // Resolved commit message (empty while resolving it)
}

// Loader loads and renders text templates.
// Override directories are searched first, then the embedded defaults.
type Loader struct {
	dirs    []string
	cache   map[string]*template.Template
	funcMap template.FuncMap
}

// NewLoader creates a template loader that searches dirs in order before
// falling back to the embedded templates. Empty entries are skipped.
func NewLoader(dirs ...string) *Loader {
	l := &Loader{
		cache:   make(map[string]*template.Template),
		funcMap: defaultFuncMap(),
	}
	for _, d := range dirs {
		if d != "" {
			l.dirs = append(l.dirs, d)
		}
	}
	return l
}

// Render loads the named template and executes it with vars.
// Surrounding whitespace is trimmed from the result.
func (l *Loader) Render(name string, vars Vars) (string, error) {
	tmpl, err := l.getTemplate(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Source reports where the named template would be loaded from: an override
// file path, or "embedded".
func (l *Loader) Source(name string) string {
	for _, dir := range l.dirs {
		path := filepath.Join(dir, name+".txt")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return "embedded"
}

func (l *Loader) getTemplate(name string) (*template.Template, error) {
	if tmpl, ok := l.cache[name]; ok {
		return tmpl, nil
	}

	content, err := l.loadRaw(name)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Funcs(l.funcMap).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}

	l.cache[name] = tmpl
	return tmpl, nil
}

func (l *Loader) loadRaw(name string) (string, error) {
	filename := name + ".txt"

	for _, dir := range l.dirs {
		data, err := os.ReadFile(filepath.Join(dir, filename))
		if err == nil {
			return string(data), nil
		}
	}

	data, err := embeddedTemplates.ReadFile("templates/" + filename)
	if err != nil {
		return "", fmt.Errorf("template not found: %s", name)
	}
	return string(data), nil
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"trim":    strings.TrimSpace,
		"upper":   strings.ToUpper,
		"lower":   strings.ToLower,
		"title":   cases.Title(language.English).String,
		"replace": strings.ReplaceAll,
		"default": defaultValue,
	}
}

func defaultValue(defaultVal, value string) string {
	if value == "" {
		return defaultVal
	}
	return value
}
