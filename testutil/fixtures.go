// Package testutil provides temporary git repositories and small helpers for
// tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// TempFile creates a temporary file with the given content and returns its
// path. The file is removed when the test ends.
func TempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create temp file %s: %v", name, err)
	}
	return path
}

// WriteTemplates writes name.txt files into dir, creating it as needed.
// Used to override the embedded commit and PR templates.
func WriteTemplates(t *testing.T, dir string, templates map[string]string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create template dir %s: %v", dir, err)
	}
	for name, body := range templates {
		path := filepath.Join(dir, name+".txt")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("failed to write template %s: %v", name, err)
		}
	}
}

// WriteConfig marshals values as YAML to path.
func WriteConfig(t *testing.T, path string, values map[string]any) {
	t.Helper()

	data, err := yaml.Marshal(values)
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write config %s: %v", path, err)
	}
}
