package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store writes single keys to the global or local config file.
type Store struct {
	GlobalPath  string   // User-wide file, written 0600
	LocalPath   string   // Repository file, written 0644
	Keys        []string // Known keys; others are rejected
	LocalDenied []string // Keys that may not be written to the local file
}

// Set writes key to the global file when global is true, else the local file.
func (s Store) Set(global bool, key, value string) (string, error) {
	if len(s.Keys) > 0 && !contains(s.Keys, key) {
		return "", fmt.Errorf("unknown config key: %s\n\nValid keys: %s", key, strings.Join(s.Keys, ", "))
	}

	if global {
		if s.GlobalPath == "" {
			return "", fmt.Errorf("global config path not available")
		}
		return s.GlobalPath, writeKey(s.GlobalPath, key, value, 0o600)
	}

	if s.LocalPath == "" {
		return "", fmt.Errorf("not inside a git repository; use --global")
	}
	if contains(s.LocalDenied, key) {
		return "", fmt.Errorf("%s must not be committed to the repository; use --global", key)
	}
	// Local config is shared and should be readable
	return s.LocalPath, writeKey(s.LocalPath, key, value, 0o644) //nolint:gosec
}

// Unset removes key from the global or local file. A missing file is not an error.
func (s Store) Unset(global bool, key string) error {
	path := s.LocalPath
	perm := os.FileMode(0o644)
	if global {
		path, perm = s.GlobalPath, 0o600
	}
	if path == "" {
		return nil
	}

	existing, err := readRaw(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if _, ok := existing[key]; !ok {
		return nil
	}
	delete(existing, key)
	return writeRaw(path, existing, perm)
}

func writeKey(path, key, value string, perm os.FileMode) error {
	existing, err := readRaw(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if existing == nil {
		existing = make(map[string]any)
	}
	existing[key] = parseValue(value)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return writeRaw(path, existing, perm)
}

func readRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var existing map[string]any
	if err := yaml.Unmarshal(data, &existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func writeRaw(path string, values map[string]any, perm os.FileMode) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

// parseValue stores booleans as YAML booleans and everything else as strings.
func parseValue(value string) any {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}
