package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrMalformedSnapshot = errors.New("malformed project data")

// ParseSnapshot decodes a project document. It accepts either an object with
// a "pages" array (and optional "name") or a bare array of pages.
func ParseSnapshot(data []byte) (Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Snapshot{}, fmt.Errorf("%w: empty input", ErrMalformedSnapshot)
	}

	if data[0] == '[' {
		var pages []Page
		if err := json.Unmarshal(data, &pages); err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
		return Snapshot{Pages: pages}, nil
	}

	var raw struct {
		Name  string          `json:"name"`
		Pages json.RawMessage `json:"pages"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	pagesJSON := bytes.TrimSpace(raw.Pages)
	if len(pagesJSON) == 0 || pagesJSON[0] != '[' {
		return Snapshot{}, fmt.Errorf("%w: pages must be an array", ErrMalformedSnapshot)
	}
	var pages []Page
	if err := json.Unmarshal(pagesJSON, &pages); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return Snapshot{Name: raw.Name, Pages: pages}, nil
}

// ReadFile loads a project document from disk.
func ReadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading project file: %w", err)
	}
	s, err := ParseSnapshot(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

// WriteFile stores a project document as indented JSON, replacing the file
// atomically.
func WriteFile(path string, s Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding project: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".project-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing project file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing project file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing project file: %w", err)
	}
	return nil
}
