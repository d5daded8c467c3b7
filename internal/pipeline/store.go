package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"codetale/internal/doc"
)

// Store persists per-file artifacts as JSON files under an output
// directory. An existing artifact doubles as the reprocessing
// skip-cache.
type Store struct{}

// artifactPath is <saveDir>/<filename>.json, keeping the source name.
func (Store) artifactPath(saveDir, filename string) string {
	return filepath.Join(saveDir, filename+".json")
}

// Exists reports whether an artifact was already written for filename.
func (s Store) Exists(saveDir, filename string) bool {
	_, err := os.Stat(s.artifactPath(saveDir, filename))
	return err == nil
}

// Save writes the artifact, creating the directory as needed.
func (s Store) Save(saveDir, filename string, fd doc.FileDoc) error {
	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if fd.Errors == nil {
		fd.Errors = []string{}
	}
	data, err := json.MarshalIndent(fd, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	if err := os.WriteFile(s.artifactPath(saveDir, filename), data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// Load reads an artifact back.
func (s Store) Load(saveDir, filename string) (doc.FileDoc, error) {
	data, err := os.ReadFile(s.artifactPath(saveDir, filename))
	if err != nil {
		return doc.FileDoc{}, fmt.Errorf("read artifact: %w", err)
	}
	var fd doc.FileDoc
	if err := json.Unmarshal(data, &fd); err != nil {
		return doc.FileDoc{}, fmt.Errorf("parse artifact: %w", err)
	}
	return fd, nil
}

// WriteJSON persists an arbitrary folder- or root-level record.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
