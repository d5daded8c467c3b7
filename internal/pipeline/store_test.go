package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"codetale/internal/doc"
)

func TestStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := Store{}

	fd := doc.FileDoc{
		Description: "A parser.",
		Elements: []doc.DocumentedElement{
			{Name: "Parser", Kind: doc.KindClass, Documentation: "Parser reads tokens."},
		},
	}
	if s.Exists(dir, "parser.go") {
		t.Fatalf("Exists before Save")
	}
	if err := s.Save(dir, "parser.go", fd); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !s.Exists(dir, "parser.go") {
		t.Fatalf("Exists after Save = false")
	}

	got, err := s.Load(dir, "parser.go")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Description != fd.Description || len(got.Elements) != 1 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestStore_NormalizesNilErrors(t *testing.T) {
	dir := t.TempDir()
	s := Store{}
	if err := s.Save(dir, "a.go", doc.FileDoc{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "a.go.json"))
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["errors"]) != "[]" {
		t.Errorf("errors field = %s, want []", raw["errors"])
	}
}

func TestStore_CreatesNestedDirs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deep", "nested")
	s := Store{}
	if err := s.Save(dir, "x.py", doc.FileDoc{Description: "d"}); err != nil {
		t.Fatalf("Save into nested dir: %v", err)
	}
	if !s.Exists(dir, "x.py") {
		t.Errorf("artifact missing after nested Save")
	}
}
