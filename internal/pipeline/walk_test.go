package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIgnored(t *testing.T) {
	patterns := []string{"vendor", "*.log", "build"}
	cases := []struct {
		rel  string
		want bool
	}{
		{".", false},
		{"src", false},
		{"vendor", true},
		{"src/vendor/pkg", true},
		{"debug.log", true},
		{"src/app.go", false},
		{".git", true},
		{".github/workflows", true},
		{"build", true},
	}
	for _, c := range cases {
		if got := Ignored(c.rel, patterns); got != c.want {
			t.Errorf("Ignored(%q) = %v, want %v", c.rel, got, c.want)
		}
	}
}

func TestLoadGitignore(t *testing.T) {
	dir := t.TempDir()
	content := "# comment\n\nvendor/\n*.log\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	got := LoadGitignore(dir)
	if len(got) != 2 || got[0] != "vendor" || got[1] != "*.log" {
		t.Errorf("patterns = %v", got)
	}
	if LoadGitignore(t.TempDir()) != nil {
		t.Errorf("missing .gitignore must yield nil")
	}
}

func TestCollectFolders_DepthOrder(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"b/deep/deeper", "a", "vendor/x"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	folders, err := CollectFolders(root, []string{"vendor"})
	if err != nil {
		t.Fatalf("CollectFolders: %v", err)
	}
	if folders[0] != "." {
		t.Fatalf("first folder = %q, want .", folders[0])
	}
	for i := 1; i < len(folders); i++ {
		prev := strings.Count(folders[i-1], string(filepath.Separator))
		cur := strings.Count(folders[i], string(filepath.Separator))
		if folders[i-1] != "." && cur < prev {
			t.Errorf("folders not depth-ordered: %v", folders)
		}
	}
	for _, f := range folders {
		if strings.HasPrefix(f, "vendor") {
			t.Errorf("ignored folder collected: %q", f)
		}
	}
}

func TestBuildTree(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, filepath.Join(root, "src"), "lib.go", "package src\n")
	writeFile(t, root, "debug.log", "noise")

	tree, err := BuildTree(root, []string{"*.log"})
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	if !strings.Contains(tree, "src/\n") {
		t.Errorf("directory missing trailing slash:\n%s", tree)
	}
	if !strings.Contains(tree, "    lib.go\n") {
		t.Errorf("nested file not indented:\n%s", tree)
	}
	if strings.Contains(tree, "debug.log") {
		t.Errorf("ignored file in tree:\n%s", tree)
	}
}
