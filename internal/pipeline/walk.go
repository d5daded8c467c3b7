package pipeline

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadGitignore reads the project's .gitignore patterns, if any.
// Comments and blank lines are dropped; a missing file yields nil.
func LoadGitignore(root string) []string {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, strings.TrimSuffix(line, "/"))
	}
	return patterns
}

// Ignored reports whether a path relative to the project root matches
// an ignore pattern. Matching is name-based: each segment is tested
// against each pattern with filepath.Match. The .git directory and
// hidden directories are always ignored.
func Ignored(rel string, patterns []string) bool {
	if rel == "." || rel == "" {
		return false
	}
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		if seg == ".git" || (strings.HasPrefix(seg, ".") && seg != ".") {
			return true
		}
		for _, pat := range patterns {
			if ok, _ := filepath.Match(pat, seg); ok {
				return true
			}
		}
	}
	return false
}

// CollectFolders lists every non-ignored folder under root, relative
// to root, ordered by depth so parents are documented before their
// children. The root itself comes first as ".".
func CollectFolders(root string, patterns []string) ([]string, error) {
	var folders []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if Ignored(rel, patterns) {
			return filepath.SkipDir
		}
		folders = append(folders, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(folders, func(i, j int) bool {
		return strings.Count(folders[i], string(filepath.Separator)) <
			strings.Count(folders[j], string(filepath.Separator))
	})
	return folders, nil
}

// BuildTree renders the project layout as an indented listing, four
// spaces per level, directories with a trailing slash. Ignored entries
// are left out.
func BuildTree(root string, patterns []string) (string, error) {
	var b strings.Builder
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if Ignored(rel, patterns) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		depth := strings.Count(rel, string(filepath.Separator))
		b.WriteString(strings.Repeat("    ", depth))
		b.WriteString(d.Name())
		if d.IsDir() {
			b.WriteString("/")
		}
		b.WriteString("\n")
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
