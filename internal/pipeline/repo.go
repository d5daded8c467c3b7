package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"codetale/internal/config"
	"codetale/internal/llm"
)

// FolderSummary is one folder's entry in the repository record.
type FolderSummary struct {
	FolderName     string `json:"folder_name"`
	FolderOverview string `json:"folder_overview"`
}

// RepoDoc is the persisted repository-level record.
type RepoDoc struct {
	ProjectName     string          `json:"project_name"`
	ProjectOverview string          `json:"project_overview"`
	Folders         []FolderSummary `json:"folders"`
}

// RepoProcessor documents a whole project: every folder in depth
// order, then a root README assembled from the folder overviews, the
// project tree, and whatever the original README had to say.
type RepoProcessor struct {
	folders *FolderProcessor
	files   *FileProcessor
	log     *slog.Logger
	cfg     config.Config
}

func NewRepoProcessor(completer llm.Completer, store Store, log *slog.Logger, cfg config.Config, fuseDocs bool) *RepoProcessor {
	return &RepoProcessor{
		folders: NewFolderProcessor(completer, store, log, cfg, fuseDocs),
		files:   NewFileProcessor(completer, store, log, cfg, fuseDocs),
		log:     log,
		cfg:     cfg,
	}
}

// Process documents the repository rooted at root, mirroring its
// folder layout under outRoot. Folder failures are contained: a folder
// that errors is logged and left out of the root README.
func (p *RepoProcessor) Process(ctx context.Context, root, outRoot string) ([]Outcome, error) {
	patterns := LoadGitignore(root)

	// Snapshot the layout before anything is written or renamed; an
	// in-place run would otherwise list its own artifacts in the tree.
	tree, err := BuildTree(root, patterns)
	if err != nil {
		return nil, fmt.Errorf("project tree: %w", err)
	}

	original := p.preserveReadme(root, outRoot)

	folders, err := CollectFolders(root, patterns)
	if err != nil {
		return nil, fmt.Errorf("collect folders: %w", err)
	}

	var all []Outcome
	var summaries []FolderSummary
	for _, rel := range folders {
		saveDir := filepath.Join(outRoot, rel)
		fdoc, outcomes, err := p.folders.Process(ctx, filepath.Join(root, rel), saveDir)
		all = append(all, outcomes...)
		if err != nil {
			p.log.Error("folder failed", "folder", rel, "error", err)
			continue
		}
		if fdoc.FolderOverview != "" {
			summaries = append(summaries, FolderSummary{
				FolderName:     rel,
				FolderOverview: fdoc.FolderOverview,
			})
		}
	}

	if len(summaries) == 0 {
		p.log.Info("no folder overviews, skipping root readme")
		return all, nil
	}

	overview, err := p.files.Summarize(ctx, "root-level", renderOverviews(summaries), p.cfg.SummaryChunkSize)
	if err != nil {
		return all, fmt.Errorf("root overview: %w", err)
	}

	readme := composeRootReadme(overview, summaries, tree, original)
	record := RepoDoc{
		ProjectName:     filepath.Base(root),
		ProjectOverview: overview,
		Folders:         summaries,
	}
	if err := WriteJSON(filepath.Join(outRoot, "root_level.json"), record); err != nil {
		return all, err
	}
	if err := os.WriteFile(filepath.Join(outRoot, "README.md"), []byte(readme), 0o644); err != nil {
		return all, fmt.Errorf("write root readme: %w", err)
	}
	p.log.Info("root readme written", "folders", len(summaries))
	return all, nil
}

// preserveReadme returns the original README's contents and, when the
// output root would overwrite it in place, renames it to
// old_readme.md first. Both casings are in the wild.
func (p *RepoProcessor) preserveReadme(root, outRoot string) string {
	for _, name := range []string{"README.md", "readme.md"} {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		absRoot, err1 := filepath.Abs(root)
		absOut, err2 := filepath.Abs(outRoot)
		if err1 == nil && err2 == nil && absRoot == absOut {
			if err := os.Rename(path, filepath.Join(root, "old_readme.md")); err != nil {
				p.log.Warn("could not preserve original readme", "error", err)
			}
		}
		return string(data)
	}
	return ""
}

func renderOverviews(summaries []FolderSummary) string {
	var b strings.Builder
	for _, s := range summaries {
		fmt.Fprintf(&b, "- %s: %s\n", s.FolderName, s.FolderOverview)
	}
	return b.String()
}

// composeRootReadme assembles the final README: overview, per-folder
// sections, the project tree in a fenced block, and the filtered
// original README under "Extra notes".
func composeRootReadme(overview string, summaries []FolderSummary, tree, original string) string {
	var b strings.Builder
	b.WriteString(overview)
	b.WriteString("\n\n## Folders\n")
	for _, s := range summaries {
		fmt.Fprintf(&b, "\n### %s\n\n%s\n", s.FolderName, s.FolderOverview)
	}
	b.WriteString("\n## Project Tree\n```bash\n.\n")
	b.WriteString(tree)
	b.WriteString("```\n")
	if filtered := StripTopHeadings(original); strings.TrimSpace(filtered) != "" {
		b.WriteString("\n## Extra notes\n\n")
		b.WriteString(filtered)
		if !strings.HasSuffix(filtered, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}
