package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"codetale/internal/config"
	"codetale/internal/lang"
	"codetale/internal/llm"
)

// FileSummary is one file's entry in a folder record.
type FileSummary struct {
	FileName        string `json:"file_name"`
	FileDescription string `json:"file_description"`
}

// FolderDoc is the persisted folder-level record: the generated
// overview plus the per-file summaries it was built from.
type FolderDoc struct {
	FolderName     string        `json:"folder_name"`
	FolderOverview string        `json:"folder_overview"`
	Files          []FileSummary `json:"files"`
}

// FolderProcessor documents every supported source file directly in a
// folder, then generates the folder README and overview from the
// per-file descriptions.
type FolderProcessor struct {
	files *FileProcessor
	store Store
	log   *slog.Logger
	cfg   config.Config
}

func NewFolderProcessor(completer llm.Completer, store Store, log *slog.Logger, cfg config.Config, fuseDocs bool) *FolderProcessor {
	return &FolderProcessor{
		files: NewFileProcessor(completer, store, log, cfg, fuseDocs),
		store: store,
		log:   log,
		cfg:   cfg,
	}
}

// Process documents the folder's files in sorted name order and writes
// folder_level.json and README.md under saveDir. File failures are
// logged and do not stop the folder. The returned FolderDoc is empty
// when no file produced a description.
func (p *FolderProcessor) Process(ctx context.Context, folder, saveDir string) (FolderDoc, []Outcome, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return FolderDoc{}, nil, fmt.Errorf("read folder: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if lang.Supported(filepath.Ext(e.Name())) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var outcomes []Outcome
	var summaries []FileSummary
	for _, name := range names {
		out := p.files.Process(ctx, filepath.Join(folder, name), saveDir)
		outcomes = append(outcomes, out)
		switch out.Status {
		case StatusFailed:
			p.log.Error("file failed", "file", out.Path, "reason", out.Reason, "error", out.Err)
			continue
		case StatusSkipped:
			p.log.Info("file skipped", "file", out.Path, "reason", out.Reason)
		}
		if out.Doc != nil && out.Doc.Description != "" {
			summaries = append(summaries, FileSummary{
				FileName:        name,
				FileDescription: out.Doc.Description,
			})
		}
	}

	if len(summaries) == 0 {
		p.log.Info("no file descriptions, skipping folder record", "folder", folder)
		return FolderDoc{}, outcomes, nil
	}

	readme, err := p.files.Summarize(ctx, "folder-level", renderSummaries(summaries), p.cfg.SummaryChunkSize)
	if err != nil {
		return FolderDoc{}, outcomes, fmt.Errorf("folder readme: %w", err)
	}
	overview, err := p.files.Summarize(ctx, "folder-description", readme, p.cfg.SummaryChunkSize)
	if err != nil {
		return FolderDoc{}, outcomes, fmt.Errorf("folder overview: %w", err)
	}

	fdoc := FolderDoc{
		FolderName:     filepath.Base(folder),
		FolderOverview: overview,
		Files:          summaries,
	}
	if err := WriteJSON(filepath.Join(saveDir, "folder_level.json"), fdoc); err != nil {
		return FolderDoc{}, outcomes, err
	}
	if err := os.WriteFile(filepath.Join(saveDir, "README.md"), []byte(readme+"\n"), 0o644); err != nil {
		return FolderDoc{}, outcomes, fmt.Errorf("write folder readme: %w", err)
	}
	return fdoc, outcomes, nil
}

// renderSummaries lays the per-file descriptions out as a plain list
// for the folder-level prompt.
func renderSummaries(summaries []FileSummary) string {
	var b strings.Builder
	for _, s := range summaries {
		fmt.Fprintf(&b, "- %s: %s\n", s.FileName, s.FileDescription)
	}
	return b.String()
}
