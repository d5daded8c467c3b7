package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"codetale/internal/aggregator"
	"codetale/internal/budget"
	"codetale/internal/chunker"
	"codetale/internal/config"
	"codetale/internal/doc"
	"codetale/internal/extract"
	"codetale/internal/fuse"
	"codetale/internal/llm"
)

// FileProcessor runs the whole pipeline for one source file: split,
// extract, merge, document, fuse, persist, and optionally re-inject
// the documentation into the source.
type FileProcessor struct {
	completer  llm.Completer
	extractor  *extract.Extractor
	documenter *fuse.Documenter
	store      Store
	log        *slog.Logger
	cfg        config.Config
	fuseDocs   bool
}

func NewFileProcessor(completer llm.Completer, store Store, log *slog.Logger, cfg config.Config, fuseDocs bool) *FileProcessor {
	return &FileProcessor{
		completer:  completer,
		extractor:  extract.NewExtractor(completer),
		documenter: fuse.NewDocumenter(completer),
		store:      store,
		log:        log,
		cfg:        cfg,
		fuseDocs:   fuseDocs,
	}
}

// Process documents one file, writing its artifact under saveDir.
// Chunks are handled in fixed order end to end; extraction and
// documentation calls fan out, but results are re-sorted into chunk
// order before merging and fusing.
func (p *FileProcessor) Process(ctx context.Context, path, saveDir string) Outcome {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	log := p.log.With("file", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return failed(path, "read", err)
	}
	code := string(data)

	if code == "" {
		return skipped(path, "empty file", &doc.FileDoc{})
	}

	// An existing artifact short-circuits the whole pipeline.
	if p.store.Exists(saveDir, name) {
		fd, err := p.store.Load(saveDir, name)
		if err != nil {
			return failed(path, "load cached artifact", err)
		}
		log.Info("artifact exists, skipping", "artifact", name+".json")
		if p.fuseDocs {
			p.inject(code, ext, name, saveDir, fd, log)
		}
		return cached(path, &fd)
	}

	// Files without an extension get a plain description, no element
	// pipeline.
	if ext == "" {
		description, err := p.summarize(ctx, "unknown-top-level", code, p.cfg.SummaryChunkSize)
		if err != nil {
			return failed(path, "describe", err)
		}
		return completed(path, &doc.FileDoc{Description: description})
	}

	coarse := chunker.SplitCode(code, ext, p.cfg.CoarseChunkSize, doc.Coarse)
	fine := chunker.SplitCode(code, ext, p.cfg.FineChunkSize, doc.Fine)

	sets, err := p.extractAll(ctx, name, coarse, log)
	if err != nil {
		return failed(path, "extract", err)
	}
	elements := extract.Merge(sets)

	var fragments []doc.Fragment
	if elements.HasElements() {
		fragments, err = p.documentAll(ctx, name, fine, elements, log)
		if err != nil {
			return failed(path, "document", err)
		}
	}

	fd, fuseErrs := fuse.Fuse(fragments, elements)
	if len(fuseErrs) > 0 {
		log.Warn("fragments could not be matched", "count", len(fuseErrs))
	}

	if elements.Summary != "" {
		fd.Description, err = p.summarize(ctx, "top-level", elements.Summary, p.cfg.SummaryChunkSize)
		if err != nil {
			return failed(path, "describe", err)
		}
	}

	if err := p.store.Save(saveDir, name, fd); err != nil {
		return failed(path, "save artifact", err)
	}
	log.Info("artifact saved", "elements", len(fd.Elements), "errors", len(fd.Errors))

	if p.fuseDocs {
		p.inject(code, ext, name, saveDir, fd, log)
	}

	if !elements.HasElements() && fd.Description == "" {
		return skipped(path, "no extractable elements", &fd)
	}
	return completed(path, &fd)
}

// extractAll fans extraction out over the coarse chunks with bounded
// concurrency, returning the surviving element sets in chunk order.
// Gaps cost coverage only; budget exhaustion fails the file.
func (p *FileProcessor) extractAll(ctx context.Context, name string, chunks []doc.Chunk, log *slog.Logger) ([]doc.ElementSet, error) {
	sets := make([]doc.ElementSet, len(chunks))
	got := make([]bool, len(chunks))

	err := p.fanOut(ctx, len(chunks), p.cfg.MaxConcurrentExtract, func(i int) error {
		var set doc.ElementSet
		err := withRetry(ctx, func() error {
			var e error
			set, e = p.extractor.Extract(ctx, name, chunks[i])
			return e
		})
		if err != nil {
			if isFatal(err) {
				return err
			}
			log.Warn("extraction gap", "chunk", i, "error", err)
			return nil
		}
		sets[i], got[i] = set, true
		return nil
	})
	if err != nil {
		return nil, err
	}

	ordered := make([]doc.ElementSet, 0, len(chunks))
	for i := range sets {
		if got[i] {
			ordered = append(ordered, sets[i])
		}
	}
	return ordered, nil
}

// documentAll fans documentation out over the fine chunks, returning
// the fragments in chunk order.
func (p *FileProcessor) documentAll(ctx context.Context, name string, chunks []doc.Chunk, elements doc.Elements, log *slog.Logger) ([]doc.Fragment, error) {
	fragments := make([]doc.Fragment, len(chunks))
	got := make([]bool, len(chunks))

	err := p.fanOut(ctx, len(chunks), p.cfg.MaxConcurrentDocument, func(i int) error {
		var frag doc.Fragment
		err := withRetry(ctx, func() error {
			var e error
			frag, e = p.documenter.Document(ctx, name, chunks[i], elements)
			return e
		})
		if err != nil {
			if isFatal(err) {
				return err
			}
			log.Warn("documentation gap", "chunk", i, "error", err)
			return nil
		}
		fragments[i], got[i] = frag, true
		return nil
	})
	if err != nil {
		return nil, err
	}

	ordered := make([]doc.Fragment, 0, len(chunks))
	for i := range fragments {
		if got[i] {
			ordered = append(ordered, fragments[i])
		}
	}
	return ordered, nil
}

// fanOut runs fn(0..n-1) with at most limit goroutines, keeping the
// first fatal error.
func (p *FileProcessor) fanOut(ctx context.Context, n, limit int, fn func(i int) error) error {
	if limit <= 0 {
		limit = 1
	}
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var fatal error

	for i := 0; i < n; i++ {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := fn(i); err != nil {
				mu.Lock()
				if fatal == nil {
					fatal = err
				}
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	return fatal
}

// isFatal reports errors that must abort the current file: budget
// exhaustion and cancellation. Everything else is a tolerated gap.
func isFatal(err error) bool {
	return errors.Is(err, budget.ErrExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// summarize condenses input with one completion per text chunk plus a
// final combining pass when the input needed splitting.
func (p *FileProcessor) summarize(ctx context.Context, role, input string, chunkSize int) (string, error) {
	chunks := chunker.SplitText(input, chunkSize)
	if len(chunks) == 0 {
		return "", nil
	}
	if len(chunks) == 1 {
		return p.complete(ctx, llm.BuildSummaryPrompt(role, chunks[0].Text))
	}
	partials := make([]string, 0, len(chunks))
	for _, c := range chunks {
		part, err := p.complete(ctx, llm.BuildSummaryPrompt(role, c.Text))
		if err != nil {
			return "", err
		}
		partials = append(partials, part)
	}
	return p.complete(ctx, llm.BuildSummaryPrompt(role, strings.Join(partials, "\n\n")))
}

func (p *FileProcessor) complete(ctx context.Context, prompt string) (string, error) {
	var out string
	err := withRetry(ctx, func() error {
		var e error
		out, e = p.completer.Complete(ctx, prompt)
		return e
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// inject rewrites the source with the fused documentation and writes
// it under saveDir. An integrity failure leaves the original untouched
// and is logged, never propagated: the artifact already exists.
func (p *FileProcessor) inject(code, ext, name, saveDir string, fd doc.FileDoc, log *slog.Logger) {
	agg, ok := aggregator.ForExtension(ext)
	if !ok {
		return
	}
	rewritten, err := agg.Document(code, fd)
	if err != nil {
		log.Error("source rewrite rejected", "error", err)
		return
	}
	target := filepath.Join(saveDir, name)
	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		log.Error("create output dir", "error", err)
		return
	}
	if err := os.WriteFile(target, []byte(rewritten), 0o644); err != nil {
		log.Error("write rewritten source", "error", err)
		return
	}
	log.Info("documentation injected", "target", target)
}

// Summarize exposes the chunked summarization flow to the folder and
// repository processors.
func (p *FileProcessor) Summarize(ctx context.Context, role, input string, chunkSize int) (string, error) {
	return p.summarize(ctx, role, input, chunkSize)
}
