// Package chunker partitions source text into ordered, size-bounded
// chunks. Code is split at top-level syntactic boundaries when the
// language grammar is known; plain text is split near whitespace. Both
// splitters are pure and deterministic, and for any input the ordered
// chunk texts concatenate back to the original exactly.
package chunker

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"codetale/internal/doc"
	"codetale/internal/lang"
)

const (
	// DefaultCoarseSize is the preset for structural element extraction.
	DefaultCoarseSize = 10000
	// DefaultFineSize is the preset for per-unit documentation.
	DefaultFineSize = 3000
	// DefaultTextSize bounds plain-text splits for summarization input.
	DefaultTextSize = 9000
)

// SplitCode divides source code into chunks of at most chunkSize bytes,
// preferring to end each chunk at the end of a top-level construct when
// ext maps to a known grammar. A single construct larger than chunkSize
// is hard-cut. The same source is split independently per grain; the
// coarse and fine partitions never nest.
func SplitCode(src, ext string, chunkSize int, grain doc.Grain) []doc.Chunk {
	if src == "" {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultCoarseSize
	}

	cuts := topLevelCuts(src, ext)
	if len(cuts) == 0 {
		cuts = hardCuts(src, 0, len(src), chunkSize)
	}
	return assemble(src, cuts, chunkSize, grain)
}

// SplitText divides plain text into chunks of at most chunkSize bytes
// with no syntax awareness, cutting at the last newline or space before
// the limit when possible.
func SplitText(text string, chunkSize int) []doc.Chunk {
	if text == "" {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultTextSize
	}

	var chunks []doc.Chunk
	start := 0
	for start < len(text) {
		end := softCut(text, start, chunkSize)
		chunks = append(chunks, doc.Chunk{
			Text:  text[start:end],
			Index: len(chunks),
			Start: start,
			End:   end,
		})
		start = end
	}
	return chunks
}

// topLevelCuts parses src and returns the end byte offset of every
// top-level named node, finishing with len(src). Returns nil when the
// grammar is unknown or parsing fails, signalling a hard-cut fallback.
func topLevelCuts(src, ext string) []int {
	l, ok := lang.ForExtension(ext)
	if !ok {
		return nil
	}
	parser := sitter.NewParser()
	parser.SetLanguage(l.Sitter)
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	if err != nil || tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	var cuts []int
	for i := 0; i < int(root.NamedChildCount()); i++ {
		end := int(root.NamedChild(i).EndByte())
		if end > len(src) {
			end = len(src)
		}
		if end > 0 && (len(cuts) == 0 || end > cuts[len(cuts)-1]) {
			cuts = append(cuts, end)
		}
	}
	if len(cuts) == 0 || cuts[len(cuts)-1] < len(src) {
		cuts = append(cuts, len(src))
	}
	return cuts
}

// assemble greedily packs the segments between consecutive cut points
// into chunks near chunkSize, hard-cutting any single oversized segment.
func assemble(src string, cuts []int, chunkSize int, grain doc.Grain) []doc.Chunk {
	var chunks []doc.Chunk
	emit := func(start, end int) {
		if end <= start {
			return
		}
		chunks = append(chunks, doc.Chunk{
			Text:  src[start:end],
			Index: len(chunks),
			Start: start,
			End:   end,
			Grain: grain,
		})
	}

	cur := 0  // start offset of the chunk being accumulated
	prev := 0 // end of the previous segment
	for _, cut := range cuts {
		segLen := cut - prev
		if cut-cur > chunkSize && prev > cur {
			// Adding this segment would overflow: flush what we have.
			emit(cur, prev)
			cur = prev
		}
		if segLen > chunkSize {
			// A single construct beyond the limit is hard-cut.
			for _, hc := range hardCuts(src[:cut], cur, cut, chunkSize) {
				emit(cur, hc)
				cur = hc
			}
		}
		prev = cut
	}
	emit(cur, len(src))
	return chunks
}

// hardCuts returns successive cut offsets covering src[start:end] in
// pieces of at most chunkSize bytes, preferring newline boundaries.
func hardCuts(src string, start, end, chunkSize int) []int {
	var cuts []int
	for pos := start; pos < end; {
		next := softCut(src[:end], pos, chunkSize)
		cuts = append(cuts, next)
		pos = next
	}
	return cuts
}

// softCut picks the end offset for a chunk starting at start: the full
// remainder when it fits, otherwise the last newline (or space) inside
// the window, otherwise a hard cut at the size limit.
func softCut(text string, start, chunkSize int) int {
	if start+chunkSize >= len(text) {
		return len(text)
	}
	window := text[start : start+chunkSize]
	if i := strings.LastIndexByte(window, '\n'); i > 0 {
		return start + i + 1
	}
	if i := strings.LastIndexByte(window, ' '); i > 0 {
		return start + i + 1
	}
	return start + chunkSize
}
