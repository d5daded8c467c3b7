package pipeline

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// StripTopHeadings removes level-1 headings from a markdown document,
// keeping everything else verbatim. Used when folding a project's
// original README into the generated one, so the old title does not
// compete with the new structure. Parsing the markdown (rather than
// scanning for "#") keeps headings inside code fences intact and
// catches setext-style titles.
func StripTopHeadings(original string) string {
	src := []byte(original)
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	type span struct{ start, stop int }
	var cuts []span
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 1 {
			return ast.WalkContinue, nil
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			return ast.WalkContinue, nil
		}
		start := lines.At(0).Start
		stop := lines.At(lines.Len() - 1).Stop
		// Widen the heading's text segment to whole lines. Setext
		// underlines sit on the line after the text.
		for start > 0 && src[start-1] != '\n' {
			start--
		}
		for stop < len(src) && src[stop] != '\n' {
			stop++
		}
		if stop < len(src) {
			stop++
		}
		if stop < len(src) && isSetextUnderline(src, stop) {
			for stop < len(src) && src[stop] != '\n' {
				stop++
			}
			if stop < len(src) {
				stop++
			}
		}
		cuts = append(cuts, span{start, stop})
		return ast.WalkSkipChildren, nil
	})

	if len(cuts) == 0 {
		return original
	}
	var b strings.Builder
	prev := 0
	for _, c := range cuts {
		b.Write(src[prev:c.start])
		prev = c.stop
	}
	b.Write(src[prev:])
	return strings.TrimLeft(b.String(), "\n")
}

// isSetextUnderline reports whether the line starting at off is a
// level-1 setext underline (all '=' with optional trailing spaces).
func isSetextUnderline(src []byte, off int) bool {
	i := off
	for i < len(src) && src[i] == '=' {
		i++
	}
	if i == off {
		return false
	}
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return i == len(src) || src[i] == '\n'
}
