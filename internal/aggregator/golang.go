package aggregator

import (
	"strings"

	"codetale/internal/doc"
	"codetale/internal/lang"
)

// goAggregator inserts line doc-comments immediately preceding each
// documented declaration, Go convention.
type goAggregator struct{}

func (goAggregator) Document(src string, fd doc.FileDoc) (string, error) {
	l, _ := lang.ForExtension(".go")
	return rewritePreceding(l, src, fd, goComment, goHasDoc)
}

// goComment renders a // block at the declaration's indentation.
func goComment(indent, text string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			lines = append(lines, indent+"//")
			continue
		}
		lines = append(lines, indent+"// "+line)
	}
	return lines
}

// goHasDoc reports an existing doc-comment directly above the
// declaration; such declarations are skipped, never double-commented.
func goHasDoc(src string, row int) bool {
	prev := lineAt(src, row-1)
	return strings.HasPrefix(prev, "//") || strings.HasSuffix(prev, "*/")
}

// rewritePreceding is the shared flow for languages whose doc-comments
// precede the declaration (Go, PHP): locate definition sites, pair
// them with documented elements top-to-bottom, insert rendered comment
// blocks, and verify the rewrite still parses.
func rewritePreceding(l lang.Language, src string, fd doc.FileDoc, render func(indent, text string) []string, hasDoc func(src string, row int) bool) (string, error) {
	tree, err := parse(l, src)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	defs := collectDefs(l, tree, []byte(src))
	matches := matchDefs(defs, fd)

	var insertions []insertion
	for _, d := range defs {
		el, ok := matches[d.order]
		if !ok {
			continue
		}
		if hasDoc(src, d.row) {
			continue
		}
		insertions = append(insertions, insertion{
			row:   d.row,
			lines: render(indentOf(src, d.row), el.Documentation),
		})
	}

	out := apply(src, insertions)
	if err := verify(l, src, out); err != nil {
		return "", err
	}
	return out, nil
}
