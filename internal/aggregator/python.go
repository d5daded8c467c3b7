package aggregator

import (
	"strings"

	"codetale/internal/doc"
	"codetale/internal/lang"
)

// pythonAggregator inserts docstrings immediately after each
// documented definition header, before the body, PEP 257 convention.
type pythonAggregator struct{}

func (pythonAggregator) Document(src string, fd doc.FileDoc) (string, error) {
	l, _ := lang.ForExtension(".py")
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
		// A body on the header line cannot take an inserted docstring;
		// a body that already opens with a string keeps its docstring.
		if d.bodyRow < 0 || d.bodyRow == d.row || pythonHasDocstring(src, d.bodyRow) {
			continue
		}
		insertions = append(insertions, insertion{
			row:   d.bodyRow,
			lines: pythonDocstring(indentOf(src, d.bodyRow), el.Documentation),
		})
	}

	out := apply(src, insertions)
	if err := verify(l, src, out); err != nil {
		return "", err
	}
	return out, nil
}

// pythonDocstring renders a triple-quoted docstring at body indentation.
func pythonDocstring(indent, text string) []string {
	text = strings.TrimSpace(text)
	parts := strings.Split(text, "\n")
	if len(parts) == 1 {
		return []string{indent + `"""` + text + `"""`}
	}
	lines := []string{indent + `"""` + strings.TrimRight(parts[0], " \t")}
	for _, line := range parts[1:] {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, indent+line)
	}
	return append(lines, indent+`"""`)
}

// pythonHasDocstring reports whether the body already opens with a
// string literal.
func pythonHasDocstring(src string, bodyRow int) bool {
	first := lineAt(src, bodyRow)
	for _, prefix := range []string{`"""`, `'''`, `r"""`, `r'''`, `"`, `'`} {
		if strings.HasPrefix(first, prefix) {
			return true
		}
	}
	return false
}
