package aggregator

import (
	"strings"

	"codetale/internal/doc"
	"codetale/internal/lang"
)

// phpAggregator inserts /** */ docblocks immediately preceding each
// documented declaration, PHPDoc convention.
type phpAggregator struct{}

func (phpAggregator) Document(src string, fd doc.FileDoc) (string, error) {
	l, _ := lang.ForExtension(".php")
	return rewritePreceding(l, src, fd, phpDocBlock, phpHasDoc)
}

// phpDocBlock renders a docblock at the declaration's indentation.
func phpDocBlock(indent, text string) []string {
	lines := []string{indent + "/**"}
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			lines = append(lines, indent+" *")
			continue
		}
		lines = append(lines, indent+" * "+line)
	}
	return append(lines, indent+" */")
}

// phpHasDoc reports an existing comment directly above the declaration.
func phpHasDoc(src string, row int) bool {
	prev := lineAt(src, row-1)
	return strings.HasSuffix(prev, "*/") ||
		strings.HasPrefix(prev, "//") ||
		strings.HasPrefix(prev, "#") ||
		strings.HasPrefix(prev, "*")
}
