// Package aggregator rewrites original source files, injecting fused
// documentation as each language's native doc-comment. One variant per
// supported language; everything outside the inserted comments is
// preserved byte-for-byte, and a rewrite that can no longer be parsed
// cleanly is rejected rather than written.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"codetale/internal/doc"
	"codetale/internal/lang"
)

// ErrRewriteIntegrity signals that the rewritten source is no longer
// syntactically well-formed; the original file must be left untouched.
var ErrRewriteIntegrity = errors.New("rewritten source failed integrity check")

// Aggregator injects documentation into source text of one language.
type Aggregator interface {
	Document(src string, fd doc.FileDoc) (string, error)
}

// ForExtension returns the aggregator for a supported source language.
// The set is closed: Go, Python, and PHP.
func ForExtension(ext string) (Aggregator, bool) {
	switch ext {
	case ".go":
		return goAggregator{}, true
	case ".py":
		return pythonAggregator{}, true
	case ".php":
		return phpAggregator{}, true
	default:
		return nil, false
	}
}

// defSite is a definition's location in the original text.
type defSite struct {
	name    string
	kind    doc.Kind
	row     int // 0-based line of the definition start
	bodyRow int // 0-based line where the body begins (-1 if none)
	order   int // document order, for stable matching
}

// insertion is a block of lines to splice in before a given row.
type insertion struct {
	row   int
	lines []string
}

func parse(l lang.Language, src string) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(l.Sitter)
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	if err != nil || tree == nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}
	return tree, nil
}

// collectDefs walks the tree and returns every class and function
// definition site in document order.
func collectDefs(l lang.Language, tree *sitter.Tree, src []byte) []defSite {
	var defs []defSite
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		t := node.Type()
		switch {
		case l.IsFuncNode(t):
			if name := defName(node, src); name != "" {
				defs = append(defs, defSite{
					name:    name,
					kind:    doc.KindMethod,
					row:     int(node.StartPoint().Row),
					bodyRow: bodyRow(node),
					order:   len(defs),
				})
			}
		case l.IsClassNode(t):
			for _, site := range classSites(node, src) {
				site.kind = doc.KindClass
				site.order = len(defs)
				defs = append(defs, site)
			}
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			walk(node.NamedChild(i))
		}
	}
	walk(tree.RootNode())
	return defs
}

// defName resolves the identifier of a function or method node.
func defName(node *sitter.Node, src []byte) string {
	if n := node.ChildByFieldName("name"); n != nil {
		return n.Content(src)
	}
	return ""
}

// classSites resolves the definition sites a class-like node declares.
// Most grammars name the node directly; Go declares types through a
// type_declaration wrapping type_spec children, and a grouped
// `type ( ... )` block declares one site per spec, each at its own row.
func classSites(node *sitter.Node, src []byte) []defSite {
	if n := node.ChildByFieldName("name"); n != nil {
		return []defSite{{
			name:    n.Content(src),
			row:     int(node.StartPoint().Row),
			bodyRow: bodyRow(node),
		}}
	}
	var sites []defSite
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "type_spec" {
			continue
		}
		if n := child.ChildByFieldName("name"); n != nil {
			sites = append(sites, defSite{
				name:    n.Content(src),
				row:     int(child.StartPoint().Row),
				bodyRow: -1,
			})
		}
	}
	return sites
}

// bodyRow returns the 0-based starting row of a definition's body,
// or -1 when the grammar exposes none.
func bodyRow(node *sitter.Node) int {
	if b := node.ChildByFieldName("body"); b != nil {
		return int(b.StartPoint().Row)
	}
	return -1
}

// matchDefs pairs each documented element with the first unconsumed
// definition site of the same name and kind, in document order.
func matchDefs(defs []defSite, fd doc.FileDoc) map[int]doc.DocumentedElement {
	consumed := make([]bool, len(defs))
	matches := make(map[int]doc.DocumentedElement)
	for _, el := range fd.Elements {
		if el.Documentation == "" {
			continue
		}
		name := bareName(el.Name)
		for i, d := range defs {
			if consumed[i] || d.kind != el.Kind || d.name != name {
				continue
			}
			consumed[i] = true
			matches[d.order] = el
			break
		}
	}
	return matches
}

// bareName strips a qualifying scope prefix, e.g. "Stack.push" -> "push".
func bareName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// apply splices insertion blocks into the source lines, bottom-up so
// earlier rows stay valid, leaving every original line untouched.
func apply(src string, insertions []insertion) string {
	if len(insertions) == 0 {
		return src
	}
	lines := strings.Split(src, "\n")
	sort.SliceStable(insertions, func(i, j int) bool { return insertions[i].row > insertions[j].row })
	for _, ins := range insertions {
		if ins.row < 0 || ins.row > len(lines) {
			continue
		}
		lines = append(lines[:ins.row], append(append([]string{}, ins.lines...), lines[ins.row:]...)...)
	}
	return strings.Join(lines, "\n")
}

// indentOf returns the leading whitespace of the given 0-based line.
func indentOf(src string, row int) string {
	lines := strings.Split(src, "\n")
	if row < 0 || row >= len(lines) {
		return ""
	}
	line := lines[row]
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// lineAt returns the trimmed content of the given 0-based line, or ""
// when out of range.
func lineAt(src string, row int) string {
	lines := strings.Split(src, "\n")
	if row < 0 || row >= len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[row])
}

// verify re-parses the rewritten source and fails closed when it
// carries syntax errors the original did not.
func verify(l lang.Language, original, rewritten string) error {
	origTree, err := parse(l, original)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRewriteIntegrity, err)
	}
	defer origTree.Close()
	newTree, err := parse(l, rewritten)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRewriteIntegrity, err)
	}
	defer newTree.Close()

	if newTree.RootNode().HasError() && !origTree.RootNode().HasError() {
		return ErrRewriteIntegrity
	}
	return nil
}
