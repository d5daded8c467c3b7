// Package lang is the closed registry of source languages the pipeline
// understands: the tree-sitter grammar for each plus the node types that
// mark class and function definitions. Supported languages are a fixed,
// enumerable set; anything else is treated as plain text.
package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
)

// Language bundles a tree-sitter grammar with the node types that
// define documentable elements in that grammar.
type Language struct {
	Name       string
	Sitter     *sitter.Language
	ClassNodes []string // node types declaring a class-like construct
	FuncNodes  []string // node types declaring a function or method
}

var registry = map[string]Language{
	".go": {
		Name:       "go",
		Sitter:     golang.GetLanguage(),
		ClassNodes: []string{"type_declaration"},
		FuncNodes:  []string{"function_declaration", "method_declaration"},
	},
	".py": {
		Name:       "python",
		Sitter:     python.GetLanguage(),
		ClassNodes: []string{"class_definition"},
		FuncNodes:  []string{"function_definition"},
	},
	".php": {
		Name:       "php",
		Sitter:     php.GetLanguage(),
		ClassNodes: []string{"class_declaration", "interface_declaration", "trait_declaration"},
		FuncNodes:  []string{"function_definition", "method_declaration"},
	},
}

// ForExtension returns the language registered for a file extension.
func ForExtension(ext string) (Language, bool) {
	l, ok := registry[ext]
	return l, ok
}

// Supported reports whether an extension maps to a known grammar.
func Supported(ext string) bool {
	_, ok := registry[ext]
	return ok
}

// Extensions lists the registered extensions in no particular order.
func Extensions() []string {
	out := make([]string, 0, len(registry))
	for ext := range registry {
		out = append(out, ext)
	}
	return out
}

// IsClassNode reports whether a node type declares a class-like construct.
func (l Language) IsClassNode(nodeType string) bool {
	for _, t := range l.ClassNodes {
		if t == nodeType {
			return true
		}
	}
	return false
}

// IsFuncNode reports whether a node type declares a function or method.
func (l Language) IsFuncNode(nodeType string) bool {
	for _, t := range l.FuncNodes {
		if t == nodeType {
			return true
		}
	}
	return false
}
