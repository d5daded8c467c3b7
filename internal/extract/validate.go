package extract

import (
	"regexp"
	"strings"

	"codetale/internal/doc"
)

// Elements are discovered, never invented: anything that does not look
// like a real identifier is dropped at the boundary.
var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

const (
	maxNameLen      = 200
	maxSignatureLen = 500
)

// validElement checks one element from a collaborator response,
// normalizing its kind. Returns false when the entry must be dropped.
func validElement(e *doc.Element, kind doc.Kind) bool {
	if e == nil {
		return false
	}
	e.Name = strings.TrimSpace(e.Name)
	e.Parent = strings.TrimSpace(e.Parent)
	e.Kind = kind

	if e.Name == "" || len(e.Name) > maxNameLen {
		return false
	}
	if !identifierRe.MatchString(e.Name) {
		return false
	}
	if e.Parent != "" && !identifierRe.MatchString(e.Parent) {
		e.Parent = ""
	}
	if len(e.Signature) > maxSignatureLen {
		e.Signature = e.Signature[:maxSignatureLen]
	}
	return true
}

// validElements filters a slice in response order.
func validElements(in []doc.Element, kind doc.Kind) []doc.Element {
	out := in[:0]
	for i := range in {
		if validElement(&in[i], kind) {
			out = append(out, in[i])
		}
	}
	return out
}
