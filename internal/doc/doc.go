// Package doc holds the data model shared across the documentation
// pipeline: source chunks, discovered code elements, generated
// documentation fragments, and the fused per-file artifact.
package doc

// Grain tags the chunk size preset a chunk was produced for.
type Grain string

const (
	// Coarse chunks feed structural element extraction.
	Coarse Grain = "coarse"
	// Fine chunks feed per-unit documentation generation.
	Fine Grain = "fine"
)

// Chunk is a contiguous slice of source text. Start and End are byte
// offsets into the original text; for a given grain the ordered chunks
// tile the original exactly, with no gaps and no overlap.
type Chunk struct {
	Text  string
	Index int
	Start int
	End   int
	Grain Grain
}

// Kind classifies a discovered code element.
type Kind string

const (
	KindClass  Kind = "class"
	KindMethod Kind = "method" // methods and free functions alike
)

// Element is a structural code unit discovered during extraction.
// Parent names the enclosing class for methods, empty at top level.
type Element struct {
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	Signature string `json:"signature,omitempty"`
	Parent    string `json:"parent,omitempty"`
}

// QualifiedName returns the element name prefixed with its enclosing
// scope, e.g. "Stack.push" for a method of class Stack.
func (e Element) QualifiedName() string {
	if e.Parent != "" {
		return e.Parent + "." + e.Name
	}
	return e.Name
}

// ElementSet is the raw extraction output for one coarse chunk.
type ElementSet struct {
	Summary string    `json:"summary"`
	Classes []Element `json:"classes"`
	Methods []Element `json:"methods"`
}

// Empty reports whether the set carries no elements and no summary.
func (s ElementSet) Empty() bool {
	return s.Summary == "" && len(s.Classes) == 0 && len(s.Methods) == 0
}

// Elements is the canonical, de-duplicated element tree for one file:
// the merged union of every coarse chunk's ElementSet. No two entries
// of a kind share a qualified name.
type Elements struct {
	Summary string    `json:"summary"`
	Classes []Element `json:"classes"`
	Methods []Element `json:"methods"`
}

// HasElements reports whether anything was discovered worth documenting.
func (e Elements) HasElements() bool {
	return len(e.Classes) > 0 || len(e.Methods) > 0
}

// UnitDoc is one element's generated documentation inside a fragment.
type UnitDoc struct {
	Name          string `json:"name"`
	Documentation string `json:"documentation"`
}

// Fragment is the documentation produced for one fine chunk. Raw keeps
// the collaborator's verbatim response so unmatched or malformed
// fragments can be reported without loss.
type Fragment struct {
	Index   int
	Classes []UnitDoc
	Methods []UnitDoc
	Raw     string
}

// Malformed reports whether the fragment carries no parseable units.
func (f Fragment) Malformed() bool {
	return len(f.Classes) == 0 && len(f.Methods) == 0
}

// DocumentedElement is a canonical element with its fused documentation.
type DocumentedElement struct {
	Name          string `json:"name"`
	Kind          Kind   `json:"kind"`
	Documentation string `json:"documentation"`
}

// FileDoc is the per-file artifact: a top-level description, the
// documented elements, and the fragments that could not be matched.
// It is also the on-disk record used as the reprocessing skip-cache.
type FileDoc struct {
	Description string              `json:"description"`
	Elements    []DocumentedElement `json:"elements"`
	Errors      []string            `json:"errors"`
}

// Documentation returns the fused text for a named element of the
// given kind, or "" when the element was left undocumented.
func (d FileDoc) Documentation(name string, kind Kind) string {
	for _, el := range d.Elements {
		if el.Name == name && el.Kind == kind {
			return el.Documentation
		}
	}
	return ""
}
