// Package fuse matches generated documentation fragments to the
// canonical elements they describe, producing the per-file artifact.
// Fragments that cannot be matched are reported, never fatal.
package fuse

import (
	"fmt"

	"codetale/internal/doc"
)

// Fuse assembles the per-file result from the ordered fragments and
// the canonical element tree. For every canonical element the first
// fragment unit addressed to its name is attached as documentation;
// elements nobody documented stay undocumented. A fragment with no
// parseable units, or a unit naming no known element, lands verbatim
// in the errors list while fusion continues. Identical ordered inputs
// always produce identical results.
func Fuse(fragments []doc.Fragment, elements doc.Elements) (doc.FileDoc, []string) {
	var fd doc.FileDoc

	for _, el := range elements.Classes {
		if text := lookup(fragments, el, true); text != "" {
			fd.Elements = append(fd.Elements, doc.DocumentedElement{
				Name: el.Name, Kind: doc.KindClass, Documentation: text,
			})
		}
	}
	for _, el := range elements.Methods {
		if text := lookup(fragments, el, false); text != "" {
			fd.Elements = append(fd.Elements, doc.DocumentedElement{
				Name: el.Name, Kind: doc.KindMethod, Documentation: text,
			})
		}
	}

	fd.Errors = collectErrors(fragments, elements)
	return fd, fd.Errors
}

// lookup scans fragments in chunk order for the first unit documenting
// the element. Units of the element's own kind are tried across all
// fragments first; a unit misfiled under the other kind still names a
// real element, so it serves as a fallback rather than losing its
// documentation.
func lookup(fragments []doc.Fragment, el doc.Element, class bool) string {
	if text := lookupUnits(fragments, el, class); text != "" {
		return text
	}
	return lookupUnits(fragments, el, !class)
}

// lookupUnits scans one kind's units in chunk order, preferring an
// exact qualified-name match over a bare name match within each
// fragment.
func lookupUnits(fragments []doc.Fragment, el doc.Element, class bool) string {
	qualified := el.QualifiedName()
	for _, frag := range fragments {
		units := frag.Methods
		if class {
			units = frag.Classes
		}
		bare := ""
		for _, u := range units {
			if u.Documentation == "" {
				continue
			}
			if u.Name == qualified {
				return u.Documentation
			}
			if bare == "" && u.Name == el.Name {
				bare = u.Documentation
			}
		}
		if bare != "" {
			return bare
		}
	}
	return ""
}

// collectErrors gathers, in fragment order, every fragment that failed
// to parse and every unit addressed to an unknown element.
func collectErrors(fragments []doc.Fragment, elements doc.Elements) []string {
	known := make(map[string]bool)
	for _, el := range elements.Classes {
		known[el.Name] = true
		known[el.QualifiedName()] = true
	}
	for _, el := range elements.Methods {
		known[el.Name] = true
		known[el.QualifiedName()] = true
	}

	var errs []string
	for _, frag := range fragments {
		if frag.Malformed() {
			if frag.Raw != "" {
				errs = append(errs, frag.Raw)
			}
			continue
		}
		for _, u := range append(append([]doc.UnitDoc{}, frag.Classes...), frag.Methods...) {
			if u.Name != "" && !known[u.Name] {
				errs = append(errs, fmt.Sprintf("%s: %s", u.Name, u.Documentation))
			}
		}
	}
	return errs
}
