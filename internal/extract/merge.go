package extract

import (
	"strings"

	"codetale/internal/doc"
)

// Merge consolidates the ordered per-chunk element sets into the
// file's canonical element tree. Summaries concatenate in chunk order.
// Elements are keyed by qualified name within their kind; an element
// split across adjacent chunks collapses to one entry. When duplicates
// conflict, the occurrence with the more complete definition (longer
// signature) wins; on a tie the earliest stays and later ones are
// discarded. Merge is idempotent: merging duplicated input yields the
// same tree as merging it once.
func Merge(sets []doc.ElementSet) doc.Elements {
	var summaries []string
	classIdx := make(map[string]int)
	methodIdx := make(map[string]int)
	var merged doc.Elements

	for _, set := range sets {
		if s := strings.TrimSpace(set.Summary); s != "" {
			summaries = append(summaries, s)
		}
		for _, el := range set.Classes {
			mergeElement(&merged.Classes, classIdx, el)
		}
		for _, el := range set.Methods {
			mergeElement(&merged.Methods, methodIdx, el)
		}
	}

	merged.Summary = strings.Join(dedupeStrings(summaries), "\n")
	return merged
}

func mergeElement(list *[]doc.Element, index map[string]int, el doc.Element) {
	key := el.QualifiedName()
	at, ok := index[key]
	if !ok {
		index[key] = len(*list)
		*list = append(*list, el)
		return
	}
	// Most-complete definition wins; earliest wins ties.
	if len(el.Signature) > len((*list)[at].Signature) {
		(*list)[at] = el
	}
}

// dedupeStrings drops repeated summaries so merging duplicated input
// stays idempotent, preserving first-seen order.
func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
