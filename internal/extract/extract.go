// Package extract discovers the structural elements of a source file.
// Per coarse chunk it asks the generative collaborator for an element
// set, validates the response at the boundary, and merges the ordered
// sets into one canonical, de-duplicated element tree.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"codetale/internal/doc"
	"codetale/internal/llm"
)

// ErrNoElements marks an extraction gap: a chunk for which the
// collaborator produced nothing usable. Callers tolerate it; coverage
// shrinks but the file keeps processing.
var ErrNoElements = errors.New("no elements extracted")

// Extractor turns coarse chunks into raw element sets.
type Extractor struct {
	completer llm.Completer
}

func NewExtractor(completer llm.Completer) *Extractor {
	return &Extractor{completer: completer}
}

// Extract asks the collaborator for the elements defined in one coarse
// chunk. A malformed or empty response yields ErrNoElements wrapped
// around the cause; budget errors pass through unwrapped for the
// caller to recognize.
func (e *Extractor) Extract(ctx context.Context, filename string, chunk doc.Chunk) (doc.ElementSet, error) {
	prompt := llm.BuildExtractionPrompt(filename, chunk.Text)
	resp, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return doc.ElementSet{}, fmt.Errorf("extract chunk %d: %w", chunk.Index, err)
	}

	var set doc.ElementSet
	if err := json.Unmarshal([]byte(llm.StripCodeBlock(resp)), &set); err != nil {
		return doc.ElementSet{}, fmt.Errorf("chunk %d: parse element set: %v: %w", chunk.Index, err, ErrNoElements)
	}

	set.Classes = validElements(set.Classes, doc.KindClass)
	set.Methods = validElements(set.Methods, doc.KindMethod)
	if set.Empty() {
		return doc.ElementSet{}, fmt.Errorf("chunk %d: %w", chunk.Index, ErrNoElements)
	}
	return set, nil
}
