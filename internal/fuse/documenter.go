package fuse

import (
	"context"
	"encoding/json"
	"fmt"

	"codetale/internal/doc"
	"codetale/internal/llm"
)

// Documenter generates a documentation fragment per fine chunk.
type Documenter struct {
	completer llm.Completer
}

func NewDocumenter(completer llm.Completer) *Documenter {
	return &Documenter{completer: completer}
}

// elementContext is the view of the canonical tree handed to the
// collaborator: names only, summary stripped.
type elementContext struct {
	Classes []doc.Element `json:"classes,omitempty"`
	Methods []doc.Element `json:"methods,omitempty"`
}

// fragmentPayload is the shape the collaborator answers with.
type fragmentPayload struct {
	Classes []doc.UnitDoc `json:"classes"`
	Methods []doc.UnitDoc `json:"methods"`
}

// Document asks the collaborator to document the known elements
// visible in one fine chunk. An unparseable response is not an error
// here: the raw text is kept on the fragment and the fuser records it
// as unmatched. Only transport and budget failures propagate.
func (d *Documenter) Document(ctx context.Context, filename string, chunk doc.Chunk, elements doc.Elements) (doc.Fragment, error) {
	prompt := llm.BuildUnitDocPrompt(filename, elementContext{
		Classes: elements.Classes,
		Methods: elements.Methods,
	}, chunk.Text)

	resp, err := d.completer.Complete(ctx, prompt)
	if err != nil {
		return doc.Fragment{}, fmt.Errorf("document chunk %d: %w", chunk.Index, err)
	}

	frag := doc.Fragment{Index: chunk.Index, Raw: resp}
	var payload fragmentPayload
	if err := json.Unmarshal([]byte(llm.StripCodeBlock(resp)), &payload); err == nil {
		frag.Classes = payload.Classes
		frag.Methods = payload.Methods
	}
	return frag, nil
}
