package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

const extractionPrompt = `Identify the structural elements defined in the following source code section. Return a JSON object with these fields:

- "summary": a short natural-language summary of what this section does (string)
- "classes": classes, structs, interfaces or similar top-level types defined here (array)
- "methods": functions and methods defined here (array)

Each element object must have these fields:

- "name": the identifier exactly as written in the code (string)
- "signature": the full declaration header, e.g. "func (s *Stack) Push(v int)" (string)
- "parent": the enclosing class name for methods, otherwise null (string or null)

Rules:
- Only report elements that are actually defined in this section; never invent one
- Report a truncated definition whose header is visible; skip bodies that merely continue from a previous section
- Do not report local variables, imports, or statements
- Return {"summary": "", "classes": [], "methods": []} if nothing is defined here

Respond with ONLY the JSON object, no other text.`

const unitDocPrompt = `Write documentation for the code elements visible in the following source code section. You are given the list of elements known to exist in the whole file; document only the ones whose definition appears in this section.

Return a JSON object with these fields:

- "classes": array of {"name": string, "documentation": string}
- "methods": array of {"name": string, "documentation": string}

Rules:
- "name" must match a known element name exactly
- "documentation" is a concise doc-comment body: one-sentence summary first, details after
- Skip elements that are only referenced here, not defined
- Return {"classes": [], "methods": []} if no known element is defined in this section

Respond with ONLY the JSON object, no other text.`

const fileDescriptionPrompt = `Combine the following section summaries of one source file into a single short description of the file. Write one plain paragraph, no headings, no lists, no code fences.`

const folderReadmePrompt = `Write a README in Markdown for a source folder given the following JSON description of its files. Start with a level-1 heading naming the folder, then a short overview paragraph, then a "## Files" section with one bullet per file and its description. Respond with ONLY the Markdown.`

const folderOverviewPrompt = `Condense the following folder README into a single short paragraph describing the folder's purpose. Respond with ONLY the paragraph.`

const rootReadmePrompt = `Write the top part of a repository README in Markdown given the following JSON description of its folders. Start with a level-1 heading naming the repository, then an overview paragraph, then a short "## Description" section. Respond with ONLY the Markdown.`

const plainFilePrompt = `Describe the purpose of the following file in one short paragraph. Respond with ONLY the paragraph.`

// BuildExtractionPrompt assembles the element-extraction prompt for one
// coarse chunk.
func BuildExtractionPrompt(filename string, chunk string) string {
	var sb strings.Builder
	sb.WriteString(extractionPrompt)
	sb.WriteString("\n\n---\n")
	fmt.Fprintf(&sb, "File: %q\n", filename)
	sb.WriteString("---\n")
	sb.WriteString(chunk)
	return sb.String()
}

// BuildUnitDocPrompt assembles the documentation prompt for one fine
// chunk, carrying the canonical element list as context.
func BuildUnitDocPrompt(filename string, elements any, chunk string) string {
	ctxJSON, err := json.Marshal(elements)
	if err != nil {
		ctxJSON = []byte("{}")
	}
	var sb strings.Builder
	sb.WriteString(unitDocPrompt)
	sb.WriteString("\n\n---\n")
	fmt.Fprintf(&sb, "File: %q\n", filename)
	fmt.Fprintf(&sb, "Known elements: %s\n", ctxJSON)
	sb.WriteString("---\n")
	sb.WriteString(chunk)
	return sb.String()
}

// BuildSummaryPrompt assembles a summarization prompt of the given
// role ("top-level", "folder-level", "folder-description", "root-level"
// or "unknown-top-level") over input text.
func BuildSummaryPrompt(role, input string) string {
	var template string
	switch role {
	case "folder-level":
		template = folderReadmePrompt
	case "folder-description":
		template = folderOverviewPrompt
	case "root-level":
		template = rootReadmePrompt
	case "unknown-top-level":
		template = plainFilePrompt
	default: // "top-level"
		template = fileDescriptionPrompt
	}
	return template + "\n\n---\n" + input
}
