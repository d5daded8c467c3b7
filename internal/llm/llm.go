// Package llm adapts the external text-generation service. The
// pipeline only depends on the Completer contract, so tests exercise
// the whole pipeline with a deterministic stub and never touch the
// network.
package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Completer produces a completion for a prompt. Implementations are
// injected into the extraction and documentation stages.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// RetryableError indicates a transient service failure worth retrying.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, Truncate(e.Message, 200))
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// StripCodeBlock removes a fenced code block wrapper, if present, from
// a model response. Models frequently fence JSON answers.
func StripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// Truncate shortens s to at most n bytes for log and error output.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
