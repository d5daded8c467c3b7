// Package budget enforces a session-scoped monetary ceiling on
// generative-service usage. A Session is created per file-processing
// session and threaded explicitly into every call site; exceeding the
// ceiling fails the current file only.
package budget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkoukk/tiktoken-go"

	"codetale/internal/llm"
)

// ErrExceeded signals that the session ceiling would be crossed.
var ErrExceeded = errors.New("session budget exceeded")

// Price is the USD cost per 1K prompt/completion tokens.
type Price struct {
	InPer1K  float64
	OutPer1K float64
}

var defaultPrice = Price{InPer1K: 0.003, OutPer1K: 0.015}

// Session accumulates spend against a ceiling. The zero limit means
// unlimited. Token counts come from tiktoken when an encoding is
// available for the model, otherwise from a word-count heuristic.
type Session struct {
	ID string

	mu    sync.Mutex
	limit float64
	spent float64
	price Price
	enc   *tiktoken.Tiktoken
}

// NewSession creates a budget session for one file. The encoding
// lookup is best-effort: models without a registered tokenizer fall
// back to the heuristic count.
func NewSession(limit float64, model string) *Session {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc = nil
	}
	return &Session{
		ID:    uuid.NewString(),
		limit: limit,
		price: defaultPrice,
		enc:   enc,
	}
}

// Check returns ErrExceeded (wrapped) when issuing a call with this
// prompt would cross the ceiling. Consulted before every outbound call.
func (s *Session) Check(prompt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limit <= 0 {
		return nil
	}
	estimate := float64(s.countTokens(prompt)) / 1000 * s.price.InPer1K
	if s.spent+estimate > s.limit {
		return fmt.Errorf("session %s spent $%.4f of $%.2f: %w", s.ID, s.spent, s.limit, ErrExceeded)
	}
	return nil
}

// Register accrues the actual spend of a completed call.
func (s *Session) Register(prompt, completion string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spent += float64(s.countTokens(prompt))/1000*s.price.InPer1K +
		float64(s.countTokens(completion))/1000*s.price.OutPer1K
}

// Spent returns the accumulated session spend in USD.
func (s *Session) Spent() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spent
}

// countTokens counts prompt tokens; callers hold s.mu.
func (s *Session) countTokens(text string) int {
	if text == "" {
		return 0
	}
	if s.enc != nil {
		return len(s.enc.Encode(text, nil, nil))
	}
	// Roughly 1.33 tokens per English word.
	n := int(float64(len(strings.Fields(text))) * 1.33)
	if n < 1 {
		n = 1
	}
	return n
}

// Metered wraps a Completer with a budget Session, checking the
// ceiling before each call and registering spend after it.
type Metered struct {
	Inner   llm.Completer
	Session *Session
}

func (m Metered) Complete(ctx context.Context, prompt string) (string, error) {
	if err := m.Session.Check(prompt); err != nil {
		return "", err
	}
	out, err := m.Inner.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	m.Session.Register(prompt, out)
	return out, nil
}
