package chunker

import (
	"strings"
	"testing"

	"codetale/internal/doc"
)

func reconstruct(chunks []doc.Chunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Text)
	}
	return sb.String()
}

const goSource = `package stack

type Stack struct {
	items []int
}

func (s *Stack) Push(v int) {
	s.items = append(s.items, v)
}

func (s *Stack) Pop() int {
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v
}

func New() *Stack {
	return &Stack{}
}
`

func TestSplitCode_Reconstruction(t *testing.T) {
	for _, size := range []int{10, 50, 120, 3000, 10000} {
		chunks := SplitCode(goSource, ".go", size, doc.Coarse)
		if got := reconstruct(chunks); got != goSource {
			t.Errorf("size %d: reconstruction mismatch\ngot:  %q\nwant: %q", size, got, goSource)
		}
	}
}

func TestSplitCode_UnknownLanguageReconstruction(t *testing.T) {
	text := strings.Repeat("some opaque content without structure\n", 40)
	for _, size := range []int{7, 64, 999, 100000} {
		chunks := SplitCode(text, ".xyz", size, doc.Fine)
		if got := reconstruct(chunks); got != text {
			t.Errorf("size %d: reconstruction mismatch", size)
		}
	}
}

func TestSplitCode_OffsetsTileSource(t *testing.T) {
	chunks := SplitCode(goSource, ".go", 120, doc.Fine)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	prev := 0
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: index %d", i, c.Index)
		}
		if c.Start != prev {
			t.Errorf("chunk %d: start %d, want %d (no gaps, no overlap)", i, c.Start, prev)
		}
		if c.Grain != doc.Fine {
			t.Errorf("chunk %d: grain %q, want fine", i, c.Grain)
		}
		if goSource[c.Start:c.End] != c.Text {
			t.Errorf("chunk %d: text does not match its offsets", i)
		}
		prev = c.End
	}
	if prev != len(goSource) {
		t.Errorf("last chunk ends at %d, want %d", prev, len(goSource))
	}
}

func TestSplitCode_PrefersTopLevelBoundaries(t *testing.T) {
	// Each function fits well within the limit, so no chunk should end
	// in the middle of a function body.
	chunks := SplitCode(goSource, ".go", 150, doc.Coarse)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks[:len(chunks)-1] {
		trimmed := strings.TrimRight(c.Text, "\n")
		if !strings.HasSuffix(trimmed, "}") {
			t.Errorf("chunk %d does not end at a top-level boundary: %q", i, trimmed)
		}
	}
}

func TestSplitCode_TwoGrainsAreIndependentPartitions(t *testing.T) {
	coarse := SplitCode(goSource, ".go", 10000, doc.Coarse)
	fine := SplitCode(goSource, ".go", 120, doc.Fine)
	if len(coarse) != 1 {
		t.Fatalf("expected whole file in one coarse chunk, got %d", len(coarse))
	}
	if len(fine) < 2 {
		t.Fatalf("expected several fine chunks, got %d", len(fine))
	}
	if reconstruct(coarse) != reconstruct(fine) {
		t.Error("both partitions must cover the same source")
	}
}

func TestSplitCode_Empty(t *testing.T) {
	if chunks := SplitCode("", ".go", 100, doc.Coarse); chunks != nil {
		t.Errorf("expected nil for empty source, got %d chunks", len(chunks))
	}
}

func TestSplitText_Reconstruction(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta. ", 500)
	for _, size := range []int{5, 37, 256, 9000, 1 << 20} {
		chunks := SplitText(text, size)
		if got := reconstruct(chunks); got != text {
			t.Errorf("size %d: reconstruction mismatch", size)
		}
	}
}

func TestSplitText_CutsAtWhitespace(t *testing.T) {
	text := strings.Repeat("word ", 100)
	chunks := SplitText(text, 48)
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i, c := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(c.Text, " ") {
			t.Errorf("chunk %d should end at whitespace, got %q", i, c.Text)
		}
	}
}

func TestSplitText_Empty(t *testing.T) {
	if chunks := SplitText("", 100); chunks != nil {
		t.Errorf("expected nil for empty text, got %d chunks", len(chunks))
	}
}

func TestSplitCode_Deterministic(t *testing.T) {
	a := SplitCode(goSource, ".go", 120, doc.Fine)
	b := SplitCode(goSource, ".go", 120, doc.Fine)
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between identical invocations", i)
		}
	}
}
