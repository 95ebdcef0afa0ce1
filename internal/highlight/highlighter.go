package highlight

import (
	"fmt"
)

var (
	commentOpen  = []rune("/*")
	commentClose = []rune("*/")
)

// Span marks Len runes starting at rune offset Start as Category.
type Span struct {
	Start    int
	Len      int
	Category Category
}

// End returns the rune offset one past the span.
func (s Span) End() int { return s.Start + s.Len }

// Highlighter tokenizes single lines. It holds no per-document state and is
// safe for concurrent use.
type Highlighter struct {
	rules []compiledRule
}

// New compiles rules into a Highlighter.
func New(rules []Rule) (*Highlighter, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, fmt.Errorf("compile highlight rules: %w", err)
	}
	return &Highlighter{rules: compiled}, nil
}

// MustCpp returns a Highlighter for the built-in C/C++ table.
func MustCpp() *Highlighter {
	h, err := New(CppRules())
	if err != nil {
		panic(err)
	}
	return h
}

// Line tokenizes text. inComment is the carry-out of the previous line; the
// returned bool is this line's carry-out. Spans are listed in the order they
// were applied, so painting them in sequence yields the visible result.
func (h *Highlighter) Line(text string, inComment bool) ([]Span, bool) {
	runes := []rune(text)
	var spans []Span

	for _, rule := range h.rules {
		m, err := rule.re.FindRunesMatch(runes)
		for err == nil && m != nil {
			if m.Length > 0 {
				spans = append(spans, Span{Start: m.Index, Len: m.Length, Category: rule.category})
			}
			m, err = rule.re.FindNextMatch(m)
		}
	}

	carry := false
	start := 0
	searchFrom := 0
	if !inComment {
		start = indexRunes(runes, commentOpen, 0)
		searchFrom = start + len(commentOpen)
	}
	for start >= 0 {
		end := indexRunes(runes, commentClose, searchFrom)
		var length int
		if end < 0 {
			carry = true
			length = len(runes) - start
		} else {
			length = end + len(commentClose) - start
		}
		if length > 0 {
			spans = append(spans, Span{Start: start, Len: length, Category: BlockComment})
		}
		if end < 0 {
			break
		}
		start = indexRunes(runes, commentOpen, start+length)
		searchFrom = start + len(commentOpen)
	}
	return spans, carry
}

// Paint resolves spans over a line of n runes. Spans are applied in order and
// the last one to cover a rune decides its category; uncovered runes are Plain.
func Paint(spans []Span, n int) []Category {
	cats := make([]Category, n)
	for _, s := range spans {
		from, to := s.Start, s.End()
		if from < 0 {
			from = 0
		}
		if to > n {
			to = n
		}
		for i := from; i < to; i++ {
			cats[i] = s.Category
		}
	}
	return cats
}

func indexRunes(s, sub []rune, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(sub) <= len(s); i++ {
		match := true
		for j := range sub {
			if s[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
