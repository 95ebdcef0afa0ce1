package editor

import "aiedit/internal/highlight"

// BracketPair представляет пару совпадающих скобок и их позиций.
// BracketPair is a pair of matching brackets and their positions.
type BracketPair struct {
	OpenLine  int
	OpenCol   int
	CloseLine int
	CloseCol  int
}

// BracketMatcher finds the bracket matching the one at the cursor. Brackets
// inside comments, strings and character literals are ignored.
type BracketMatcher struct {
	editor *Editor
}

// NewBracketMatcher creates a new bracket matcher.
func NewBracketMatcher(editor *Editor) *BracketMatcher {
	return &BracketMatcher{editor: editor}
}

var (
	openToClose = map[rune]rune{'(': ')', '[': ']', '{': '}'}
	closeToOpen = map[rune]rune{')': '(', ']': '[', '}': '{'}
)

// code reports whether the rune at (line, col) is outside comments and
// literals.
func (bm *BracketMatcher) code(line, col int) bool {
	cats := bm.editor.doc.Categories(line)
	if col >= len(cats) {
		return true
	}
	switch c := cats[col]; {
	case c.IsComment(), c == highlight.String, c == highlight.Char:
		return false
	}
	return true
}

// findMatchingBracket finds the partner of the bracket at the given position.
func (bm *BracketMatcher) findMatchingBracket(line, col int) *BracketPair {
	lines := bm.editor.lines
	if line < 0 || line >= len(lines) {
		return nil
	}
	runes := []rune(lines[line])
	if col < 0 || col >= len(runes) || !bm.code(line, col) {
		return nil
	}
	ch := runes[col]
	if closing, ok := openToClose[ch]; ok {
		return bm.findClosing(line, col, ch, closing)
	}
	if opening, ok := closeToOpen[ch]; ok {
		return bm.findOpening(line, col, opening, ch)
	}
	return nil
}

// findClosing searches forward for a matching closing bracket.
func (bm *BracketMatcher) findClosing(startLine, startCol int, opening, closing rune) *BracketPair {
	lines := bm.editor.lines
	depth := 1
	col := startCol + 1
	for l := startLine; l < len(lines); l++ {
		runes := []rune(lines[l])
		for ; col < len(runes); col++ {
			switch runes[col] {
			case opening:
				if bm.code(l, col) {
					depth++
				}
			case closing:
				if !bm.code(l, col) {
					continue
				}
				depth--
				if depth == 0 {
					return &BracketPair{OpenLine: startLine, OpenCol: startCol, CloseLine: l, CloseCol: col}
				}
			}
		}
		col = 0
	}
	return nil
}

// findOpening searches backward for a matching opening bracket.
func (bm *BracketMatcher) findOpening(startLine, startCol int, opening, closing rune) *BracketPair {
	lines := bm.editor.lines
	depth := 1
	col := startCol - 1
	for l := startLine; l >= 0; l-- {
		runes := []rune(lines[l])
		if l != startLine {
			col = len(runes) - 1
		}
		for ; col >= 0; col-- {
			switch runes[col] {
			case closing:
				if bm.code(l, col) {
					depth++
				}
			case opening:
				if !bm.code(l, col) {
					continue
				}
				depth--
				if depth == 0 {
					return &BracketPair{OpenLine: l, OpenCol: col, CloseLine: startLine, CloseCol: startCol}
				}
			}
		}
	}
	return nil
}

// getBracketAtCursor returns the pair for the bracket under the cursor, or
// the one just before it.
func (bm *BracketMatcher) getBracketAtCursor() *BracketPair {
	e := bm.editor
	if e.cy < 0 || e.cy >= len(e.lines) {
		return nil
	}
	if pair := bm.findMatchingBracket(e.cy, e.cx); pair != nil {
		return pair
	}
	if e.cx > 0 {
		return bm.findMatchingBracket(e.cy, e.cx-1)
	}
	return nil
}

// autoClosing returns the rune that auto-closes r, or 0.
func autoClosing(r rune) rune {
	switch r {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	case '"':
		return '"'
	default:
		return 0
	}
}
