package highlight

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type lineState struct {
	text  string
	spans []Span
	carry bool
}

// Document keeps the tokenization of every line of a buffer together with
// each line's block-comment carry-out. Mutators re-tokenize the touched line
// and then walk forward only while the carry-out keeps changing.
type Document struct {
	h     *Highlighter
	lines []lineState
}

// NewDocument tokenizes text in full.
func NewDocument(h *Highlighter, text string) *Document {
	d := &Document{h: h}
	d.lines = make([]lineState, 0, strings.Count(text, "\n")+1)
	carry := false
	for _, l := range splitLines(text) {
		spans, out := h.Line(l, carry)
		d.lines = append(d.lines, lineState{text: l, spans: spans, carry: out})
		carry = out
	}
	return d
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// Len returns the number of lines.
func (d *Document) Len() int { return len(d.lines) }

// Line returns the text of line i.
func (d *Document) Line(i int) string { return d.lines[i].text }

// Lines returns a copy of all line texts.
func (d *Document) Lines() []string {
	out := make([]string, len(d.lines))
	for i, l := range d.lines {
		out[i] = l.text
	}
	return out
}

// Text joins the lines with newlines.
func (d *Document) Text() string { return strings.Join(d.Lines(), "\n") }

// Spans returns the spans of line i in application order.
func (d *Document) Spans(i int) []Span { return d.lines[i].spans }

// Categories returns the painted category of every rune of line i.
func (d *Document) Categories(i int) []Category {
	l := d.lines[i]
	return Paint(l.spans, len([]rune(l.text)))
}

// CarryOut reports whether line i ends inside a block comment.
func (d *Document) CarryOut(i int) bool { return d.lines[i].carry }

func (d *Document) carryIn(i int) bool {
	if i <= 0 {
		return false
	}
	return d.lines[i-1].carry
}

// retokenize analyses line i and the following lines until a carry-out
// matches its previous value. It returns the number of lines analysed.
func (d *Document) retokenize(i int) int {
	n := 0
	for ; i < len(d.lines); i++ {
		old := d.lines[i].carry
		spans, out := d.h.Line(d.lines[i].text, d.carryIn(i))
		d.lines[i].spans = spans
		d.lines[i].carry = out
		n++
		if out == old {
			break
		}
	}
	return n
}

// SetLine replaces the text of line i.
func (d *Document) SetLine(i int, text string) int {
	d.lines[i].text = text
	return d.retokenize(i)
}

// InsertLine inserts text as a new line before index i; i == Len appends.
func (d *Document) InsertLine(i int, text string) int {
	d.lines = append(d.lines, lineState{})
	copy(d.lines[i+1:], d.lines[i:])
	in := d.carryIn(i)
	spans, out := d.h.Line(text, in)
	d.lines[i] = lineState{text: text, spans: spans, carry: out}
	n := 1
	// The old line i used to see carry-in `in`; it only needs another pass
	// if the inserted line changes that.
	if i+1 < len(d.lines) && out != in {
		n += d.retokenize(i + 1)
	}
	return n
}

// DeleteLine removes line i. The document always keeps at least one line.
func (d *Document) DeleteLine(i int) int {
	if len(d.lines) == 1 {
		return d.SetLine(0, "")
	}
	removed := d.lines[i].carry
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
	if i >= len(d.lines) || removed == d.carryIn(i) {
		return 0
	}
	return d.retokenize(i)
}

// SetText replaces the whole buffer. A line diff against the current text
// lets unchanged lines keep their analysis as long as their carry-in is also
// unchanged.
func (d *Document) SetText(text string) int {
	newLines := splitLines(text)

	dmp := diffmatchpatch.New()
	oldChars, newChars, lineArray := dmp.DiffLinesToChars(
		strings.Join(d.Lines(), "\n")+"\n",
		strings.Join(newLines, "\n")+"\n",
	)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lineArray)

	// reuse[j] is the old line index whose analysis new line j may reuse.
	reuse := make([]int, 0, len(newLines))
	oldIdx := 0
	for _, df := range diffs {
		count := strings.Count(df.Text, "\n")
		switch df.Type {
		case diffmatchpatch.DiffEqual:
			for k := 0; k < count; k++ {
				reuse = append(reuse, oldIdx)
				oldIdx++
			}
		case diffmatchpatch.DiffDelete:
			oldIdx += count
		case diffmatchpatch.DiffInsert:
			for k := 0; k < count; k++ {
				reuse = append(reuse, -1)
			}
		}
	}

	next := make([]lineState, len(newLines))
	analysed := 0
	carry := false
	for j, l := range newLines {
		if j < len(reuse) && reuse[j] >= 0 {
			prev := d.lines[reuse[j]]
			if d.carryIn(reuse[j]) == carry {
				next[j] = prev
				carry = prev.carry
				continue
			}
		}
		spans, out := d.h.Line(l, carry)
		next[j] = lineState{text: l, spans: spans, carry: out}
		carry = out
		analysed++
	}
	d.lines = next
	return analysed
}
