package editor

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const (
	messageTimeout = 5 * time.Second
	keyHints       = "^S save  ^B compile  ^R run  F5 build+run  F6 compiler  ^K ask  ^F follow-up  ^G ideas  ^X clear  ^Q quit"
)

// layout is the row allocation for the current screen size. The output pane
// only takes space while it has content.
type layout struct {
	textTop   int
	textRows  int
	sepRow    int
	outTop    int
	outRows   int
	statusRow int
	gutter    int
}

// layout computes the row allocation for the current screen size.
func (e *Editor) layout() layout {
	l := layout{textTop: 1, sepRow: -1, statusRow: e.height - 1}
	avail := e.height - 2
	if len(e.output) > 0 && avail >= 6 {
		l.outRows = max(3, avail/3)
		l.sepRow = l.textTop + avail - l.outRows - 1
		l.outTop = l.sepRow + 1
		l.textRows = l.sepRow - l.textTop
	} else {
		l.textRows = avail
	}
	if l.textRows < 1 {
		l.textRows = 1
	}
	l.gutter = len(strconv.Itoa(len(e.lines))) + 1
	return l
}

// refreshSize reads the screen size and keeps the cursor visible.
func (e *Editor) refreshSize() {
	w, h := e.screen.Size()
	e.width, e.height = max(w, 1), max(h, 1)
	e.ensureVisible()
}

// runeCells is the number of cells r occupies when drawn at cell x.
func (e *Editor) runeCells(r rune, x int) int {
	if r == '\t' {
		return e.tabWidth - x%e.tabWidth
	}
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

// cellsTo is the cell offset of column col in runes.
func (e *Editor) cellsTo(runes []rune, col int) int {
	x := 0
	for i := 0; i < col && i < len(runes); i++ {
		x += e.runeCells(runes[i], x)
	}
	return x
}

// ensureVisible clamps the cursor and scrolls it into view.
func (e *Editor) ensureVisible() {
	if len(e.lines) == 0 {
		e.lines = []string{""}
		e.doc.SetText("")
	}
	e.cy = min(max(e.cy, 0), len(e.lines)-1)
	e.cx = min(max(e.cx, 0), len([]rune(e.lines[e.cy])))
	if e.height == 0 {
		return
	}

	l := e.layout()
	if e.cy < e.offsetY {
		e.offsetY = e.cy
	} else if e.cy >= e.offsetY+l.textRows {
		e.offsetY = e.cy - l.textRows + 1
	}

	textWidth := e.width - l.gutter
	cur := e.cellsTo([]rune(e.lines[e.cy]), e.cx)
	if cur < e.offsetX {
		e.offsetX = cur
	} else if textWidth > 0 && cur >= e.offsetX+textWidth {
		e.offsetX = cur - textWidth + 1
	}
}

// drawString draws s from x, clipped at limit, and returns the next cell.
func (e *Editor) drawString(x, y int, s string, limit int, style tcell.Style) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			w = 1
		}
		if x+w > limit {
			break
		}
		e.screen.SetContent(x, y, r, nil, style)
		for c := 1; c < w; c++ {
			e.screen.SetContent(x+c, y, ' ', nil, style)
		}
		x += w
	}
	return x
}

// fill paints the rest of row y from x with style.
func (e *Editor) fill(x, y int, style tcell.Style) {
	for ; x < e.width; x++ {
		e.screen.SetContent(x, y, ' ', nil, style)
	}
}

// drawBar draws a full-width bar of text on row y.
func (e *Editor) drawBar(y int, text string, style tcell.Style) {
	x := e.drawString(0, y, text, e.width, style)
	e.fill(x, y, style)
}

// headerText is the title bar text.
func (e *Editor) headerText() string {
	name := "[No Name]"
	if e.filename != "" {
		name = filepath.Base(e.filename)
	}
	if e.dirty {
		name += " *"
	}
	text := fmt.Sprintf(" aiedit  %s  Ln %d, Col %d", name, e.cy+1, e.cx+1)
	if e.builder != nil {
		text += "  |  " + e.builder.Toolchain().Identity.Label() + "  " + e.builder.State().String()
	}
	if e.model != "" {
		text += "  |  AI: " + e.model
	}
	return text
}

// render draws the whole screen.
// render отображает редактор на экране.
func (e *Editor) render() {
	e.screen.Clear()
	l := e.layout()

	e.drawBar(0, e.headerText(), styleBar)

	pair := e.brackets.getBracketAtCursor()
	for row := 0; row < l.textRows; row++ {
		i := e.offsetY + row
		y := l.textTop + row
		if i >= len(e.lines) {
			x := e.drawString(0, y, "~", l.gutter, styleGutter)
			e.fill(x, y, styleDefault)
			continue
		}
		e.drawLine(i, y, l, pair)
	}

	if l.sepRow >= 0 {
		e.drawBar(l.sepRow, " Output  (^Y copy, ^X clear)", styleBar)
		e.drawOutput(l)
	}
	e.drawStatus(l.statusRow)

	if e.prompt != nil {
		x := runewidth.StringWidth(e.prompt.Label+": "+e.prompt.Value) + 1
		e.screen.ShowCursor(min(x, e.width-1), l.statusRow)
	} else {
		x := l.gutter + e.cellsTo([]rune(e.lines[e.cy]), e.cx) - e.offsetX
		e.screen.ShowCursor(x, l.textTop+e.cy-e.offsetY)
	}
	e.screen.Show()
}

// drawLine paints buffer line i on screen row y using the line's highlight
// categories.
func (e *Editor) drawLine(i, y int, l layout, pair *BracketPair) {
	current := i == e.cy
	withLine := func(s tcell.Style) tcell.Style {
		if current {
			return s.Background(currentLineBackground)
		}
		return s
	}

	gutter := fmt.Sprintf("%*d ", l.gutter-1, i+1)
	e.drawString(0, y, gutter, l.gutter, styleGutter)

	runes := []rune(e.lines[i])
	cats := e.doc.Categories(i)
	x := 0
	for col, r := range runes {
		w := e.runeCells(r, x)
		sx := l.gutter + x - e.offsetX
		if sx >= e.width {
			break
		}
		if x >= e.offsetX {
			style := styleDefault
			if col < len(cats) {
				style = styleFor(cats[col])
			}
			if pair != nil && ((i == pair.OpenLine && col == pair.OpenCol) || (i == pair.CloseLine && col == pair.CloseCol)) {
				style = styleBracketMatch
			} else {
				style = withLine(style)
			}
			draw := r
			if r == '\t' {
				draw = ' '
			}
			for c := 0; c < w && sx+c < e.width; c++ {
				ch := draw
				if c > 0 {
					ch = ' '
				}
				e.screen.SetContent(sx+c, y, ch, nil, style)
			}
		}
		x += w
	}
	e.fill(max(l.gutter, l.gutter+x-e.offsetX), y, withLine(styleDefault))
}

// drawOutput shows the tail of the output pane.
func (e *Editor) drawOutput(l layout) {
	start := max(0, len(e.output)-l.outRows)
	for row := 0; row < l.outRows; row++ {
		y := l.outTop + row
		x := 0
		if i := start + row; i < len(e.output) {
			x = e.drawString(1, y, e.output[i], e.width, styleOutput)
		}
		e.fill(x, y, styleOutput)
	}
}

// drawStatus draws the status line. A prompt takes precedence over messages.
// drawStatus рисует строку состояния.
func (e *Editor) drawStatus(y int) {
	fresh := time.Since(e.messageTime) < messageTimeout
	switch {
	case e.prompt != nil:
		e.drawBar(y, e.prompt.Label+": "+e.prompt.Value, styleStatus)
	case e.errorMessage != "" && fresh:
		e.drawBar(y, " "+e.errorMessage, styleError)
	case e.message != "" && fresh:
		e.drawBar(y, " "+e.message, styleStatus)
	default:
		e.drawBar(y, " "+keyHints, styleStatus)
	}
}
