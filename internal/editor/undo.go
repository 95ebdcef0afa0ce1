package editor

import "strings"

const maxUndo = 500

// EditorState is a buffer snapshot for undo/redo.
// EditorState представляет состояние редактора для undo/redo.
type EditorState struct {
	Lines []string
	Cx    int
	Cy    int
}

// snapshot copies the buffer and cursor.
func (e *Editor) snapshot() EditorState {
	s := EditorState{Lines: make([]string, len(e.lines)), Cx: e.cx, Cy: e.cy}
	copy(s.Lines, e.lines)
	return s
}

// restore replaces the buffer and cursor with s.
func (e *Editor) restore(s EditorState) {
	e.lines = s.Lines
	e.cx, e.cy = s.Cx, s.Cy
	e.doc.SetText(e.Text())
	e.dirty = true
	e.ensureVisible()
}

// pushUndo pushes the current state onto the undo stack.
// pushUndo помещает текущее состояние в стек отмены.
func (e *Editor) pushUndo() {
	e.undoStack = append(e.undoStack, e.snapshot())
	if len(e.undoStack) > maxUndo {
		e.undoStack = e.undoStack[len(e.undoStack)-maxUndo:]
	}
	e.redoStack = nil
	e.dirty = true
}

// undo reverts the last change.
// undo отменяет последнее изменение.
func (e *Editor) undo() {
	if len(e.undoStack) == 0 {
		e.setStatus("Nothing to undo")
		return
	}
	e.redoStack = append(e.redoStack, e.snapshot())
	last := e.undoStack[len(e.undoStack)-1]
	e.undoStack = e.undoStack[:len(e.undoStack)-1]
	e.restore(last)
}

// redo reapplies the last undone change.
// redo повторно применяет последнее отмененное изменение.
func (e *Editor) redo() {
	if len(e.redoStack) == 0 {
		e.setStatus("Nothing to redo")
		return
	}
	e.undoStack = append(e.undoStack, e.snapshot())
	next := e.redoStack[len(e.redoStack)-1]
	e.redoStack = e.redoStack[:len(e.redoStack)-1]
	e.restore(next)
}

// insertRune inserts r at the cursor.
// insertRune вставляет символ в текущую позицию курсора.
func (e *Editor) insertRune(r rune) {
	e.pushUndo()
	line := []rune(e.lines[e.cy])
	line = append(line[:e.cx], append([]rune{r}, line[e.cx:]...)...)
	e.lines[e.cy] = string(line)
	e.cx++
	e.doc.SetLine(e.cy, e.lines[e.cy])
}

// insertPair inserts open and closer and leaves the cursor between them.
func (e *Editor) insertPair(open, closer rune) {
	e.pushUndo()
	line := []rune(e.lines[e.cy])
	line = append(line[:e.cx], append([]rune{open, closer}, line[e.cx:]...)...)
	e.lines[e.cy] = string(line)
	e.cx++
	e.doc.SetLine(e.cy, e.lines[e.cy])
}

// insertText inserts possibly multi-line text at the cursor.
func (e *Editor) insertText(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return
	}
	e.pushUndo()

	line := []rune(e.lines[e.cy])
	left, right := string(line[:e.cx]), string(line[e.cx:])
	parts := strings.Split(text, "\n")

	if len(parts) == 1 {
		e.lines[e.cy] = left + parts[0] + right
		e.cx += len([]rune(parts[0]))
		e.doc.SetLine(e.cy, e.lines[e.cy])
		return
	}

	last := parts[len(parts)-1]
	added := make([]string, 0, len(parts))
	added = append(added, left+parts[0])
	added = append(added, parts[1:len(parts)-1]...)
	added = append(added, last+right)

	lines := make([]string, 0, len(e.lines)+len(parts)-1)
	lines = append(lines, e.lines[:e.cy]...)
	lines = append(lines, added...)
	lines = append(lines, e.lines[e.cy+1:]...)
	e.lines = lines
	e.cy += len(parts) - 1
	e.cx = len([]rune(last))
	e.doc.SetText(e.Text())
}

// backspace deletes the character before the cursor, joining lines at
// column zero.
func (e *Editor) backspace() {
	switch {
	case e.cx > 0:
		e.pushUndo()
		line := []rune(e.lines[e.cy])
		line = append(line[:e.cx-1], line[e.cx:]...)
		e.lines[e.cy] = string(line)
		e.cx--
		e.doc.SetLine(e.cy, e.lines[e.cy])
	case e.cy > 0:
		e.pushUndo()
		prev := e.lines[e.cy-1]
		e.lines[e.cy-1] = prev + e.lines[e.cy]
		e.lines = append(e.lines[:e.cy], e.lines[e.cy+1:]...)
		e.doc.SetLine(e.cy-1, e.lines[e.cy-1])
		e.doc.DeleteLine(e.cy)
		e.cy--
		e.cx = len([]rune(prev))
	}
}

// deleteForward deletes the character under the cursor, joining the next
// line at end of line.
func (e *Editor) deleteForward() {
	line := []rune(e.lines[e.cy])
	switch {
	case e.cx < len(line):
		e.pushUndo()
		line = append(line[:e.cx], line[e.cx+1:]...)
		e.lines[e.cy] = string(line)
		e.doc.SetLine(e.cy, e.lines[e.cy])
	case e.cy < len(e.lines)-1:
		e.pushUndo()
		e.lines[e.cy] += e.lines[e.cy+1]
		e.lines = append(e.lines[:e.cy+1], e.lines[e.cy+2:]...)
		e.doc.SetLine(e.cy, e.lines[e.cy])
		e.doc.DeleteLine(e.cy + 1)
	}
}

// newline splits the line at the cursor. The new line starts with the
// current line's indentation, one level deeper after an opening '{'. A
// closing '}' right after the cursor moves to a line of its own.
func (e *Editor) newline() {
	e.pushUndo()
	cur := e.lines[e.cy]
	line := []rune(cur)
	left, right := string(line[:e.cx]), string(line[e.cx:])

	base := leadingWhitespace(cur)
	indent := base
	opens := strings.HasSuffix(strings.TrimRight(left, " \t"), "{")
	if opens {
		indent += strings.Repeat(" ", e.tabWidth)
	}

	added := []string{indent + right}
	if opens && strings.HasPrefix(strings.TrimLeft(right, " \t"), "}") {
		added = []string{indent, base + strings.TrimLeft(right, " \t")}
	}

	e.lines[e.cy] = left
	e.doc.SetLine(e.cy, left)
	for k, text := range added {
		at := e.cy + 1 + k
		e.lines = append(e.lines[:at], append([]string{text}, e.lines[at:]...)...)
		e.doc.InsertLine(at, text)
	}
	e.cy++
	e.cx = len([]rune(indent))
}

// leadingWhitespace returns the indentation of s.
func leadingWhitespace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}
