package editor

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
)

// handleKey handles keyboard input.
// handleKey обрабатывает ввод с клавиатуры.
func (e *Editor) handleKey(ev *tcell.EventKey) {
	if e.prompt != nil {
		e.handlePromptInput(ev)
		return
	}
	if ev.Key() != tcell.KeyCtrlQ {
		e.quitArmed = false
	}

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		e.requestQuit()
	case tcell.KeyCtrlS:
		e.save(nil)
	case tcell.KeyCtrlB:
		e.compile()
	case tcell.KeyCtrlR:
		e.run()
	case tcell.KeyF5:
		e.compileAndRun()
	case tcell.KeyF6:
		e.cycleCompiler()
	case tcell.KeyCtrlK:
		e.ask()
	case tcell.KeyCtrlF:
		e.followUp()
	case tcell.KeyCtrlG:
		e.suggest()
	case tcell.KeyCtrlX:
		e.clearConversation()
	case tcell.KeyCtrlZ:
		e.undo()
	case tcell.KeyCtrlU:
		e.redo()
	case tcell.KeyCtrlV:
		e.paste()
	case tcell.KeyCtrlY:
		e.copyOutput()

	case tcell.KeyUp:
		e.cy--
	case tcell.KeyDown:
		e.cy++
	case tcell.KeyLeft:
		if e.cx > 0 {
			e.cx--
		} else if e.cy > 0 {
			e.cy--
			e.cx = len([]rune(e.lines[e.cy]))
		}
	case tcell.KeyRight:
		if e.cx < len([]rune(e.lines[e.cy])) {
			e.cx++
		} else if e.cy < len(e.lines)-1 {
			e.cy++
			e.cx = 0
		}
	case tcell.KeyHome:
		e.cx = 0
	case tcell.KeyEnd:
		e.cx = len([]rune(e.lines[e.cy]))
	case tcell.KeyPgUp:
		e.cy -= e.layout().textRows
	case tcell.KeyPgDn:
		e.cy += e.layout().textRows

	case tcell.KeyEnter:
		e.newline()
	case tcell.KeyTab:
		e.insertText(strings.Repeat(" ", e.tabWidth))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.backspace()
	case tcell.KeyDelete:
		e.deleteForward()
	case tcell.KeyRune:
		if ev.Modifiers()&tcell.ModAlt == 0 {
			e.typeRune(ev.Rune())
		}
	}
	e.ensureVisible()
}

// typeRune inserts a typed character. Opening brackets and quotes get their
// partner; typing a closer in front of the same closer steps over it.
func (e *Editor) typeRune(r rune) {
	line := []rune(e.lines[e.cy])
	if e.autoClose && e.cx < len(line) && line[e.cx] == r && isCloser(r) {
		e.cx++
		return
	}
	if e.autoClose {
		if closer := autoClosing(r); closer != 0 {
			e.insertPair(r, closer)
			return
		}
	}
	e.insertRune(r)
}

// isCloser reports whether typing r may step over an identical rune.
func isCloser(r rune) bool {
	return r == ')' || r == ']' || r == '}' || r == '"'
}

// requestQuit quits, asking for confirmation when the buffer is dirty.
func (e *Editor) requestQuit() {
	if e.dirty && !e.quitArmed {
		e.quitArmed = true
		e.showError("Unsaved changes. Press Ctrl-Q again to quit without saving")
		return
	}
	e.quit = true
}

// paste inserts the clipboard contents at the cursor.
// paste вставляет содержимое буфера обмена.
func (e *Editor) paste() {
	text, err := clipboard.ReadAll()
	if err != nil {
		e.showError("Paste error: " + err.Error())
		return
	}
	e.insertText(text)
}

// copyOutput copies the output pane to the clipboard.
func (e *Editor) copyOutput() {
	if len(e.output) == 0 {
		e.setStatus("Output is empty")
		return
	}
	if err := clipboard.WriteAll(strings.Join(e.output, "\n")); err != nil {
		e.showError("Copy error: " + err.Error())
		return
	}
	e.setStatus("Output copied to clipboard")
}
