package editor

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
)

// Prompt is a one-line question shown on the status row.
type Prompt struct {
	Label    string
	Value    string
	Callback func(string)
}

// promptShow shows a prompt to the user.
// promptShow показывает пользователю запрос.
func (e *Editor) promptShow(label string, cb func(string)) {
	e.prompt = &Prompt{Label: label, Callback: cb}
}

// handlePromptInput handles input for the prompt.
// handlePromptInput обрабатывает ввод для запроса.
func (e *Editor) handlePromptInput(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEsc, tcell.KeyCtrlQ:
		e.prompt = nil
		e.setStatus("Cancelled")
	case tcell.KeyEnter:
		val, cb := e.prompt.Value, e.prompt.Callback
		e.prompt = nil
		if cb != nil {
			cb(val)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(e.prompt.Value); len(r) > 0 {
			e.prompt.Value = string(r[:len(r)-1])
		}
	case tcell.KeyCtrlV:
		text, err := clipboard.ReadAll()
		if err != nil {
			e.showError("Paste error: " + err.Error())
			return
		}
		e.prompt.Value += strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", " "), "\n", " ")
	case tcell.KeyRune:
		e.prompt.Value += string(ev.Rune())
	}
}
