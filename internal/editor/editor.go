// Package editor is the terminal host. It edits a single C/C++ buffer,
// paints it with highlight categories, and drives the build orchestrator
// and the AI assistant without blocking the event loop.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"aiedit/internal/ai"
	"aiedit/internal/build"
	"aiedit/internal/config"
	"aiedit/internal/highlight"
)

// Options wires an Editor to its services.
type Options struct {
	Path      string
	Config    config.Config
	Builder   *build.Orchestrator
	Assistant *ai.Service
	Log       *zap.Logger
}

// Editor represents the text editor state.
// Editor представляет состояние текстового редактора.
type Editor struct {
	screen tcell.Screen
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger

	filename         string
	lines            []string
	doc              *highlight.Document
	cx, cy           int
	offsetX, offsetY int
	dirty            bool
	quit             bool
	quitArmed        bool
	width, height    int

	tabWidth  int
	autoClose bool

	undoStack []EditorState
	redoStack []EditorState
	brackets  *BracketMatcher
	prompt    *Prompt

	message      string
	errorMessage string
	messageTime  time.Time

	output []string

	builder   *build.Orchestrator
	assistant *ai.Service
	model     string
	conv      ai.Conversation
	// convEpoch counts conversation clears. Chat replies sent in an earlier
	// epoch are dropped.
	convEpoch int

	stopWatch func()
}

// asyncEvent carries a result from a background goroutine into the event
// loop. apply runs on the loop goroutine, so it may touch editor state.
type asyncEvent struct {
	when  time.Time
	apply func(*Editor)
}

// When implements tcell.Event.
func (ev *asyncEvent) When() time.Time { return ev.when }

// New creates an editor for opts.Path. A path that does not exist yet is
// accepted and created on first save.
func New(opts Options) (*Editor, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	tab := opts.Config.Editor.TabWidth
	if tab < 1 {
		tab = 4
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Editor{
		ctx:       ctx,
		cancel:    cancel,
		log:       log,
		filename:  opts.Path,
		lines:     []string{""},
		tabWidth:  tab,
		autoClose: opts.Config.Editor.AutoClose,
		builder:   opts.Builder,
		assistant: opts.Assistant,
		model:     opts.Config.AI.Model,
		stopWatch: func() {},
	}

	if opts.Path != "" {
		data, err := os.ReadFile(opts.Path)
		switch {
		case err == nil:
			e.lines = splitText(string(data))
		case errors.Is(err, fs.ErrNotExist):
			e.log.Info("new file", zap.String("path", opts.Path))
		default:
			cancel()
			return nil, fmt.Errorf("open %s: %w", opts.Path, err)
		}
	}
	e.doc = highlight.NewDocument(highlight.MustCpp(), strings.Join(e.lines, "\n"))
	e.brackets = NewBracketMatcher(e)
	return e, nil
}

// Run takes over s until the user quits.
func (e *Editor) Run(s tcell.Screen) error {
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()
	e.attach(s)
	e.startWatch()
	defer func() { e.stopWatch() }()
	defer e.cancel()

	for !e.quit {
		e.render()
		e.handleEvent(s.PollEvent())
	}
	return nil
}

// attach binds the editor to s without initializing it.
func (e *Editor) attach(s tcell.Screen) {
	e.screen = s
	e.refreshSize()
}

// handleEvent dispatches one event from the screen.
func (e *Editor) handleEvent(ev tcell.Event) {
	switch tev := ev.(type) {
	case *tcell.EventKey:
		e.handleKey(tev)
	case *tcell.EventResize:
		e.refreshSize()
		e.screen.Sync()
	case *asyncEvent:
		tev.apply(e)
	case nil:
		// The screen was finalized.
		e.quit = true
	}
}

// post schedules fn on the event loop.
func (e *Editor) post(fn func(*Editor)) {
	if err := e.screen.PostEvent(&asyncEvent{when: time.Now(), apply: fn}); err != nil {
		e.log.Warn("event queue full, result dropped", zap.Error(err))
	}
}

// Text returns the buffer contents.
func (e *Editor) Text() string {
	return strings.Join(e.lines, "\n")
}

// setStatus shows msg on the status bar.
// setStatus выводит сообщение в строке состояния.
func (e *Editor) setStatus(msg string) {
	e.message = msg
	e.errorMessage = ""
	e.messageTime = time.Now()
}

// showError shows msg on the status bar as an error.
func (e *Editor) showError(msg string) {
	e.errorMessage = msg
	e.messageTime = time.Now()
}

// setOutput replaces the output pane contents.
func (e *Editor) setOutput(text string) {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	e.output = strings.Split(text, "\n")
}

// save writes the buffer, prompting for a path when the buffer is unnamed.
// then runs after a successful write.
func (e *Editor) save(then func(path string)) {
	if e.filename == "" {
		e.promptShow("Save as (path)", func(input string) {
			path := strings.TrimSpace(input)
			if path == "" {
				e.setStatus("Save cancelled")
				return
			}
			e.filename = path
			e.startWatch()
			e.save(then)
		})
		return
	}
	if err := e.persist(); err != nil {
		e.showError("Unable to save the file: " + err.Error())
		return
	}
	e.setStatus("Saved " + e.filename)
	if then != nil {
		then(e.filename)
	}
}

// persist writes the buffer to the current file name.
func (e *Editor) persist() error {
	if err := os.WriteFile(e.filename, []byte(e.Text()), 0o644); err != nil {
		return err
	}
	e.dirty = false
	e.log.Info("saved", zap.String("path", e.filename), zap.Int("lines", len(e.lines)))
	return nil
}

// reloadFromDisk replaces a clean buffer with the file contents.
func (e *Editor) reloadFromDisk() {
	if e.filename == "" {
		return
	}
	data, err := os.ReadFile(e.filename)
	if err != nil {
		return
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if text == e.Text() {
		return
	}
	if e.dirty {
		e.showError("File changed on disk; save to overwrite")
		return
	}
	e.lines = splitText(text)
	e.undoStack = nil
	e.redoStack = nil
	n := e.doc.SetText(text)
	e.ensureVisible()
	e.setStatus("Reloaded " + e.filename)
	e.log.Info("reloaded from disk", zap.String("path", e.filename), zap.Int("retokenized", n))
}

// splitText splits text into lines, accepting CRLF.
func splitText(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
