package editor

import (
	"errors"

	"go.uber.org/zap"

	"aiedit/internal/build"
	"aiedit/internal/toolchain"
)

const noExecutableMessage = "Error: No compiled executable found. Please compile first."

// compile saves the buffer and compiles it in the background.
func (e *Editor) compile() {
	e.save(func(path string) {
		ch, err := e.builder.Compile(e.ctx, path)
		if err != nil {
			e.buildFailed(err)
			return
		}
		e.setStatus("Compiling...")
		go func() {
			r := <-ch
			e.post(func(e *Editor) { e.showCompile(r) })
		}()
	})
}

// run executes the last successful build.
func (e *Editor) run() {
	ch, err := e.builder.Run(e.ctx)
	if err != nil {
		e.buildFailed(err)
		return
	}
	e.setStatus("Running...")
	go func() {
		r := <-ch
		e.post(func(e *Editor) {
			e.setOutput(r.Banner())
			e.setStatus("Execution finished")
		})
	}()
}

// compileAndRun saves, compiles and runs the result if the compile succeeds.
func (e *Editor) compileAndRun() {
	e.save(func(path string) {
		ch, err := e.builder.CompileAndRun(e.ctx, path)
		if err != nil {
			e.buildFailed(err)
			return
		}
		e.setStatus("Building...")
		go func() {
			o := <-ch
			e.post(func(e *Editor) { e.showOutcome(o) })
		}()
	})
}

// showCompile puts a compile report in the output pane.
func (e *Editor) showCompile(r build.CompileReport) {
	e.setOutput(r.Banner())
	if r.Success {
		e.setStatus("Compilation successful")
	} else {
		e.showError("Compilation failed")
	}
}

// showOutcome shows both stages of a compile-and-run.
func (e *Editor) showOutcome(o build.Outcome) {
	text := o.Compile.Banner()
	switch {
	case o.Run != nil:
		text += "\n\n" + o.Run.Banner()
		e.setStatus("Execution finished")
	case o.RunErr != nil:
		text += "\n\n" + buildErrorText(o.RunErr)
		e.showError(o.RunErr.Error())
	default:
		e.showError("Compilation failed")
	}
	e.setOutput(text)
}

// buildFailed reports a build request that never started.
func (e *Editor) buildFailed(err error) {
	e.log.Info("build request rejected", zap.Error(err))
	if errors.Is(err, build.ErrBusy) {
		e.showError("Build already in progress")
		return
	}
	e.setOutput(buildErrorText(err))
	e.showError(err.Error())
}

// buildErrorText is the output pane text for err.
func buildErrorText(err error) string {
	if errors.Is(err, build.ErrNoExecutable) {
		return noExecutableMessage
	}
	return "Error: " + err.Error()
}

// cycleCompiler selects the next compiler identity.
func (e *Editor) cycleCompiler() {
	ids := toolchain.Identities()
	cur := e.builder.Toolchain().Identity
	next := ids[0]
	for i, id := range ids {
		if id == cur {
			next = ids[(i+1)%len(ids)]
			break
		}
	}
	e.builder.SetToolchain(next)
	e.setStatus("Compiler: " + next.Label())
}
