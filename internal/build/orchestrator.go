// Package build drives the compile-then-run pipeline for a single C/C++
// source file. Processes are started through a Launcher and their results
// are delivered on channels so callers never block their own event loop.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"aiedit/internal/toolchain"
)

// State is the orchestrator's position in the pipeline.
type State int

const (
	Idle State = iota
	Compiling
	CompileSucceeded
	CompileFailed
	Running
	Done
)

// String returns the state name shown in the editor title bar.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Compiling:
		return "compiling"
	case CompileSucceeded:
		return "compiled"
	case CompileFailed:
		return "compile failed"
	case Running:
		return "running"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Orchestrator compiles a source file with the selected toolchain and runs
// the resulting executable. At most one compile and one run are in flight.
type Orchestrator struct {
	launcher  Launcher
	log       *zap.Logger
	compiling *semaphore.Weighted
	running   *semaphore.Weighted

	mu        sync.Mutex
	toolchain toolchain.Toolchain
	state     State
	output    string
}

type session struct {
	source string
	output string
	tc     toolchain.Toolchain
}

// New returns an orchestrator using the toolchain for id. A nil logger is
// replaced by a no-op one.
func New(l Launcher, id toolchain.Identity, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		launcher:  l,
		log:       log,
		compiling: semaphore.NewWeighted(1),
		running:   semaphore.NewWeighted(1),
		toolchain: toolchain.Resolve(id),
	}
}

// SetToolchain switches the compiler used by the next compile.
func (o *Orchestrator) SetToolchain(id toolchain.Identity) {
	o.mu.Lock()
	o.toolchain = toolchain.Resolve(id)
	o.mu.Unlock()
	o.log.Info("toolchain selected", zap.String("identity", string(id)))
}

// Toolchain returns the toolchain the next compile will use.
func (o *Orchestrator) Toolchain() toolchain.Toolchain {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.toolchain
}

// State returns the current pipeline state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// OutputPath is the executable produced by the last successful compile, or
// "" if there has been none.
func (o *Orchestrator) OutputPath() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.output
}

// setState records s under the lock.
func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Compile builds src. The report arrives on the returned channel, which is
// closed afterwards. ErrBusy is returned while a compile is in flight.
func (o *Orchestrator) Compile(ctx context.Context, src string) (<-chan CompileReport, error) {
	s, err := o.beginCompile(src)
	if err != nil {
		return nil, err
	}
	out := make(chan CompileReport, 1)
	go func() {
		defer close(out)
		report := o.compile(ctx, s)
		o.compiling.Release(1)
		out <- report
	}()
	return out, nil
}

// Run executes the output of the last successful compile.
func (o *Orchestrator) Run(ctx context.Context) (<-chan RunReport, error) {
	return o.startRun(ctx, o.OutputPath())
}

// CompileAndRun compiles src and, if that succeeds, runs the result. The
// run stage is skipped on a failed compile.
func (o *Orchestrator) CompileAndRun(ctx context.Context, src string) (<-chan Outcome, error) {
	s, err := o.beginCompile(src)
	if err != nil {
		return nil, err
	}
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		report := o.compile(ctx, s)
		o.compiling.Release(1)

		outcome := Outcome{Compile: report}
		if report.Success {
			runs, err := o.startRun(ctx, report.OutputPath)
			if err != nil {
				outcome.RunErr = err
			} else {
				r := <-runs
				outcome.Run = &r
			}
		}
		out <- outcome
	}()
	return out, nil
}

// beginCompile claims the compile slot and fixes the paths and toolchain for one compile.
func (o *Orchestrator) beginCompile(src string) (session, error) {
	abs, err := filepath.Abs(src)
	if err != nil {
		return session{}, fmt.Errorf("resolve source path: %w", err)
	}
	if !o.compiling.TryAcquire(1) {
		return session{}, ErrBusy
	}
	return session{
		source: abs,
		output: toolchain.OutputPath(abs),
		tc:     o.Toolchain(),
	}, nil
}

// compile runs the compiler for s and builds its report.
func (o *Orchestrator) compile(ctx context.Context, s session) CompileReport {
	o.setState(Compiling)
	cmd := Command{
		Name: s.tc.Command,
		Args: s.tc.Args(s.source, s.output),
		Dir:  filepath.Dir(s.source),
	}
	o.log.Info("compile started", zap.String("cmd", cmd.String()))

	exit := <-o.launcher.Launch(ctx, cmd)
	report := newCompileReport(s, cmd, exit)

	o.mu.Lock()
	if report.Success {
		o.state = CompileSucceeded
		o.output = s.output
	} else {
		o.state = CompileFailed
	}
	o.mu.Unlock()

	o.log.Info("compile finished",
		zap.String("source", s.source),
		zap.Bool("success", report.Success),
		zap.Int("code", report.ExitCode),
	)
	return report
}

// startRun launches exe once the run slot is free.
func (o *Orchestrator) startRun(ctx context.Context, exe string) (<-chan RunReport, error) {
	if exe == "" {
		return nil, ErrNoExecutable
	}
	if _, err := os.Stat(exe); err != nil {
		o.log.Warn("executable missing", zap.String("path", exe), zap.Error(err))
		return nil, ErrNoExecutable
	}
	if !o.running.TryAcquire(1) {
		return nil, ErrBusy
	}

	out := make(chan RunReport, 1)
	go func() {
		defer close(out)

		o.setState(Running)
		o.log.Info("run started", zap.String("exe", exe))
		exit := <-o.launcher.Launch(ctx, Command{Name: exe, Dir: filepath.Dir(exe)})
		report := newRunReport(exe, exit)
		o.setState(Done)
		o.running.Release(1)
		o.log.Info("run finished", zap.String("exe", exe), zap.Int("code", report.ExitCode))
		out <- report
	}()
	return out, nil
}
