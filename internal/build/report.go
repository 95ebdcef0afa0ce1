package build

import (
	"errors"
	"fmt"
)

// BuildSucceededMessage replaces an empty compiler output on success.
const BuildSucceededMessage = "Build completed successfully."

var (
	// ErrNoExecutable is returned by Run when no successful compile has
	// produced an executable that still exists on disk.
	ErrNoExecutable = errors.New("no compiled executable found, compile first")
	// ErrBusy is returned when a compile or run is requested while the
	// previous one of the same kind is still in flight.
	ErrBusy = errors.New("a build is already in progress")
)

// CompileReport describes one compiler invocation.
type CompileReport struct {
	Source     string
	OutputPath string
	Command    Command
	Success    bool
	Output     string
	ExitCode   int
}

// Banner is the text shown to the user for this report.
func (r CompileReport) Banner() string {
	if r.Success {
		return "✓ Compilation successful\n" + r.Output
	}
	return "✗ Compilation failed:\n" + r.Output
}

// RunReport describes one execution of a compiled program.
type RunReport struct {
	Executable string
	Output     string
	ExitCode   int
}

// Banner is the text shown to the user for this report.
func (r RunReport) Banner() string {
	return "Program output:\n" + r.Output
}

// Outcome is the result of the compile-then-run pipeline. Run is nil when
// the compile failed or the run could not be started, in which case RunErr
// says why.
type Outcome struct {
	Compile CompileReport
	Run     *RunReport
	RunErr  error
}

func newCompileReport(s session, cmd Command, exit Exit) CompileReport {
	r := CompileReport{
		Source:     s.source,
		OutputPath: s.output,
		Command:    cmd,
		ExitCode:   exit.Code,
	}
	if exit.Err != nil {
		r.Output = fmt.Sprintf("Failed to start %s: %v", cmd.Name, exit.Err)
		return r
	}
	r.Success = exit.Code == 0
	r.Output = joinOutput(exit.Stdout, exit.Stderr, "")
	if r.Output == "" && r.Success {
		r.Output = BuildSucceededMessage
	}
	return r
}

func newRunReport(exe string, exit Exit) RunReport {
	out := joinOutput(exit.Stdout, exit.Stderr, "Errors:\n")
	if exit.Err != nil {
		if out != "" {
			out += "\n"
		}
		out += fmt.Sprintf("Failed to start %s: %v", exe, exit.Err)
	}
	out += fmt.Sprintf("\n\n[Process exited with code %d]", exit.Code)
	return RunReport{Executable: exe, Output: out, ExitCode: exit.Code}
}

func joinOutput(stdout, stderr, stderrLabel string) string {
	out := stdout
	if stderr != "" {
		if out != "" {
			out += "\n"
		}
		out += stderrLabel + stderr
	}
	return out
}
