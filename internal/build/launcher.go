package build

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Command is one external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
}

// String renders the command line for logs and reports.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Exit is the outcome of a launched process. Err is only set when the
// process could not be started or did not produce an exit code.
type Exit struct {
	Stdout string
	Stderr string
	Code   int
	Err    error
}

// Launcher starts a process and delivers its Exit on the returned channel,
// which receives exactly one value and is then closed.
type Launcher interface {
	Launch(ctx context.Context, cmd Command) <-chan Exit
}

// ExecLauncher runs commands on the host with os/exec.
type ExecLauncher struct {
	Log *zap.Logger
}

// Launch implements Launcher.
func (l ExecLauncher) Launch(ctx context.Context, cmd Command) <-chan Exit {
	ch := make(chan Exit, 1)
	go func() {
		defer close(ch)
		ch <- l.run(ctx, cmd)
	}()
	return ch
}

func (l ExecLauncher) run(ctx context.Context, cmd Command) Exit {
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	exit := Exit{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr) && exitErr.ExitCode() >= 0:
		exit.Code = exitErr.ExitCode()
	default:
		exit.Code = -1
		exit.Err = err
	}

	log.Debug("process finished",
		zap.String("cmd", cmd.String()),
		zap.String("dir", cmd.Dir),
		zap.Int("code", exit.Code),
		zap.Duration("took", time.Since(start)),
		zap.Error(exit.Err),
	)
	return exit
}
