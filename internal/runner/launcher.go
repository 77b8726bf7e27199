package runner

import (
	"context"
	"io"
	"os/exec"

	"github.com/vk/scalgrid/internal/ctxlog"
)

// Invocation is one synchronous solver execution.
type Invocation struct {
	Binary string
	Args   []string
	Dir    string // working directory
}

// Launcher starts a solver and waits for it to exit.
type Launcher interface {
	Launch(ctx context.Context, inv Invocation) error
}

// ExecLauncher runs the solver as a child process, streaming its standard
// streams to Stdout and Stderr.
type ExecLauncher struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Launch implements Launcher.
func (l *ExecLauncher) Launch(ctx context.Context, inv Invocation) error {
	ctxlog.FromContext(ctx).Debug("Starting solver.", "binary", inv.Binary, "args", inv.Args)
	cmd := exec.CommandContext(ctx, inv.Binary, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	return cmd.Run()
}
