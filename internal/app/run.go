package app

import (
	"context"
	"fmt"

	"github.com/vk/scalgrid/internal/expid"
	"github.com/vk/scalgrid/internal/lock"
	"github.com/vk/scalgrid/internal/runner"
)

// RunOptions select what a batch executes.
type RunOptions struct {
	Binary string
	Filter expid.Filter
}

// Run executes the solver over every selected experiment under the
// workspace lock, serving progress on the status port when one is set.
func (a *App) Run(ctx context.Context, opts RunOptions) (*runner.Result, error) {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.", "binary", opts.Binary)

	l := &lock.FileLock{
		Path:         a.workspacePath(a.config.Lock.Path),
		PollInterval: a.config.Lock.PollInterval,
		Timeout:      a.config.Lock.Timeout,
	}
	r := runner.New(l, a.launcher)

	if a.config.StatusPort > 0 {
		srv, err := a.startStatusServer(ctx, a.config.StatusPort, r.Progress)
		if err != nil {
			return nil, fmt.Errorf("failed to start status server: %w", err)
		}
		defer a.closeStatusServer(ctx, srv)
	}

	a.logger.Info("🚀 Starting batch.")
	result, err := r.Run(ctx, runner.Options{
		Workspace: a.config.Workspace.Root,
		Platform:  a.config.Workspace.Platform,
		BinPath:   a.config.Solver.BinPath,
		Binary:    opts.Binary,
		Args:      a.config.Solver.Args,
		Filter:    opts.Filter,
	})
	if err != nil {
		return result, err
	}

	a.logger.Info("🏁 Batch finished.", "selected", result.Selected, "ran", result.Ran, "failed", result.Failed)
	return result, nil
}
