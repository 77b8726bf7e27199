package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/vk/scalgrid/internal/ctxlog"
	"github.com/vk/scalgrid/internal/runner"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer // reports
	logW     io.Writer // logs and solver output
	logger   *slog.Logger
	config   *Config
	launcher runner.Launcher
}

// NewApp is the constructor for the main application. Reports are written to
// outW; logs and the solver's own output go to logW.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:     outW,
		logW:     logW,
		logger:   logger,
		config:   cfg,
		launcher: &runner.ExecLauncher{Stdout: logW, Stderr: logW},
	}
}

// SetLauncher replaces how the solver is started. It is meant for tests.
func (a *App) SetLauncher(l runner.Launcher) {
	a.launcher = l
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// workspacePath resolves p against the workspace root unless it is absolute.
func (a *App) workspacePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.config.Workspace.Root, p)
}
