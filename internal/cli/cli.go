package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/scalgrid/internal/app"
	"github.com/vk/scalgrid/internal/config"
	"github.com/vk/scalgrid/internal/generator"
	"github.com/vk/scalgrid/internal/hcl_adapter"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) *ExitError {
	return &ExitError{Code: 2, Message: err.Error()}
}

// options carries the persistent flags and the writers every subcommand
// shares.
type options struct {
	outW   io.Writer
	errW   io.Writer
	loader config.Loader

	configPath string
	workspace  string
	logLevel   string
	logFormat  string

	started bool // set once a subcommand body begins
}

// Execute runs the command line in args. Usage problems and unparseable
// size arguments are returned as *ExitError with code 2.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	o := &options{outW: outW, errW: errW, loader: hcl_adapter.NewLoader()}
	root := o.newRootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	var sizeErr *generator.SizeError
	switch {
	case errors.As(err, &exitErr):
		return exitErr
	case errors.As(err, &sizeErr):
		return usageError(sizeErr)
	case !o.started:
		return usageError(err)
	}
	return err
}

func (o *options) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "scalgrid",
		Short: "Scalability design-space exploration driver",
		Long: `scalgrid generates solver experiments over TDN NoC platform sizes and
application combinations, runs the solver over them one at a time under a
workspace lock, and turns the solver logs into a sortable report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(o.outW)
	root.SetErr(o.errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", config.DefaultFile, "Path to the HCL workspace file.")
	pf.StringVarP(&o.workspace, "workspace", "w", "", "Workspace root; overrides workspace.root.")
	pf.StringVar(&o.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&o.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")

	root.AddCommand(o.newGenerateCommand(), o.newRunCommand(), o.newProcessCommand())
	return root
}

// args wraps a cobra validator so its failures become usage errors.
func args(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := v(cmd, a); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// loadModel reads the workspace file. An explicitly named file must exist;
// the default one is optional. A relative workspace root in the file is
// taken relative to the file.
func (o *options) loadModel(cmd *cobra.Command) (*config.Model, error) {
	explicit := cmd.Flags().Changed("config")
	path := o.configPath
	if !explicit && o.workspace != "" {
		path = filepath.Join(o.workspace, config.DefaultFile)
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return nil, usageError(fmt.Errorf("config file: %w", err))
		}
		return config.Default(), nil
	}

	model, err := o.loader.Load(cmd.Context(), path)
	if err != nil {
		return nil, usageError(err)
	}
	if !filepath.IsAbs(model.Workspace.Root) {
		model.Workspace.Root = filepath.Join(filepath.Dir(path), model.Workspace.Root)
	}
	return model, nil
}

// newApp resolves the final configuration: defaults, then the workspace
// file, then persistent flags, then the subcommand's own overrides.
func (o *options) newApp(cmd *cobra.Command, override func(cfg *app.Config)) (*app.App, error) {
	model, err := o.loadModel(cmd)
	if err != nil {
		return nil, err
	}

	cfg := app.Config{
		Model:     *model,
		LogLevel:  strings.ToLower(o.logLevel),
		LogFormat: strings.ToLower(o.logFormat),
	}
	if o.workspace != "" {
		cfg.Workspace.Root = o.workspace
	}
	if override != nil {
		override(&cfg)
	}

	valid, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	o.started = true
	return app.NewApp(o.outW, o.errW, valid), nil
}
