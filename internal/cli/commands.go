package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/vk/scalgrid/internal/app"
	"github.com/vk/scalgrid/internal/expid"
)

// filterFlags are shared by run and process.
type filterFlags struct {
	platform     string
	sizes        string
	slots        string
	applications string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.platform, "platform", "", "Platform kind. Only 'TDN-NoC' is supported.")
	fs.StringVar(&f.sizes, "size", "", "Mesh sizes to select, e.g. '2x2,1x4'.")
	fs.StringVar(&f.slots, "slots", "", "TDN slot counts to select, e.g. '1,2'.")
	fs.StringVar(&f.applications, "applications", "", "Application combinations to select, e.g. 'so-cy,ra'. Tag order does not matter.")
}

func (f *filterFlags) filter() expid.Filter {
	return expid.NewFilter(f.sizes, f.slots, f.applications)
}

func (f *filterFlags) apply(cmd *cobra.Command, cfg *app.Config) {
	if cmd.Flags().Changed("platform") {
		cfg.Workspace.Platform = f.platform
	}
}

func (o *options) newGenerateCommand() *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "generate SIZES...",
		Short: "Generate experiments for the given processor counts",
		Long: `Generate materializes one experiment directory per processor count, mesh
shape, application combination and TDN slot count. SIZES are integers or
inclusive ranges, e.g. '4 6-9'.`,
		Args: args(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, sizes []string) error {
			a, err := o.newApp(cmd, func(cfg *app.Config) {
				if cmd.Flags().Changed("template") {
					cfg.Workspace.Template = template
				}
			})
			if err != nil {
				return err
			}
			_, err = a.Generate(cmd.Context(), sizes)
			return err
		},
	}
	cmd.Flags().StringVar(&template, "template", "", "Template directory; overrides workspace.template.")
	return cmd
}

func (o *options) newRunCommand() *cobra.Command {
	var (
		filters     filterFlags
		binPath     string
		statusPort  int
		lockTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run BIN",
		Short: "Run the solver over the selected experiments",
		Long: `Run executes BIN, found under the solver bin path, once per selected
experiment, one at a time. Only one batch per workspace runs at a time; a
second one waits for the lock file to clear.`,
		Args: args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, bin []string) error {
			a, err := o.newApp(cmd, func(cfg *app.Config) {
				filters.apply(cmd, cfg)
				if cmd.Flags().Changed("bin-path") {
					cfg.Solver.BinPath = binPath
				}
				if cmd.Flags().Changed("lock-timeout") {
					cfg.Lock.Timeout = lockTimeout
				}
				cfg.StatusPort = statusPort
			})
			if err != nil {
				return err
			}
			_, err = a.Run(cmd.Context(), app.RunOptions{Binary: bin[0], Filter: filters.filter()})
			return err
		},
	}
	filters.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&binPath, "bin-path", "", "Folder holding the solver binaries; overrides solver.bin_path.")
	fs.IntVar(&statusPort, "status-port", 0, "Port for the HTTP status server. 0 is disabled.")
	fs.DurationVar(&lockTimeout, "lock-timeout", 0, "Give up waiting for the lock after this long. 0 waits forever.")
	return cmd
}

func (o *options) newProcessCommand() *cobra.Command {
	var (
		filters filterFlags
		sort    string
		format  string
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Print a report of every completed run",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := o.newApp(cmd, func(cfg *app.Config) {
				filters.apply(cmd, cfg)
				if cmd.Flags().Changed("sort") {
					cfg.Report.Sort = expid.ParseList(sort)
				}
				if cmd.Flags().Changed("format") {
					cfg.Report.Format = format
				}
			})
			if err != nil {
				return err
			}
			return a.Process(cmd.Context(), app.ProcessOptions{Filter: filters.filter(), Summary: summary})
		},
	}
	filters.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&sort, "sort", "P,TDN-slots,mesh,sols-found", "Comma-separated sort columns, in precedence order.")
	fs.StringVar(&format, "format", "table", "Report format. Options: 'table', 'csv', 'json', 'yaml'.")
	fs.BoolVar(&summary, "summary", false, "Print per-experiment statistics instead of one row per run.")
	return cmd
}
