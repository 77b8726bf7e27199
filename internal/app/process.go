package app

import (
	"context"
	"fmt"

	"github.com/vk/scalgrid/internal/expid"
	"github.com/vk/scalgrid/internal/results"
)

// ProcessOptions shape the report.
type ProcessOptions struct {
	Filter  expid.Filter
	Summary bool
}

// Process collects every completed run and prints the report to the
// output writer. Nothing is persisted.
func (a *App) Process(ctx context.Context, opts ProcessOptions) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Process method started.")

	p := &results.Processor{
		Workspace: a.config.Workspace.Root,
		Platform:  a.config.Workspace.Platform,
	}
	table, err := p.Collect(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect results: %w", err)
	}

	table.Filter(opts.Filter)
	if err := table.Sort(a.config.Report.Sort); err != nil {
		return err
	}

	if opts.Summary {
		sums, err := results.Summarize(table)
		if err != nil {
			return err
		}
		return results.RenderSummary(a.outW, sums)
	}
	return results.Render(a.outW, table, a.config.Report.Format)
}
