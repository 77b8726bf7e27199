package results

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/scalgrid/internal/ctxlog"
	"github.com/vk/scalgrid/internal/expid"
	"github.com/vk/scalgrid/internal/fsutil"
	"github.com/vk/scalgrid/internal/generator"
	"github.com/vk/scalgrid/internal/runner"
	"github.com/vk/scalgrid/internal/sdf"
)

// Processor walks a workspace and turns solver logs into report rows.
type Processor struct {
	Workspace string
	Platform  string
}

// Collect builds one row per completed run of every experiment found.
// Runs that have not finished yet are skipped silently; malformed logs are
// skipped with a warning.
func (p *Processor) Collect(ctx context.Context) (*Table, error) {
	logger := ctxlog.FromContext(ctx)
	platform := p.Platform
	if platform == "" {
		platform = expid.PlatformTDNNoC
	}

	ids, err := expid.Discover(ctx, p.Workspace, platform)
	if err != nil {
		return nil, err
	}

	table := &Table{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := p.collectExperiment(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("experiment %s: %w", id, err)
		}
		table.Rows = append(table.Rows, rows...)
	}

	logger.Info("Collected results.", "experiments", len(ids), "rows", len(table.Rows))
	return table, nil
}

func (p *Processor) collectExperiment(ctx context.Context, id expid.Identity) ([]Row, error) {
	ctx = ctxlog.With(ctx, "experiment", id.String())
	logger := ctxlog.FromContext(ctx)
	dir := id.Dir(p.Workspace)

	runs, err := runner.ListRuns(dir)
	if err != nil {
		return nil, err
	}

	var (
		rows     []Row
		metrics  sdf.Metrics
		measured bool
	)
	for _, n := range runs {
		data, err := os.ReadFile(runner.OutputPath(dir, n))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		text := string(data)
		if strings.TrimSpace(text) == "" {
			continue
		}

		outcome, err := ParseOutput(text)
		if err != nil {
			logger.Warn("Skipping malformed solver output.", "run", n, "error", err)
			continue
		}
		if !outcome.Completed {
			logger.Debug("Run has not completed.", "run", n)
			continue
		}

		if !measured {
			apps, err := fsutil.FindFilesByExtension(filepath.Join(dir, generator.AppsDir), ".xml")
			if err != nil {
				return nil, err
			}
			metrics, err = sdf.MeasureFiles(apps)
			if err != nil {
				return nil, err
			}
			measured = true
		}
		rows = append(rows, NewRow(id, metrics, n, outcome))
	}
	return rows, nil
}
