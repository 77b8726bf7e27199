// Package generator materializes experiment directories from a template by
// combining every mesh factorization of a processor count with every
// non-empty subset of the template's applications and every TDN slot count
// up to the subset's channel total.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/scalgrid/internal/combin"
	"github.com/vk/scalgrid/internal/ctxlog"
	"github.com/vk/scalgrid/internal/expid"
	"github.com/vk/scalgrid/internal/fsutil"
	"github.com/vk/scalgrid/internal/platform"
	"github.com/vk/scalgrid/internal/sdf"
)

// Template layout, relative to both the template and each experiment.
const (
	AppsDir      = "sdfs"
	PlatformFile = "xmls/platform.xml"
)

// Generator holds where templates are read from and experiments written to.
type Generator struct {
	// Workspace is the directory experiments are materialized under.
	Workspace string
	// Template is the template directory. A relative path is resolved
	// against Workspace and is also the literal that gets replaced inside
	// config.cfg.
	Template string
	// Platform is the top-level directory name, normally expid.PlatformTDNNoC.
	Platform string
}

// Summary counts what a Generate call did.
type Summary struct {
	Sizes       []int
	Experiments int
	Created     int
	Refreshed   int
}

type application struct {
	file     string // base name inside sdfs/
	tag      string
	channels int
}

// Generate materializes every experiment for the given processor counts.
// An experiment directory that already exists is refreshed: its platform
// descriptor, application set and config are rewritten over the old content.
// Any other I/O failure aborts without cleanup.
func (g *Generator) Generate(ctx context.Context, sizes []int) (*Summary, error) {
	logger := ctxlog.FromContext(ctx)
	summary := &Summary{Sizes: sizes}

	strs := make([]string, len(sizes))
	for i, s := range sizes {
		strs[i] = fmt.Sprint(s)
	}
	logger.Info("Generating experiments for size.", "sizes", strings.Join(strs, " "))

	apps, err := g.loadApplications()
	if err != nil {
		return summary, err
	}
	subsets, err := combin.NonEmptySubsets(len(apps))
	if err != nil {
		return summary, fmt.Errorf("enumerate application combinations: %w", err)
	}

	for _, n := range sizes {
		for _, pair := range combin.FactorPairs(n) {
			logger.Info("Dimensions for NoC cores.", "cores", n, "x", pair.X, "y", pair.Y)
			for _, idx := range subsets {
				if err := ctx.Err(); err != nil {
					return summary, err
				}
				if err := g.generateCombination(ctx, n, pair, combin.Subset(apps, idx), apps, summary); err != nil {
					return summary, err
				}
			}
		}
		logger.Info("End generation of experiments.", "size", n)
	}
	return summary, nil
}

func (g *Generator) generateCombination(ctx context.Context, n int, pair combin.Pair, chosen, all []application, summary *Summary) error {
	logger := ctxlog.FromContext(ctx)

	tags := make([]string, len(chosen))
	channels := 0
	for i, a := range chosen {
		tags[i] = a.tag
		channels += a.channels
	}
	sort.Strings(tags)
	logger.Info("Generating app combination.", "apps", strings.Join(tags, "-"), "channels", channels)

	keep := make(map[string]bool, len(chosen))
	for _, a := range chosen {
		keep[a.file] = true
	}

	for slots := 1; slots <= channels; slots++ {
		id := expid.New(g.platform(), n, pair.X, pair.Y, slots, tags)
		if err := g.materialize(ctx, id, keep, all, summary); err != nil {
			return fmt.Errorf("generate experiment %s: %w", id, err)
		}
		summary.Experiments++
	}
	return nil
}

func (g *Generator) materialize(ctx context.Context, id expid.Identity, keep map[string]bool, all []application, summary *Summary) error {
	logger := ctxlog.FromContext(ctx)
	dir := id.Dir(g.Workspace)

	err := fsutil.CopyTree(g.templateDir(), dir)
	switch {
	case errors.Is(err, fsutil.ErrExist):
		logger.Info("Refreshing existing experiment.", "experiment", id.String())
		summary.Refreshed++
	case err != nil:
		return err
	default:
		logger.Debug("Experiment directory created.", "experiment", id.String())
		summary.Created++
	}

	params := platform.Params{Processors: id.Processors, X: id.X, Y: id.Y, Slots: id.Slots}
	src := filepath.Join(g.templateDir(), filepath.FromSlash(PlatformFile))
	dst := filepath.Join(dir, filepath.FromSlash(PlatformFile))
	if err := platform.RewriteFile(src, dst, params); err != nil {
		return err
	}

	for _, a := range all {
		if keep[a.file] {
			continue
		}
		target := filepath.Join(dir, AppsDir, a.file)
		if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove unused application %s: %w", target, err)
		}
	}

	return g.writeConfig(id, dir)
}

// writeConfig copies the template config, replacing every reference to the
// template directory with the experiment directory.
func (g *Generator) writeConfig(id expid.Identity, dir string) error {
	raw, err := os.ReadFile(filepath.Join(g.templateDir(), expid.ConfigFile))
	if err != nil {
		return fmt.Errorf("read template config: %w", err)
	}

	replacement := id.RelPath()
	if filepath.IsAbs(g.Template) {
		replacement = dir
	}
	cfg := strings.ReplaceAll(string(raw), g.templateRef(), replacement)

	if err := os.WriteFile(filepath.Join(dir, expid.ConfigFile), []byte(cfg), 0o644); err != nil {
		return fmt.Errorf("write experiment config: %w", err)
	}
	return nil
}

// loadApplications lists the template's descriptors once and caches their
// channel counts for the whole run.
func (g *Generator) loadApplications() ([]application, error) {
	appsDir := filepath.Join(g.templateDir(), AppsDir)
	entries, err := os.ReadDir(appsDir)
	if err != nil {
		return nil, fmt.Errorf("list template applications: %w", err)
	}

	var apps []application
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		graph, err := sdf.Load(filepath.Join(appsDir, e.Name()))
		if err != nil {
			return nil, err
		}
		apps = append(apps, application{
			file:     e.Name(),
			tag:      expid.AppTag(e.Name()),
			channels: len(graph.Channels),
		})
	}
	if len(apps) == 0 {
		return nil, fmt.Errorf("no applications found in %s", appsDir)
	}
	return apps, nil
}

func (g *Generator) templateDir() string {
	if filepath.IsAbs(g.Template) {
		return g.Template
	}
	return filepath.Join(g.Workspace, g.Template)
}

// templateRef is the literal the template config uses for its own location.
func (g *Generator) templateRef() string {
	return filepath.ToSlash(filepath.Clean(g.Template))
}

func (g *Generator) platform() string {
	if g.Platform == "" {
		return expid.PlatformTDNNoC
	}
	return g.Platform
}
