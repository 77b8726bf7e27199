// This file translates the decoded HCL blocks into the format-agnostic
// configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/scalgrid/internal/config"
)

// translate overlays every value the file sets onto m.
func (l *Loader) translate(ctx context.Context, root *fileRoot, evalCtx *hcl.EvalContext, m *config.Model) error {
	if w := root.Workspace; w != nil {
		setString(&m.Workspace.Root, w.Root)
		setString(&m.Workspace.Platform, w.Platform)
		setString(&m.Workspace.Template, w.Template)
	}

	if s := root.Solver; s != nil {
		setString(&m.Solver.BinPath, s.BinPath)
		if isExprDefined(ctx, s.Args, "args") {
			args := []string{}
			if diags := gohcl.DecodeExpression(s.Args, evalCtx, &args); diags.HasErrors() {
				return fmt.Errorf("solver.args: %w", diags)
			}
			m.Solver.Args = args
		}
	}

	if lk := root.Lock; lk != nil {
		setString(&m.Lock.Path, lk.Path)
		for _, d := range []struct {
			name string
			raw  string
			dst  *time.Duration
		}{
			{"poll_interval", lk.PollInterval, &m.Lock.PollInterval},
			{"timeout", lk.Timeout, &m.Lock.Timeout},
		} {
			if d.raw == "" {
				continue
			}
			v, err := time.ParseDuration(d.raw)
			if err != nil {
				return fmt.Errorf("lock.%s: %w", d.name, err)
			}
			*d.dst = v
		}
	}

	if r := root.Report; r != nil {
		if len(r.Sort) > 0 {
			m.Report.Sort = r.Sort
		}
		setString(&m.Report.Format, r.Format)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
