package app

import (
	"context"
	"time"

	"github.com/vk/scalgrid/internal/generator"
)

// Generate materializes experiments for the processor counts named by
// tokens (integers or a-b ranges).
func (a *App) Generate(ctx context.Context, tokens []string) (*generator.Summary, error) {
	ctx = a.context(ctx)
	a.logger.Debug("App.Generate method started.", "tokens", tokens)

	sizes, err := generator.ParseSizes(tokens)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	g := &generator.Generator{
		Workspace: a.config.Workspace.Root,
		Template:  a.config.Workspace.Template,
		Platform:  a.config.Workspace.Platform,
	}
	summary, err := g.Generate(ctx, sizes)
	if err != nil {
		return summary, err
	}

	a.logger.Info("🏁 Generation finished.",
		"sizes", summary.Sizes,
		"experiments", summary.Experiments,
		"created", summary.Created,
		"refreshed", summary.Refreshed,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return summary, nil
}
