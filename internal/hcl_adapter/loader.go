package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/scalgrid/internal/config"
	"github.com/vk/scalgrid/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	// Environ supplies the `env` variable; os.Environ when nil.
	Environ func() []string
}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{Environ: processEnviron}
}

// Load parses and decodes one workspace file on top of config.Default.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	environ := l.Environ
	if environ == nil {
		environ = processEnviron
	}
	evalCtx := newEvalContext(environ())

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, evalCtx, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	model := config.Default()
	if err := l.translate(ctx, &root, evalCtx, model); err != nil {
		return nil, fmt.Errorf("in %s: %w", path, err)
	}

	logger.Debug("HCL loading complete.", "root", model.Workspace.Root, "platform", model.Workspace.Platform)
	return model, nil
}
