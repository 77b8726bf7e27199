package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the workspace file at path and returns the resulting model,
	// with defaults applied to everything the file leaves unset.
	Load(ctx context.Context, path string) (*Model, error)
}
