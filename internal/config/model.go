package config

import (
	"fmt"
	"slices"
	"time"
)

// DefaultFile is the workspace file picked up when none is named.
const DefaultFile = "scalgrid.hcl"

// Model is the resolved workspace configuration.
type Model struct {
	Workspace Workspace
	Solver    Solver
	Lock      Lock
	Report    Report
}

// Workspace locates experiments and their template.
type Workspace struct {
	Root     string
	Platform string
	Template string
}

// Solver describes the external binary.
type Solver struct {
	BinPath string
	Args    []string // nil means the runner's defaults
}

// Lock configures the batch lock file. A zero Timeout waits forever.
// age-based takeover and the wait limit.
type Lock struct {
	Path         string
	PollInterval time.Duration
	Timeout      time.Duration
}

// Report configures the processor output.
type Report struct {
	Sort   []string
	Format string
}

// Default returns the settings used when no workspace file exists.
func Default() *Model {
	return &Model{
		Workspace: Workspace{
			Root:     ".",
			Platform: "TDN-NoC",
			Template: "template",
		},
		Solver: Solver{
			BinPath: "/var/forsyde/bin",
		},
		Lock: Lock{
			Path:         "run.lock",
			PollInterval: 60 * time.Second,
		},
		Report: Report{
			Sort:   []string{"P", "TDN-slots", "mesh", "sols-found"},
			Format: "table",
		},
	}
}

// Validate checks values no command can work with.
func (m *Model) Validate() error {
	if m.Workspace.Root == "" {
		return fmt.Errorf("workspace.root must not be empty")
	}
	if m.Workspace.Platform == "" {
		return fmt.Errorf("workspace.platform must not be empty")
	}
	if m.Lock.Path == "" {
		return fmt.Errorf("lock.path must not be empty")
	}
	if m.Lock.PollInterval <= 0 {
		return fmt.Errorf("lock.poll_interval must be positive, got %s", m.Lock.PollInterval)
	}
	if m.Lock.Timeout < 0 {
		return fmt.Errorf("lock.timeout must not be negative")
	}
	if !slices.Contains([]string{"table", "csv", "json", "yaml"}, m.Report.Format) {
		return fmt.Errorf("report.format %q is not one of table, csv, json, yaml", m.Report.Format)
	}
	return nil
}
