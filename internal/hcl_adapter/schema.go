package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block a workspace file may hold.
type fileRoot struct {
	Workspace *WorkspaceBlock `hcl:"workspace,block"`
	Solver    *SolverBlock    `hcl:"solver,block"`
	Lock      *LockBlock      `hcl:"lock,block"`
	Report    *ReportBlock    `hcl:"report,block"`
	Remain    hcl.Body        `hcl:",remain"`
}

// WorkspaceBlock is the `workspace` block.
type WorkspaceBlock struct {
	Root     string `hcl:"root,optional"`
	Platform string `hcl:"platform,optional"`
	Template string `hcl:"template,optional"`
}

// SolverBlock is the `solver` block. Args stays an expression so an
// explicit empty list can be told apart from an omitted one.
type SolverBlock struct {
	BinPath string         `hcl:"bin_path,optional"`
	Args    hcl.Expression `hcl:"args,optional"`
}

// LockBlock is the `lock` block. Durations use time.ParseDuration syntax.
type LockBlock struct {
	Path         string `hcl:"path,optional"`
	PollInterval string `hcl:"poll_interval,optional"`
	Timeout      string `hcl:"timeout,optional"`
}

// ReportBlock is the `report` block.
type ReportBlock struct {
	Sort   []string `hcl:"sort,optional"`
	Format string   `hcl:"format,optional"`
}
