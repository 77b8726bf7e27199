// Package hcl_adapter implements config.Loader for HCL workspace files.
//
// A workspace file may hold `workspace`, `solver`, `lock` and `report`
// blocks; every attribute is optional. Expressions can read the process
// environment through the `env` map, e.g. `bin_path = "${env.HOME}/bin"`.
package hcl_adapter
