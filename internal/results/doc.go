// Package results turns solver logs into a sortable, filterable report.
package results
