// Package cli builds the command tree, translates flags and the workspace
// file into the application's configuration, and maps failures to process
// exit codes.
package cli
