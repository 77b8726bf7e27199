// Package runner executes the external solver once per selected experiment.
//
// A batch is serialized against other runner processes by the lock package;
// within a batch experiments run strictly one after another. Each execution
// gets a fresh run-<N> directory, N being one past the highest existing run.
package runner
