// Package combin holds the enumeration primitives behind experiment
// generation: integer factor pairs for mesh topologies and non-empty subsets
// of the application collection.
//
// Subsets are represented as bitmasks over item indices, so enumeration never
// needs value comparisons to drop duplicates.
package combin
