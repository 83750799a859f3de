// Package carddb is the in-memory card accumulator: one flattened record per
// card id, each carrying the functional tags it was found under.
package carddb
