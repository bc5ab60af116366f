// Package frame holds the in-memory tabular value passed between the stages
// of table processing.
//
// A [Frame] is an ordered set of named columns of [Cell] values. Cells are
// typed (text, integer, decimal, date) and a missing cell keeps its kind.
// Frames never change after construction; projection, filtering and
// concatenation return new frames.
//
// Row identity for de-duplication and key grouping is computed with xxhash
// fingerprints over the canonical cell rendering, with a cell-by-cell
// comparison on fingerprint collision.
package frame
