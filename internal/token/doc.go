// Package token provides token-cost estimation and budget-targeted
// truncation for arbitrary text blobs.
//
// # Architecture
//
// The package exposes two building blocks used by the chunk packer:
//
//   - Estimator: a pluggable strategy for estimating how many tokens a
//     downstream model would spend on a piece of text
//   - Truncate: shrinks an oversized blob until its estimate fits a
//     target budget, marking the cut
//
// Design decision: We implement a heuristic estimator rather than binding
// to a specific tokenizer library because:
//  1. No single tokenizer is correct for every downstream model
//  2. The estimate is deliberately biased high, so imprecision is safe
//  3. Callers that need exact counts can supply their own Estimator
//
// Both operations are pure functions over strings. They never perform I/O
// and never fail; an impossible truncation target degrades to returning
// the truncation marker alone.
package token
