// Package chunk implements the token-budgeted packing engine.
//
// # Architecture
//
// The Packer is a pure, incremental state machine: sessions feed it fetched
// pages one at a time via Offer and close the stream with Flush. The packer
// groups consecutive pages into chunks whose token totals stay within a
// TokenBudget, emitting a finished chunk the moment the next page would
// overflow it.
//
// Design decision: We pack sequentially (first-fit in input order) rather
// than bin-packing for density because:
//  1. Page order must survive across chunk boundaries
//  2. The continuation cursor only works if chunks are prefix-closed
//  3. Sessions stream pages as they are fetched; lookahead would stall them
//
// A page too large for any chunk is truncated to a safety-adjusted target
// and shipped alone. The packer itself never performs I/O and carries no
// locks: each session owns its packer exclusively.
package chunk
