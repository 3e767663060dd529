// Package model defines the core data types shared across the engine.
//
// The central types are PageRecord (one fetched unit of content) and Chunk
// (a budget-bounded, ordered group of pages delivered as one response
// unit). Session outcomes are wrapped in CrawlReport (ordered list of
// chunks) and AggregateReport (single chunk for search/batch runs).
//
// Design decision: We keep these as plain value types with JSON tags
// rather than hiding them behind interfaces because:
//  1. The chunk shape is an external wire contract and must stay stable
//  2. Value semantics make the packer's append-only guarantee trivial
//  3. Reports are serialized as-is by the report package
//
// Nothing in this package performs I/O. All entities live for exactly one
// session run; the model is read-once, stream-through.
package model
