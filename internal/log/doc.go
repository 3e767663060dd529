// Package log provides slog helpers for chunkcrawl.
//
// Sessions log page-level progress, and page content can be hundreds of
// kilobytes. ClipHandler wraps any slog.Handler and clips oversized
// string attribute values so debug logs stay readable without the call
// sites having to truncate by hand.
package log
