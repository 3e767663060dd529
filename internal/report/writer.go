package report

import (
	"io"
	"os"
	"path/filepath"

	"github.com/chunkcrawl/chunkcrawl/internal/model"
)

// Writer defines the interface for report output.
// Implementations write session results in various formats.
//
// Design decision: We use an interface to allow different output
// formats and destinations. This enables writing to files, stdout, or
// network connections with the same API.
type Writer interface {
	// WriteCrawl outputs a crawl session report to the configured
	// destination. Returns the number of bytes written and any error.
	WriteCrawl(report *model.CrawlReport) (int, error)

	// WriteAggregate outputs a search or batch session report.
	WriteAggregate(report *model.AggregateReport) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteCrawl outputs the crawl report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteCrawl(report *model.CrawlReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteCrawl(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteAggregate outputs the aggregate report to all configured Writers.
func (m *MultiWriter) WriteAggregate(report *model.AggregateReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteAggregate(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// OpenOutput opens the report destination. An empty path means stdout,
// which callers must not close. For file paths, parent directories are
// created as needed.
func OpenOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return os.Stdout, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}

	return os.Create(path) //nolint:gosec // User-provided report path is intentional
}
