package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/chunkcrawl/chunkcrawl/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables per-page detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with per-page details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteCrawl outputs the crawl report in human-readable format.
func (w *SimpleWriter) WriteCrawl(report *model.CrawlReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, "CRAWL REPORT")

	sb.WriteString(fmt.Sprintf("Root URL:     %s\n", report.RootURL))
	sb.WriteString(fmt.Sprintf("Session:      %s\n", report.SessionID))
	sb.WriteString(fmt.Sprintf("Started:      %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Status:       %s\n", statusText(report.State)))
	sb.WriteString("\n")

	w.writeDivider(&sb, "CHUNKS")
	if len(report.Chunks) == 0 {
		sb.WriteString("  No chunks produced\n")
	}
	for i, chunk := range report.Chunks {
		sb.WriteString(fmt.Sprintf("  [%d] %d pages, %d tokens", i+1, chunk.PageCount(), chunk.TotalTokens))
		if chunk.HasMore {
			sb.WriteString(fmt.Sprintf(" (continues at %s)", chunk.NextCursor))
		}
		sb.WriteString("\n")

		if w.verbose {
			for _, page := range chunk.Pages {
				marker := ""
				if page.Truncated {
					marker = " [truncated]"
				}
				sb.WriteString(fmt.Sprintf("      %s (%d tokens)%s\n", page.URL, page.Tokens, marker))
			}
		}
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  TOTAL: %d pages, %d tokens in %d chunk(s)\n", report.TotalPages(), report.TotalTokens(), len(report.Chunks)))
	sb.WriteString("\n")

	w.writeFailures(&sb, report.FailedURLs)

	if report.ResumeCursor != "" {
		sb.WriteString(fmt.Sprintf("Resume with cursor: %s\n\n", report.ResumeCursor))
	}

	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteAggregate outputs a search or batch report in human-readable
// format.
func (w *SimpleWriter) WriteAggregate(report *model.AggregateReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, "SESSION REPORT")

	sb.WriteString(fmt.Sprintf("Source:       %s\n", report.Source))
	sb.WriteString(fmt.Sprintf("Session:      %s\n", report.SessionID))
	sb.WriteString(fmt.Sprintf("Started:      %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Status:       %s\n", statusText(report.State)))
	sb.WriteString("\n")

	w.writeDivider(&sb, "RESULT")
	sb.WriteString(fmt.Sprintf("  %d pages, %d tokens\n", report.Chunk.PageCount(), report.Chunk.TotalTokens))
	if w.verbose {
		for _, page := range report.Chunk.Pages {
			marker := ""
			if page.Truncated {
				marker = " [truncated]"
			}
			sb.WriteString(fmt.Sprintf("      %s (%d tokens)%s\n", page.URL, page.Tokens, marker))
		}
	}
	if report.Chunk.HasMore {
		sb.WriteString(fmt.Sprintf("  More available, next cursor: %s\n", report.Chunk.NextCursor))
	}
	sb.WriteString("\n")

	w.writeFailures(&sb, report.FailedURLs)

	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report banner.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%*s\n", 35+len(title)/2, title))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}

// writeDivider writes a section divider with a title.
func (w *SimpleWriter) writeDivider(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeFailures writes the failed URL section when anything failed.
func (w *SimpleWriter) writeFailures(sb *strings.Builder, failed []string) {
	if len(failed) == 0 {
		return
	}

	w.writeDivider(sb, "FAILED URLS")
	for _, url := range failed {
		sb.WriteString(fmt.Sprintf("  [!] %s\n", url))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by chunkcrawl\n")
	sb.WriteString("https://github.com/chunkcrawl/chunkcrawl\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// statusText maps a session state to its display string.
func statusText(state model.SessionState) string {
	switch state {
	case model.StateCompleted:
		return "Complete"
	case model.StateCancelled:
		return "CANCELLED (partial results)"
	case model.StateFailed:
		return "FAILED"
	default:
		return string(state)
	}
}
