package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/chunkcrawl/chunkcrawl/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteCrawl outputs the crawl report in Markdown format.
func (w *MarkdownWriter) WriteCrawl(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Root URL", "`" + report.RootURL + "`"},
			{"Session", report.SessionID},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Status", stateBadge(report.State)},
			{"Pages", strconv.Itoa(report.TotalPages())},
			{"Tokens", strconv.Itoa(report.TotalTokens())},
		},
	})
	md.PlainText("")

	w.writeStateAlert(md, report.State, report.ResumeCursor)
	w.writeChunks(md, report.Chunks)
	w.writeFailures(md, report.FailedURLs)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteAggregate outputs a search or batch report in Markdown format.
func (w *MarkdownWriter) WriteAggregate(report *model.AggregateReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Session Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", "`" + report.Source + "`"},
			{"Session", report.SessionID},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Status", stateBadge(report.State)},
			{"Pages", strconv.Itoa(report.Chunk.PageCount())},
			{"Tokens", strconv.Itoa(report.Chunk.TotalTokens)},
		},
	})
	md.PlainText("")

	w.writeStateAlert(md, report.State, "")
	w.writePages(md, report.Chunk.Pages)

	if report.Chunk.HasMore {
		md.Notef("More content is available. Continue with cursor `%s`.", report.Chunk.NextCursor)
		md.PlainText("")
	}

	w.writeFailures(md, report.FailedURLs)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeStateAlert writes a GitHub-flavored alert matching the state.
func (w *MarkdownWriter) writeStateAlert(md *markdown.Markdown, state model.SessionState, cursor string) {
	switch state {
	case model.StateFailed:
		md.Caution("The session failed before any content could be delivered.")
	case model.StateCancelled:
		if cursor != "" {
			md.Warningf("The session was cancelled. Resume with cursor `%s`.", cursor)
		} else {
			md.Warning("The session was cancelled. Results are partial.")
		}
	case model.StateCompleted:
		md.Tip("The session completed. All reachable content was processed.")
	}
	md.PlainText("")
}

// writeChunks writes the per-chunk breakdown with a token distribution
// chart when there is more than one chunk.
func (w *MarkdownWriter) writeChunks(md *markdown.Markdown, chunks []model.Chunk) {
	md.H2("Chunks")
	md.PlainText("")

	if len(chunks) == 0 {
		md.PlainText("No chunks were produced.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(chunks))
	for i, c := range chunks {
		next := "-"
		if c.HasMore {
			next = "`" + c.NextCursor + "`"
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(c.PageCount()),
			strconv.Itoa(c.TotalTokens),
			next,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Chunk", "Pages", "Tokens", "Continues At"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(chunks) > 1 {
		w.writeTokenChart(md, chunks)
	}
}

// writeTokenChart writes a mermaid pie chart of tokens per chunk.
func (w *MarkdownWriter) writeTokenChart(md *markdown.Markdown, chunks []model.Chunk) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Token Distribution"),
		piechart.WithShowData(true),
	)

	for i, c := range chunks {
		if c.TotalTokens > 0 {
			chart.LabelAndIntValue("Chunk "+strconv.Itoa(i+1), uint64(c.TotalTokens))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writePages writes the per-page table for an aggregate chunk.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, pages []model.PageRecord) {
	md.H2("Pages")
	md.PlainText("")

	if len(pages) == 0 {
		md.PlainText("No pages were delivered.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(pages))
	for i, p := range pages {
		truncated := "no"
		if p.Truncated {
			truncated = "yes"
		}
		rows[i] = []string{
			"`" + clipCell(p.URL, 60) + "`",
			strconv.Itoa(p.Tokens),
			truncated,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Tokens", "Truncated"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFailures writes the failed URL list when anything failed.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, failed []string) {
	if len(failed) == 0 {
		return
	}

	md.H2("Failed URLs")
	md.PlainText("")
	md.BulletList(failed...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [chunkcrawl](https://github.com/chunkcrawl/chunkcrawl)*")
}

// stateBadge returns the status cell text for a session state.
func stateBadge(state model.SessionState) string {
	switch state {
	case model.StateCompleted:
		return "✅ Complete"
	case model.StateCancelled:
		return "⚠️ Cancelled (partial results)"
	case model.StateFailed:
		return "❌ Failed"
	default:
		return string(state)
	}
}

// clipCell truncates a table cell value with an ellipsis.
func clipCell(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
