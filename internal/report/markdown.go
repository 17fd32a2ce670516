package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/convexo/faqtree/internal/model"
)

// MarkdownWriter outputs a human-readable document summary in Markdown.
// This format is designed for review and sharing, not for machine
// consumption; the JSON writer carries the contract shape.
//
// Design decision: We use the nao1215/markdown library for fluent,
// type-safe markdown generation with GitHub-flavored tables and alerts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the document summary in Markdown format.
func (w *MarkdownWriter) Write(doc *model.TreeDocument) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, doc)
	w.writeFAQNodes(md, doc)
	w.writeNavigation(md, doc)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the document header with generation metadata.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, doc *model.TreeDocument) {
	md.H1("Dialogue Tree")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Product", doc.Contract.Product + " (" + doc.Contract.Tier + ")"},
			{"Generated At", doc.GeneratedAt},
			{"Total Nodes", strconv.Itoa(doc.Metadata.TotalNodes)},
			{"FAQ Nodes", strconv.Itoa(doc.Metadata.FAQNodes)},
			{"Navigation Items", strconv.Itoa(doc.Metadata.NavItems)},
		},
	})
	md.PlainText("")

	if doc.Metadata.FAQNodes == 0 {
		md.Note("No FAQ content was extracted; the tree contains only the entry node.")
		md.PlainText("")
	}
}

// writeFAQNodes writes the FAQ table in start-option order.
func (w *MarkdownWriter) writeFAQNodes(md *markdown.Markdown, doc *model.TreeDocument) {
	md.H2("FAQ Nodes")
	md.PlainText("")

	start, ok := doc.Nodes[model.StartNodeID]
	if !ok || len(start.Options) == 0 {
		md.PlainText("No FAQ nodes.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(start.Options))
	for _, opt := range start.Options {
		node, ok := doc.Nodes[opt.Next]
		if !ok {
			continue
		}
		rows = append(rows, []string{
			node.Intent,
			node.Question,
			truncateString(node.Answer, 60),
			node.ID,
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Intent", "Question", "Answer", "Node ID"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeNavigation writes the fallback navigation table.
func (w *MarkdownWriter) writeNavigation(md *markdown.Markdown, doc *model.TreeDocument) {
	md.H2("Navigation Fallback")
	md.PlainText("")

	nav := doc.Conversation.Fallback.Navigation
	if len(nav) == 0 {
		md.PlainText("No navigation entries.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(nav))
	for _, record := range nav {
		rows = append(rows, []string{
			record.Label,
			record.Intent,
			record.URL,
			record.Locale,
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Label", "Intent", "URL", "Locale"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the document footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Generated by faqtree*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
