// Package report renders generated dialogue-tree documents.
//
// JSON output is the product contract shape; Markdown output is a
// human-readable summary for documentation and review.
package report
