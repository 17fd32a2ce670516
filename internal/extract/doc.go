// Package extract implements the heuristic content extractors.
//
// The FAQ extractor scans a page for question-like headings (h2, h3, dt)
// and collects the immediately-following sibling text as the answer. The
// navigation extractor derives one navigation intent per distinct
// top-level path segment reachable through in-domain links.
//
// Both extractors are structural heuristics with fixed confidence scores.
// They are deliberately brittle: a formatting change on the page changes
// the result, and no semantic validation is attempted.
package extract
