// Package main provides the entry point for the faqtree CLI.
//
// faqtree crawls a website's FAQ and support pages and turns what it
// finds into a chatbot dialogue tree.
//
// Usage:
//
//	faqtree generate <start-url>
//	faqtree generate --list <file>
//
// See --help for all available options.
package main

// main is the entry point for faqtree.
func main() {
	Execute()
}
