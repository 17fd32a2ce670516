// Package pipeline orchestrates the generation workflow for a site.
//
// A Build accumulates state while ordered steps run against it: crawling
// collects records, assembly turns them into a dialogue tree, and
// persistence writes the tree to the local store. The BatchProcessor runs
// one pipeline per site with a bounded number of concurrent builds.
package pipeline
