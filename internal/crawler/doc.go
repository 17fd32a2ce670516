// Package crawler implements the breadth-first crawl controller.
//
// The Spider manages a FIFO frontier of (URL, depth) pairs with a visited
// set, fetches each page at most once over plain HTTP, and feeds the
// returned markup to both content extractors. Fetch failures are swallowed
// per URL: the page is skipped and the crawl continues. Fetching is
// strictly sequential; there is no concurrent page access within a crawl.
package crawler
