// Package tree assembles accumulated FAQ and navigation records into the
// exported dialogue-tree document.
//
// Assembly is pure in-memory construction: a synthetic start node gains
// one option per FAQ record, each FAQ record becomes a node with a single
// "Back" option, and navigation records populate the conversation
// fallback. Persistence is the caller's concern.
package tree
