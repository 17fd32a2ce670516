// Package model defines the data structures shared across the faqtree
// application: extracted FAQ and navigation records, the insertion-ordered
// sets that accumulate them across pages, and the dialogue-tree document
// exported to chatbot front-ends.
//
// All structures carry JSON tags matching the exported document contract;
// the wire shape is part of the product interface and must stay stable.
package model
