// Package database provides the SQLite persistence sink for generated
// dialogue-tree documents.
//
// It mirrors the two destinations of the hosting platform: a keyed value
// store holding the latest document per site under a fixed output key, and
// an append-only dataset recording every generation.
package database
