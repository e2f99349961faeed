// Package memory provides an in-memory listing store.
//
// Rows are held in a slice and filtered with conditions that follow SQL
// three-valued logic: a comparison against a NULL (or missing) column is
// unknown, NOT of unknown stays unknown, and only rows for which every where
// condition is true are listed. This keeps result sets identical to what the
// SQL stores return for the same filters.
//
// The store is useful for tests, for small reference tables loaded at start
// up (see RowsFromRecord for Arrow input) and as a specification of the
// Builder contract.
package memory
