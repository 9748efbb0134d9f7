// Package export renders reconciliation records into the CSV schema the
// downstream bulk importer consumes. The column set and order are a fixed
// contract; output is deterministic so successive runs over identical inputs
// are byte-for-byte diffable. Artifacts are published via temp-file rename
// and never left partially written.
package export
