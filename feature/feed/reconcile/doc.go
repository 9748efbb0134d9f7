// Package reconcile implements the three-way classification at the heart of
// the feed pipeline: given the current feed snapshot and the persisted known
// set, every SKU is classified CREATE (in the feed, never exported), UPDATE
// (in the feed and known) or ARCHIVE (known but gone from the feed, or
// withdrawn by the supplier).
//
// # Field policy
//
// Price is write-once from this pipeline's perspective: it is exported with
// CREATE records and deliberately omitted from UPDATE records, so a price
// set once downstream is never overwritten by a feed refresh. ARCHIVE
// records carry only the SKU and the archival directive.
//
// # Determinism
//
// Records are emitted in a stable order (CREATE, then UPDATE, then ARCHIVE;
// ascending SKU within each group), so re-running against identical inputs
// produces a byte-identical export artifact.
//
// # State handling
//
// The engine works on a scratch clone of the known set and hands the clone
// back in the Outcome; the loaded set is never mutated. Entries are added or
// marked discontinued, never removed.
package reconcile
