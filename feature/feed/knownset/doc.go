// Package knownset persists the set of SKUs the pipeline has exported
// before: the historical truth the reconciliation engine diffs the feed
// against.
//
// Three backends implement the same Store contract: a local JSON file
// (temp-file + rename for atomicity), a single object in an S3/MinIO bucket,
// and a relational table via GORM (replaced in one transaction). All three
// treat an absent medium as the empty set and distinguish an unreachable
// medium (ErrUnavailable) from an unparseable one (ErrCorrupt); both are
// fatal to a run.
package knownset
