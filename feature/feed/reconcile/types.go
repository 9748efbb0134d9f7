package reconcile

import "feed-sync/feature/feed/models"

// ReactivationPolicy decides how a SKU previously marked discontinued is
// treated when it reappears in the feed.
type ReactivationPolicy string

const (
	// ReactivateAsUpdate re-exports the product without a price, preserving
	// whatever price the downstream platform currently holds. This is the
	// default.
	ReactivateAsUpdate ReactivationPolicy = "update"

	// ReactivateAsCreate re-exports the product as a fresh creation, price
	// included.
	ReactivateAsCreate ReactivationPolicy = "create"
)

// ParsePolicy validates a configured policy string. Empty means the default.
func ParsePolicy(s string) (ReactivationPolicy, bool) {
	switch ReactivationPolicy(s) {
	case "", ReactivateAsUpdate:
		return ReactivateAsUpdate, true
	case ReactivateAsCreate:
		return ReactivateAsCreate, true
	default:
		return "", false
	}
}

// Options controls engine behavior for one run.
type Options struct {
	// Reactivation is the policy for SKUs returning from the archive.
	Reactivation ReactivationPolicy
}

// Outcome is the result of one reconciliation pass.
type Outcome struct {
	// Records are the export rows in their final deterministic order:
	// CREATE, UPDATE, ARCHIVE, ascending SKU within each group.
	Records []models.ExportRecord

	// Known is the updated known set, built on a scratch copy of the input.
	// The caller commits it via the store once the artifact is published.
	Known *models.KnownSet

	// Created, Updated and Archived are the per-classification counts.
	Created  int
	Updated  int
	Archived int
}
