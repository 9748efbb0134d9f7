package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeedProduct is one product row from the current supplier feed snapshot.
// It is created by the parser, immutable for the duration of a run, and
// discarded afterwards.
type FeedProduct struct {
	// SKU is the supplier stock code, unique within a feed snapshot.
	SKU string `json:"sku"`

	// Title is the display name of the product.
	Title string `json:"title"`

	// Description is the long product description (may contain HTML).
	Description string `json:"description"`

	// Vendor is the brand name reported by the supplier.
	Vendor string `json:"vendor"`

	// Barcode is the retailer barcode, if present.
	Barcode string `json:"barcode"`

	// Price is the supplier recommended retail price.
	Price decimal.Decimal `json:"price"`

	// Stock is the available quantity, never negative.
	Stock int `json:"stock"`

	// Images is the ordered list of image URLs for the product.
	Images []string `json:"images"`

	// Category is the most specific class label the feed provides.
	Category string `json:"category"`

	// Discontinued is set when the supplier flags the product as withdrawn.
	Discontinued bool `json:"discontinued"`

	// Attributes holds any extra feed columns not mapped to a typed field.
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Classification is the changeset tag assigned to a SKU for one run.
type Classification string

const (
	// ClassificationCreate marks a SKU never exported before.
	ClassificationCreate Classification = "CREATE"
	// ClassificationUpdate marks a SKU already present downstream.
	ClassificationUpdate Classification = "UPDATE"
	// ClassificationArchive marks a SKU that left the feed or was withdrawn.
	ClassificationArchive Classification = "ARCHIVE"
)

// StatusActive and StatusArchived are the values of the export Status column.
const (
	StatusActive   = "Active"
	StatusArchived = "Archived"
)

// ExportRecord is one row of the export artifact. Field policy is applied by
// the reconciliation engine: Price is populated only for CREATE records, and
// ARCHIVE records carry nothing beyond the SKU and the archival directive.
type ExportRecord struct {
	// SKU identifies the product.
	SKU string `json:"sku"`

	// Classification is the CREATE/UPDATE/ARCHIVE tag for this run.
	Classification Classification `json:"classification"`

	// Title is the product title (empty for ARCHIVE).
	Title string `json:"title,omitempty"`

	// Description is the product description (empty for ARCHIVE).
	Description string `json:"description,omitempty"`

	// Price is set only for CREATE records; nil means the column stays blank
	// so the downstream importer leaves the current price untouched.
	Price *decimal.Decimal `json:"price,omitempty"`

	// Stock is the exported quantity (zero for ARCHIVE).
	Stock int `json:"stock"`

	// Images is the ordered image URL list (empty for ARCHIVE).
	Images []string `json:"images,omitempty"`

	// Category is the product category label (empty for ARCHIVE).
	Category string `json:"category,omitempty"`
}

// Status returns the export Status column value for this record.
func (r ExportRecord) Status() string {
	if r.Classification == ClassificationArchive {
		return StatusArchived
	}
	return StatusActive
}

// KnownEntry is the minimal remembered state for one previously seen SKU.
type KnownEntry struct {
	// Seen is true once the SKU has been exported at least once.
	Seen bool `json:"seen"`

	// Discontinued is true once an ARCHIVE record has been emitted for the
	// SKU. Entries are marked, never removed, so a later reappearance is
	// distinguishable from a first-time creation.
	Discontinued bool `json:"discontinued"`

	// LastPrice is the price carried by the CREATE record that introduced
	// the SKU, if any. It is never overwritten by later runs.
	LastPrice *decimal.Decimal `json:"last_price,omitempty"`
}

// KnownSet is the persisted record of every SKU this pipeline has exported.
// It is loaded once at run start, mutated on a scratch copy by the engine,
// and committed once at run end. Within a run it only gains entries or has
// entries marked discontinued; history is never silently dropped.
type KnownSet struct {
	// Entries maps SKU to its remembered state.
	Entries map[string]KnownEntry `json:"entries"`

	// Updated is the time of the last successful save.
	Updated time.Time `json:"updated"`
}

// NewKnownSet returns an empty known set, the explicit "no prior state" case
// used for first-ever runs.
func NewKnownSet() *KnownSet {
	return &KnownSet{Entries: make(map[string]KnownEntry)}
}

// Clone returns a deep copy. The engine mutates the copy so an aborted run
// leaves the loaded set untouched.
func (s *KnownSet) Clone() *KnownSet {
	clone := &KnownSet{
		Entries: make(map[string]KnownEntry, len(s.Entries)),
		Updated: s.Updated,
	}
	for sku, entry := range s.Entries {
		if entry.LastPrice != nil {
			p := *entry.LastPrice
			entry.LastPrice = &p
		}
		clone.Entries[sku] = entry
	}
	return clone
}

// Contains reports whether the SKU has any history, discontinued or not.
func (s *KnownSet) Contains(sku string) bool {
	_, ok := s.Entries[sku]
	return ok
}

// MarkSeen records a SKU as exported. The price is remembered only the first
// time a price is recorded for the SKU.
func (s *KnownSet) MarkSeen(sku string, price *decimal.Decimal) {
	entry := s.Entries[sku]
	entry.Seen = true
	entry.Discontinued = false
	if entry.LastPrice == nil && price != nil {
		p := *price
		entry.LastPrice = &p
	}
	s.Entries[sku] = entry
}

// MarkDiscontinued flags a SKU as archived without dropping its history.
func (s *KnownSet) MarkDiscontinued(sku string) {
	entry := s.Entries[sku]
	entry.Seen = true
	entry.Discontinued = true
	s.Entries[sku] = entry
}

// Len returns the total number of tracked SKUs.
func (s *KnownSet) Len() int {
	return len(s.Entries)
}

// ActiveCount returns the number of SKUs not marked discontinued.
func (s *KnownSet) ActiveCount() int {
	n := 0
	for _, entry := range s.Entries {
		if !entry.Discontinued {
			n++
		}
	}
	return n
}

// RunSummary is the per-run outcome surfaced to the caller.
type RunSummary struct {
	// RunID uniquely identifies the run in logs.
	RunID string `json:"run_id"`

	// Created counts CREATE records emitted.
	Created int `json:"created"`

	// Updated counts UPDATE records emitted.
	Updated int `json:"updated"`

	// Archived counts ARCHIVE records emitted.
	Archived int `json:"archived"`

	// ParseFailures counts feed rows skipped as malformed.
	ParseFailures int `json:"parse_failures"`

	// Started and Finished bound the run wall-clock time.
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`

	// DryRun is true when nothing was published or persisted.
	DryRun bool `json:"dry_run"`

	// OutputPath is the published export artifact, empty for dry runs.
	OutputPath string `json:"output_path,omitempty"`
}
