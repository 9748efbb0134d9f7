package reconcile

import (
	"sort"

	"feed-sync/feature/feed/models"

	"github.com/shopspring/decimal"
)

// Reconcile classifies every SKU in the feed snapshot and the known set,
// applies the per-classification field policy, and returns the export records
// together with the updated known set.
//
// The engine never mutates its inputs: the known set is cloned and all
// changes land on the clone, so an aborted run leaves the loaded state
// untouched until the caller commits the outcome.
func Reconcile(feed []models.FeedProduct, known *models.KnownSet, opts Options) *Outcome {
	policy := opts.Reactivation
	if policy == "" {
		policy = ReactivateAsUpdate
	}

	scratch := known.Clone()

	// Index the snapshot by SKU. The feed contract makes SKUs unique within
	// a snapshot; if a supplier repeats one, the last row wins, matching the
	// single-record-per-SKU invariant of the export.
	current := make(map[string]models.FeedProduct, len(feed))
	for _, p := range feed {
		current[p.SKU] = p
	}

	var creates, updates, archives []models.ExportRecord

	for sku, product := range current {
		entry, tracked := scratch.Entries[sku]

		switch {
		case product.Discontinued:
			// Withdrawn by the supplier while still in the feed. Archive on
			// the transition only; an already-archived SKU stays silent so
			// re-runs remain idempotent.
			if tracked && entry.Discontinued {
				continue
			}
			archives = append(archives, archiveRecord(sku))
			scratch.MarkDiscontinued(sku)

		case !tracked:
			price := product.Price
			creates = append(creates, createRecord(product, &price))
			scratch.MarkSeen(sku, &price)

		case entry.Discontinued:
			// Reappearance of an archived SKU; policy decides whether the
			// feed price is exported again or the original price stands.
			if policy == ReactivateAsCreate {
				price := product.Price
				creates = append(creates, createRecord(product, &price))
				scratch.Entries[sku] = models.KnownEntry{Seen: true, LastPrice: &price}
			} else {
				updates = append(updates, updateRecord(product))
				scratch.MarkSeen(sku, nil)
			}

		default:
			// Already exported. Price is write-once from this pipeline's
			// perspective, so the record carries no price at all.
			updates = append(updates, updateRecord(product))
		}
	}

	// SKUs we have exported before that vanished from the feed. Entries
	// already marked discontinued were archived on an earlier run.
	for sku, entry := range scratch.Entries {
		if entry.Discontinued {
			continue
		}
		if _, inFeed := current[sku]; inFeed {
			continue
		}
		archives = append(archives, archiveRecord(sku))
		scratch.MarkDiscontinued(sku)
	}

	// Stable output order: CREATE, UPDATE, ARCHIVE, ascending SKU within
	// each group, so identical inputs yield a byte-identical export.
	sortBySKU(creates)
	sortBySKU(updates)
	sortBySKU(archives)

	records := make([]models.ExportRecord, 0, len(creates)+len(updates)+len(archives))
	records = append(records, creates...)
	records = append(records, updates...)
	records = append(records, archives...)

	return &Outcome{
		Records:  records,
		Known:    scratch,
		Created:  len(creates),
		Updated:  len(updates),
		Archived: len(archives),
	}
}

func createRecord(p models.FeedProduct, price *decimal.Decimal) models.ExportRecord {
	return models.ExportRecord{
		SKU:            p.SKU,
		Classification: models.ClassificationCreate,
		Title:          p.Title,
		Description:    p.Description,
		Price:          price,
		Stock:          p.Stock,
		Images:         p.Images,
		Category:       p.Category,
	}
}

func updateRecord(p models.FeedProduct) models.ExportRecord {
	return models.ExportRecord{
		SKU:            p.SKU,
		Classification: models.ClassificationUpdate,
		Title:          p.Title,
		Description:    p.Description,
		Stock:          p.Stock,
		Images:         p.Images,
		Category:       p.Category,
	}
}

// archiveRecord carries only the identifier and the archival directive; no
// feed data exists (or may be trusted) for archived SKUs.
func archiveRecord(sku string) models.ExportRecord {
	return models.ExportRecord{
		SKU:            sku,
		Classification: models.ClassificationArchive,
	}
}

func sortBySKU(records []models.ExportRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].SKU < records[j].SKU
	})
}
