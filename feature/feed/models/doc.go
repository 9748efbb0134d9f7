// Package models defines the entities exchanged between the feed pipeline
// stages: FeedProduct (current truth from the supplier feed), KnownSet
// (historical truth of what has been exported), ExportRecord (one changeset
// row for the downstream importer) and RunSummary (per-run outcome).
//
// FeedProduct and KnownSet are reconciled by set operations keyed on SKU;
// the KnownSet is only ever updated from reconciliation outcomes, never from
// raw feed data directly.
package models
