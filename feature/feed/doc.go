// Package feed implements the supplier feed sync pipeline.
//
// The pipeline turns a full supplier catalogue snapshot into an incremental
// import file by comparing each run against the set of SKUs exported before.
// Products never seen are exported for creation, products seen before for
// update, and tracked products missing from the snapshot for archival.
//
// # Subpackages
//
//   - parser: reads raw CSV/XLSX feed rows into validated products.
//   - reconcile: classifies the snapshot against the known SKU set.
//   - export: serializes the classified records into the import CSV.
//   - knownset: persists the SKU state between runs (file, object store, database).
//   - sync: orchestrates one complete run over the above.
//
// This package itself holds the service facade, HTTP handlers and the feature
// wiring for the application loader.
//
// # HTTP Endpoints
//
//   - POST /sync : Runs one sync (supports ?dry_run=true). Returns 409 while a run is in progress.
//   - GET /sync/summary : Returns the summary of the last completed run.
package feed
