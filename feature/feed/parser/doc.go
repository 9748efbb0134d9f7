// Package parser normalizes raw supplier feed rows into typed FeedProduct
// entities.
//
// The transport collaborator owns the physical format; this package lifts
// CSV and xlsx payloads into a uniform single-pass RowReader and applies the
// validating parse step: SKU non-empty, price a non-negative decimal.
// Malformed rows are skipped and counted, never fatal.
//
// Beyond the main product feed, the package parses the two optional side
// feeds the supplier publishes (a pricing list and an availability list)
// and merges them into the snapshot by SKU before reconciliation.
package parser
