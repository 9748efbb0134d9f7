package knownset

import (
	"context"
	"fmt"

	"feed-sync/feature/feed/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// KnownSKU is the database row for one tracked SKU.
type KnownSKU struct {
	// SKU is the product identifier.
	SKU string `gorm:"primaryKey;size:64"`
	// Seen mirrors models.KnownEntry.Seen.
	Seen bool
	// Discontinued mirrors models.KnownEntry.Discontinued.
	Discontinued bool
	// LastPrice stores the decimal price as text to avoid float drift.
	LastPrice *string `gorm:"size:32"`
}

// TableName fixes the table name regardless of GORM naming strategy.
func (KnownSKU) TableName() string {
	return "known_skus"
}

// DBStore persists the known set in a relational table via GORM.
type DBStore struct {
	db *gorm.DB
}

// NewDBStore creates a database-backed store and ensures the table exists.
func NewDBStore(db *gorm.DB) (*DBStore, error) {
	if err := db.AutoMigrate(&KnownSKU{}); err != nil {
		return nil, fmt.Errorf("%w: migrating known_skus: %v", ErrUnavailable, err)
	}
	return &DBStore{db: db}, nil
}

// Load reads every row. An empty table is the empty set.
func (s *DBStore) Load(ctx context.Context) (*models.KnownSet, error) {
	var rows []KnownSKU
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: loading known_skus: %v", ErrUnavailable, err)
	}

	set := models.NewKnownSet()
	for _, row := range rows {
		entry := models.KnownEntry{Seen: row.Seen, Discontinued: row.Discontinued}
		if row.LastPrice != nil {
			price, err := decimal.NewFromString(*row.LastPrice)
			if err != nil {
				return nil, fmt.Errorf("%w: sku %s has price %q: %v", ErrCorrupt, row.SKU, *row.LastPrice, err)
			}
			entry.LastPrice = &price
		}
		set.Entries[row.SKU] = entry
	}
	return set, nil
}

// Save replaces the table contents in one transaction, so a failed save
// rolls back to the previous set.
func (s *DBStore) Save(ctx context.Context, set *models.KnownSet) error {
	rows := make([]KnownSKU, 0, len(set.Entries))
	for sku, entry := range set.Entries {
		row := KnownSKU{SKU: sku, Seen: entry.Seen, Discontinued: entry.Discontinued}
		if entry.LastPrice != nil {
			price := entry.LastPrice.String()
			row.LastPrice = &price
		}
		rows = append(rows, row)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&KnownSKU{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 500).Error
	})
	if err != nil {
		return fmt.Errorf("%w: saving known_skus: %v", ErrUnavailable, err)
	}
	return nil
}
