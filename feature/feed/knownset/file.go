package knownset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"feed-sync/feature/feed/models"

	"github.com/shopspring/decimal"
)

// document is the persisted JSON layout. It round-trips every field the
// engine relies on with full fidelity.
type document struct {
	SKUs    map[string]entryDocument `json:"skus"`
	Updated time.Time                `json:"updated"`
}

type entryDocument struct {
	Seen         bool             `json:"seen"`
	Discontinued bool             `json:"discontinued"`
	LastPrice    *decimal.Decimal `json:"last_price,omitempty"`
}

// FileStore persists the known set as a JSON document on the local
// filesystem.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted set. A missing file is the empty set; an
// unreadable file is ErrUnavailable; unparseable content is ErrCorrupt.
func (s *FileStore) Load(ctx context.Context) (*models.KnownSet, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return models.NewKnownSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, s.path, err)
	}
	return decodeDocument(data)
}

// Save writes the set atomically: the document lands in a temp file in the
// same directory and is renamed over the target only once fully written, so
// a crash mid-save leaves the previous set intact.
func (s *FileStore) Save(ctx context.Context, set *models.KnownSet) error {
	data, err := encodeDocument(set)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrUnavailable, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", ErrUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing temp file: %v", ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file: %v", ErrUnavailable, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: publishing %s: %v", ErrUnavailable, s.path, err)
	}
	return nil
}

func decodeDocument(data []byte) (*models.KnownSet, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	set := models.NewKnownSet()
	set.Updated = doc.Updated
	for sku, entry := range doc.SKUs {
		set.Entries[sku] = models.KnownEntry{
			Seen:         entry.Seen,
			Discontinued: entry.Discontinued,
			LastPrice:    entry.LastPrice,
		}
	}
	return set, nil
}

func encodeDocument(set *models.KnownSet) ([]byte, error) {
	doc := document{
		SKUs:    make(map[string]entryDocument, len(set.Entries)),
		Updated: time.Now().UTC(),
	}
	for sku, entry := range set.Entries {
		doc.SKUs[sku] = entryDocument{
			Seen:         entry.Seen,
			Discontinued: entry.Discontinued,
			LastPrice:    entry.LastPrice,
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode known set: %w", err)
	}
	return data, nil
}
