package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"feed-sync/feature/feed/models"
)

// Columns is the exact column contract of the export artifact. The
// downstream importer depends on these names and this order; any change is a
// breaking change.
var Columns = []string{
	"SKU",
	"Command",
	"Title",
	"Description",
	"Price",
	"Stock",
	"Images",
	"Category",
	"Status",
}

// imageSeparator joins ordered image URLs into the single Images column.
const imageSeparator = ";"

// Serializer renders export records into the importer CSV schema. The same
// record sequence always yields the same byte stream.
type Serializer struct{}

// NewSerializer creates a serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Write renders the header and one row per record to w. CSV quoting handles
// embedded delimiters and newlines in free-text fields losslessly.
func (s *Serializer) Write(w io.Writer, records []models.ExportRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}
	for _, record := range records {
		if err := cw.Write(row(record)); err != nil {
			return fmt.Errorf("failed to write export row %s: %w", record.SKU, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}

// WriteFile publishes the artifact atomically: the CSV is rendered to a
// temporary file in the target directory and renamed into place only on
// success, so a failed run never leaves a partial artifact behind.
func (s *Serializer) WriteFile(path string, records []models.ExportRecord) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp export file: %w", err)
	}
	tmpName := tmp.Name()

	if err := s.Write(tmp, records); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp export file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to publish export file: %w", err)
	}
	return nil
}

// row applies the classification-dependent blanking rules: UPDATE rows leave
// the price empty, ARCHIVE rows leave every product-detail column empty.
func row(r models.ExportRecord) []string {
	if r.Classification == models.ClassificationArchive {
		return []string{r.SKU, string(r.Classification), "", "", "", "", "", "", r.Status()}
	}

	price := ""
	if r.Price != nil {
		price = r.Price.StringFixed(2)
	}

	return []string{
		r.SKU,
		string(r.Classification),
		r.Title,
		r.Description,
		price,
		strconv.Itoa(r.Stock),
		strings.Join(r.Images, imageSeparator),
		r.Category,
		r.Status(),
	}
}
