package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"feed-sync/feature/feed/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Column name variants recognized per field. Supplier exports are not
// consistent about header naming, so each typed field accepts the names seen
// across feed generations, most common first.
var (
	skuColumns         = []string{"stockcode", "stock_no", "sku"}
	titleColumns       = []string{"product name", "title", "name"}
	descriptionColumns = []string{"productdescription", "description"}
	vendorColumns      = []string{"brand_name", "vendor", "brand"}
	barcodeColumns     = []string{"retailerbarcode", "barcode"}
	priceColumns       = []string{"currentlistprice", "rrp", "price"}
	stockColumns       = []string{"cstock", "stock", "qty", "quantity"}
	imageColumns       = []string{"imageref", "image", "image src"}
	flagColumns        = []string{"discontinuedflag", "discontinued"}
	categoryColumns    = []string{"classcname", "classbname", "classaname", "category", "type"}
)

// Parser turns raw feed rows into validated FeedProduct entities. Malformed
// rows are skipped and counted, never fatal: a single bad row must not abort
// ingestion of the rest of the feed.
type Parser struct {
	imageBaseURL string
	logger       *zap.Logger
}

// New creates a parser. imageBaseURL, when non-empty, is prefixed to image
// references to build full CDN URLs.
func New(imageBaseURL string, logger *zap.Logger) *Parser {
	return &Parser{imageBaseURL: imageBaseURL, logger: logger}
}

// Parse consumes the row sequence once and returns the valid products plus
// the number of rows skipped as malformed. A structurally broken record (bad
// quoting) is a skip like any other bad row; a transport read error aborts
// the pass and is returned as-is.
func (p *Parser) Parse(rows RowReader) ([]models.FeedProduct, int, error) {
	var products []models.FeedProduct
	failures := 0

	for {
		row, err := rows.Next()
		if err == io.EOF {
			break
		}
		if isRecordError(err) {
			failures++
			p.logger.Debug("Skipping structurally broken feed row", zap.Error(err))
			continue
		}
		if err != nil {
			return nil, failures, fmt.Errorf("feed read failed: %w", err)
		}

		product, err := p.parseRow(row)
		if err != nil {
			failures++
			p.logger.Debug("Skipping malformed feed row", zap.Error(err))
			continue
		}
		products = append(products, product)
	}

	return products, failures, nil
}

func (p *Parser) parseRow(row RawRow) (models.FeedProduct, error) {
	sku := strings.TrimSpace(field(row, skuColumns))
	if sku == "" {
		return models.FeedProduct{}, fmt.Errorf("row has no SKU")
	}

	price, err := ParsePrice(field(row, priceColumns))
	if err != nil {
		return models.FeedProduct{}, fmt.Errorf("row %s: %w", sku, err)
	}

	product := models.FeedProduct{
		SKU:          sku,
		Title:        strings.TrimSpace(field(row, titleColumns)),
		Description:  field(row, descriptionColumns),
		Vendor:       strings.TrimSpace(field(row, vendorColumns)),
		Barcode:      strings.TrimSpace(field(row, barcodeColumns)),
		Price:        price,
		Stock:        parseQuantity(field(row, stockColumns)),
		Category:     strings.TrimSpace(field(row, categoryColumns)),
		Discontinued: parseFlag(field(row, flagColumns)),
	}
	product.Images = p.imageURLs(sku, field(row, imageColumns))
	product.Attributes = extraAttributes(row)

	return product, nil
}

// imageURLs expands image references against the configured base URL. The
// SKU doubles as the reference when the feed carries none, matching the
// supplier CDN layout.
func (p *Parser) imageURLs(sku, refs string) []string {
	if strings.TrimSpace(refs) == "" {
		refs = sku
	}
	var urls []string
	for _, ref := range strings.Split(refs, ";") {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		if p.imageBaseURL != "" {
			urls = append(urls, p.imageBaseURL+ref+".jpg")
		} else {
			urls = append(urls, ref)
		}
	}
	return urls
}

// ParsePriceList parses a pricing side feed into a SKU → RRP map. Rows
// without a SKU or with an unparseable price are counted as failures.
func (p *Parser) ParsePriceList(rows RowReader) (map[string]decimal.Decimal, int, error) {
	prices := make(map[string]decimal.Decimal)
	failures := 0

	for {
		row, err := rows.Next()
		if err == io.EOF {
			break
		}
		if isRecordError(err) {
			failures++
			continue
		}
		if err != nil {
			return nil, failures, fmt.Errorf("price list read failed: %w", err)
		}

		sku := strings.TrimSpace(field(row, skuColumns))
		if sku == "" {
			failures++
			continue
		}
		price, err := ParsePrice(field(row, priceColumns))
		if err != nil {
			failures++
			p.logger.Debug("Skipping malformed price row", zap.String("sku", sku), zap.Error(err))
			continue
		}
		prices[sku] = price
	}

	return prices, failures, nil
}

// ParseStockList parses an availability side feed into a SKU → quantity map.
func (p *Parser) ParseStockList(rows RowReader) (map[string]int, int, error) {
	stock := make(map[string]int)
	failures := 0

	for {
		row, err := rows.Next()
		if err == io.EOF {
			break
		}
		if isRecordError(err) {
			failures++
			continue
		}
		if err != nil {
			return nil, failures, fmt.Errorf("availability read failed: %w", err)
		}

		sku := strings.TrimSpace(field(row, skuColumns))
		if sku == "" {
			failures++
			continue
		}
		stock[sku] = parseQuantity(field(row, stockColumns))
	}

	return stock, failures, nil
}

// MergeSideFeeds overlays the optional pricing and availability feeds onto
// the product snapshot by SKU. Products without a side entry keep their own
// values. The input slice is not modified.
func MergeSideFeeds(products []models.FeedProduct, prices map[string]decimal.Decimal, stock map[string]int) []models.FeedProduct {
	merged := make([]models.FeedProduct, len(products))
	copy(merged, products)

	for i := range merged {
		if price, ok := prices[merged[i].SKU]; ok {
			merged[i].Price = price
		}
		if qty, ok := stock[merged[i].SKU]; ok {
			merged[i].Stock = qty
		}
	}
	return merged
}

// ParsePrice parses a feed price into a non-negative decimal. Currency
// symbols, grouping commas and surrounding whitespace are tolerated; an
// empty or negative value is an error.
func ParsePrice(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	for _, junk := range []string{",", "£", "$", "€", " "} {
		cleaned = strings.ReplaceAll(cleaned, junk, "")
	}
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("price is missing")
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid price %q", s)
	}
	if price.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative price %q", s)
	}
	return price, nil
}

// parseQuantity reads a stock level the way the supplier writes one: an
// integer, sometimes serialized as a float. Anything unreadable or negative
// counts as out of stock.
func parseQuantity(s string) int {
	qty, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || qty < 0 {
		return 0
	}
	return int(qty)
}

// isRecordError reports whether err is confined to one record, so the reader
// keeps yielding the records after it. encoding/csv resumes on the next line
// after a quoting error.
func isRecordError(err error) bool {
	var parseErr *csv.ParseError
	return errors.As(err, &parseErr)
}

func parseFlag(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "y"
}

// field returns the first non-empty value among the recognized column names.
func field(row RawRow, names []string) string {
	for _, name := range names {
		if v, ok := row[name]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// extraAttributes collects columns not mapped to a typed field so no feed
// data is silently dropped.
func extraAttributes(row RawRow) map[string]string {
	consumed := make(map[string]struct{})
	for _, group := range [][]string{
		skuColumns, titleColumns, descriptionColumns, vendorColumns,
		barcodeColumns, priceColumns, stockColumns, imageColumns,
		flagColumns, categoryColumns,
	} {
		for _, name := range group {
			consumed[name] = struct{}{}
		}
	}

	var attrs map[string]string
	for name, value := range row {
		if _, ok := consumed[name]; ok {
			continue
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		if attrs == nil {
			attrs = make(map[string]string)
		}
		attrs[name] = value
	}
	return attrs
}
