package feed

// Feed source and format names accepted in configuration.
const (
	SourceFile   = "file"
	SourceObject = "object"

	FormatCSV   = "csv"
	FormatExcel = "xlsx"
)

// Config holds configuration for the feed sync feature.
type Config struct {
	// Source is where feed drops are read from (file, object).
	Source string `mapstructure:"source" default:"file"`
	// Products is the product feed location: a path for the file source,
	// an object name for the object source.
	Products string `mapstructure:"products" default:"feeds/products.csv"`
	// Pricing is the optional pricing side feed location.
	Pricing string `mapstructure:"pricing" default:""`
	// Availability is the optional stock side feed location.
	Availability string `mapstructure:"availability" default:""`
	// Format is the feed file format (csv, xlsx).
	Format string `mapstructure:"format" default:"csv"`
	// ImageBaseURL is prefixed to image references to build CDN URLs.
	ImageBaseURL string `mapstructure:"image_base_url" default:""`
	// Reactivation selects how a discontinued SKU that reappears in the
	// feed is exported (update, create).
	Reactivation string `mapstructure:"reactivation" default:"update"`
	// Output is the path the export artifact is published to.
	Output string `mapstructure:"output" default:"export/upload.csv"`
}

// IsValidSource checks if the configured feed source is valid.
func (c Config) IsValidSource() bool {
	switch c.Source {
	case SourceFile, SourceObject:
		return true
	default:
		return false
	}
}

// IsValidFormat checks if the configured feed format is valid.
func (c Config) IsValidFormat() bool {
	switch c.Format {
	case FormatCSV, FormatExcel:
		return true
	default:
		return false
	}
}
