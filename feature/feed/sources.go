package feed

import (
	"context"
	"fmt"
	"io"
	"os"

	"feed-sync/core/storage"
	"feed-sync/feature/feed/parser"
	feedsync "feed-sync/feature/feed/sync"

	"github.com/minio/minio-go/v7"
)

// OpenSources opens the configured feed locations and wraps them in row
// readers. The returned cleanup function closes every underlying stream and
// must be called once the run is finished, even on error.
func OpenSources(ctx context.Context, cfg Config, client storage.Client, bucket string) (feedsync.Sources, func(), error) {
	var closers []io.Closer
	cleanup := func() {
		for _, c := range closers {
			c.Close()
		}
	}

	open := func(location string) (parser.RowReader, error) {
		var stream io.ReadCloser
		var err error
		switch cfg.Source {
		case SourceObject:
			stream, err = client.GetObject(ctx, bucket, location, minio.GetObjectOptions{})
		default:
			stream, err = os.Open(location)
		}
		if err != nil {
			return nil, fmt.Errorf("opening feed %s: %w", location, err)
		}
		closers = append(closers, stream)

		if cfg.Format == FormatExcel {
			return parser.NewExcelRowReader(stream)
		}
		return parser.NewCSVRowReader(stream)
	}

	var src feedsync.Sources
	var err error

	if src.Products, err = open(cfg.Products); err != nil {
		cleanup()
		return feedsync.Sources{}, nil, err
	}
	if cfg.Pricing != "" {
		if src.Pricing, err = open(cfg.Pricing); err != nil {
			cleanup()
			return feedsync.Sources{}, nil, err
		}
	}
	if cfg.Availability != "" {
		if src.Availability, err = open(cfg.Availability); err != nil {
			cleanup()
			return feedsync.Sources{}, nil, err
		}
	}

	return src, cleanup, nil
}
