package cmd

import (
	"context"
	"fmt"
	"log"

	"feed-sync/core/config"
	"feed-sync/core/database"
	"feed-sync/core/logger"
	"feed-sync/core/storage"
	"feed-sync/feature/feed"
	"feed-sync/feature/feed/export"
	"feed-sync/feature/feed/knownset"
	"feed-sync/feature/feed/parser"
	feedsync "feed-sync/feature/feed/sync"

	"go.uber.org/zap"
)

// bootstrap loads the configuration and initializes the logger, the two
// things every command needs before doing anything else.
func bootstrap() (*config.Config, *zap.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return cfg, logg
}

// buildStore assembles the known set store for the configured backend.
func buildStore(cfg *config.Config, client storage.Client) (knownset.Store, error) {
	switch cfg.KnownSet.Backend {
	case knownset.BackendDB:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting state database: %w", err)
		}
		return knownset.NewDBStore(db)
	case knownset.BackendObject:
		return knownset.NewObjectStore(client, cfg.Storage.Bucket, cfg.KnownSet.Object), nil
	case knownset.BackendFile:
		return knownset.NewFileStore(cfg.KnownSet.Path), nil
	default:
		return nil, fmt.Errorf("unknown knownset backend %q", cfg.KnownSet.Backend)
	}
}

// buildService wires parser, store, serializer and feed sources into a ready
// service. The storage client is only created when the feed source or the
// state backend actually needs one.
func buildService(cfg *config.Config, logg *zap.Logger) (*feed.Service, error) {
	if !cfg.Feed.IsValidSource() {
		return nil, fmt.Errorf("unknown feed source %q", cfg.Feed.Source)
	}
	if !cfg.Feed.IsValidFormat() {
		return nil, fmt.Errorf("unknown feed format %q", cfg.Feed.Format)
	}

	var client storage.Client
	if cfg.Feed.Source == feed.SourceObject || cfg.KnownSet.Backend == knownset.BackendObject {
		var err error
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("creating storage client: %w", err)
		}
	}

	store, err := buildStore(cfg, client)
	if err != nil {
		return nil, err
	}

	orch := feedsync.NewOrchestrator(
		parser.New(cfg.Feed.ImageBaseURL, logg),
		store,
		export.NewSerializer(),
		logg,
	)

	feedCfg := cfg.Feed
	bucket := cfg.Storage.Bucket
	open := func(ctx context.Context) (feedsync.Sources, func(), error) {
		return feed.OpenSources(ctx, feedCfg, client, bucket)
	}

	return feed.NewService(orch, open, feedCfg, logg), nil
}
