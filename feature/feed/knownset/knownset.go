package knownset

import (
	"context"
	"errors"

	"feed-sync/feature/feed/models"
)

var (
	// ErrUnavailable means the backing medium exists but cannot be read or
	// written. Fatal to the run: the orchestrator aborts rather than risk
	// diverging history.
	ErrUnavailable = errors.New("known set storage unavailable")

	// ErrCorrupt means the persisted set cannot be parsed. Deliberately a
	// hard stop instead of reinitializing to empty, which would mask data
	// loss as "everything is new".
	ErrCorrupt = errors.New("known set storage corrupt")
)

// Store persists the set of previously exported SKUs between runs. The
// format behind a Store is opaque to the engine beyond a lossless
// load→save→load round-trip of every entry.
//
// Load returns an empty set when the backing medium is absent; a first-ever
// run is an explicit, named case, not an error. Save must be atomic with
// respect to partial writes: a crash mid-save must leave the previously
// stored set intact.
type Store interface {
	Load(ctx context.Context) (*models.KnownSet, error)
	Save(ctx context.Context, set *models.KnownSet) error
}

// Backend names accepted in configuration.
const (
	BackendFile   = "file"
	BackendObject = "object"
	BackendDB     = "db"
)

// Config selects and parameterizes the known set backend.
type Config struct {
	// Backend is one of file, object or db.
	Backend string `mapstructure:"backend" default:"file"`
	// Path is the JSON document location for the file backend.
	Path string `mapstructure:"path" default:"known_skus.json"`
	// Object is the object name for the object backend; the bucket comes
	// from the storage configuration.
	Object string `mapstructure:"object" default:"state/known_skus.json"`
}
