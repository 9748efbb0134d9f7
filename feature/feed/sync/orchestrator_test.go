package sync_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"feed-sync/feature/feed/knownset"
	"feed-sync/feature/feed/models"
	"feed-sync/feature/feed/parser"
	"feed-sync/feature/feed/reconcile"
	"feed-sync/feature/feed/sync"

	"feed-sync/feature/feed/export"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const productFeed = `StockCode,Product Name,CurrentListPrice,CStock,DiscontinuedFlag
TB-100,Claw Hammer,12.50,40,0
TB-200,Torx Screwdriver,4.99,12,0
TB-300,Pipe Wrench,18.00,3,0
`

func csvRows(t *testing.T, data string) parser.RowReader {
	t.Helper()
	rows, err := parser.NewCSVRowReader(strings.NewReader(data))
	require.NoError(t, err)
	return rows
}

func newOrchestrator(t *testing.T, store knownset.Store) *sync.Orchestrator {
	t.Helper()
	return sync.NewOrchestrator(
		parser.New("", zap.NewNop()),
		store,
		export.NewSerializer(),
		zap.NewNop(),
	)
}

func TestRun_FirstRunCreatesEverything(t *testing.T) {
	dir := t.TempDir()
	store := knownset.NewFileStore(filepath.Join(dir, "known.json"))
	orch := newOrchestrator(t, store)
	outPath := filepath.Join(dir, "export.csv")

	summary, err := orch.Run(context.Background(), sync.Sources{Products: csvRows(t, productFeed)}, outPath, sync.Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Created)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 0, summary.Archived)
	assert.Equal(t, 0, summary.ParseFailures)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, outPath, summary.OutputPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "TB-100,CREATE")

	known, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, known.Len())
}

func TestRun_SecondRunClassifies(t *testing.T) {
	dir := t.TempDir()
	store := knownset.NewFileStore(filepath.Join(dir, "known.json"))
	orch := newOrchestrator(t, store)

	_, err := orch.Run(context.Background(),
		sync.Sources{Products: csvRows(t, productFeed)},
		filepath.Join(dir, "export1.csv"), sync.Options{})
	require.NoError(t, err)

	// TB-300 vanishes, TB-400 appears.
	second := `StockCode,Product Name,CurrentListPrice,CStock
TB-100,Claw Hammer,13.00,38
TB-200,Torx Screwdriver,4.99,9
TB-400,Masonry Drill,25.00,5
`
	outPath := filepath.Join(dir, "export2.csv")
	summary, err := orch.Run(context.Background(),
		sync.Sources{Products: csvRows(t, second)}, outPath, sync.Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, 1, summary.Archived)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "TB-400,CREATE")
	assert.Contains(t, out, "TB-100,UPDATE")
	assert.Contains(t, out, "TB-300,ARCHIVE")
}

func TestRun_IdenticalRerunEmitsNoCreatesOrArchives(t *testing.T) {
	dir := t.TempDir()
	store := knownset.NewFileStore(filepath.Join(dir, "known.json"))
	orch := newOrchestrator(t, store)

	_, err := orch.Run(context.Background(),
		sync.Sources{Products: csvRows(t, productFeed)},
		filepath.Join(dir, "export1.csv"), sync.Options{})
	require.NoError(t, err)

	summary, err := orch.Run(context.Background(),
		sync.Sources{Products: csvRows(t, productFeed)},
		filepath.Join(dir, "export2.csv"), sync.Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 3, summary.Updated)
	assert.Equal(t, 0, summary.Archived)
}

func TestRun_SideFeedsOverride(t *testing.T) {
	dir := t.TempDir()
	store := knownset.NewFileStore(filepath.Join(dir, "known.json"))
	orch := newOrchestrator(t, store)
	outPath := filepath.Join(dir, "export.csv")

	pricing := `StockCode,RRP
TB-100,99.99
`
	availability := `StockCode,CStock
TB-200,0
`
	summary, err := orch.Run(context.Background(), sync.Sources{
		Products:     csvRows(t, productFeed),
		Pricing:      csvRows(t, pricing),
		Availability: csvRows(t, availability),
	}, outPath, sync.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Created)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "TB-100,CREATE,Claw Hammer,,99.99,40")
	assert.Contains(t, out, "TB-200,CREATE,Torx Screwdriver,,4.99,0")
}

func TestRun_ParseFailuresAreTalliedNotFatal(t *testing.T) {
	dir := t.TempDir()
	store := knownset.NewFileStore(filepath.Join(dir, "known.json"))
	orch := newOrchestrator(t, store)

	feed := `StockCode,Product Name,CurrentListPrice
TB-100,Claw Hammer,12.50
,No SKU,5.00
TB-BAD,Bad Price,not-a-price
`
	summary, err := orch.Run(context.Background(),
		sync.Sources{Products: csvRows(t, feed)},
		filepath.Join(dir, "export.csv"), sync.Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 2, summary.ParseFailures)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "known.json")
	store := knownset.NewFileStore(statePath)
	orch := newOrchestrator(t, store)
	outPath := filepath.Join(dir, "export.csv")

	summary, err := orch.Run(context.Background(),
		sync.Sources{Products: csvRows(t, productFeed)}, outPath, sync.Options{DryRun: true})
	require.NoError(t, err)

	assert.True(t, summary.DryRun)
	assert.Equal(t, 3, summary.Created)
	assert.Empty(t, summary.OutputPath)

	_, err = os.Stat(outPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(statePath)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_CorruptStateAborts(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "known.json")
	require.NoError(t, os.WriteFile(statePath, []byte("{broken"), 0o644))

	store := knownset.NewFileStore(statePath)
	orch := newOrchestrator(t, store)
	outPath := filepath.Join(dir, "export.csv")

	summary, err := orch.Run(context.Background(),
		sync.Sources{Products: csvRows(t, productFeed)}, outPath, sync.Options{})
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, knownset.ErrCorrupt)

	// Nothing published, state untouched.
	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr))
	data, readErr := os.ReadFile(statePath)
	require.NoError(t, readErr)
	assert.Equal(t, "{broken", string(data))
}

func TestRun_SaveFailureSurfaces(t *testing.T) {
	dir := t.TempDir()
	orch := newOrchestrator(t, &failingStore{})

	summary, err := orch.Run(context.Background(),
		sync.Sources{Products: csvRows(t, productFeed)},
		filepath.Join(dir, "export.csv"), sync.Options{})
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, knownset.ErrUnavailable)
}

func TestRun_ReactivationPolicyIsApplied(t *testing.T) {
	dir := t.TempDir()
	store := knownset.NewFileStore(filepath.Join(dir, "known.json"))
	orch := newOrchestrator(t, store)

	_, err := orch.Run(context.Background(),
		sync.Sources{Products: csvRows(t, productFeed)},
		filepath.Join(dir, "export1.csv"), sync.Options{})
	require.NoError(t, err)

	// TB-300 vanishes, then returns.
	without := `StockCode,Product Name,CurrentListPrice
TB-100,Claw Hammer,12.50
TB-200,Torx Screwdriver,4.99
`
	_, err = orch.Run(context.Background(),
		sync.Sources{Products: csvRows(t, without)},
		filepath.Join(dir, "export2.csv"), sync.Options{})
	require.NoError(t, err)

	summary, err := orch.Run(context.Background(),
		sync.Sources{Products: csvRows(t, productFeed)},
		filepath.Join(dir, "export3.csv"), sync.Options{
			Reconcile: reconcile.Options{Reactivation: reconcile.ReactivateAsCreate},
		})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 2, summary.Updated)
}

type failingStore struct{}

func (s *failingStore) Load(ctx context.Context) (*models.KnownSet, error) {
	return models.NewKnownSet(), nil
}

func (s *failingStore) Save(ctx context.Context, set *models.KnownSet) error {
	return errors.Join(knownset.ErrUnavailable, errors.New("disk full"))
}
