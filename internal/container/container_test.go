package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dataportal/domain/dataset"
	"dataportal/internal/config"
	"dataportal/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, source string) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Data: config.DataConfig{
			Dir:        dir,
			Source:     source,
			File:       filepath.Join(dir, "datasets.csv"),
			SQLitePath: filepath.Join(dir, "datasets.sqlite3"),
		},
		Cache: config.CacheConfig{TTL: time.Minute, ViewCacheSize: 10},
	}
}

func TestContainerFileSource(t *testing.T) {
	cfg := testConfig(t, config.SourceFile)
	require.NoError(t, os.WriteFile(cfg.Data.File, []byte("dataset_name,date_added\nCEMBA_1A,2017-11-02\n"), 0o644))

	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Shutdown()

	assert.Nil(t, c.DB)
	assert.Nil(t, c.Store)
	records, err := c.Catalog.ListDatasets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CEMBA_1A", records[0].DatasetName)
}

func TestContainerSQLiteSource(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, testConfig(t, config.SourceSQLite))
	require.NoError(t, err)
	defer c.Shutdown()

	require.NotNil(t, c.Store)
	_, err = c.Store.Upsert(ctx, []dataset.Record{{DatasetName: "CEMBA_3C", DateAdded: "2018-03-01"}})
	require.NoError(t, err)

	rec, err := c.Catalog.Find(ctx, "CEMBA_3C")
	require.NoError(t, err)
	assert.Equal(t, "2018-03-01", rec.DateAdded)
	assert.NotNil(t, c.ContentHandler())
}

func TestContainerUnknownSource(t *testing.T) {
	_, err := New(context.Background(), testConfig(t, "mongo"))

	assert.True(t, errors.Is(err, errors.CodeConfigInvalid))
}
