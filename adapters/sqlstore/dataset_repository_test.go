package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"dataportal/domain/dataset"
	"dataportal/internal/errors"
	"dataportal/internal/migration"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	repo := NewDatasetRepository(db)

	n, err := repo.Upsert(ctx, []dataset.Record{
		{DatasetName: "CEMBA_1A", Sex: "M", MethylationCellCount: dataset.NewCount(120), Slice: "1", DateAdded: "2017-11-02"},
		{DatasetName: "CEMBA_3C", Sex: "F", SnATACCellCount: dataset.NewCount(40), Slice: "3", DateAdded: "2018-03-01",
			Description: "Primary motor cortex", SnATACDatasets: "CEMBA180301_3C"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = repo.Upsert(ctx, []dataset.Record{
		{DatasetName: "CEMBA_1A", Sex: "M", MethylationCellCount: dataset.NewCount(130), Slice: "1", DateAdded: "2017-11-02"},
	})
	require.NoError(t, err)

	records, err := repo.ListDatasets(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "CEMBA_3C", records[0].DatasetName, "newest first")
	assert.False(t, records[0].MethylationCellCount.Valid)
	assert.Equal(t, dataset.NewCount(40), records[0].SnATACCellCount)
	assert.Equal(t, "CEMBA180301_3C", records[0].SnATACDatasets)
	assert.Equal(t, dataset.NewCount(130), records[1].MethylationCellCount)
}

func TestUpsertRejectsUnnamedRecord(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	repo := NewDatasetRepository(db)
	_, err = repo.Upsert(ctx, []dataset.Record{{DatasetName: "ok"}, {Sex: "F"}})

	assert.True(t, errors.Is(err, errors.CodeInvalidInput))
	records, err := repo.ListDatasets(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "datasets.sqlite3")

	db, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, migration.NewRunner().Run(ctx, db))

	var versions []string
	require.NoError(t, db.Select(&versions, `SELECT version FROM schema_migrations ORDER BY version`))
	assert.Equal(t, []string{"0001_create_datasets", "0002_index_date_added"}, versions)
	require.NoError(t, db.Close())

	db, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "0002_index_date_added", migration.NewRunner().Version())
}
