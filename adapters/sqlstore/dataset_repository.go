package sqlstore

import (
	"context"
	"strconv"

	"dataportal/domain/dataset"
	"dataportal/internal/errors"
	"dataportal/ports"

	"github.com/jmoiron/sqlx"
)

// datasetRepository implements ports.DatasetStore on PostgreSQL or SQLite
type datasetRepository struct {
	db *sqlx.DB
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *sqlx.DB) ports.DatasetStore {
	return &datasetRepository{db: db}
}

const selectDatasets = `SELECT
	dataset_name, sex, methylation_cell_count, snatac_cell_count, aba_regions_acronym,
	slice, date_added, description, aba_regions_descriptive, snatac_datasets
FROM datasets
ORDER BY date_added DESC, dataset_name`

// ListDatasets returns every stored dataset, newest first
func (r *datasetRepository) ListDatasets(ctx context.Context) ([]dataset.Record, error) {
	records := []dataset.Record{}
	if err := r.db.SelectContext(ctx, &records, selectDatasets); err != nil {
		return nil, errors.DatabaseError("failed to list datasets", err)
	}
	return records, nil
}

const upsertDataset = `INSERT INTO datasets (
	dataset_name, sex, methylation_cell_count, snatac_cell_count, aba_regions_acronym,
	slice, date_added, description, aba_regions_descriptive, snatac_datasets
) VALUES (
	:dataset_name, :sex, :methylation_cell_count, :snatac_cell_count, :aba_regions_acronym,
	:slice, :date_added, :description, :aba_regions_descriptive, :snatac_datasets
)
ON CONFLICT (dataset_name) DO UPDATE SET
	sex = excluded.sex,
	methylation_cell_count = excluded.methylation_cell_count,
	snatac_cell_count = excluded.snatac_cell_count,
	aba_regions_acronym = excluded.aba_regions_acronym,
	slice = excluded.slice,
	date_added = excluded.date_added,
	description = excluded.description,
	aba_regions_descriptive = excluded.aba_regions_descriptive,
	snatac_datasets = excluded.snatac_datasets`

// Upsert inserts or replaces records by dataset_name in one transaction.
// Records without a name are rejected before anything is written.
func (r *datasetRepository) Upsert(ctx context.Context, records []dataset.Record) (int, error) {
	for i, rec := range records {
		if rec.DatasetName == "" {
			return 0, errors.InvalidInput("record " + strconv.Itoa(i) + " has no dataset_name")
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.DatabaseError("failed to begin import", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, upsertDataset)
	if err != nil {
		return 0, errors.DatabaseError("failed to prepare upsert", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec); err != nil {
			return 0, errors.DatabaseError("failed to upsert dataset "+rec.DatasetName, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.DatabaseError("failed to commit import", err)
	}
	return len(records), nil
}
