package ports

import (
	"context"

	"dataportal/domain/dataset"
)

// DatasetSource lists the dataset records served to the dataset table
type DatasetSource interface {
	ListDatasets(ctx context.Context) ([]dataset.Record, error)
}

// DatasetStore is a DatasetSource that can also be loaded from imports
type DatasetStore interface {
	DatasetSource
	Upsert(ctx context.Context, records []dataset.Record) (int, error)
}

// MetadataReader returns the per-dataset metadata rows, or nil when the dataset has none
type MetadataReader interface {
	ReadMetadata(ctx context.Context, datasetName string) ([]map[string]string, error)
}

// EnsembleLister lists ensembles with the datasets each one groups
type EnsembleLister interface {
	ListEnsembles(ctx context.Context) ([]map[string]string, error)
}
