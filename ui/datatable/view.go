// Package datatable drives the dataset table: a tabular view bound to a
// remote record list, with per-row expandable detail panels.
package datatable

import (
	"context"
	"html/template"

	"dataportal/domain/dataset"
	"dataportal/ports"
)

// DataSource supplies the full record set of a table in one call.
type DataSource interface {
	Fetch(ctx context.Context) ([]dataset.Record, error)
}

// SourceFunc adapts a function to DataSource
type SourceFunc func(ctx context.Context) ([]dataset.Record, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]dataset.Record, error) {
	return f(ctx)
}

// FromDatasetSource reads records in-process instead of over HTTP
func FromDatasetSource(src ports.DatasetSource) DataSource {
	return SourceFunc(src.ListDatasets)
}

// ToggleHandler is called when the expand control of a row is clicked
type ToggleHandler func(rowID string) error

// View is the tabular widget the controller configures. Implementations own
// row storage, sorting and pagination.
type View interface {
	// Bind fetches the rows from src. Until it returns the view is empty.
	Bind(ctx context.Context, src DataSource) error
	SetColumns(cols []dataset.ColumnSpec)
	SetDefaultSort(column int, dir dataset.SortDirection)
	SetPageLength(n int)
	OnRowExpandToggle(handler ToggleHandler)
	ShowRowDetail(rowID string, content template.HTML) error
	HideRowDetail(rowID string) error
	// Row returns the record bound to a row.
	Row(rowID string) (dataset.Record, bool)
}
