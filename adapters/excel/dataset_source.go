package excel

import (
	"context"
	"fmt"

	"dataportal/domain/dataset"
	"dataportal/internal/errors"
	"dataportal/ports"
)

// FileSource serves dataset records from a CSV or XLSX file whose header row
// uses the record field names. The file is re-read on every call.
type FileSource struct {
	reader *DataReader
	path   string
}

var _ ports.DatasetSource = (*FileSource)(nil)

// NewFileSource creates a source for the given file
func NewFileSource(path string) *FileSource {
	return &FileSource{reader: NewDataReader(path), path: path}
}

// ListDatasets reads every row of the file as a record
func (s *FileSource) ListDatasets(ctx context.Context) ([]dataset.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := s.reader.ReadData()
	if err != nil {
		return nil, errors.SourceError(s.path, err)
	}

	records := make([]dataset.Record, 0, len(table.Rows))
	for i, row := range table.Rows {
		rec, err := RecordFromRow(row)
		if err != nil {
			// data row i is line i+2 of the file
			return nil, errors.SourceError(s.path, fmt.Errorf("row %d: %w", i+2, err))
		}
		records = append(records, rec)
	}
	return records, nil
}

// RecordFromRow maps a row keyed by field name to a record. Absent columns
// leave the field empty.
func RecordFromRow(row RawRowData) (dataset.Record, error) {
	methylation, err := dataset.ParseCount(row["methylation_cell_count"])
	if err != nil {
		return dataset.Record{}, fmt.Errorf("methylation_cell_count: %w", err)
	}
	snATAC, err := dataset.ParseCount(row["snATAC_cell_count"])
	if err != nil {
		return dataset.Record{}, fmt.Errorf("snATAC_cell_count: %w", err)
	}

	return dataset.Record{
		DatasetName:           row["dataset_name"],
		Sex:                   row["sex"],
		MethylationCellCount:  methylation,
		SnATACCellCount:       snATAC,
		ABARegionsAcronym:     row["ABA_regions_acronym"],
		Slice:                 dataset.Text(row["slice"]),
		DateAdded:             row["date_added"],
		Description:           row["description"],
		ABARegionsDescriptive: row["ABA_regions_descriptive"],
		SnATACDatasets:        row["snATAC_datasets"],
	}, nil
}
