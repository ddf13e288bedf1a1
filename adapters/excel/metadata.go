package excel

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dataportal/internal/errors"
	"dataportal/ports"
)

// MetadataDir finds per-dataset metadata.csv files laid out as
// <root>/datasets/<group>/<dataset>/metadata.csv.
type MetadataDir struct {
	root string
}

var _ ports.MetadataReader = (*MetadataDir)(nil)

// NewMetadataDir creates a reader rooted at the data directory
func NewMetadataDir(dataDir string) *MetadataDir {
	return &MetadataDir{root: filepath.Join(dataDir, "datasets")}
}

// ReadMetadata returns the rows of the first metadata.csv found for the
// dataset, searching groups in name order. It returns nil, nil when none exists.
func (m *MetadataDir) ReadMetadata(ctx context.Context, datasetName string) ([]map[string]string, error) {
	if datasetName == "" || datasetName == "." || datasetName == ".." ||
		strings.ContainsAny(datasetName, `/\`) {
		return nil, errors.InvalidInput("invalid dataset name " + datasetName)
	}

	entries, err := os.ReadDir(m.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.SourceError(m.root, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(m.root, entry.Name(), datasetName, "metadata.csv")
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}

		table, err := NewDataReader(path).ReadData()
		if err != nil {
			return nil, errors.SourceError(path, err)
		}
		rows := make([]map[string]string, 0, len(table.Rows))
		for _, row := range table.Rows {
			rows = append(rows, map[string]string(row))
		}
		return rows, nil
	}
	return nil, nil
}
