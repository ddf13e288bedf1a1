package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dataportal/internal/errors"
	"dataportal/ports"
)

// EnsembleDir lists ensembles laid out as <root>/ensembles/<ensemble>/datasets/<dataset>/.
type EnsembleDir struct {
	root string
}

var _ ports.EnsembleLister = (*EnsembleDir)(nil)

// NewEnsembleDir creates a lister rooted at the data directory
func NewEnsembleDir(dataDir string) *EnsembleDir {
	return &EnsembleDir{root: filepath.Join(dataDir, "ensembles")}
}

// ListEnsembles returns one entry per ensemble directory, in name order:
// "ensemble", "datasets" (names joined by newlines) and "dataset_1".."dataset_N".
// A missing ensembles directory yields an empty list; an ensemble without a
// datasets directory lists no datasets.
func (e *EnsembleDir) ListEnsembles(ctx context.Context) ([]map[string]string, error) {
	ensembles, err := subdirs(e.root)
	if err != nil {
		if os.IsNotExist(err) {
			return []map[string]string{}, nil
		}
		return nil, errors.SourceError(e.root, err)
	}

	list := make([]map[string]string, 0, len(ensembles))
	for _, ensemble := range ensembles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir := filepath.Join(e.root, ensemble, "datasets")
		datasets, err := subdirs(dir)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.SourceError(dir, err)
		}

		entry := map[string]string{
			"ensemble": ensemble,
			"datasets": strings.Join(datasets, "\n"),
		}
		for i, name := range datasets {
			entry[fmt.Sprintf("dataset_%d", i+1)] = name
		}
		list = append(list, entry)
	}
	return list, nil
}

// subdirs returns the sorted names of the directories directly under dir
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
