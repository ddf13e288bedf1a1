package catalog

import (
	"context"

	"dataportal/domain/dataset"

	"github.com/montanaflynn/stats"
)

// CountSummary describes one cell-count column over the datasets that report it
type CountSummary struct {
	Reported int     `json:"reported"`
	Total    int64   `json:"total"`
	Median   float64 `json:"median"`
	Max      float64 `json:"max"`
}

// Summary describes the whole catalog
type Summary struct {
	Datasets        int          `json:"datasets"`
	LatestAdded     string       `json:"latest_added"`
	MethylationCell CountSummary `json:"methylation_cell_count"`
	SnATACCell      CountSummary `json:"snATAC_cell_count"`
}

// Summary computes totals and medians of the cell counts
func (c *Catalog) Summary(ctx context.Context) (Summary, error) {
	records, err := c.ListDatasets(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(records), nil
}

// Summarize computes the summary of a record list
func Summarize(records []dataset.Record) Summary {
	s := Summary{Datasets: len(records)}
	var methylation, snATAC []float64
	for _, rec := range records {
		if rec.DateAdded > s.LatestAdded {
			s.LatestAdded = rec.DateAdded
		}
		if rec.MethylationCellCount.Valid {
			methylation = append(methylation, float64(rec.MethylationCellCount.Int64))
		}
		if rec.SnATACCellCount.Valid {
			snATAC = append(snATAC, float64(rec.SnATACCellCount.Int64))
		}
	}
	s.MethylationCell = summarizeCounts(methylation)
	s.SnATACCell = summarizeCounts(snATAC)
	return s
}

func summarizeCounts(values []float64) CountSummary {
	if len(values) == 0 {
		return CountSummary{}
	}
	sum, _ := stats.Sum(values)
	median, _ := stats.Median(values)
	max, _ := stats.Max(values)
	return CountSummary{
		Reported: len(values),
		Total:    int64(sum),
		Median:   median,
		Max:      max,
	}
}
