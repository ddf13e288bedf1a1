package excel

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"dataportal/domain/dataset"
	"dataportal/internal/errors"

	"github.com/xuri/excelize/v2"
)

// WriteDatasets writes records as a sheet readable by FileSource: a header
// row of field names, then one row per record. The format follows the file
// extension, as for DataReader.
func WriteDatasets(path string, records []dataset.Record) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, dataset.FieldNames)
	for _, rec := range records {
		row := make([]string, len(dataset.FieldNames))
		for i, field := range dataset.FieldNames {
			row[i] = rec.FieldText(field)
		}
		rows = append(rows, row)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	var err error
	if NewDataReader(path).fileType == "csv" {
		err = writeCSV(path, rows)
	} else {
		err = writeExcel(path, rows)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	logger.Info("wrote %d datasets to %s", len(records), path)
	return nil
}

func writeExcel(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow("Sheet1", cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}
