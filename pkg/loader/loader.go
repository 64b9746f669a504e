// Package loader imports chart series from tabular files. Both formats
// share one shape: the first row names the series, the first column
// carries the X values and every remaining column is one series.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"touchplot/pkg/chartdata"
)

// ErrNoSeries is returned when the header row lacks an X column plus
// at least one series column.
var ErrNoSeries = errors.New("loader: need an x column and at least one series column")

// FromXLSX reads the first sheet of an xlsx workbook.
func FromXLSX(path string) ([]*chartdata.DataSet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("loader: workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return fromRows(rows)
}

// FromCSV reads comma-separated rows. Rows may have trailing columns
// missing; those cells count as blank.
func FromCSV(r io.Reader) ([]*chartdata.DataSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromRows(rows)
}

// fromRows converts header + data rows into sorted data sets. Blank
// and non-numeric cells are skipped; a row whose X cell does not parse
// is skipped whole.
func fromRows(rows [][]string) ([]*chartdata.DataSet, error) {
	if len(rows) == 0 || len(rows[0]) < 2 {
		return nil, ErrNoSeries
	}

	header := rows[0]
	entries := make([][]chartdata.Entry, len(header)-1)

	for rowIdx, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad x value %q: %w", rowIdx+2, row[0], err)
		}
		for col := 1; col < len(header) && col < len(row); col++ {
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			y, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				// Stray text inside a series column is data noise, not
				// a malformed file.
				continue
			}
			entries[col-1] = append(entries[col-1], chartdata.Entry{X: x, Y: y})
		}
	}

	sets := make([]*chartdata.DataSet, 0, len(entries))
	for i, e := range entries {
		label := strings.TrimSpace(header[i+1])
		if label == "" {
			label = fmt.Sprintf("series %d", i+1)
		}
		sets = append(sets, chartdata.NewDataSet(label, e))
	}
	return sets, nil
}
