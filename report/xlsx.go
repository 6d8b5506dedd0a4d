package report

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/scalescape/stale/scan"
)

const (
	DefaultOutput = "unmodified_buckets.xlsx"
	SheetName     = "Unmodified Buckets"
	timeFormat    = "2006-01-02 15:04:05"
)

var headers = []string{"Bucket Name", "Created Date", "Last Modified Date", "Location", "Storage Class"}

type Writer struct {
	log zerolog.Logger
}

func NewWriter(log zerolog.Logger) Writer {
	return Writer{log: log}
}

// Write renders the results into an xlsx workbook at path, overwriting any
// existing file. Rows are sorted by bucket name so runs over the same data
// produce identical files.
func (w Writer) Write(results []scan.Result, path string) error {
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("error naming sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("error creating header style: %w", err)
	}

	widths := make([]int, len(headers))
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("error computing cell name: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("error writing header: %w", err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, bold); err != nil {
			return fmt.Errorf("error styling header: %w", err)
		}
		widths[col] = len(h)
	}

	for row, r := range results {
		values := []string{
			r.Name,
			r.Created.Format(timeFormat),
			r.LastModified.Format(timeFormat),
			r.Location,
			r.StorageClass,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("error computing cell name: %w", err)
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("error writing row: %w", err)
			}
			if len(v) > widths[col] {
				widths[col] = len(v)
			}
		}
	}

	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("error computing column name: %w", err)
		}
		if err := f.SetColWidth(SheetName, name, name, float64(width+2)); err != nil {
			return fmt.Errorf("error sizing column: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error saving report: %w", err)
	}
	w.log.Info().Msgf("results written to %s", path)
	return nil
}
