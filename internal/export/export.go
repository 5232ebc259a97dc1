// Package export renders cleaned datasets, prioritization scores and the
// rules configuration as downloadable artifacts.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"data-workers/internal/dataset"
	"data-workers/internal/models"

	"github.com/xuri/excelize/v2"
)

// Format is an output encoding for row data.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts csv, json or xlsx in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatXLSX:
		return f, nil
	case "":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Extension is the file suffix for f.
func (f Format) Extension() string {
	return "." + string(f)
}

// Write encodes rows in format f.
func Write(w io.Writer, f Format, headers []string, rows []models.Record) error {
	switch f {
	case FormatCSV:
		return CSV(w, headers, rows)
	case FormatJSON:
		return JSON(w, rows)
	case FormatXLSX:
		return XLSX(w, "Sheet1", headers, rows)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

// CSV writes a header row in the given order and one line per record.
// Fields with commas, quotes or newlines are quoted per RFC 4180.
func CSV(w io.Writer, headers []string, rows []models.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	line := make([]string, len(headers))
	for _, row := range rows {
		for i, h := range headers {
			line[i] = dataset.ToText(row[h])
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSON writes rows as an indented array of objects.
func JSON(w io.Writer, rows []models.Record) error {
	if rows == nil {
		rows = []models.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// XLSX writes a single-sheet workbook.
func XLSX(w io.Writer, sheet string, headers []string, rows []models.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for r, row := range rows {
		cells := make([]interface{}, len(headers))
		for i, h := range headers {
			cells[i] = xlsxValue(row[h])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func xlsxValue(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return ""
	case string, float64, int, int64, bool:
		return t
	}
	return dataset.ToText(v)
}
