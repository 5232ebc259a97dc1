// internal/dataset/loader.go
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"data-workers/internal/models"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFileType = errors.New("UNSUPPORTED_FILE_TYPE")
	ErrEmptySheet          = errors.New("sheet has no header row")
)

// Sheet is a decoded upload before any header mapping.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []models.Record
}

// LoadFile reads a .csv or .xlsx file from disk.
func LoadFile(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(filepath.Base(path), f)
}

// Decode picks the decoder from the file extension of name.
func Decode(name string, r io.Reader) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return decodeCSV(name, r)
	case ".xlsx", ".xlsm":
		return decodeXLSX(name, r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, name)
	}
}

func decodeCSV(name string, r io.Reader) (*Sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", name, err)
	}
	return buildSheet(name, records)
}

func decodeXLSX(name string, r io.Reader) (*Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read xlsx %s: %w", name, err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return buildSheet(name, rows)
}

// buildSheet turns a header row plus data rows into records. Blank lines
// are skipped and short rows padded with empty cells.
func buildSheet(name string, grid [][]string) (*Sheet, error) {
	if len(grid) == 0 {
		return nil, ErrEmptySheet
	}

	headers := make([]string, 0, len(grid[0]))
	for i, h := range grid[0] {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		headers = append(headers, h)
	}
	for len(headers) > 0 && headers[len(headers)-1] == "" {
		headers = headers[:len(headers)-1]
	}
	if len(headers) == 0 {
		return nil, ErrEmptySheet
	}

	rows := make([]models.Record, 0, len(grid)-1)
	for _, line := range grid[1:] {
		if blankLine(line) {
			continue
		}
		rec := make(models.Record, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			cell := ""
			if i < len(line) {
				cell = strings.TrimSpace(line[i])
			}
			rec[h] = cell
		}
		rows = append(rows, rec)
	}

	return &Sheet{Name: name, Headers: headers, Rows: rows}, nil
}

func blankLine(line []string) bool {
	for _, c := range line {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func sortedKeys(r models.Record) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
