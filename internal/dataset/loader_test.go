// internal/dataset/loader_test.go
package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDecode_CSV(t *testing.T) {
	body := "\ufeffTaskID,TaskName,Duration,RequiredSkills\n" +
		"T1,Fix login bug,1,\"go, sql\"\n" +
		",,,\n" +
		"T2,Design API\n"

	sheet, err := Decode("tasks.csv", strings.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, []string{"TaskID", "TaskName", "Duration", "RequiredSkills"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2, "blank line skipped")
	assert.Equal(t, "go, sql", sheet.Rows[0]["RequiredSkills"])
	assert.Equal(t, "", sheet.Rows[1]["Duration"], "short rows are padded")
}

func TestDecode_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"WorkerID", "WorkerName", "AvailableSlots"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"W1", "Ada", "1-3"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"W2", "Lin", 4}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	decoded, err := Decode("workers.xlsx", buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"WorkerID", "WorkerName", "AvailableSlots"}, decoded.Headers)
	require.Len(t, decoded.Rows, 2)
	assert.Equal(t, "1-3", decoded.Rows[0]["AvailableSlots"])
	assert.Equal(t, "4", decoded.Rows[1]["AvailableSlots"])
}

func TestDecode_Unsupported(t *testing.T) {
	_, err := Decode("notes.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFileType))
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode("empty.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.csv")
	require.NoError(t, os.WriteFile(path, []byte("ClientID,ClientName\nC1,Acme\n"), 0o600))

	sheet, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "clients.csv", sheet.Name)
	assert.Equal(t, "Acme", sheet.Rows[0]["ClientName"])

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
