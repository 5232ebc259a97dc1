// internal/workers/dataset/load-dataset/handler_test.go
package loaddataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"
	"data-workers/internal/models"
	"data-workers/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T, store DatasetStore) (*Handler, string) {
	dir := t.TempDir()
	cfg := &Config{Timeout: 5 * time.Second, InputDir: dir, MaxFileSize: 1 << 20}
	return NewHandler(cfg, store, logger.NewTestLogger(t)), dir
}

func writeFile(t *testing.T, dir, name, content string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func errorCode(t *testing.T, err error) apperrors.ErrorCode {
	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	return stdErr.Code
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_DetectsAndMaps(t *testing.T) {
	store := storetest.NewDatasets()
	h, dir := createTestHandler(t, store)
	writeFile(t, dir, "workers.csv", "ID,Name,Skills,Max Load\nW1,Ada,\"go, sql\",2\nW2,Bob,react,1\n")

	out, err := h.Execute(context.Background(), &Input{FileName: "workers.csv"})

	require.NoError(t, err)
	assert.Equal(t, models.KindWorker, out.Kind)
	assert.Equal(t, 2, out.RowCount)
	assert.Equal(t, 1, out.Version)
	assert.Equal(t, "workerId", out.HeaderMapping["ID"])
	assert.Equal(t, "skills", out.HeaderMapping["Skills"])

	saved := store.Stored(out.DatasetID)
	require.NotNil(t, saved)
	assert.Equal(t, "workers.csv", saved.Name)
	assert.Equal(t, "W1", saved.Rows[0]["workerId"])
	assert.Equal(t, "go, sql", saved.Rows[0]["skills"])
}

func TestHandler_Execute_ExplicitKind(t *testing.T) {
	h, dir := createTestHandler(t, storetest.NewDatasets())
	writeFile(t, dir, "sheet.csv", "ID,Name\nT1,Build\n")

	out, err := h.Execute(context.Background(), &Input{FileName: "sheet.csv", Kind: "Tasks", Name: "sprint"})

	require.NoError(t, err)
	assert.Equal(t, models.KindTask, out.Kind)
	assert.Equal(t, []string{"taskId", "taskName"}, out.Headers)
}

func TestHandler_Execute_PathIsConfinedToInputDir(t *testing.T) {
	h, dir := createTestHandler(t, storetest.NewDatasets())
	writeFile(t, dir, "clients.csv", "ClientID,ClientName,PriorityLevel,RequestedTaskIDs\nC1,Acme,3,T1\n")

	out, err := h.Execute(context.Background(), &Input{FileName: "../../etc/clients.csv"})

	require.NoError(t, err)
	assert.Equal(t, models.KindClient, out.Kind)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		input *Input
		store *storetest.Datasets
		want  apperrors.ErrorCode
	}{
		{
			name:  "missing file name",
			input: &Input{},
			want:  apperrors.ErrCodeInvalidInput,
		},
		{
			name:  "file does not exist",
			input: &Input{FileName: "nope.csv"},
			want:  apperrors.ErrCodeDatasetLoadFailed,
		},
		{
			name:  "unsupported extension",
			files: map[string]string{"notes.pdf": "hello"},
			input: &Input{FileName: "notes.pdf"},
			want:  apperrors.ErrCodeUnsupportedFileType,
		},
		{
			name:  "empty sheet",
			files: map[string]string{"empty.csv": ""},
			input: &Input{FileName: "empty.csv"},
			want:  apperrors.ErrCodeInvalidInput,
		},
		{
			name:  "kind cannot be detected",
			files: map[string]string{"odd.csv": "foo,bar\n1,2\n"},
			input: &Input{FileName: "odd.csv"},
			want:  apperrors.ErrCodeInvalidInput,
		},
		{
			name:  "unknown explicit kind",
			files: map[string]string{"odd.csv": "foo,bar\n1,2\n"},
			input: &Input{FileName: "odd.csv", Kind: "vendor"},
			want:  apperrors.ErrCodeInvalidInput,
		},
		{
			name:  "store failure is retryable",
			files: map[string]string{"tasks.csv": "TaskID,TaskName,Duration\nT1,Build,2\n"},
			input: &Input{FileName: "tasks.csv"},
			store: &storetest.Datasets{Err: errors.New("connection reset")},
			want:  apperrors.ErrCodeDatasetStoreFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tt.store
			if store == nil {
				store = storetest.NewDatasets()
			}
			h, dir := createTestHandler(t, store)
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}

			_, err := h.Execute(context.Background(), tt.input)

			assert.Equal(t, tt.want, errorCode(t, err))
		})
	}
}

func TestHandler_Execute_FileTooLarge(t *testing.T) {
	h, dir := createTestHandler(t, storetest.NewDatasets())
	h.config.MaxFileSize = 10
	writeFile(t, dir, "big.csv", "TaskID,TaskName\nT1,Build something long\n")

	_, err := h.Execute(context.Background(), &Input{FileName: "big.csv"})

	assert.Equal(t, apperrors.ErrCodeInvalidInput, errorCode(t, err))
}

func TestConfigFrom(t *testing.T) {
	assert.Equal(t, DefaultConfig(), ConfigFrom(nil))
}
