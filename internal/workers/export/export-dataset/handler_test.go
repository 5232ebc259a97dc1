// internal/workers/export/export-dataset/handler_test.go
package exportdataset

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"
	"data-workers/internal/models"
	"data-workers/internal/store"
	"data-workers/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeIndexer struct {
	calls  int
	result *store.IndexResult
	err    error
}

func (f *fakeIndexer) IndexName(kind models.EntityKind) string {
	return "cleaned-" + string(kind) + "s"
}

func (f *fakeIndexer) Index(_ context.Context, ds *models.Dataset) (*store.IndexResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &store.IndexResult{Index: f.IndexName(ds.Kind), Indexed: len(ds.Rows)}, nil
}

func clientsDataset() *models.Dataset {
	return &models.Dataset{
		ID:      "clients-1",
		Kind:    models.KindClient,
		Version: 3,
		Headers: []string{"clientId", "priorityLevel"},
		Rows: []models.Record{
			{"clientId": "C1", "priorityLevel": "4"},
			{"clientId": "C2", "priorityLevel": "2"},
		},
	}
}

func createTestHandler(t *testing.T, datasets DatasetStore, indexer Indexer, indexing bool) (*Handler, string) {
	dir := t.TempDir()
	cfg := &Config{Timeout: 5 * time.Second, OutputDir: dir, IndexingEnabled: indexing}
	return NewHandler(cfg, datasets, indexer, logger.NewTestLogger(t)), dir
}

func readFile(t *testing.T, path string) string {
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_CSVWithPrioritization(t *testing.T) {
	idx := &fakeIndexer{}
	h, dir := createTestHandler(t, storetest.NewDatasets(clientsDataset()), idx, true)

	out, err := h.Execute(context.Background(), &Input{
		DatasetID: "clients-1",
		Weights:   map[string]float64{"priorityLevel": 1},
	})

	require.NoError(t, err)
	assert.Equal(t, "csv", out.Format)
	assert.Equal(t, 3, out.Version)
	assert.Equal(t, 2, out.RowCount)
	require.Len(t, out.Artifacts, 2)

	data := out.Artifacts[0]
	assert.Equal(t, ArtifactData, data.Kind)
	assert.True(t, strings.HasPrefix(data.Path, dir))
	assert.True(t, strings.HasSuffix(data.Path, "-v3.csv"))
	assert.Equal(t, "clientId,priorityLevel\nC1,4\nC2,2\n", readFile(t, data.Path))
	assert.Equal(t, int64(len("clientId,priorityLevel\nC1,4\nC2,2\n")), data.Bytes)

	prio := out.Artifacts[1]
	assert.Equal(t, ArtifactPrioritization, prio.Kind)
	assert.Equal(t, "clientId,priorityLevel,CalculatedPriority\nC1,4,1\nC2,2,0.5\n", readFile(t, prio.Path))

	require.NotNil(t, out.Index)
	assert.Equal(t, 2, out.Index.Indexed)
	assert.Equal(t, 1, idx.calls)
}

func TestHandler_Execute_JSONWithoutIndexing(t *testing.T) {
	tests := []struct {
		name     string
		indexing bool
		skip     bool
	}{
		{name: "indexing disabled", indexing: false},
		{name: "skipped per job", indexing: true, skip: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := &fakeIndexer{}
			h, _ := createTestHandler(t, storetest.NewDatasets(clientsDataset()), idx, tt.indexing)

			out, err := h.Execute(context.Background(), &Input{DatasetID: "clients-1", Format: "JSON", SkipIndex: tt.skip})

			require.NoError(t, err)
			require.Len(t, out.Artifacts, 1)
			assert.True(t, strings.HasSuffix(out.Artifacts[0].Path, ".json"))
			assert.Contains(t, readFile(t, out.Artifacts[0].Path), `"clientId": "C1"`)
			assert.Nil(t, out.Index)
			assert.Zero(t, idx.calls)
		})
	}
}

func TestHandler_Execute_NilIndexer(t *testing.T) {
	h, _ := createTestHandler(t, storetest.NewDatasets(clientsDataset()), nil, true)

	out, err := h.Execute(context.Background(), &Input{DatasetID: "clients-1"})

	require.NoError(t, err)
	assert.Nil(t, out.Index)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   *Input
		store   *storetest.Datasets
		indexer *fakeIndexer
		want    apperrors.ErrorCode
	}{
		{"missing dataset id", &Input{}, storetest.NewDatasets(), &fakeIndexer{}, apperrors.ErrCodeInvalidInput},
		{"bad format", &Input{DatasetID: "clients-1", Format: "pdf"}, storetest.NewDatasets(clientsDataset()), &fakeIndexer{}, apperrors.ErrCodeInvalidInput},
		{"unknown dataset", &Input{DatasetID: "nope"}, storetest.NewDatasets(), &fakeIndexer{}, apperrors.ErrCodeDatasetNotFound},
		{"store failure", &Input{DatasetID: "clients-1"}, &storetest.Datasets{Err: errors.New("down")}, &fakeIndexer{}, apperrors.ErrCodeDatasetStoreFailed},
		{"index failure", &Input{DatasetID: "clients-1"}, storetest.NewDatasets(clientsDataset()), &fakeIndexer{err: errors.New("cluster red")}, apperrors.ErrCodeIndexingFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := createTestHandler(t, tt.store, tt.indexer, true)

			_, err := h.Execute(context.Background(), tt.input)

			var stdErr *apperrors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, tt.want, stdErr.Code)
		})
	}
}

func TestHandler_Execute_PrioritizationUnsupportedKind(t *testing.T) {
	h, _ := createTestHandler(t, storetest.NewDatasets(&models.Dataset{
		ID:   "odd-1",
		Kind: "vendor",
		Rows: []models.Record{{"id": "V1"}},
	}), nil, false)

	_, err := h.Execute(context.Background(), &Input{DatasetID: "odd-1", Weights: map[string]float64{"fairness": 1}})

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeExportFailed, stdErr.Code)
}
