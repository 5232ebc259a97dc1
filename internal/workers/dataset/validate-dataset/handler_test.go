// internal/workers/dataset/validate-dataset/handler_test.go
package validatedataset

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"
	"data-workers/internal/models"
	"data-workers/internal/store/storetest"
	"data-workers/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func clientsDataset() *models.Dataset {
	return &models.Dataset{
		ID:      "clients-1",
		Kind:    models.KindClient,
		Headers: []string{"clientId", "clientName", "priorityLevel", "requestedTaskIds"},
		Rows: []models.Record{
			{"clientId": "C1", "clientName": "Acme", "priorityLevel": "3", "requestedTaskIds": "T1,T9"},
			{"clientId": "C1", "clientName": "Globex", "priorityLevel": "7", "requestedTaskIds": "T1"},
		},
	}
}

func tasksDataset() *models.Dataset {
	return &models.Dataset{
		ID:      "tasks-1",
		Kind:    models.KindTask,
		Headers: []string{"taskId", "taskName"},
		Rows:    []models.Record{{"taskId": "T1", "taskName": "Build"}},
	}
}

func createTestHandler(t *testing.T, store DatasetStore) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, store, logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_WithCompanions(t *testing.T) {
	h := createTestHandler(t, storetest.NewDatasets(clientsDataset(), tasksDataset()))

	out, err := h.Execute(context.Background(), &Input{DatasetID: "clients-1", TasksDatasetID: "tasks-1"})

	require.NoError(t, err)
	assert.Equal(t, models.KindClient, out.Kind)
	assert.False(t, out.Valid)
	assert.Equal(t, 4, out.Summary.ErrorCount)
	assert.Equal(t, 2, out.Summary.MessageCounts[validator.MsgDuplicateID])
	assert.Equal(t, 1, out.Summary.MessageCounts[validator.MsgUnknownTask])
	assert.Equal(t, []int{0, 1}, out.Summary.AffectedRows)

	var unknown models.Finding
	for _, f := range out.Findings {
		if f.Message == validator.MsgUnknownTask {
			unknown = f
		}
	}
	assert.Equal(t, "T9", unknown.Value)
	require.NotNil(t, unknown.RowIndex)
	assert.Equal(t, 0, *unknown.RowIndex)
}

func TestHandler_Execute_WithoutCompanionsSkipsCrossChecks(t *testing.T) {
	h := createTestHandler(t, storetest.NewDatasets(clientsDataset()))

	out, err := h.Execute(context.Background(), &Input{DatasetID: "clients-1"})

	require.NoError(t, err)
	assert.Equal(t, 3, out.Summary.ErrorCount)
	assert.Zero(t, out.Summary.MessageCounts[validator.MsgUnknownTask])
}

func TestHandler_Execute_CleanDataset(t *testing.T) {
	h := createTestHandler(t, storetest.NewDatasets(&models.Dataset{
		ID:      "clients-2",
		Kind:    models.KindClient,
		Headers: []string{"clientId", "clientName", "priorityLevel", "requestedTaskIds"},
		Rows: []models.Record{
			{"clientId": "C1", "clientName": "Acme", "priorityLevel": "3", "requestedTaskIds": "T1"},
		},
	}, tasksDataset()))

	out, err := h.Execute(context.Background(), &Input{DatasetID: "clients-2", TasksDatasetID: "tasks-1"})

	require.NoError(t, err)
	assert.True(t, out.Valid)
	assert.NotNil(t, out.Findings)
	assert.Empty(t, out.Summary.AffectedRows)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input *Input
		store *storetest.Datasets
		want  apperrors.ErrorCode
	}{
		{
			name:  "missing dataset id",
			input: &Input{},
			store: storetest.NewDatasets(),
			want:  apperrors.ErrCodeInvalidInput,
		},
		{
			name:  "unknown dataset",
			input: &Input{DatasetID: "missing"},
			store: storetest.NewDatasets(),
			want:  apperrors.ErrCodeDatasetNotFound,
		},
		{
			name:  "unknown companion",
			input: &Input{DatasetID: "clients-1", TasksDatasetID: "missing"},
			store: storetest.NewDatasets(clientsDataset()),
			want:  apperrors.ErrCodeDatasetNotFound,
		},
		{
			name:  "store unavailable",
			input: &Input{DatasetID: "clients-1"},
			store: &storetest.Datasets{Err: errors.New("timeout")},
			want:  apperrors.ErrCodeDatasetStoreFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, tt.store)

			_, err := h.Execute(context.Background(), tt.input)

			var stdErr *apperrors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, tt.want, stdErr.Code)
		})
	}
}
