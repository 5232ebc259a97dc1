// internal/workers/dataset/filter-records/handler_test.go
package filterrecords

import (
	"context"
	"testing"
	"time"

	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"
	"data-workers/internal/models"
	"data-workers/internal/nlquery"
	"data-workers/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tasks() *models.Dataset {
	return &models.Dataset{
		ID:      "tasks-1",
		Kind:    models.KindTask,
		Headers: []string{"taskId", "duration"},
		Rows: []models.Record{
			{"taskId": "T1", "duration": 3.0},
			{"taskId": "T2", "duration": 7.0},
			{"taskId": "T3", "duration": "10"},
		},
	}
}

func createTestHandler(t *testing.T, maxRecords int) *Handler {
	cfg := &Config{Timeout: 5 * time.Second, MaxRecords: maxRecords}
	return NewHandler(cfg, storetest.NewDatasets(tasks()), logger.NewTestLogger(t))
}

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		indices     []int
		explanation string
	}{
		{
			name:        "numeric comparison over mixed cells",
			query:       "duration more than 5",
			indices:     []int{1, 2},
			explanation: "Found 2 of 3 records where duration > 5",
		},
		{
			name:        "less than",
			query:       "tasks with duration less than 4",
			indices:     []int{0},
			explanation: "Found 1 of 3 records where duration < 4",
		},
		{
			name:        "nothing recognized",
			query:       "show me everything",
			indices:     []int{0, 1, 2},
			explanation: "No filter conditions recognized; showing all 3 records",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, 0)

			out, err := h.Execute(context.Background(), &Input{DatasetID: "tasks-1", Query: tt.query})

			require.NoError(t, err)
			assert.Equal(t, tt.indices, out.Indices)
			assert.Equal(t, tt.explanation, out.Explanation)
			assert.Nil(t, out.Records)
		})
	}
}

func TestHandler_Execute_IncludeRecordsTruncates(t *testing.T) {
	h := createTestHandler(t, 1)

	out, err := h.Execute(context.Background(), &Input{DatasetID: "tasks-1", Query: "duration > 5", IncludeRecords: true})

	require.NoError(t, err)
	assert.True(t, out.Truncated)
	require.Len(t, out.Records, 1)
	assert.Equal(t, "T2", out.Records[0]["taskId"])
	assert.Equal(t, []nlquery.Condition{{Column: "duration", Operator: nlquery.OpGreater, Value: 5.0}}, out.Conditions)
}

func TestHandler_Execute_Errors(t *testing.T) {
	h := createTestHandler(t, 0)

	_, err := h.Execute(context.Background(), &Input{Query: "duration > 5"})
	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, stdErr.Code)

	_, err = h.Execute(context.Background(), &Input{DatasetID: "nope"})
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeDatasetNotFound, stdErr.Code)
}
