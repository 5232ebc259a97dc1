// internal/workers/rules/recommend-rules/handler_test.go
package recommendrules

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"
	"data-workers/internal/models"
	"data-workers/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDatasets() *storetest.Datasets {
	return storetest.NewDatasets(
		&models.Dataset{
			ID:   "clients-1",
			Kind: models.KindClient,
			Rows: []models.Record{
				{"clientId": "C1", "requestedTaskIds": "T1,T2"},
				{"clientId": "C2", "requestedTaskIds": "T2, T1, T3"},
			},
		},
		&models.Dataset{
			ID:   "workers-1",
			Kind: models.KindWorker,
			Rows: []models.Record{
				{"workerId": "W1", "workerGroup": "Backend", "maxLoadPerPhase": "3"},
				{"workerId": "W2", "workerGroup": "Backend", "maxLoadPerPhase": 2.0},
			},
		},
		&models.Dataset{
			ID:   "tasks-1",
			Kind: models.KindTask,
			Rows: []models.Record{{"taskId": "T1"}, {"taskId": "T2"}, {"taskId": "T3"}},
		},
	)
}

func createTestHandler(t *testing.T, datasets *storetest.Datasets, rules *storetest.Rules) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, datasets, rules, logger.NewTestLogger(t))
}

func TestHandler_Execute_Success(t *testing.T) {
	h := createTestHandler(t, seedDatasets(), storetest.NewRules())

	out, err := h.Execute(context.Background(), &Input{
		ClientsDatasetID: "clients-1",
		WorkersDatasetID: "workers-1",
		TasksDatasetID:   "tasks-1",
	})

	require.NoError(t, err)
	require.Equal(t, 2, out.Count)
	assert.Equal(t, models.CoRunParams{Tasks: []string{"T1", "T2"}}, out.Recommendations[0].Parameters)
	assert.Equal(t, models.LoadLimitParams{WorkerGroup: "Backend", MaxSlotsPerPhase: 2}, out.Recommendations[1].Parameters)
	assert.Nil(t, out.Stored)
}

func TestHandler_Execute_MinConfidence(t *testing.T) {
	h := createTestHandler(t, seedDatasets(), storetest.NewRules())

	out, err := h.Execute(context.Background(), &Input{WorkersDatasetID: "workers-1", ClientsDatasetID: "clients-1", MinConfidence: 0.8})

	require.NoError(t, err)
	assert.Zero(t, out.Count)
	assert.NotNil(t, out.Recommendations)
}

func TestHandler_Execute_PersistSkipsInapplicable(t *testing.T) {
	rules := storetest.NewRules()
	h := createTestHandler(t, seedDatasets(), rules)

	// without the tasks dataset the co-run pair cannot be confirmed
	out, err := h.Execute(context.Background(), &Input{
		ClientsDatasetID: "clients-1",
		WorkersDatasetID: "workers-1",
		Persist:          true,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)
	require.Len(t, out.Stored, 1)
	assert.Equal(t, models.RuleLoadLimit, out.Stored[0].Type())

	all, err := rules.List(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		datasets *storetest.Datasets
		rules    *storetest.Rules
		want     apperrors.ErrorCode
	}{
		{"no datasets", &Input{}, seedDatasets(), storetest.NewRules(), apperrors.ErrCodeInvalidInput},
		{"unknown dataset", &Input{TasksDatasetID: "missing"}, seedDatasets(), storetest.NewRules(), apperrors.ErrCodeDatasetNotFound},
		{"dataset store failure", &Input{TasksDatasetID: "tasks-1"}, &storetest.Datasets{Err: errors.New("down")}, storetest.NewRules(), apperrors.ErrCodeDatasetStoreFailed},
		{"rule store failure", &Input{WorkersDatasetID: "workers-1", Persist: true}, seedDatasets(), &storetest.Rules{Err: errors.New("down")}, apperrors.ErrCodeRuleStoreFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, tt.datasets, tt.rules)

			_, err := h.Execute(context.Background(), tt.input)

			var stdErr *apperrors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, tt.want, stdErr.Code)
		})
	}
}
