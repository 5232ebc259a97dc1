// internal/workers/rules/manage-rules/handler_test.go
package managerules

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

func seedRules() *storetest.Rules {
	return storetest.NewRules(
		models.BusinessRule{ID: "r1", Name: "Co-run", Priority: 2, Enabled: true, Parameters: models.CoRunParams{Tasks: []string{"T1", "T2"}}},
		models.BusinessRule{ID: "r2", Name: "Load", Priority: 4, Enabled: false, Parameters: models.LoadLimitParams{WorkerGroup: "Backend", MaxSlotsPerPhase: 2}},
	)
}

func createTestHandler(t *testing.T, rules RuleStore) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, rules, logger.NewTestLogger(t))
}

func TestHandler_Execute_List(t *testing.T) {
	h := createTestHandler(t, seedRules())

	all, err := h.Execute(context.Background(), &Input{Action: ActionList})
	require.NoError(t, err)
	require.Equal(t, 2, all.Count)
	assert.Equal(t, "r2", all.Rules[0].ID)

	enabled, err := h.Execute(context.Background(), &Input{Action: ActionList, EnabledOnly: true})
	require.NoError(t, err)
	require.Equal(t, 1, enabled.Count)
	assert.Equal(t, "r1", enabled.Rules[0].ID)
}

func TestHandler_Execute_Updates(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		enabled  bool
		priority int
	}{
		{"enable", &Input{Action: ActionEnable, RuleID: "r2"}, true, 4},
		{"disable", &Input{Action: ActionDisable, RuleID: "r1"}, false, 2},
		{"set priority clamps", &Input{Action: ActionSetPriority, RuleID: "r1", Priority: 12}, true, 5},
		{"get", &Input{Action: ActionGet, RuleID: "r1"}, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, seedRules())

			out, err := h.Execute(context.Background(), tt.input)

			require.NoError(t, err)
			require.NotNil(t, out.Rule)
			assert.Equal(t, tt.enabled, out.Rule.Enabled)
			assert.Equal(t, tt.priority, out.Rule.Priority)
		})
	}
}

func TestHandler_Execute_Delete(t *testing.T) {
	rules := seedRules()
	h := createTestHandler(t, rules)

	out, err := h.Execute(context.Background(), &Input{Action: ActionDelete, RuleID: "r1"})

	require.NoError(t, err)
	assert.Equal(t, "r1", out.RuleID)
	_, err = rules.Get(context.Background(), "r1")
	assert.Error(t, err)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input *Input
		rules *storetest.Rules
		want  apperrors.ErrorCode
	}{
		{"unknown action", &Input{Action: "archive", RuleID: "r1"}, seedRules(), apperrors.ErrCodeInvalidInput},
		{"missing rule id", &Input{Action: ActionEnable}, seedRules(), apperrors.ErrCodeInvalidInput},
		{"missing priority", &Input{Action: ActionSetPriority, RuleID: "r1"}, seedRules(), apperrors.ErrCodeInvalidInput},
		{"unknown rule", &Input{Action: ActionDelete, RuleID: "r9"}, seedRules(), apperrors.ErrCodeRuleNotFound},
		{"unknown rule on get", &Input{Action: ActionGet, RuleID: "r9"}, seedRules(), apperrors.ErrCodeRuleNotFound},
		{"store failure", &Input{Action: ActionList}, &storetest.Rules{Err: errors.New("down")}, apperrors.ErrCodeRuleStoreFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, tt.rules)

			_, err := h.Execute(context.Background(), tt.input)

			var stdErr *apperrors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, tt.want, stdErr.Code)
		})
	}
}
