// internal/workers/export/export-rules-config/handler_test.go
package exportrulesconfig

import (
	"context"
	"encoding/json"
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

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func seedRules() *storetest.Rules {
	return storetest.NewRules(
		models.BusinessRule{ID: "r1", Name: "Co-run", Priority: 2, Enabled: true, Parameters: models.CoRunParams{Tasks: []string{"T1", "T2"}}},
		models.BusinessRule{ID: "r2", Name: "Load", Priority: 5, Enabled: true, Parameters: models.LoadLimitParams{WorkerGroup: "Backend", MaxSlotsPerPhase: 2}},
		models.BusinessRule{ID: "r3", Name: "Off", Priority: 4, Enabled: false, Parameters: models.PhaseWindowParams{TaskID: "T1", AllowedPhases: []int{1, 2}}},
	)
}

func createTestHandler(t *testing.T, rules RuleStore) (*Handler, string) {
	dir := t.TempDir()
	h := NewHandler(&Config{Timeout: 5 * time.Second, OutputDir: dir, RulesVersion: "1.0"}, rules, logger.NewTestLogger(t))
	h.now = func() time.Time { return fixedNow }
	return h, dir
}

func TestHandler_Execute_Success(t *testing.T) {
	h, dir := createTestHandler(t, seedRules())

	out, err := h.Execute(context.Background(), &Input{Inline: true})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rules-config-1.0.json"), out.Path)
	assert.Equal(t, "1.0", out.Version)
	assert.Equal(t, fixedNow, out.GeneratedAt)
	assert.Equal(t, 2, out.RuleCount)
	require.NotNil(t, out.Config)
	assert.Equal(t, "r2", out.Config.Rules[0].ID)

	raw, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	var doc struct {
		Version string `json:"version"`
		Rules   []struct {
			ID         string                 `json:"id"`
			Type       string                 `json:"type"`
			Parameters map[string]interface{} `json:"parameters"`
		} `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "1.0", doc.Version)
	require.Len(t, doc.Rules, 2)
	assert.Equal(t, "loadLimit", doc.Rules[0].Type)
	assert.Equal(t, "Backend", doc.Rules[0].Parameters["workerGroup"])
	assert.Equal(t, "coRun", doc.Rules[1].Type)
}

func TestHandler_Execute_VersionOverrideIsSanitized(t *testing.T) {
	h, dir := createTestHandler(t, seedRules())

	out, err := h.Execute(context.Background(), &Input{Version: "2024/Q1 draft"})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rules-config-2024_Q1_draft.json"), out.Path)
	assert.Equal(t, "2024/Q1 draft", out.Version)
	assert.Nil(t, out.Config)
}

func TestHandler_Execute_NoRules(t *testing.T) {
	h, _ := createTestHandler(t, storetest.NewRules())

	out, err := h.Execute(context.Background(), &Input{})

	require.NoError(t, err)
	assert.Zero(t, out.RuleCount)
	assert.FileExists(t, out.Path)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		rules *storetest.Rules
		want  apperrors.ErrorCode
	}{
		{
			name:  "store failure",
			rules: &storetest.Rules{Err: errors.New("down")},
			want:  apperrors.ErrCodeRuleStoreFailed,
		},
		{
			name: "schema rejects a rule",
			rules: storetest.NewRules(models.BusinessRule{
				ID: "r1", Name: "Co-run", Priority: 9, Enabled: true,
				Parameters: models.CoRunParams{Tasks: []string{"T1", "T2"}},
			}),
			want: apperrors.ErrCodeRulesConfigInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := createTestHandler(t, tt.rules)

			_, err := h.Execute(context.Background(), &Input{})

			var stdErr *apperrors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, tt.want, stdErr.Code)
		})
	}
}
