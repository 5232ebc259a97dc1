// internal/models/models_test.go
package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessRule_JSONKeepsVariant(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rules := []BusinessRule{
		{ID: "r1", Name: "co-run", Priority: 3, Enabled: true, Parameters: CoRunParams{Tasks: []string{"T1", "T2"}}, CreatedAt: created},
		{ID: "r2", Name: "window", Priority: 2, Parameters: PhaseWindowParams{TaskID: "T3", AllowedPhases: []int{1, 2}}},
		{ID: "r3", Name: "limit", Priority: 5, Enabled: true, Parameters: LoadLimitParams{WorkerGroup: "GroupA", MaxSlotsPerPhase: 2}},
	}

	data, err := json.Marshal(rules)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"coRun"`)
	assert.Contains(t, string(data), `"type":"phaseWindow"`)

	var decoded []BusinessRule
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 3)

	switch p := decoded[0].Parameters.(type) {
	case CoRunParams:
		assert.ElementsMatch(t, []string{"T1", "T2"}, p.Tasks)
	default:
		t.Fatalf("unexpected parameters %T", p)
	}
	assert.Equal(t, RulePhaseWindow, decoded[1].Type())
	assert.Equal(t, created, decoded[0].CreatedAt)
	assert.Equal(t, 2, decoded[2].Parameters.(LoadLimitParams).MaxSlotsPerPhase)
}

func TestDecodeParameters_UnknownType(t *testing.T) {
	_, err := DecodeParameters("teleport", json.RawMessage(`{}`))
	assert.Error(t, err)
}

func TestParseEntityKind(t *testing.T) {
	for in, want := range map[string]EntityKind{"client": KindClient, "Workers": KindWorker, " tasks ": KindTask} {
		got, err := ParseEntityKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseEntityKind("vendor")
	assert.Error(t, err)
}

func TestDataset_CloneAndWithRows(t *testing.T) {
	ds := &Dataset{ID: "d", Kind: KindTask, Headers: []string{"taskId"}, Rows: []Record{{"taskId": "T1"}}, Version: 1}

	clone := ds.Clone()
	clone.Rows[0]["taskId"] = "T9"
	assert.Equal(t, "T1", ds.Rows[0]["taskId"])

	next := ds.WithRows([]Record{{"taskId": "T2"}})
	assert.Equal(t, 2, next.Version)
	assert.Equal(t, 1, ds.Version)
	assert.Equal(t, "T1", ds.Rows[0]["taskId"])
}

func TestClampPriority(t *testing.T) {
	assert.Equal(t, 1, ClampPriority(-3))
	assert.Equal(t, 4, ClampPriority(4))
	assert.Equal(t, 5, ClampPriority(12))
}
