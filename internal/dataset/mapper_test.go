// internal/dataset/mapper_test.go
package dataset

import (
	"testing"

	"data-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapHeaders(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		kind     models.EntityKind
		expected map[string]string
	}{
		{
			name:    "client aliases ignore case and spacing",
			headers: []string{"Client ID", "client_name", "PRIORITY", "Requested Tasks", "Notes"},
			kind:    models.KindClient,
			expected: map[string]string{
				"Client ID":       "clientId",
				"client_name":     "clientName",
				"PRIORITY":        "priorityLevel",
				"Requested Tasks": "requestedTaskIds",
				"Notes":           "Notes",
			},
		},
		{
			name:    "first canonical field wins",
			headers: []string{"ID", "Name", "Skills"},
			kind:    models.KindWorker,
			expected: map[string]string{
				"ID":     "workerId",
				"Name":   "workerName",
				"Skills": "skills",
			},
		},
		{
			name:    "second header for a taken field passes through",
			headers: []string{"TaskID", "ID", "Title"},
			kind:    models.KindTask,
			expected: map[string]string{
				"TaskID": "taskId",
				"ID":     "ID",
				"Title":  "taskName",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapHeaders(tt.headers, tt.kind))
		})
	}
}

func TestRemapRows(t *testing.T) {
	headers := []string{"Task ID", "Duration", "Extra"}
	rows := []models.Record{{"Task ID": "T1", "Duration": "2", "Extra": "x"}}

	outHeaders, out := Canonicalize(headers, rows, models.KindTask)

	assert.Equal(t, []string{"taskId", "duration", "Extra"}, outHeaders)
	assert.Equal(t, models.Record{"taskId": "T1", "duration": "2", "Extra": "x"}, out[0])
	assert.Equal(t, "T1", rows[0]["Task ID"], "input rows are not modified")
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		expected models.EntityKind
		ok       bool
	}{
		{
			name:     "clients",
			headers:  []string{"ClientID", "ClientName", "PriorityLevel", "RequestedTaskIDs", "GroupTag", "AttributesJSON"},
			expected: models.KindClient,
			ok:       true,
		},
		{
			name:     "workers",
			headers:  []string{"WorkerID", "WorkerName", "Skills", "AvailableSlots", "MaxLoadPerPhase", "WorkerGroup", "QualificationLevel"},
			expected: models.KindWorker,
			ok:       true,
		},
		{
			name:     "tasks",
			headers:  []string{"TaskID", "TaskName", "Category", "Duration", "RequiredSkills", "PreferredPhases", "MaxConcurrent"},
			expected: models.KindTask,
			ok:       true,
		},
		{
			name:    "nothing recognisable",
			headers: []string{"foo", "bar"},
			ok:      false,
		},
		{
			name:    "tie is undefined",
			headers: []string{"ID", "Name"},
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := DetectKind(tt.headers)
			require.Equal(t, tt.ok, ok, "scores: %v", DetectionScores(tt.headers))
			if tt.ok {
				assert.Equal(t, tt.expected, kind)
			}
		})
	}
}

func TestSchemaLookups(t *testing.T) {
	assert.Equal(t, []string{"clientId", "clientName", "priorityLevel", "requestedTaskIds"}, RequiredFields(models.KindClient))
	assert.Equal(t, "workerId", IDField(models.KindWorker))
	_, ok := SchemaFor("vendor")
	assert.False(t, ok)
}
