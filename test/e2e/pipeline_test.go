// test/e2e/pipeline_test.go
package e2e

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"data-workers/internal/common/logger"
	"data-workers/internal/models"
	"data-workers/internal/store/storetest"
	"data-workers/internal/validator"

	ac "data-workers/internal/workers/cleaning/apply-corrections"
	sc "data-workers/internal/workers/cleaning/suggest-corrections"
	fr "data-workers/internal/workers/dataset/filter-records"
	ld "data-workers/internal/workers/dataset/load-dataset"
	vd "data-workers/internal/workers/dataset/validate-dataset"
	ed "data-workers/internal/workers/export/export-dataset"
	erc "data-workers/internal/workers/export/export-rules-config"
	cw "data-workers/internal/workers/prioritization/calculate-weights"
	pr "data-workers/internal/workers/rules/parse-rule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	clientsCSV = "ClientID,ClientName,PriorityLevel,RequestedTaskIDs\n" +
		"C1,Acme,3,\"T1,T2\"\n" +
		"C2,Globex,5,T9\n"
	workersCSV = "WorkerID,WorkerName,Skills,AvailableSlots,MaxLoadPerPhase,Email\n" +
		"W1,Ada,\"go, sql\",\"[1,2,3]\",2,Ada@Gmial.com\n"
	tasksCSV = "TaskID,TaskName,Duration,RequiredSkills,PreferredPhases,MaxConcurrent\n" +
		"T1,Build API,2,go,1-2,1\n" +
		"T2,Schema,1,sql,[1],1\n"
)

// TestPipeline runs every dataset stage against in-memory stores: ingest,
// validation, cleaning, rules, weighting and export.
func TestPipeline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log := logger.NewTestLogger(t)
	inputDir, outputDir := t.TempDir(), t.TempDir()
	datasets := storetest.NewDatasets()
	rules := storetest.NewRules()

	for name, content := range map[string]string{
		"clients.csv": clientsCSV,
		"workers.csv": workersCSV,
		"tasks.csv":   tasksCSV,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(inputDir, name), []byte(content), 0o644))
	}

	// 1. Ingest
	loader := ld.NewHandler(&ld.Config{Timeout: 5 * time.Second, InputDir: inputDir, MaxFileSize: 1 << 20}, datasets, log)
	ids := map[models.EntityKind]string{}
	for _, name := range []string{"clients.csv", "workers.csv", "tasks.csv"} {
		out, err := loader.Execute(ctx, &ld.Input{FileName: name})
		require.NoError(t, err, name)
		ids[out.Kind] = out.DatasetID
	}
	require.Len(t, ids, 3)
	t.Log("✅ sheets loaded")

	// 2. Validate clients against tasks
	validate := vd.NewHandler(&vd.Config{Timeout: 5 * time.Second}, datasets, log)
	vOut, err := validate.Execute(ctx, &vd.Input{
		DatasetID:      ids[models.KindClient],
		TasksDatasetID: ids[models.KindTask],
	})
	require.NoError(t, err)
	assert.False(t, vOut.Valid)
	assert.Equal(t, 1, vOut.Summary.MessageCounts[validator.MsgUnknownTask])

	// 3. Suggest and apply corrections on workers
	suggest := sc.NewHandler(&sc.Config{Timeout: 5 * time.Second, ApplyThreshold: 0.8}, datasets, log)
	sOut, err := suggest.Execute(ctx, &sc.Input{DatasetID: ids[models.KindWorker]})
	require.NoError(t, err)
	require.NotZero(t, sOut.Count)

	apply := ac.NewHandler(&ac.Config{Timeout: 5 * time.Second, ApplyThreshold: 0.8}, datasets, log)
	aOut, err := apply.Execute(ctx, &ac.Input{DatasetID: ids[models.KindWorker], Suggestions: sOut.Suggestions})
	require.NoError(t, err)
	assert.Equal(t, 2, aOut.Version)
	workers := datasets.Stored(ids[models.KindWorker])
	require.NotNil(t, workers)
	assert.Equal(t, "ada@gmail.com", workers.Rows[0]["email"])
	t.Log("✅ corrections applied")

	// 4. Query
	filter := fr.NewHandler(&fr.Config{Timeout: 5 * time.Second}, datasets, log)
	fOut, err := filter.Execute(ctx, &fr.Input{DatasetID: ids[models.KindTask], Query: "duration more than 1"})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, fOut.Indices)

	// 5. Rules
	parse := pr.NewHandler(&pr.Config{Timeout: 5 * time.Second}, datasets, rules, log)
	pOut, err := parse.Execute(ctx, &pr.Input{
		Text:           "Tasks T1 and T2 must run together",
		TasksDatasetID: ids[models.KindTask],
		Persist:        true,
	})
	require.NoError(t, err)
	require.True(t, pOut.Persisted)

	// 6. Weights
	weights := cw.NewHandler(&cw.Config{Timeout: 5 * time.Second, ConsistencyThreshold: 0.1}, log)
	wOut, err := weights.Execute(ctx, &cw.Input{Method: models.WeightingDirect})
	require.NoError(t, err)
	assert.True(t, wOut.Balanced)

	// 7. Export
	exporter := ed.NewHandler(&ed.Config{Timeout: 5 * time.Second, OutputDir: outputDir}, datasets, nil, log)
	eOut, err := exporter.Execute(ctx, &ed.Input{
		DatasetID: ids[models.KindClient],
		Format:    "csv",
		Weights:   wOut.Weights,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, eOut.RowCount)
	require.Len(t, eOut.Artifacts, 2)
	for _, a := range eOut.Artifacts {
		assert.FileExists(t, a.Path)
	}

	rulesExporter := erc.NewHandler(&erc.Config{Timeout: 5 * time.Second, OutputDir: outputDir, RulesVersion: "1.0"}, rules, log)
	rOut, err := rulesExporter.Execute(ctx, &erc.Input{})
	require.NoError(t, err)
	assert.Equal(t, 1, rOut.RuleCount)
	assert.FileExists(t, rOut.Path)

	t.Log("✅ pipeline completed")
}
