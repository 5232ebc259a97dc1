// internal/workers/export/export-dataset/handler.go
package exportdataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"data-workers/internal/common/camunda"
	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"
	"data-workers/internal/common/metrics"
	"data-workers/internal/export"
	"data-workers/internal/models"
	"data-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "export-dataset"

const (
	ArtifactData           = "data"
	ArtifactPrioritization = "prioritization"
)

type DatasetStore interface {
	Get(ctx context.Context, id string) (*models.Dataset, error)
}

// Indexer writes cleaned rows to the search index.
type Indexer interface {
	IndexName(kind models.EntityKind) string
	Index(ctx context.Context, ds *models.Dataset) (*store.IndexResult, error)
}

type Handler struct {
	config    *Config
	store     DatasetStore
	indexer   Indexer
	logger    logger.Logger
	responder *camunda.Responder
}

// NewHandler accepts a nil indexer; indexing is then skipped.
func NewHandler(config *Config, datasets DatasetStore, indexer Indexer, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		store:     datasets,
		indexer:   indexer,
		logger:    scoped,
		responder: camunda.NewResponder(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := camunda.DecodeVariables(job, &input); err != nil {
		return h.responder.Fail(client, job, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		return h.responder.Fail(client, job, err)
	}
	return h.responder.Complete(client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.DatasetID == "" {
		return nil, apperrors.NewInvalidInputError("datasetId is required")
	}
	format, err := export.ParseFormat(input.Format)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}

	ds, err := h.store.Get(ctx, input.DatasetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewDatasetNotFoundError(input.DatasetID)
		}
		return nil, apperrors.NewDatasetStoreFailedError(err)
	}

	out := &Output{
		ExportID:  uuid.NewString(),
		DatasetID: ds.ID,
		Version:   ds.Version,
		Format:    string(format),
		RowCount:  len(ds.Rows),
		Artifacts: make([]Artifact, 0, 2),
	}

	base := fmt.Sprintf("%ss-%s-v%d", ds.Kind, out.ExportID[:8], ds.Version)

	data, err := h.writeArtifact("cleaned-"+base+format.Extension(), func(w io.Writer) error {
		return export.Dataset(w, format, ds)
	})
	if err != nil {
		return nil, apperrors.NewExportFailedError(ArtifactData, err)
	}
	data.Kind = ArtifactData
	out.Artifacts = append(out.Artifacts, *data)

	if len(input.Weights) > 0 {
		prio, err := h.writeArtifact("prioritized-"+base+format.Extension(), func(w io.Writer) error {
			return export.Prioritization(w, format, ds, input.Weights)
		})
		if err != nil {
			return nil, apperrors.NewExportFailedError(ArtifactPrioritization, err)
		}
		prio.Kind = ArtifactPrioritization
		out.Artifacts = append(out.Artifacts, *prio)
	}

	if h.config.IndexingEnabled && h.indexer != nil && !input.SkipIndex {
		res, err := h.indexer.Index(ctx, ds)
		if err != nil {
			return nil, apperrors.NewIndexingFailedError(h.indexer.IndexName(ds.Kind), err)
		}
		metrics.RecordsIndexed.WithLabelValues(string(ds.Kind)).Add(float64(res.Indexed))
		if res.Failed > 0 {
			h.logger.Warn("some records were not indexed", map[string]interface{}{
				"index":  res.Index,
				"failed": res.Failed,
			})
		}
		out.Index = res
	}

	h.logger.Info("dataset exported", map[string]interface{}{
		"datasetId": ds.ID,
		"exportId":  out.ExportID,
		"format":    out.Format,
		"artifacts": len(out.Artifacts),
	})
	return out, nil
}

// writeArtifact writes to a temp file in the output directory and renames it
// into place once the encoder succeeds.
func (h *Handler) writeArtifact(name string, encode func(io.Writer) error) (*Artifact, error) {
	if err := os.MkdirAll(h.config.OutputDir, 0o755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(h.config.OutputDir, ".export-*")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp); err != nil {
		tmp.Close()
		return nil, err
	}
	info, err := tmp.Stat()
	if err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	path := filepath.Join(h.config.OutputDir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, err
	}
	return &Artifact{Path: path, Bytes: info.Size()}, nil
}
