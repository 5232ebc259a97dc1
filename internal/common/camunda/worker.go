// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"time"

	"data-workers/internal/common/config"
	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"
	"data-workers/internal/common/metrics"
	"data-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler processes one job and reports it to the engine itself.
// The returned error is only used for metrics and logs.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job) error
}

// Worker is an opened job worker for a single task type.
type Worker struct {
	taskType  string
	jobWorker worker.JobWorker
	logger    logger.Logger
}

// StartWorker opens a job worker for taskType and instruments every job.
func StartWorker(
	client zbc.Client,
	taskType string,
	wcfg config.WorkerConfig,
	handler JobHandler,
	obs *observability.Observability,
	log logger.Logger,
) *Worker {
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(instrument(taskType, handler, obs, log)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})

	return &Worker{taskType: taskType, jobWorker: jobWorker, logger: log}
}

func instrument(taskType string, handler JobHandler, obs *observability.Observability, log logger.Logger) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		started := time.Now()
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		status, code := "completed", ""
		if err := handler.Handle(client, job); err != nil {
			status = "failed"
			code = string(apperrors.Normalize(err).Code)
			log.Debug("handler returned error", map[string]interface{}{
				"taskType": taskType,
				"jobKey":   job.Key,
				"error":    err.Error(),
			})
		}

		metrics.ObserveJob(taskType, started, code)
		obs.RecordJob(context.Background(), taskType, status, time.Since(started))
	}
}

func (w *Worker) Close() {
	w.logger.Info("stopping worker", map[string]interface{}{"taskType": w.taskType})
	w.jobWorker.Close()
	w.jobWorker.AwaitClose()
}

// Responder completes or fails jobs on behalf of a handler.
type Responder struct {
	logger   logger.Logger
	errors   *apperrors.ErrorHandler
	deadline time.Duration
}

func NewResponder(log logger.Logger) *Responder {
	return &Responder{
		logger:   log,
		errors:   apperrors.NewErrorHandler(log),
		deadline: 10 * time.Second,
	}
}

// DecodeVariables unmarshals the job variables into v.
func DecodeVariables(job entities.Job, v interface{}) error {
	if err := json.Unmarshal([]byte(job.Variables), v); err != nil {
		return apperrors.NewInvalidInputError("parse job variables: " + err.Error())
	}
	return nil
}

// Complete sends output as the job result variables.
func (r *Responder) Complete(client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		r.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return r.Fail(client, job, apperrors.NewInternalError(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.deadline)
	defer cancel()

	if _, err := cmd.Send(ctx); err != nil {
		r.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}

	r.logger.Info("job completed", map[string]interface{}{"jobKey": job.Key})
	return nil
}

// Fail reports jobErr to the engine and returns it.
func (r *Responder) Fail(client worker.JobClient, job entities.Job, jobErr error) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.deadline)
	defer cancel()

	if err := r.errors.HandleJobError(ctx, client, job, jobErr); err != nil {
		r.logger.Error("failed to report job error", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
	return jobErr
}
