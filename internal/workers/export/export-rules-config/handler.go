// internal/workers/export/export-rules-config/handler.go
package exportrulesconfig

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"data-workers/internal/common/camunda"
	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"
	"data-workers/internal/export"
	"data-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "export-rules-config"

const artifactRulesConfig = "rules-config"

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type RuleStore interface {
	List(ctx context.Context, enabledOnly bool) ([]models.BusinessRule, error)
}

type Handler struct {
	config    *Config
	rules     RuleStore
	logger    logger.Logger
	responder *camunda.Responder
	now       func() time.Time
}

func NewHandler(config *Config, rules RuleStore, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		rules:     rules,
		logger:    scoped,
		responder: camunda.NewResponder(scoped),
		now:       time.Now,
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
	version := input.Version
	if version == "" {
		version = h.config.RulesVersion
	}

	rules, err := h.rules.List(ctx, true)
	if err != nil {
		return nil, apperrors.NewRuleStoreFailedError(err)
	}

	cfg, err := export.BuildRulesConfig(rules, version, h.now())
	if err != nil {
		return nil, apperrors.NewRulesConfigInvalidError(err.Error())
	}

	path := filepath.Join(h.config.OutputDir, "rules-config-"+unsafeName.ReplaceAllString(version, "_")+".json")
	if err := h.write(path, cfg); err != nil {
		return nil, apperrors.NewExportFailedError(artifactRulesConfig, err)
	}

	h.logger.Info("rules config exported", map[string]interface{}{
		"path":    path,
		"version": cfg.Version,
		"rules":   len(cfg.Rules),
	})

	out := &Output{
		Path:        path,
		Version:     cfg.Version,
		GeneratedAt: cfg.GeneratedAt,
		RuleCount:   len(cfg.Rules),
	}
	if input.Inline {
		out.Config = cfg
	}
	return out, nil
}

func (h *Handler) write(path string, cfg *export.RulesConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteRulesConfig(f, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
