// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclients "data-workers/internal/common/aws"
	"data-workers/internal/common/camunda"
	"data-workers/internal/common/config"
	"data-workers/internal/common/database"
	"data-workers/internal/common/logger"
	"data-workers/internal/common/observability"
	"data-workers/internal/store"

	ac "data-workers/internal/workers/cleaning/apply-corrections"
	sc "data-workers/internal/workers/cleaning/suggest-corrections"
	fr "data-workers/internal/workers/dataset/filter-records"
	ld "data-workers/internal/workers/dataset/load-dataset"
	vd "data-workers/internal/workers/dataset/validate-dataset"
	ed "data-workers/internal/workers/export/export-dataset"
	erc "data-workers/internal/workers/export/export-rules-config"
	sn "data-workers/internal/workers/export/send-notification"
	cw "data-workers/internal/workers/prioritization/calculate-weights"
	mr "data-workers/internal/workers/rules/manage-rules"
	pr "data-workers/internal/workers/rules/parse-rule"
	rr "data-workers/internal/workers/rules/recommend-rules"
)

type registration struct {
	taskType string
	handler  func() (camunda.JobHandler, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting worker manager",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, cfg.Camunda, camunda.DefaultRetryConfig, log)
	if err != nil {
		zapLog.Fatal("zeebe connection failed", zap.Error(err))
	}
	zapLog.Info("zeebe client connected", zap.String("gateway", cfg.Camunda.BrokerAddress))

	// --- PostgreSQL ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres client failed", zap.Error(err))
	}
	defer pg.Close()
	if err := camunda.Retry(ctx, camunda.DefaultRetryConfig, "postgres ping", log, pg.Ping); err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}
	if err := pg.Migrate(ctx); err != nil {
		zapLog.Fatal("postgres migration failed", zap.Error(err))
	}
	zapLog.Info("postgres connected")

	// --- Redis ---
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis client failed", zap.Error(err))
	}
	defer rdb.Close()
	cache := rdb.Client
	if err := camunda.Retry(ctx, camunda.DefaultRetryConfig, "redis ping", log, rdb.Ping); err != nil {
		// the dataset cache is optional
		zapLog.Warn("redis unreachable, dataset cache disabled", zap.Error(err))
		cache = nil
	}

	// --- Elasticsearch ---
	var indexer *store.RecordIndexer
	if cfg.Export.IndexingEnabled {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch client failed", zap.Error(err))
		}
		if err := camunda.Retry(ctx, camunda.DefaultRetryConfig, "elasticsearch ping", log, es.Ping); err != nil {
			zapLog.Fatal("elasticsearch unreachable", zap.Error(err))
		}
		indexer = store.NewRecordIndexer(es.Client, cfg.Export.IndexPrefix, log)
		zapLog.Info("elasticsearch connected")
	}

	datasets := store.NewDatasetStore(pg.DB, cache, cfg.Cleaning.CacheTTL(), log)
	rules := store.NewRuleStore(pg.DB)

	registrations := []registration{
		{ld.TaskType, func() (camunda.JobHandler, error) {
			return ld.NewHandler(ld.ConfigFrom(cfg), datasets, log), nil
		}},
		{vd.TaskType, func() (camunda.JobHandler, error) {
			return vd.NewHandler(vd.ConfigFrom(cfg), datasets, log), nil
		}},
		{fr.TaskType, func() (camunda.JobHandler, error) {
			return fr.NewHandler(fr.ConfigFrom(cfg), datasets, log), nil
		}},
		{sc.TaskType, func() (camunda.JobHandler, error) {
			return sc.NewHandler(sc.ConfigFrom(cfg), datasets, log), nil
		}},
		{ac.TaskType, func() (camunda.JobHandler, error) {
			return ac.NewHandler(ac.ConfigFrom(cfg), datasets, log), nil
		}},
		{pr.TaskType, func() (camunda.JobHandler, error) {
			return pr.NewHandler(pr.ConfigFrom(cfg), datasets, rules, log), nil
		}},
		{rr.TaskType, func() (camunda.JobHandler, error) {
			return rr.NewHandler(rr.ConfigFrom(cfg), datasets, rules, log), nil
		}},
		{mr.TaskType, func() (camunda.JobHandler, error) {
			return mr.NewHandler(mr.ConfigFrom(cfg), rules, log), nil
		}},
		{cw.TaskType, func() (camunda.JobHandler, error) {
			return cw.NewHandler(cw.ConfigFrom(cfg), log), nil
		}},
		{ed.TaskType, func() (camunda.JobHandler, error) {
			if indexer == nil {
				return ed.NewHandler(ed.ConfigFrom(cfg), datasets, nil, log), nil
			}
			return ed.NewHandler(ed.ConfigFrom(cfg), datasets, indexer, log), nil
		}},
		{erc.TaskType, func() (camunda.JobHandler, error) {
			return erc.NewHandler(erc.ConfigFrom(cfg), rules, log), nil
		}},
		{sn.TaskType, func() (camunda.JobHandler, error) {
			snCfg := sn.ConfigFrom(cfg)
			clients, err := awsclients.NewClients(ctx, snCfg.AWSRegion)
			if err != nil {
				return nil, err
			}
			return sn.NewHandler(snCfg, clients.SES, clients.SNS, log), nil
		}},
	}

	workers := make([]*camunda.Worker, 0, len(registrations))
	for _, reg := range registrations {
		if !config.IsWorkerEnabled(cfg, reg.taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", reg.taskType))
			continue
		}
		handler, err := reg.handler()
		if err != nil {
			zapLog.Fatal("failed to create handler", zap.String("taskType", reg.taskType), zap.Error(err))
		}
		workers = append(workers, camunda.StartWorker(
			zeebe.Client, reg.taskType, config.GetWorkerConfig(cfg, reg.taskType), handler, obs, log,
		))
	}
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{"zeebe": "ok", "postgres": "ok"}
		status := http.StatusOK
		if err := zeebe.HealthCheck(checkCtx); err != nil {
			checks["zeebe"], status = err.Error(), http.StatusServiceUnavailable
		}
		if err := pg.Ping(checkCtx); err != nil {
			checks["postgres"], status = err.Error(), http.StatusServiceUnavailable
		}
		label := "ready"
		if status != http.StatusOK {
			label = "not ready"
		}
		writeStatus(w, status, label, checks)
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("health/metrics server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("health/metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("shutdown signal received, stopping workers")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("error closing zeebe client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("error flushing metrics", zap.Error(err))
	}
	zapLog.Info("worker manager stopped")
}

func writeStatus(w http.ResponseWriter, code int, status string, checks map[string]string) {
	body := map[string]interface{}{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if checks != nil {
		body["checks"] = checks
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
