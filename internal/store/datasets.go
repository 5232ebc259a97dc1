// Package store persists datasets and business rules in Postgres, keeps hot
// datasets in Redis and pushes cleaned records to Elasticsearch.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"data-workers/internal/common/logger"
	"data-workers/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("not found")

const datasetKeyPrefix = "dataset:"

// DatasetStore is a Postgres table fronted by a Redis read-through cache.
// Cache failures are logged and never fail a call.
type DatasetStore struct {
	db     *sql.DB
	cache  *redis.Client
	ttl    time.Duration
	logger logger.Logger
	now    func() time.Time
}

func NewDatasetStore(db *sql.DB, cache *redis.Client, ttl time.Duration, log logger.Logger) *DatasetStore {
	return &DatasetStore{
		db:     db,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"store": "datasets"}),
		now:    time.Now,
	}
}

func cacheKey(id string) string {
	return datasetKeyPrefix + id
}

// Save upserts ds. A missing ID is generated and a zero version becomes 1.
func (s *DatasetStore) Save(ctx context.Context, ds *models.Dataset) error {
	if ds.ID == "" {
		ds.ID = uuid.NewString()
	}
	if ds.Version < 1 {
		ds.Version = 1
	}
	ds.UpdatedAt = s.now().UTC()

	headers, err := json.Marshal(ds.Headers)
	if err != nil {
		return fmt.Errorf("encode headers: %w", err)
	}
	rows, err := json.Marshal(ds.Rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}

	query := `
		INSERT INTO datasets (id, kind, name, headers, rows, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind,
			name = EXCLUDED.name,
			headers = EXCLUDED.headers,
			rows = EXCLUDED.rows,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at`
	if _, err := s.db.ExecContext(ctx, query,
		ds.ID, string(ds.Kind), ds.Name, headers, rows, ds.Version, ds.UpdatedAt,
	); err != nil {
		return fmt.Errorf("save dataset %s: %w", ds.ID, err)
	}

	s.put(ctx, ds)
	return nil
}

// Get returns the dataset, trying the cache first.
func (s *DatasetStore) Get(ctx context.Context, id string) (*models.Dataset, error) {
	if s.cache != nil {
		if val, err := s.cache.Get(ctx, cacheKey(id)).Bytes(); err == nil {
			var ds models.Dataset
			if err := json.Unmarshal(val, &ds); err == nil {
				return &ds, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("dataset cache read failed", map[string]interface{}{
				"datasetId": id,
				"error":     err.Error(),
			})
		}
	}

	var (
		ds      models.Dataset
		kind    string
		headers []byte
		rows    []byte
	)
	query := `SELECT id, kind, name, headers, rows, version, updated_at FROM datasets WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&ds.ID, &kind, &ds.Name, &headers, &rows, &ds.Version, &ds.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("dataset %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("load dataset %s: %w", id, err)
	}
	ds.Kind = models.EntityKind(kind)
	if err := json.Unmarshal(headers, &ds.Headers); err != nil {
		return nil, fmt.Errorf("decode headers of %s: %w", id, err)
	}
	if err := json.Unmarshal(rows, &ds.Rows); err != nil {
		return nil, fmt.Errorf("decode rows of %s: %w", id, err)
	}

	s.put(ctx, &ds)
	return &ds, nil
}

// GetMany loads every non-empty id. Empty ids yield nil entries.
func (s *DatasetStore) GetMany(ctx context.Context, ids ...string) ([]*models.Dataset, error) {
	out := make([]*models.Dataset, len(ids))
	for i, id := range ids {
		if id == "" {
			continue
		}
		ds, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out[i] = ds
	}
	return out, nil
}

// Delete removes the dataset and its cache entry.
func (s *DatasetStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dataset %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("dataset %s: %w", id, ErrNotFound)
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, cacheKey(id)).Err(); err != nil {
			s.logger.Warn("dataset cache evict failed", map[string]interface{}{
				"datasetId": id,
				"error":     err.Error(),
			})
		}
	}
	return nil
}

func (s *DatasetStore) put(ctx context.Context, ds *models.Dataset) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(ds)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(ds.ID), data, s.ttl).Err(); err != nil {
		s.logger.Warn("dataset cache write failed", map[string]interface{}{
			"datasetId": ds.ID,
			"error":     err.Error(),
		})
	}
}
