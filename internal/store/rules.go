// internal/store/rules.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"data-workers/internal/common/database"
	"data-workers/internal/models"

	"github.com/google/uuid"
)

// RuleStore keeps business rules in the business_rules table.
type RuleStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewRuleStore(db *sql.DB) *RuleStore {
	return &RuleStore{db: db, now: time.Now}
}

const ruleColumns = `id, type, name, description, priority, enabled, parameters, created_at, updated_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Save upserts r and returns the stored copy. The priority is clamped to 1..5.
func (s *RuleStore) Save(ctx context.Context, r models.BusinessRule) (models.BusinessRule, error) {
	return s.save(ctx, s.db, r)
}

// SaveAll stores rules in one transaction.
func (s *RuleStore) SaveAll(ctx context.Context, rules []models.BusinessRule) ([]models.BusinessRule, error) {
	saved := make([]models.BusinessRule, 0, len(rules))
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, r := range rules {
			out, err := s.save(ctx, tx, r)
			if err != nil {
				return err
			}
			saved = append(saved, out)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *RuleStore) save(ctx context.Context, ex execer, r models.BusinessRule) (models.BusinessRule, error) {
	if r.Parameters == nil {
		return r, errors.New("rule has no parameters")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := s.now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	r.Priority = models.ClampPriority(r.Priority)

	params, err := json.Marshal(r.Parameters)
	if err != nil {
		return r, fmt.Errorf("encode parameters: %w", err)
	}

	query := `
		INSERT INTO business_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			priority = EXCLUDED.priority,
			enabled = EXCLUDED.enabled,
			parameters = EXCLUDED.parameters,
			updated_at = EXCLUDED.updated_at`
	if _, err := ex.ExecContext(ctx, query,
		r.ID, string(r.Type()), r.Name, r.Description, r.Priority, r.Enabled, params, r.CreatedAt, r.UpdatedAt,
	); err != nil {
		return r, fmt.Errorf("save rule %s: %w", r.ID, err)
	}
	return r, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(sc rowScanner) (models.BusinessRule, error) {
	var (
		r      models.BusinessRule
		typ    string
		params []byte
	)
	if err := sc.Scan(&r.ID, &typ, &r.Name, &r.Description, &r.Priority, &r.Enabled, &params, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return r, err
	}
	p, err := models.DecodeParameters(models.RuleType(typ), params)
	if err != nil {
		return r, fmt.Errorf("rule %s: %w", r.ID, err)
	}
	r.Parameters = p
	return r, nil
}

func (s *RuleStore) Get(ctx context.Context, id string) (models.BusinessRule, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+ruleColumns+` FROM business_rules WHERE id = $1`, id)
	r, err := scanRule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, fmt.Errorf("rule %s: %w", id, ErrNotFound)
		}
		return r, fmt.Errorf("load rule %s: %w", id, err)
	}
	return r, nil
}

// List returns rules by descending priority, oldest first within a priority.
func (s *RuleStore) List(ctx context.Context, enabledOnly bool) ([]models.BusinessRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM business_rules`
	if enabledOnly {
		query += ` WHERE enabled = TRUE`
	}
	query += ` ORDER BY priority DESC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	rules := []models.BusinessRule{}
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (s *RuleStore) SetEnabled(ctx context.Context, id string, enabled bool) error {
	return s.update(ctx, id, `UPDATE business_rules SET enabled = $2, updated_at = $3 WHERE id = $1`, enabled)
}

// SetPriority clamps p to 1..5 before storing it.
func (s *RuleStore) SetPriority(ctx context.Context, id string, p int) error {
	return s.update(ctx, id, `UPDATE business_rules SET priority = $2, updated_at = $3 WHERE id = $1`, models.ClampPriority(p))
}

func (s *RuleStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM business_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rule %s: %w", id, err)
	}
	return affected(res, id)
}

func (s *RuleStore) update(ctx context.Context, id, query string, value interface{}) error {
	res, err := s.db.ExecContext(ctx, query, id, value, s.now().UTC())
	if err != nil {
		return fmt.Errorf("update rule %s: %w", id, err)
	}
	return affected(res, id)
}

func affected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("rule %s: %w", id, ErrNotFound)
	}
	return nil
}
