// Package storetest provides in-memory dataset and rule stores for worker tests.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"data-workers/internal/models"
	"data-workers/internal/store"

	"github.com/google/uuid"
)

// Datasets mirrors store.DatasetStore. When Err is set every call returns it.
type Datasets struct {
	mu    sync.Mutex
	items map[string]*models.Dataset
	Err   error
	Saves int
}

func NewDatasets(seed ...*models.Dataset) *Datasets {
	d := &Datasets{items: map[string]*models.Dataset{}}
	for _, ds := range seed {
		d.items[ds.ID] = ds.Clone()
	}
	return d
}

func (d *Datasets) Get(_ context.Context, id string) (*models.Dataset, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}
	ds, ok := d.items[id]
	if !ok {
		return nil, fmt.Errorf("dataset %s: %w", id, store.ErrNotFound)
	}
	return ds.Clone(), nil
}

func (d *Datasets) GetMany(ctx context.Context, ids ...string) ([]*models.Dataset, error) {
	out := make([]*models.Dataset, len(ids))
	for i, id := range ids {
		if id == "" {
			continue
		}
		ds, err := d.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out[i] = ds
	}
	return out, nil
}

func (d *Datasets) Save(_ context.Context, ds *models.Dataset) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	if ds.ID == "" {
		ds.ID = uuid.NewString()
	}
	if ds.Version < 1 {
		ds.Version = 1
	}
	ds.UpdatedAt = time.Now().UTC()
	d.items[ds.ID] = ds.Clone()
	d.Saves++
	return nil
}

// Stored returns the current copy of id, or nil.
func (d *Datasets) Stored(id string) *models.Dataset {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.items[id].Clone()
}

// Rules mirrors store.RuleStore.
type Rules struct {
	mu    sync.Mutex
	order []string
	items map[string]models.BusinessRule
	Err   error
}

func NewRules(seed ...models.BusinessRule) *Rules {
	r := &Rules{items: map[string]models.BusinessRule{}}
	for _, rule := range seed {
		r.put(rule)
	}
	return r
}

func (r *Rules) put(rule models.BusinessRule) {
	if _, ok := r.items[rule.ID]; !ok {
		r.order = append(r.order, rule.ID)
	}
	r.items[rule.ID] = rule
}

func (r *Rules) Save(_ context.Context, rule models.BusinessRule) (models.BusinessRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return rule, r.Err
	}
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	rule.Priority = models.ClampPriority(rule.Priority)
	r.put(rule)
	return rule, nil
}

func (r *Rules) SaveAll(ctx context.Context, rules []models.BusinessRule) ([]models.BusinessRule, error) {
	out := make([]models.BusinessRule, 0, len(rules))
	for _, rule := range rules {
		saved, err := r.Save(ctx, rule)
		if err != nil {
			return nil, err
		}
		out = append(out, saved)
	}
	return out, nil
}

func (r *Rules) Get(_ context.Context, id string) (models.BusinessRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return models.BusinessRule{}, r.Err
	}
	rule, ok := r.items[id]
	if !ok {
		return rule, fmt.Errorf("rule %s: %w", id, store.ErrNotFound)
	}
	return rule, nil
}

// List orders by descending priority, then insertion order.
func (r *Rules) List(_ context.Context, enabledOnly bool) ([]models.BusinessRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := []models.BusinessRule{}
	for _, id := range r.order {
		rule, ok := r.items[id]
		if !ok || (enabledOnly && !rule.Enabled) {
			continue
		}
		out = append(out, rule)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out, nil
}

func (r *Rules) SetEnabled(_ context.Context, id string, enabled bool) error {
	return r.modify(id, func(rule *models.BusinessRule) { rule.Enabled = enabled })
}

func (r *Rules) SetPriority(_ context.Context, id string, p int) error {
	return r.modify(id, func(rule *models.BusinessRule) { rule.Priority = models.ClampPriority(p) })
}

func (r *Rules) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("rule %s: %w", id, store.ErrNotFound)
	}
	delete(r.items, id)
	return nil
}

func (r *Rules) modify(id string, fn func(*models.BusinessRule)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	rule, ok := r.items[id]
	if !ok {
		return fmt.Errorf("rule %s: %w", id, store.ErrNotFound)
	}
	fn(&rule)
	r.items[id] = rule
	return nil
}
