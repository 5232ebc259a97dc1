// internal/models/dataset.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// EntityKind selects the canonical schema and the rule set applied to a sheet.
type EntityKind string

const (
	KindClient EntityKind = "client"
	KindWorker EntityKind = "worker"
	KindTask   EntityKind = "task"
)

// EntityKinds lists every kind in schema order.
var EntityKinds = []EntityKind{KindClient, KindWorker, KindTask}

func (k EntityKind) Valid() bool {
	switch k {
	case KindClient, KindWorker, KindTask:
		return true
	}
	return false
}

// ParseEntityKind accepts singular or plural, any case.
func ParseEntityKind(s string) (EntityKind, error) {
	k := EntityKind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	if !k.Valid() {
		return "", fmt.Errorf("unknown entity kind %q", s)
	}
	return k, nil
}

// Record is one sheet row keyed by column name. Values stay loosely typed:
// numbers and lists frequently arrive as strings.
type Record map[string]interface{}

// Clone returns a shallow copy; cell values are replaced, never mutated.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Dataset is one uploaded collection of a single kind.
type Dataset struct {
	ID        string     `json:"id"`
	Kind      EntityKind `json:"kind"`
	Name      string     `json:"name,omitempty"`
	Headers   []string   `json:"headers"`
	Rows      []Record   `json:"rows"`
	Version   int        `json:"version"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Clone copies headers and rows so the result can be modified independently.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	out := *d
	out.Headers = append([]string(nil), d.Headers...)
	out.Rows = make([]Record, len(d.Rows))
	for i, r := range d.Rows {
		out.Rows[i] = r.Clone()
	}
	return &out
}

// WithRows returns a copy of d carrying rows and a bumped version.
func (d *Dataset) WithRows(rows []Record) *Dataset {
	out := *d
	out.Headers = append([]string(nil), d.Headers...)
	out.Rows = rows
	out.Version = d.Version + 1
	out.UpdatedAt = time.Now().UTC()
	return &out
}
