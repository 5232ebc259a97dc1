// Package validator runs the per-kind field checks and the cross-entity
// checks over canonicalized rows and aggregates their findings.
package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"data-workers/internal/dataset"
	"data-workers/internal/models"
)

// Check scans rows for one concern. Checks never modify rows.
type Check func(rows []models.Record, headers []string) []models.Finding

const (
	MsgMissingColumns = "Missing required columns"
	MsgDuplicateID    = "Duplicate ID"
	MsgInvalidList    = "List must contain at least one value"
	MsgInvalidJSON    = "Invalid JSON"
	MsgInvalidPhases  = "Invalid phase range"
	MsgWorkerOverload = "Max load per phase exceeds available slots"
)

type numericRange struct {
	field string
	min   float64
	max   float64
}

func (r numericRange) message() string {
	if math.IsInf(r.max, 1) {
		return fmt.Sprintf("%s must be at least %g", r.field, r.min)
	}
	return fmt.Sprintf("%s must be between %g and %g", r.field, r.min, r.max)
}

var ranges = map[models.EntityKind][]numericRange{
	models.KindClient: {{field: "priorityLevel", min: 1, max: 5}},
	models.KindWorker: {{field: "maxLoadPerPhase", min: 1, max: math.Inf(1)}},
	models.KindTask: {
		{field: "duration", min: 1, max: math.Inf(1)},
		{field: "maxConcurrent", min: 1, max: math.Inf(1)},
	},
}

var listFields = map[models.EntityKind][]string{
	models.KindClient: {"requestedTaskIds"},
	models.KindWorker: {"skills"},
	models.KindTask:   {"requiredSkills"},
}

var jsonFields = map[models.EntityKind][]string{
	models.KindClient: {"attributesJson"},
}

var phaseFields = map[models.EntityKind][]string{
	models.KindWorker: {"availableSlots"},
	models.KindTask:   {"preferredPhases"},
}

// FieldChecks returns the ordered field checks for kind.
func FieldChecks(kind models.EntityKind) []Check {
	checks := []Check{
		requiredColumns(kind),
		duplicateIDs(dataset.IDField(kind)),
		numericRanges(ranges[kind]),
		listFormat(listFields[kind]),
		jsonFormat(jsonFields[kind]),
		phaseFormat(phaseFields[kind]),
	}
	if kind == models.KindWorker {
		checks = append(checks, workerOverload)
	}
	return checks
}

func requiredColumns(kind models.EntityKind) Check {
	required := dataset.RequiredFields(kind)
	return func(_ []models.Record, headers []string) []models.Finding {
		var missing []string
		for _, f := range required {
			if _, ok := dataset.FindColumn(headers, f); !ok {
				missing = append(missing, f)
			}
		}
		if len(missing) == 0 {
			return nil
		}
		return []models.Finding{{
			Kind:     models.FindingError,
			Message:  MsgMissingColumns,
			Value:    strings.Join(missing, ", "),
			Severity: models.SeverityHigh,
		}}
	}
}

// duplicateIDs flags every occurrence of an id that appears more than once.
func duplicateIDs(idField string) Check {
	return func(rows []models.Record, headers []string) []models.Finding {
		col, ok := dataset.FindColumn(headers, idField)
		if !ok {
			return nil
		}

		counts := make(map[string]int, len(rows))
		for _, row := range rows {
			if id := strings.TrimSpace(dataset.ToText(row[col])); id != "" {
				counts[id]++
			}
		}

		var out []models.Finding
		for i, row := range rows {
			id := strings.TrimSpace(dataset.ToText(row[col]))
			if id == "" || counts[id] < 2 {
				continue
			}
			out = append(out, models.Finding{
				Kind:     models.FindingError,
				Message:  MsgDuplicateID,
				RowIndex: models.Row(i),
				Column:   col,
				Value:    id,
				Severity: models.SeverityHigh,
			})
		}
		return out
	}
}

func numericRanges(checks []numericRange) Check {
	return func(rows []models.Record, headers []string) []models.Finding {
		var out []models.Finding
		for _, r := range checks {
			col, ok := dataset.FindColumn(headers, r.field)
			if !ok {
				continue
			}
			for i, row := range rows {
				n := dataset.ToNumber(row[col])
				if !math.IsNaN(n) && n >= r.min && n <= r.max {
					continue
				}
				out = append(out, models.Finding{
					Kind:     models.FindingError,
					Message:  r.message(),
					RowIndex: models.Row(i),
					Column:   col,
					Value:    row[col],
					Severity: models.SeverityMedium,
				})
			}
		}
		return out
	}
}

func listFormat(fields []string) Check {
	return func(rows []models.Record, headers []string) []models.Finding {
		var out []models.Finding
		for _, f := range fields {
			col, ok := dataset.FindColumn(headers, f)
			if !ok {
				continue
			}
			for i, row := range rows {
				if len(dataset.ToList(row[col])) > 0 {
					continue
				}
				out = append(out, models.Finding{
					Kind:     models.FindingWarning,
					Message:  MsgInvalidList,
					RowIndex: models.Row(i),
					Column:   col,
					Value:    row[col],
					Severity: models.SeverityLow,
				})
			}
		}
		return out
	}
}

func jsonFormat(fields []string) Check {
	return func(rows []models.Record, headers []string) []models.Finding {
		var out []models.Finding
		for _, f := range fields {
			col, ok := dataset.FindColumn(headers, f)
			if !ok {
				continue
			}
			for i, row := range rows {
				s, isText := row[col].(string)
				if !isText || strings.TrimSpace(s) == "" || json.Valid([]byte(s)) {
					continue
				}
				out = append(out, models.Finding{
					Kind:     models.FindingError,
					Message:  MsgInvalidJSON,
					RowIndex: models.Row(i),
					Column:   col,
					Value:    s,
					Severity: models.SeverityMedium,
				})
			}
		}
		return out
	}
}

func phaseFormat(fields []string) Check {
	return func(rows []models.Record, headers []string) []models.Finding {
		var out []models.Finding
		for _, f := range fields {
			col, ok := dataset.FindColumn(headers, f)
			if !ok {
				continue
			}
			for i, row := range rows {
				if len(dataset.ParsePhaseRange(row[col])) > 0 {
					continue
				}
				out = append(out, models.Finding{
					Kind:     models.FindingError,
					Message:  MsgInvalidPhases,
					RowIndex: models.Row(i),
					Column:   col,
					Value:    row[col],
					Severity: models.SeverityMedium,
				})
			}
		}
		return out
	}
}

// workerOverload warns when a worker may take more per phase than it has slots.
func workerOverload(rows []models.Record, headers []string) []models.Finding {
	slotsCol, ok := dataset.FindColumn(headers, "availableSlots")
	if !ok {
		return nil
	}
	loadCol, ok := dataset.FindColumn(headers, "maxLoadPerPhase")
	if !ok {
		return nil
	}

	var out []models.Finding
	for i, row := range rows {
		slots := dataset.ParsePhaseRange(row[slotsCol])
		load := dataset.ToNumber(row[loadCol])
		if len(slots) == 0 || math.IsNaN(load) || float64(len(slots)) >= load {
			continue
		}
		out = append(out, models.Finding{
			Kind:     models.FindingWarning,
			Message:  MsgWorkerOverload,
			RowIndex: models.Row(i),
			Column:   loadCol,
			Value:    row[loadCol],
			Severity: models.SeverityMedium,
		})
	}
	return out
}

func skillSet(v interface{}) map[string]bool {
	set := map[string]bool{}
	for _, s := range dataset.ToList(v) {
		set[strings.ToLower(s)] = true
	}
	return set
}

func sortedInts(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
