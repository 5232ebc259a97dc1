// internal/validator/cross.go
package validator

import (
	"math"
	"strings"

	"data-workers/internal/dataset"
	"data-workers/internal/models"
)

const (
	MsgUnknownTask        = "Requested task does not exist"
	MsgUncoveredSkill     = "Required skill not covered by any worker"
	MsgPhaseOverloaded    = "Phase workload exceeds worker capacity"
	MsgConcurrencyTooHigh = "Max concurrent exceeds qualified workers"
)

// Companions carries the other entity collections for cross-entity checks.
// A nil collection disables the checks that need it.
type Companions struct {
	Clients *models.Dataset
	Workers *models.Dataset
	Tasks   *models.Dataset
}

// CrossCheck is a Check with access to the companion collections.
type CrossCheck func(rows []models.Record, headers []string, c Companions) []models.Finding

// CrossChecks returns the ordered cross-entity checks for kind.
func CrossChecks(kind models.EntityKind) []CrossCheck {
	switch kind {
	case models.KindClient:
		return []CrossCheck{requestedTasksExist}
	case models.KindTask:
		return []CrossCheck{skillCoverage, phaseWorkload, concurrencyFeasible}
	}
	return nil
}

func requestedTasksExist(rows []models.Record, headers []string, c Companions) []models.Finding {
	if c.Tasks == nil {
		return nil
	}
	col, ok := dataset.FindColumn(headers, "requestedTaskIds")
	if !ok {
		return nil
	}
	taskCol, ok := dataset.FindColumn(dataset.Columns(c.Tasks), "taskId")
	if !ok {
		return nil
	}

	known := make(map[string]bool, len(c.Tasks.Rows))
	for _, t := range c.Tasks.Rows {
		if id := strings.TrimSpace(dataset.ToText(t[taskCol])); id != "" {
			known[id] = true
		}
	}

	var out []models.Finding
	for i, row := range rows {
		for _, id := range dataset.ToList(row[col]) {
			if known[id] {
				continue
			}
			out = append(out, models.Finding{
				Kind:     models.FindingError,
				Message:  MsgUnknownTask,
				RowIndex: models.Row(i),
				Column:   col,
				Value:    id,
				Severity: models.SeverityHigh,
			})
		}
	}
	return out
}

func skillCoverage(rows []models.Record, headers []string, c Companions) []models.Finding {
	if c.Workers == nil {
		return nil
	}
	col, ok := dataset.FindColumn(headers, "requiredSkills")
	if !ok {
		return nil
	}
	skillsCol, ok := dataset.FindColumn(dataset.Columns(c.Workers), "skills")
	if !ok {
		return nil
	}

	available := map[string]bool{}
	for _, w := range c.Workers.Rows {
		for s := range skillSet(w[skillsCol]) {
			available[s] = true
		}
	}

	var out []models.Finding
	for i, row := range rows {
		for _, skill := range dataset.ToList(row[col]) {
			if available[strings.ToLower(skill)] {
				continue
			}
			out = append(out, models.Finding{
				Kind:     models.FindingError,
				Message:  MsgUncoveredSkill,
				RowIndex: models.Row(i),
				Column:   col,
				Value:    skill,
				Severity: models.SeverityHigh,
			})
		}
	}
	return out
}

// PhaseLoad is the demand and capacity of one phase.
type PhaseLoad struct {
	Phase    int     `json:"phase"`
	Demand   float64 `json:"demand"`
	Capacity int     `json:"capacity"`
}

// phaseWorkload compares the summed task durations of each phase with twice
// the number of workers available in it.
func phaseWorkload(rows []models.Record, headers []string, c Companions) []models.Finding {
	if c.Workers == nil {
		return nil
	}
	durCol, ok := dataset.FindColumn(headers, "duration")
	if !ok {
		return nil
	}
	phaseCol, ok := dataset.FindColumn(headers, "preferredPhases")
	if !ok {
		return nil
	}
	slotsCol, ok := dataset.FindColumn(dataset.Columns(c.Workers), "availableSlots")
	if !ok {
		return nil
	}

	demand := map[int]float64{}
	phases := map[int]bool{}
	for _, row := range rows {
		d := dataset.ToNumber(row[durCol])
		if math.IsNaN(d) {
			continue
		}
		for _, p := range dataset.ParsePhaseRange(row[phaseCol]) {
			demand[p] += d
			phases[p] = true
		}
	}

	supply := map[int]int{}
	for _, w := range c.Workers.Rows {
		for _, p := range dataset.ParsePhaseRange(w[slotsCol]) {
			supply[p]++
		}
	}

	var out []models.Finding
	for _, p := range sortedInts(phases) {
		if demand[p] <= float64(2*supply[p]) {
			continue
		}
		out = append(out, models.Finding{
			Kind:     models.FindingWarning,
			Message:  MsgPhaseOverloaded,
			Column:   phaseCol,
			Value:    PhaseLoad{Phase: p, Demand: demand[p], Capacity: 2 * supply[p]},
			Severity: models.SeverityMedium,
		})
	}
	return out
}

func concurrencyFeasible(rows []models.Record, headers []string, c Companions) []models.Finding {
	if c.Workers == nil {
		return nil
	}
	skillsCol, ok := dataset.FindColumn(headers, "requiredSkills")
	if !ok {
		return nil
	}
	maxCol, ok := dataset.FindColumn(headers, "maxConcurrent")
	if !ok {
		return nil
	}
	workerSkillsCol, ok := dataset.FindColumn(dataset.Columns(c.Workers), "skills")
	if !ok {
		return nil
	}

	workerSkills := make([]map[string]bool, len(c.Workers.Rows))
	for i, w := range c.Workers.Rows {
		workerSkills[i] = skillSet(w[workerSkillsCol])
	}

	var out []models.Finding
	for i, row := range rows {
		limit := dataset.ToNumber(row[maxCol])
		if math.IsNaN(limit) {
			continue
		}
		required := skillSet(row[skillsCol])
		qualified := 0
		for _, ws := range workerSkills {
			if covers(ws, required) {
				qualified++
			}
		}
		if limit <= float64(qualified) {
			continue
		}
		out = append(out, models.Finding{
			Kind:     models.FindingWarning,
			Message:  MsgConcurrencyTooHigh,
			RowIndex: models.Row(i),
			Column:   maxCol,
			Value:    row[maxCol],
			Severity: models.SeverityMedium,
		})
	}
	return out
}

func covers(have, need map[string]bool) bool {
	for s := range need {
		if !have[s] {
			return false
		}
	}
	return true
}
