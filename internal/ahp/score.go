// internal/ahp/score.go
package ahp

import (
	"fmt"
	"math"

	"data-workers/internal/dataset"
	"data-workers/internal/models"
)

// Criterion ids used by DefaultCriteria and Score.
const (
	CriterionPriority      = "priorityLevel"
	CriterionFulfillment   = "taskFulfillment"
	CriterionFairness      = "fairness"
	CriterionWorkload      = "workloadBalance"
	CriterionSkillMatch    = "skillMatch"
	CriterionPhase         = "phasePreference"
	CriterionDuration      = "durationEfficiency"
	CriterionQualification = "qualificationLevel"
)

// DefaultCriteria returns the eight allocation criteria with equal weights.
func DefaultCriteria() []models.Criterion {
	criteria := []models.Criterion{
		{ID: CriterionPriority, Name: "Client Priority", Category: "client", Description: "Favor clients with a higher priority level"},
		{ID: CriterionFulfillment, Name: "Task Fulfillment", Category: "client", Description: "Fulfill as many requested tasks as possible"},
		{ID: CriterionFairness, Name: "Fairness", Category: "allocation", Description: "Spread allocations evenly across clients"},
		{ID: CriterionWorkload, Name: "Workload Balance", Category: "worker", Description: "Keep worker load per phase even"},
		{ID: CriterionSkillMatch, Name: "Skill Match", Category: "worker", Description: "Assign workers whose skills cover the task"},
		{ID: CriterionPhase, Name: "Phase Preference", Category: "task", Description: "Schedule tasks in their preferred phases"},
		{ID: CriterionDuration, Name: "Duration Efficiency", Category: "task", Description: "Prefer shorter schedules"},
		{ID: CriterionQualification, Name: "Qualification Level", Category: "worker", Description: "Favor more qualified workers"},
	}
	w := 1 / float64(len(criteria))
	for i := range criteria {
		criteria[i].Weight = w
	}
	return criteria
}

type subScore struct {
	criterion string
	value     func(models.Record, []string) float64
}

func numberOf(names ...string) func(models.Record, []string) float64 {
	return func(r models.Record, headers []string) float64 {
		col, ok := dataset.FindColumn(headers, names...)
		if !ok {
			return math.NaN()
		}
		return dataset.ToNumber(r[col])
	}
}

func countOf(names ...string) func(models.Record, []string) float64 {
	return func(r models.Record, headers []string) float64 {
		col, ok := dataset.FindColumn(headers, names...)
		if !ok {
			return math.NaN()
		}
		return float64(len(dataset.ToList(r[col])))
	}
}

func phasesOf(names ...string) func(models.Record, []string) float64 {
	return func(r models.Record, headers []string) float64 {
		col, ok := dataset.FindColumn(headers, names...)
		if !ok {
			return math.NaN()
		}
		return float64(len(dataset.ParsePhaseRange(r[col])))
	}
}

var scoreInputs = map[models.EntityKind][]subScore{
	models.KindClient: {
		{CriterionPriority, numberOf("priorityLevel")},
		{CriterionFulfillment, countOf("requestedTaskIds")},
	},
	models.KindWorker: {
		{CriterionSkillMatch, countOf("skills")},
		{CriterionWorkload, numberOf("maxLoadPerPhase")},
		{CriterionPhase, phasesOf("availableSlots")},
		{CriterionQualification, numberOf("qualificationLevel")},
	},
	models.KindTask: {
		{CriterionDuration, numberOf("duration")},
		{CriterionSkillMatch, countOf("requiredSkills")},
		{CriterionPhase, phasesOf("preferredPhases")},
		{CriterionFairness, numberOf("maxConcurrent")},
	},
}

var scoreColumns = map[models.EntityKind]string{
	models.KindClient: "CalculatedPriority",
	models.KindWorker: "CalculatedCapacity",
	models.KindTask:   "CalculatedComplexity",
}

// ScoreColumn names the calculated column added to rows of kind.
func ScoreColumn(kind models.EntityKind) string {
	return scoreColumns[kind]
}

// Score rates each row of kind as a weighted sum of sub-scores, each divided
// by its column maximum. The weights of the criteria involved are
// renormalized so scores fall in [0,1]. Missing or non-numeric cells score 0.
func Score(kind models.EntityKind, rows []models.Record, headers []string, weights map[string]float64) []float64 {
	inputs := scoreInputs[kind]
	scores := make([]float64, len(rows))
	if len(inputs) == 0 || len(rows) == 0 {
		return scores
	}

	raw := make([]float64, len(inputs))
	for i, in := range inputs {
		raw[i] = math.Max(weights[in.criterion], 0)
	}
	w := Normalize(raw)

	for i, in := range inputs {
		vals := make([]float64, len(rows))
		peak := 0.0
		for r, row := range rows {
			v := in.value(row, headers)
			if math.IsNaN(v) || v < 0 {
				v = 0
			}
			vals[r] = v
			peak = math.Max(peak, v)
		}
		if peak == 0 {
			continue
		}
		for r := range rows {
			scores[r] += w[i] * vals[r] / peak
		}
	}

	for r := range scores {
		scores[r] = math.Round(scores[r]*1e4) / 1e4
	}
	return scores
}

// ScoreDataset returns copies of ds's rows with the calculated column set,
// plus the extended header list.
func ScoreDataset(ds *models.Dataset, weights map[string]float64) ([]string, []models.Record, error) {
	col := ScoreColumn(ds.Kind)
	if col == "" {
		return nil, nil, fmt.Errorf("no score defined for kind %q", ds.Kind)
	}
	headers := dataset.Columns(ds)
	scores := Score(ds.Kind, ds.Rows, headers, weights)

	out := make([]models.Record, len(ds.Rows))
	for i, row := range ds.Rows {
		next := row.Clone()
		next[col] = scores[i]
		out[i] = next
	}
	return append(append([]string(nil), headers...), col), out, nil
}
