// internal/ahp/ahp_test.go
package ahp

import (
	"math"
	"testing"

	"data-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(ws []float64) float64 {
	s := 0.0
	for _, w := range ws {
		s += w
	}
	return s
}

func TestNormalize(t *testing.T) {
	inputs := [][]float64{
		{1, 2, 1},
		{0.3, 0.3, 0.3, 0.1},
		{7},
		{1e-9, 3e-9},
		{100, 250, 0, 13.5},
	}
	for _, in := range inputs {
		out := Normalize(in)
		assert.InDelta(t, 1.0, sum(out), 1e-12, "%v", in)
	}

	assert.Equal(t, []float64{0.25, 0.5, 0.25}, Normalize([]float64{1, 2, 1}))
}

func TestNormalize_DegenerateSums(t *testing.T) {
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, Normalize([]float64{0, 0, 0, 0}))
	assert.Equal(t, []float64{0.5, 0.5}, Normalize([]float64{math.NaN(), 1}))
	assert.Equal(t, []float64{0.5, 0.5}, Normalize([]float64{math.Inf(1), 1}))
	assert.Empty(t, Normalize(nil))
}

func TestBuildMatrix_Reciprocal(t *testing.T) {
	ids := []string{"A", "B", "C"}
	m := BuildMatrix(ids, []models.PairwiseComparison{
		{A: "A", B: "B", Value: 3},
		{A: "C", B: "A", Value: 7},
		{A: "A", B: "A", Value: 5},
		{A: "A", B: "Z", Value: 5},
		{A: "B", B: "C", Value: 0},
	})

	assert.Equal(t, 3.0, m[0][1])
	assert.Equal(t, 1/3.0, m[1][0])
	assert.Equal(t, 7.0, m[2][0])
	assert.Equal(t, 1/7.0, m[0][2])
	assert.Equal(t, 1.0, m[0][0], "self comparison ignored")
	assert.Equal(t, 1.0, m[1][2], "non-positive value ignored")
	assert.Equal(t, 1.0, m[2][1])
}

func TestEqualComparisonsAreUniform(t *testing.T) {
	for n := 1; n <= 12; n++ {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('a' + i))
		}
		m := BuildMatrix(ids, nil)
		w := Weights(m)

		for _, v := range w {
			assert.InDelta(t, 1/float64(n), v, 1e-12)
		}
		assert.InDelta(t, 0, ConsistencyRatio(m, w), 1e-12, "n=%d", n)
	}
}

func TestConsistencyRatio(t *testing.T) {
	ids := []string{"A", "B", "C"}

	consistent := BuildMatrix(ids, []models.PairwiseComparison{
		{A: "A", B: "B", Value: 3},
		{A: "A", B: "C", Value: 5},
		{A: "B", B: "C", Value: 3},
	})
	w := Weights(consistent)
	assert.InDelta(t, 0.6054, w[0], 1e-4)
	assert.InDelta(t, 0.2915, w[1], 1e-4)
	assert.InDelta(t, 0.1031, w[2], 1e-4)
	cr := ConsistencyRatio(consistent, w)
	assert.InDelta(t, 0.0477, cr, 1e-4)
	assert.True(t, Consistent(cr))

	cyclic := BuildMatrix(ids, []models.PairwiseComparison{
		{A: "A", B: "B", Value: 9},
		{A: "B", B: "C", Value: 9},
		{A: "C", B: "A", Value: 9},
	})
	cr = ConsistencyRatio(cyclic, Weights(cyclic))
	assert.Greater(t, cr, ConsistencyThreshold)
	assert.False(t, Consistent(cr))
}

func TestConsistencyRatio_SmallMatrices(t *testing.T) {
	m := BuildMatrix([]string{"A", "B"}, []models.PairwiseComparison{{A: "A", B: "B", Value: 9}})
	assert.Equal(t, 0.0, ConsistencyRatio(m, Weights(m)))
}

func TestRandomIndex(t *testing.T) {
	assert.Equal(t, 0.0, RandomIndex(1))
	assert.Equal(t, 0.0, RandomIndex(2))
	assert.Equal(t, 0.58, RandomIndex(3))
	assert.Equal(t, 1.49, RandomIndex(10))
	assert.Equal(t, 1.49, RandomIndex(15))
}

func TestFromRanking(t *testing.T) {
	w := FromRanking([]string{"a", "b", "c"})

	assert.InDelta(t, 3.0/6, w["a"], 1e-12)
	assert.InDelta(t, 2.0/6, w["b"], 1e-12)
	assert.InDelta(t, 1.0/6, w["c"], 1e-12)
	assert.True(t, Balanced(w))
	assert.Empty(t, FromRanking(nil))
}

func TestDefaultCriteria(t *testing.T) {
	criteria := DefaultCriteria()

	require.Len(t, criteria, 8)
	total := 0.0
	ids := map[string]bool{}
	for _, c := range criteria {
		total += c.Weight
		ids[c.ID] = true
	}
	assert.InDelta(t, 1.0, total, 1e-12)
	assert.Len(t, ids, 8)
}

// ==========================
// Calculate
// ==========================

func criteria(ids ...string) []models.Criterion {
	out := make([]models.Criterion, len(ids))
	for i, id := range ids {
		out[i] = models.Criterion{ID: id, Name: id}
	}
	return out
}

func TestCalculate_Direct(t *testing.T) {
	cs := criteria("a", "b", "c")
	cs[0].Weight, cs[1].Weight, cs[2].Weight = 2, 1, 1

	res, err := Calculate(Request{Method: models.WeightingDirect, Criteria: cs})

	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 0.5, "b": 0.25, "c": 0.25}, res.Weights)
	assert.True(t, res.Balanced)
	assert.True(t, res.Consistent)
	assert.Equal(t, 0.5, res.Criteria[0].Weight)
	assert.Equal(t, 2.0, cs[0].Weight, "input criteria untouched")
}

func TestCalculate_Pairwise(t *testing.T) {
	res, err := Calculate(Request{
		Method:   models.WeightingPairwise,
		Criteria: criteria("a", "b", "c"),
		Comparisons: []models.PairwiseComparison{
			{A: "a", B: "b", Value: 9},
			{A: "b", B: "c", Value: 9},
			{A: "c", B: "a", Value: 9},
		},
	})

	require.NoError(t, err)
	assert.False(t, res.Consistent)
	assert.Len(t, res.Matrix, 3)
}

func TestCalculate_Errors(t *testing.T) {
	_, err := Calculate(Request{Method: models.WeightingRanking, Criteria: criteria("a"), Ranking: []string{"a", "z"}})
	assert.ErrorIs(t, err, ErrUnknownCriterion)

	_, err = Calculate(Request{Method: models.WeightingRanking, Criteria: criteria("a", "b"), Ranking: []string{"a", "a"}})
	assert.ErrorIs(t, err, ErrDuplicateRank)

	_, err = Calculate(Request{Method: models.WeightingPairwise, Criteria: criteria("a"), Comparisons: []models.PairwiseComparison{{A: "a", B: "q", Value: 2}}})
	assert.ErrorIs(t, err, ErrUnknownCriterion)

	_, err = Calculate(Request{Method: "vibes"})
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestCalculate_DefaultsWhenEmpty(t *testing.T) {
	res, err := Calculate(Request{Method: models.WeightingRanking, Ranking: []string{CriterionPriority, CriterionFairness}})

	require.NoError(t, err)
	assert.Len(t, res.Weights, 8)
	assert.InDelta(t, 2.0/3, res.Weights[CriterionPriority], 1e-12)
	assert.Equal(t, 0.0, res.Weights[CriterionSkillMatch])
}

// ==========================
// Score
// ==========================

func TestScore_Clients(t *testing.T) {
	headers := []string{"clientId", "priorityLevel", "requestedTaskIds"}
	rows := []models.Record{
		{"clientId": "C1", "priorityLevel": "5", "requestedTaskIds": "T1,T2"},
		{"clientId": "C2", "priorityLevel": "1", "requestedTaskIds": "T1"},
		{"clientId": "C3", "priorityLevel": "n/a", "requestedTaskIds": ""},
	}
	weights := map[string]float64{CriterionPriority: 1, CriterionFulfillment: 1}

	scores := Score(models.KindClient, rows, headers, weights)

	assert.Equal(t, []float64{1, 0.35, 0}, scores)
}

func TestScoreDataset(t *testing.T) {
	ds := &models.Dataset{
		Kind:    models.KindTask,
		Headers: []string{"taskId", "duration"},
		Rows:    []models.Record{{"taskId": "T1", "duration": "2"}, {"taskId": "T2", "duration": "4"}},
	}

	headers, rows, err := ScoreDataset(ds, map[string]float64{CriterionDuration: 1})

	require.NoError(t, err)
	assert.Equal(t, []string{"taskId", "duration", "CalculatedComplexity"}, headers)
	assert.Equal(t, 0.5, rows[0]["CalculatedComplexity"])
	assert.Equal(t, 1.0, rows[1]["CalculatedComplexity"])
	assert.NotContains(t, ds.Rows[0], "CalculatedComplexity")

	_, _, err = ScoreDataset(&models.Dataset{Kind: "vendor"}, nil)
	assert.Error(t, err)
}
