// Package ahp derives criterion weights from direct values, a rank order or
// pairwise comparisons (Analytic Hierarchy Process) and scores rows with them.
package ahp

import (
	"errors"
	"fmt"
	"math"

	"data-workers/internal/models"
)

// ConsistencyThreshold is the largest acceptable consistency ratio (exclusive).
const ConsistencyThreshold = 0.1

// SumTolerance is how far a weight set may drift from 1 and still be balanced.
const SumTolerance = 0.01

// randomIndex holds Saaty's random consistency index for n = 1..10.
var randomIndex = []float64{0, 0, 0.58, 0.90, 1.12, 1.24, 1.32, 1.41, 1.45, 1.49}

var (
	ErrNoCriteria       = errors.New("no criteria supplied")
	ErrUnknownMethod    = errors.New("unknown weighting method")
	ErrUnknownCriterion = errors.New("unknown criterion")
	ErrDuplicateRank    = errors.New("criterion ranked twice")
)

// Matrix is a square pairwise comparison matrix.
type Matrix [][]float64

// BuildMatrix returns the n×n reciprocal matrix for ids. The diagonal and any
// pair without a comparison are 1. A comparison (A,B)=v sets m[A][B]=v and
// m[B][A]=1/v. Comparisons naming unknown ids, comparing an id with itself,
// or carrying a non-positive value are ignored.
func BuildMatrix(ids []string, comparisons []models.PairwiseComparison) Matrix {
	n := len(ids)
	index := make(map[string]int, n)
	for i, id := range ids {
		index[id] = i
	}

	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			m[i][j] = 1
		}
	}

	for _, c := range comparisons {
		a, okA := index[c.A]
		b, okB := index[c.B]
		if !okA || !okB || a == b || c.Value <= 0 || math.IsInf(c.Value, 0) || math.IsNaN(c.Value) {
			continue
		}
		m[a][b] = c.Value
		m[b][a] = 1 / c.Value
	}
	return m
}

// Weights uses row-sum normalization: each row sum over the sum of all entries.
func Weights(m Matrix) []float64 {
	n := len(m)
	rowSums := make([]float64, n)
	total := 0.0
	for i, row := range m {
		for _, v := range row {
			rowSums[i] += v
		}
		total += rowSums[i]
	}

	w := make([]float64, n)
	if total == 0 {
		return Normalize(w)
	}
	for i := range w {
		w[i] = rowSums[i] / total
	}
	return w
}

// RandomIndex returns Saaty's RI for n, clamped to the n=10 value beyond.
func RandomIndex(n int) float64 {
	switch {
	case n < 1:
		return 0
	case n > len(randomIndex):
		return randomIndex[len(randomIndex)-1]
	}
	return randomIndex[n-1]
}

// ConsistencyRatio computes CR = CI / RI with CI = (λmax−n)/(n−1), where
// λmax is the mean of (Σj m[i][j]·w[j]) / w[i]. Matrices of size two or less
// are always consistent.
func ConsistencyRatio(m Matrix, w []float64) float64 {
	n := len(m)
	if n <= 2 || len(w) != n {
		return 0
	}

	lambda := 0.0
	for i, row := range m {
		weighted := 0.0
		for j, v := range row {
			weighted += v * w[j]
		}
		if w[i] == 0 {
			return 0
		}
		lambda += weighted / w[i]
	}
	lambda /= float64(n)

	ci := (lambda - float64(n)) / float64(n-1)
	if ci < 0 {
		ci = 0
	}
	return ci / RandomIndex(n)
}

// Consistent reports whether cr is within ConsistencyThreshold.
func Consistent(cr float64) bool {
	return cr < ConsistencyThreshold
}

// FromRanking gives rank r of n the weight (n−r+1)/Σ, most important first.
func FromRanking(order []string) map[string]float64 {
	n := len(order)
	out := make(map[string]float64, n)
	if n == 0 {
		return out
	}
	sum := float64(n*(n+1)) / 2
	for r, id := range order {
		out[id] = float64(n-r) / sum
	}
	return out
}

// Normalize divides each weight by the sum. When the sum is zero or not
// finite the weights are made uniform instead.
func Normalize(weights []float64) []float64 {
	out := make([]float64, len(weights))
	if len(weights) == 0 {
		return out
	}

	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		for i := range out {
			out[i] = 1 / float64(len(out))
		}
		return out
	}
	for i, w := range weights {
		out[i] = w / sum
	}
	return out
}

// Balanced reports whether weights sum to 1 within SumTolerance. It is
// advisory only.
func Balanced(weights map[string]float64) bool {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	return math.Abs(sum-1) <= SumTolerance
}

// Request selects a weighting method and its inputs.
type Request struct {
	Method      models.WeightingMethod      `json:"method"`
	Criteria    []models.Criterion          `json:"criteria"`
	Comparisons []models.PairwiseComparison `json:"comparisons,omitempty"`
	Ranking     []string                    `json:"ranking,omitempty"`
}

// Result carries the derived weights keyed by criterion id.
type Result struct {
	Method           models.WeightingMethod `json:"method"`
	Weights          map[string]float64     `json:"weights"`
	Criteria         []models.Criterion     `json:"criteria"`
	Matrix           Matrix                 `json:"matrix,omitempty"`
	ConsistencyRatio float64                `json:"consistencyRatio"`
	Consistent       bool                   `json:"consistent"`
	Balanced         bool                   `json:"balanced"`
}

// Calculate derives weights with the requested method. An empty criteria
// list falls back to DefaultCriteria.
func Calculate(req Request) (Result, error) {
	criteria := req.Criteria
	if len(criteria) == 0 {
		criteria = DefaultCriteria()
	}
	if len(criteria) == 0 {
		return Result{}, ErrNoCriteria
	}

	ids := make([]string, len(criteria))
	known := make(map[string]bool, len(criteria))
	for i, c := range criteria {
		ids[i] = c.ID
		known[c.ID] = true
	}

	res := Result{Method: req.Method, Consistent: true}
	weights := make(map[string]float64, len(ids))

	switch req.Method {
	case models.WeightingDirect, "":
		res.Method = models.WeightingDirect
		raw := make([]float64, len(criteria))
		for i, c := range criteria {
			raw[i] = math.Max(c.Weight, 0)
		}
		for i, w := range Normalize(raw) {
			weights[ids[i]] = w
		}

	case models.WeightingRanking:
		seen := make(map[string]bool, len(req.Ranking))
		for _, id := range req.Ranking {
			if !known[id] {
				return Result{}, fmt.Errorf("%w: %s", ErrUnknownCriterion, id)
			}
			if seen[id] {
				return Result{}, fmt.Errorf("%w: %s", ErrDuplicateRank, id)
			}
			seen[id] = true
		}
		ranked := FromRanking(req.Ranking)
		for _, id := range ids {
			weights[id] = ranked[id]
		}

	case models.WeightingPairwise:
		for _, c := range req.Comparisons {
			if !known[c.A] || !known[c.B] {
				return Result{}, fmt.Errorf("%w: %s/%s", ErrUnknownCriterion, c.A, c.B)
			}
		}
		m := BuildMatrix(ids, req.Comparisons)
		w := Weights(m)
		for i, id := range ids {
			weights[id] = w[i]
		}
		res.Matrix = m
		res.ConsistencyRatio = ConsistencyRatio(m, w)
		res.Consistent = Consistent(res.ConsistencyRatio)

	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownMethod, req.Method)
	}

	res.Weights = weights
	res.Balanced = Balanced(weights)
	res.Criteria = make([]models.Criterion, len(criteria))
	for i, c := range criteria {
		c.Weight = weights[c.ID]
		res.Criteria[i] = c
	}
	return res, nil
}
