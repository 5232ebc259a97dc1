// internal/nlrules/recommend.go
package nlrules

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"data-workers/internal/dataset"
	"data-workers/internal/models"
)

const (
	minCoRequests     = 2
	loadRecConfidence = 0.75
)

// Recommend proposes rules from the data: co-run rules for task pairs that at
// least two clients request together, and a load limit per worker group
// taken from the group's smallest maxLoadPerPhase.
func Recommend(d Data) []ParsedRule {
	out := make([]ParsedRule, 0)
	out = append(out, recommendCoRun(d)...)
	out = append(out, recommendLoadLimits(d)...)
	return out
}

func recommendCoRun(d Data) []ParsedRule {
	col, ok := column(d.Clients, "requestedTaskIds")
	if !ok {
		return nil
	}

	type pair struct{ a, b string }
	counts := map[pair]int{}
	for _, client := range d.Clients {
		tasks := uniqueSorted(dataset.ToList(client[col]))
		for i := 0; i < len(tasks); i++ {
			for j := i + 1; j < len(tasks); j++ {
				counts[pair{tasks[i], tasks[j]}]++
			}
		}
	}

	pairs := make([]pair, 0, len(counts))
	for p, n := range counts {
		if n >= minCoRequests {
			pairs = append(pairs, p)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if counts[pairs[i]] != counts[pairs[j]] {
			return counts[pairs[i]] > counts[pairs[j]]
		}
		if pairs[i].a != pairs[j].a {
			return pairs[i].a < pairs[j].a
		}
		return pairs[i].b < pairs[j].b
	})

	out := make([]ParsedRule, 0, len(pairs))
	for _, p := range pairs {
		n := counts[p]
		r := ParsedRule{
			Type:        models.RuleCoRun,
			Name:        fmt.Sprintf("Co-run: %s, %s", p.a, p.b),
			Description: fmt.Sprintf("%d clients request %s and %s together", n, p.a, p.b),
			Parameters:  models.CoRunParams{Tasks: []string{p.a, p.b}},
			Confidence:  math.Min(0.9, 0.5+0.1*float64(n)),
		}
		Revalidate(&r, d)
		out = append(out, r)
	}
	return out
}

func recommendLoadLimits(d Data) []ParsedRule {
	groupCol, ok := column(d.Workers, "workerGroup")
	if !ok {
		return nil
	}
	loadCol, ok := column(d.Workers, "maxLoadPerPhase")
	if !ok {
		return nil
	}

	minLoad := map[string]int{}
	for _, w := range d.Workers {
		group := strings.TrimSpace(dataset.ToText(w[groupCol]))
		load := dataset.ToNumber(w[loadCol])
		if group == "" || math.IsNaN(load) || load < 1 {
			continue
		}
		if cur, seen := minLoad[group]; !seen || int(load) < cur {
			minLoad[group] = int(load)
		}
	}

	groups := make([]string, 0, len(minLoad))
	for g := range minLoad {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	out := make([]ParsedRule, 0, len(groups))
	for _, g := range groups {
		r := ParsedRule{
			Type:        models.RuleLoadLimit,
			Name:        "Load limit: " + g,
			Description: fmt.Sprintf("Workers in %s take at most %d slots per phase", g, minLoad[g]),
			Parameters:  models.LoadLimitParams{WorkerGroup: g, MaxSlotsPerPhase: minLoad[g]},
			Confidence:  loadRecConfidence,
		}
		Revalidate(&r, d)
		out = append(out, r)
	}
	return out
}

func uniqueSorted(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
