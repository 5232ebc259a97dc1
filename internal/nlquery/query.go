// Package nlquery turns a typed sentence into a conjunction of column
// conditions and filters rows with it.
package nlquery

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"data-workers/internal/dataset"
	"data-workers/internal/models"
)

type Operator string

const (
	OpGreater  Operator = ">"
	OpLess     Operator = "<"
	OpEquals   Operator = "="
	OpIncludes Operator = "includes"
)

// Condition is one column test. Value is float64 for numeric comparisons and
// string otherwise.
type Condition struct {
	Column   string      `json:"column"`
	Operator Operator    `json:"operator"`
	Value    interface{} `json:"value"`
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %s", c.Column, c.Operator, dataset.ToText(c.Value))
}

// Result is the outcome of Filter.
type Result struct {
	Indices     []int       `json:"indices"`
	Conditions  []Condition `json:"conditions"`
	Explanation string      `json:"explanation"`
}

const num = `(\d+(?:\.\d+)?)`

var (
	durationGreater = regexp.MustCompile(`(?i)duration\s+(?:is\s+)?(?:more than|greater than|longer than|over|above|>)\s*` + num)
	durationLess    = regexp.MustCompile(`(?i)duration\s+(?:is\s+)?(?:less than|shorter than|under|below|<)\s*` + num)
	priorityGreater = regexp.MustCompile(`(?i)priority(?:\s+level)?\s+(?:is\s+)?(?:more than|greater than|higher than|above|over|>)\s*` + num)
	priorityLess    = regexp.MustCompile(`(?i)priority(?:\s+level)?\s+(?:is\s+)?(?:less than|lower than|below|under|<)\s*` + num)
	priorityEquals  = regexp.MustCompile(`(?i)priority(?:\s+level)?\s+(?:is\s+|of\s+|equals?\s+|=\s*)?` + num)
	phaseIncludes   = regexp.MustCompile(`(?i)phase\s*(\d+)`)
	skillsAfter     = regexp.MustCompile(`(?i)skills?\s+(?:include|includes|including|like|in|with|:)\s*([^.;]+)`)
	skillsBefore    = regexp.MustCompile(`(?i)(?:with|having|has|know|knows)\s+([a-z0-9+#/\s,-]+?)\s+skills?\b`)
	roleEquals      = regexp.MustCompile(`(?i)role\s+(?:is\s+|of\s+|equals?\s+|=\s*)?["']?([a-z][\w-]*)`)
	groupEquals     = regexp.MustCompile(`(?i)group\s+(?:is\s+|of\s+|equals?\s+|=\s*)?["']?([a-z0-9][\w-]*)`)
	categoryEquals  = regexp.MustCompile(`(?i)category\s+(?:is\s+|of\s+|equals?\s+|=\s*)?["']?([a-z][\w-]*)`)

	// Skill lists stop at the next recognized clause.
	clauseBoundary = regexp.MustCompile(`(?i)(?:^|\s+)(?:and\s+)?(?:priority|duration|phase|group|role|category)\b`)
	tokenSplit     = regexp.MustCompile(`(?i)\s*(?:,|\band\b|\bor\b)\s*`)
)

var groupShortcuts = []struct {
	pattern *regexp.Regexp
	group   string
}{
	{regexp.MustCompile(`(?i)\benterprise\b`), "Enterprise"},
	{regexp.MustCompile(`(?i)\bstartups?\b`), "Startup"},
	{regexp.MustCompile(`(?i)\bsmall\b`), "Small"},
}

var skillStopwords = map[string]bool{"the": true, "a": true, "an": true, "any": true, "skill": true, "skills": true}

type columnCandidates []string

var (
	durationColumn = columnCandidates{"duration"}
	priorityColumn = columnCandidates{"priorityLevel", "priority"}
	phaseColumn    = columnCandidates{"preferredPhases", "availableSlots", "phases"}
	skillsColumn   = columnCandidates{"skills", "requiredSkills"}
	roleColumn     = columnCandidates{"role"}
	groupColumn    = columnCandidates{"groupTag", "workerGroup", "group"}
	categoryColumn = columnCandidates{"category"}
)

// resolve picks the first candidate present in headers, or the first
// candidate when none is.
func (c columnCandidates) resolve(headers []string) string {
	if col, ok := dataset.FindColumn(headers, c...); ok {
		return col
	}
	return c[0]
}

// Parse extracts conditions in a fixed order. Priority equality is only
// considered when no priority comparison matched, and the group keyword
// shortcuts only when no explicit group was named.
func Parse(text string, headers []string) []Condition {
	conds := make([]Condition, 0)
	add := func(cols columnCandidates, op Operator, v interface{}) {
		conds = append(conds, Condition{Column: cols.resolve(headers), Operator: op, Value: v})
	}

	if m := durationGreater.FindStringSubmatch(text); m != nil {
		add(durationColumn, OpGreater, parseNum(m[1]))
	}
	if m := durationLess.FindStringSubmatch(text); m != nil {
		add(durationColumn, OpLess, parseNum(m[1]))
	}

	priorityMatched := false
	if m := priorityGreater.FindStringSubmatch(text); m != nil {
		add(priorityColumn, OpGreater, parseNum(m[1]))
		priorityMatched = true
	}
	if m := priorityLess.FindStringSubmatch(text); m != nil {
		add(priorityColumn, OpLess, parseNum(m[1]))
		priorityMatched = true
	}
	if !priorityMatched {
		if m := priorityEquals.FindStringSubmatch(text); m != nil {
			add(priorityColumn, OpEquals, parseNum(m[1]))
		}
	}

	if m := phaseIncludes.FindStringSubmatch(text); m != nil {
		add(phaseColumn, OpIncludes, m[1])
	}

	for _, skill := range extractSkills(text) {
		add(skillsColumn, OpIncludes, skill)
	}

	if m := roleEquals.FindStringSubmatch(text); m != nil {
		add(roleColumn, OpEquals, m[1])
	}

	if m := groupEquals.FindStringSubmatch(text); m != nil {
		add(groupColumn, OpEquals, m[1])
	} else {
		for _, s := range groupShortcuts {
			if s.pattern.MatchString(text) {
				add(groupColumn, OpEquals, s.group)
				break
			}
		}
	}

	if m := categoryEquals.FindStringSubmatch(text); m != nil {
		add(categoryColumn, OpEquals, m[1])
	}

	return conds
}

func parseNum(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func extractSkills(text string) []string {
	var raw string
	if m := skillsAfter.FindStringSubmatch(text); m != nil {
		raw = m[1]
	} else if m := skillsBefore.FindStringSubmatch(text); m != nil {
		raw = m[1]
	} else {
		return nil
	}

	if loc := clauseBoundary.FindStringIndex(raw); loc != nil {
		raw = raw[:loc[0]]
	}

	var out []string
	for _, tok := range tokenSplit.Split(raw, -1) {
		tok = strings.TrimSpace(tok)
		if tok == "" || skillStopwords[strings.ToLower(tok)] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// MatchesCondition tests one row. Comparisons coerce the cell to a number and
// fail on NaN. Equality compares the canonical text form, numerically when
// both sides are numbers. Includes accepts arrays, JSON array strings, and
// otherwise falls back to a case-insensitive substring test.
func MatchesCondition(row models.Record, c Condition) bool {
	cell := row[c.Column]

	switch c.Operator {
	case OpGreater, OpLess:
		n, target := dataset.ToNumber(cell), dataset.ToNumber(c.Value)
		if math.IsNaN(n) || math.IsNaN(target) {
			return false
		}
		if c.Operator == OpGreater {
			return n > target
		}
		return n < target

	case OpEquals:
		if dataset.IsNumber(cell) && dataset.IsNumber(c.Value) {
			return dataset.ToNumber(cell) == dataset.ToNumber(c.Value)
		}
		return cell != nil && dataset.ToText(cell) == dataset.ToText(c.Value)

	case OpIncludes:
		want := strings.ToLower(strings.TrimSpace(dataset.ToText(c.Value)))
		if want == "" {
			return false
		}
		if items, ok := asArray(cell); ok {
			for _, item := range items {
				if strings.ToLower(strings.TrimSpace(dataset.ToText(item))) == want {
					return true
				}
			}
			return false
		}
		return strings.Contains(strings.ToLower(dataset.ToText(cell)), want)
	}
	return false
}

func asArray(v interface{}) ([]interface{}, bool) {
	switch t := v.(type) {
	case []interface{}:
		return t, true
	case []string:
		out := make([]interface{}, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case string:
		s := strings.TrimSpace(t)
		if !strings.HasPrefix(s, "[") {
			return nil, false
		}
		var arr []interface{}
		if err := json.Unmarshal([]byte(s), &arr); err != nil {
			return nil, false
		}
		return arr, true
	}
	return nil, false
}

// Filter parses text and returns the indices of rows matching every
// condition. Text with no recognized condition matches every row.
func Filter(rows []models.Record, headers []string, text string) Result {
	conds := Parse(text, headers)

	indices := make([]int, 0, len(rows))
	for i, row := range rows {
		if matchesAll(row, conds) {
			indices = append(indices, i)
		}
	}

	return Result{
		Indices:     indices,
		Conditions:  conds,
		Explanation: explain(len(indices), len(rows), conds),
	}
}

// FilterDataset is Filter over a dataset.
func FilterDataset(ds *models.Dataset, text string) Result {
	if ds == nil {
		return Filter(nil, nil, text)
	}
	return Filter(ds.Rows, dataset.Columns(ds), text)
}

func matchesAll(row models.Record, conds []Condition) bool {
	for _, c := range conds {
		if !MatchesCondition(row, c) {
			return false
		}
	}
	return true
}

func explain(matched, total int, conds []Condition) string {
	if len(conds) == 0 {
		return fmt.Sprintf("No filter conditions recognized; showing all %d records", total)
	}
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = c.String()
	}
	return fmt.Sprintf("Found %d of %d records where %s", matched, total, strings.Join(parts, " AND "))
}
