// Package corrections proposes rule-based cell fixes and merges the accepted
// ones into a copy of the rows.
package corrections

import (
	"fmt"
	"strings"

	"data-workers/internal/common/validation"
	"data-workers/internal/dataset"
	"data-workers/internal/models"

	"github.com/google/uuid"
)

const (
	emailConfidence    = 0.9
	phoneConfidence    = 0.95
	skillsConfidence   = 0.8
	durationConfidence = 0.7
)

// Rule scans rows for one fixable pattern.
type Rule func(rows []models.Record, headers []string) []models.Suggestion

// Rules is the ordered suggestion rule list.
var Rules = []Rule{
	emailTypos,
	phoneFormat,
	missingSkills,
	missingDuration,
}

// Suggest runs every rule over rows. Rows are never modified.
func Suggest(rows []models.Record, headers []string) []models.Suggestion {
	out := make([]models.Suggestion, 0)
	for _, rule := range Rules {
		out = append(out, rule(rows, headers)...)
	}
	return out
}

// SuggestDataset is Suggest over a dataset's rows and columns.
func SuggestDataset(ds *models.Dataset) []models.Suggestion {
	if ds == nil {
		return []models.Suggestion{}
	}
	return Suggest(ds.Rows, dataset.Columns(ds))
}

func newSuggestion(category models.SuggestionCategory, row int, col string, current, suggested interface{}) models.Suggestion {
	return models.Suggestion{
		ID:             uuid.NewString(),
		Category:       category,
		RowIndex:       row,
		Column:         col,
		CurrentValue:   current,
		SuggestedValue: suggested,
	}
}

// ==========================
// Email
// ==========================

var domainTypos = map[string]string{
	"gmial.com":   "gmail.com",
	"gmai.com":    "gmail.com",
	"gamil.com":   "gmail.com",
	"yahooo.com":  "yahoo.com",
	"yaho.com":    "yahoo.com",
	"hotmial.com": "hotmail.com",
	"hotmal.com":  "hotmail.com",
	"outlok.com":  "outlook.com",
}

var knownDomains = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com",
	"gmial.com", "gmai.com", "gamil.com", "yahooo.com", "yaho.com",
	"hotmial.com", "hotmal.com", "outlok.com",
}

// FixEmail lowercases, restores a missing '@' and repairs common domain
// typos. The second result is false when nothing usable came out.
func FixEmail(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}

	if !strings.Contains(s, "@") && strings.Contains(s, ".") {
		s = insertAt(s)
	}

	if at := strings.LastIndex(s, "@"); at >= 0 {
		if fixed, ok := domainTypos[s[at+1:]]; ok {
			s = s[:at+1] + fixed
		}
	}

	return s, validation.IsEmail(s)
}

func insertAt(s string) string {
	for _, d := range knownDomains {
		if strings.HasSuffix(s, d) && len(s) > len(d) {
			local := strings.TrimSuffix(strings.TrimSuffix(s, d), ".")
			if local != "" {
				return local + "@" + d
			}
		}
	}
	if strings.Count(s, ".") >= 2 {
		return strings.Replace(s, ".", "@", 1)
	}
	return s
}

func emailTypos(rows []models.Record, headers []string) []models.Suggestion {
	col, ok := dataset.FindColumn(headers, "email", "emailAddress", "contactEmail", "mail")
	if !ok {
		return nil
	}

	var out []models.Suggestion
	for i, row := range rows {
		current := dataset.ToText(row[col])
		if strings.TrimSpace(current) == "" {
			continue
		}
		fixed, valid := FixEmail(current)
		if !valid || fixed == current {
			continue
		}
		s := newSuggestion(models.SuggestionEmail, i, col, row[col], fixed)
		s.Confidence = emailConfidence
		s.AutoApply = true
		s.Reason = "Normalized email address and corrected common typos"
		out = append(out, s)
	}
	return out
}

// ==========================
// Phone
// ==========================

// FormatPhone reformats a ten digit number as (xxx) xxx-xxxx.
func FormatPhone(raw string) (string, bool) {
	d := validation.Digits(raw)
	if len(d) != 10 {
		return "", false
	}
	return fmt.Sprintf("(%s) %s-%s", d[:3], d[3:6], d[6:]), true
}

func phoneFormat(rows []models.Record, headers []string) []models.Suggestion {
	col, ok := dataset.FindColumn(headers, "phone", "phoneNumber", "mobile", "telephone", "contactPhone")
	if !ok {
		return nil
	}

	var out []models.Suggestion
	for i, row := range rows {
		current := dataset.ToText(row[col])
		formatted, ok := FormatPhone(current)
		if !ok || formatted == current {
			continue
		}
		s := newSuggestion(models.SuggestionPhone, i, col, row[col], formatted)
		s.Confidence = phoneConfidence
		s.AutoApply = true
		s.Reason = "Standardized phone number format"
		out = append(out, s)
	}
	return out
}

// ==========================
// Skills
// ==========================

type roleSkills struct {
	keyword string
	skills  []string
}

// roleTable is matched in order; more specific keywords come first.
var roleTable = []roleSkills{
	{"frontend", []string{"javascript", "react", "css"}},
	{"backend", []string{"go", "sql", "api design"}},
	{"full stack", []string{"javascript", "go", "sql"}},
	{"data scientist", []string{"python", "machine learning", "statistics"}},
	{"data analyst", []string{"sql", "excel", "data analysis"}},
	{"devops", []string{"docker", "kubernetes", "ci/cd"}},
	{"designer", []string{"ui design", "figma", "prototyping"}},
	{"tester", []string{"testing", "automation", "bug tracking"}},
	{"qa", []string{"testing", "automation", "bug tracking"}},
	{"project manager", []string{"planning", "communication", "risk management"}},
	{"manager", []string{"leadership", "planning", "communication"}},
	{"analyst", []string{"analysis", "excel", "reporting"}},
	{"developer", []string{"programming", "debugging", "git"}},
	{"engineer", []string{"programming", "debugging", "system design"}},
}

// SkillsForRole looks a role up in the role table.
func SkillsForRole(role string) ([]string, bool) {
	r := strings.ToLower(strings.TrimSpace(role))
	if r == "" {
		return nil, false
	}
	for _, entry := range roleTable {
		if strings.Contains(r, entry.keyword) {
			return entry.skills, true
		}
	}
	return nil, false
}

func missingSkills(rows []models.Record, headers []string) []models.Suggestion {
	skillsCol, ok := dataset.FindColumn(headers, "skills", "skillSet", "requiredSkills")
	if !ok {
		return nil
	}
	roleCol, ok := dataset.FindColumn(headers, "role", "position", "jobTitle", "title")
	if !ok {
		return nil
	}

	var out []models.Suggestion
	for i, row := range rows {
		if !dataset.IsEmpty(row[skillsCol]) {
			continue
		}
		role := dataset.ToText(row[roleCol])
		skills, ok := SkillsForRole(role)
		if !ok {
			continue
		}
		s := newSuggestion(models.SuggestionSkills, i, skillsCol, row[skillsCol], strings.Join(skills, ", "))
		s.Confidence = skillsConfidence
		s.Reason = fmt.Sprintf("Suggested skills based on role %q", role)
		out = append(out, s)
	}
	return out
}

// ==========================
// Duration
// ==========================

type durationKeyword struct {
	words  []string
	phases int
}

var durationTable = []durationKeyword{
	{[]string{"bug", "fix"}, 1},
	{[]string{"feature", "develop"}, 3},
	{[]string{"design"}, 2},
	{[]string{"research", "analysis"}, 2},
	{[]string{"test"}, 1},
	{[]string{"deploy"}, 1},
	{[]string{"refactor"}, 2},
	{[]string{"migration"}, 4},
}

const defaultDuration = 2

// EstimateDuration guesses a phase count from a task title. A priority of
// four or more adds one phase.
func EstimateDuration(title string, priority float64) int {
	t := strings.ToLower(title)
	estimate := defaultDuration
match:
	for _, k := range durationTable {
		for _, w := range k.words {
			if strings.Contains(t, w) {
				estimate = k.phases
				break match
			}
		}
	}
	if priority >= 4 {
		estimate++
	}
	return estimate
}

func missingDuration(rows []models.Record, headers []string) []models.Suggestion {
	durCol, ok := dataset.FindColumn(headers, "duration")
	if !ok {
		return nil
	}
	titleCol, ok := dataset.FindColumn(headers, "taskName", "title", "name")
	if !ok {
		return nil
	}
	priorityCol, hasPriority := dataset.FindColumn(headers, "priority", "priorityLevel")

	var out []models.Suggestion
	for i, row := range rows {
		if !dataset.IsEmpty(row[durCol]) {
			continue
		}
		priority := 0.0
		if hasPriority && dataset.IsNumber(row[priorityCol]) {
			priority = dataset.ToNumber(row[priorityCol])
		}
		title := dataset.ToText(row[titleCol])
		estimate := EstimateDuration(title, priority)

		s := newSuggestion(models.SuggestionDuration, i, durCol, row[durCol], float64(estimate))
		s.Confidence = durationConfidence
		s.Reason = fmt.Sprintf("Estimated %d phase(s) from task title %q", estimate, title)
		out = append(out, s)
	}
	return out
}
