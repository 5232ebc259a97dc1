// internal/nlrules/extract.go
package nlrules

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"data-workers/internal/dataset"
	"data-workers/internal/models"
)

// Data is the live collections a sentence is resolved against.
type Data struct {
	Clients []models.Record
	Workers []models.Record
	Tasks   []models.Record
}

// FromDatasets builds Data from whichever datasets are present.
func FromDatasets(clients, workers, tasks *models.Dataset) Data {
	var d Data
	if clients != nil {
		d.Clients = clients.Rows
	}
	if workers != nil {
		d.Workers = workers.Rows
	}
	if tasks != nil {
		d.Tasks = tasks.Rows
	}
	return d
}

func column(rows []models.Record, names ...string) (string, bool) {
	return dataset.FindColumn(dataset.RowKeys(rows), names...)
}

func values(rows []models.Record, names ...string) []string {
	col, ok := column(rows, names...)
	if !ok {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, r := range rows {
		v := strings.TrimSpace(dataset.ToText(r[col]))
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// TaskIDs returns the known task ids in row order.
func (d Data) TaskIDs() []string {
	return values(d.Tasks, "taskId")
}

func (d Data) hasTask(id string) bool {
	for _, known := range d.TaskIDs() {
		if strings.EqualFold(known, id) {
			return true
		}
	}
	return false
}

// Groups returns the distinct group values of the client or worker sheet.
func (d Data) Groups(groupType string) []string {
	if groupType == "worker" {
		return values(d.Workers, "workerGroup")
	}
	return values(d.Clients, "groupTag")
}

func (d Data) hasGroup(groupType, group string) bool {
	for _, g := range d.Groups(groupType) {
		if strings.EqualFold(g, group) {
			return true
		}
	}
	return false
}

var (
	wordPattern     = regexp.MustCompile(`[A-Za-z0-9_-]+`)
	idShapedPattern = regexp.MustCompile(`^[A-Z]{1,3}\d+$`)
)

// ExtractTaskIDs finds task references in text: tokens equal to a known id
// or single-word name, multi-word names contained in the text, and any
// id-shaped token such as T12 even when it is unknown. Order follows the
// text; duplicates are dropped.
func ExtractTaskIDs(text string, d Data) []string {
	idCol, _ := column(d.Tasks, "taskId")
	nameCol, hasNames := column(d.Tasks, "taskName")

	byID := map[string]string{}
	byName := map[string]string{}
	var multiWord []struct{ name, id string }
	for _, r := range d.Tasks {
		id := strings.TrimSpace(dataset.ToText(r[idCol]))
		if id == "" {
			continue
		}
		byID[strings.ToLower(id)] = id
		if !hasNames {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(dataset.ToText(r[nameCol])))
		switch {
		case name == "":
		case strings.ContainsAny(name, " \t"):
			multiWord = append(multiWord, struct{ name, id string }{name, id})
		default:
			byName[name] = id
		}
	}

	type hit struct {
		pos int
		id  string
	}
	var hits []hit
	lower := strings.ToLower(text)
	for _, loc := range wordPattern.FindAllStringIndex(text, -1) {
		tok := text[loc[0]:loc[1]]
		key := strings.ToLower(tok)
		switch {
		case byID[key] != "":
			hits = append(hits, hit{loc[0], byID[key]})
		case byName[key] != "":
			hits = append(hits, hit{loc[0], byName[key]})
		case idShapedPattern.MatchString(tok):
			hits = append(hits, hit{loc[0], tok})
		}
	}
	for _, mw := range multiWord {
		if pos := strings.Index(lower, mw.name); pos >= 0 {
			hits = append(hits, hit{pos, mw.id})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	seen := map[string]bool{}
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		if !seen[h.id] {
			seen[h.id] = true
			out = append(out, h.id)
		}
	}
	return out
}

var groupWordPattern = regexp.MustCompile(`(?i)\bgroup\s+["']?([\w-]+)`)

// ExtractGroup finds a group name: a token equal to a known group, a known
// group contained in the text, else the word following "group".
func ExtractGroup(text, groupType string, d Data) string {
	known := d.Groups(groupType)
	for _, tok := range wordPattern.FindAllString(text, -1) {
		for _, g := range known {
			if strings.EqualFold(tok, g) {
				return g
			}
		}
	}
	lower := strings.ToLower(text)
	for _, g := range known {
		if strings.Contains(lower, strings.ToLower(g)) {
			return g
		}
	}
	if m := groupWordPattern.FindStringSubmatch(text); m != nil {
		if w := strings.ToLower(m[1]); w != "of" && w != "is" && w != "the" {
			return m[1]
		}
	}
	return ""
}

var (
	phaseRangePattern = regexp.MustCompile(`(?i)phases?\s+(\d+)\s*(?:-|to|through)\s*(\d+)`)
	phaseListPattern  = regexp.MustCompile(`(?i)phases?\s+(\d+(?:\s*(?:,|and|or)\s*\d+)*)`)
	intPattern        = regexp.MustCompile(`\d+`)
)

// ExtractPhases reads "phases 1-3", "phases 1 to 3", "phases 1, 2 and 4" or
// "phase 2".
func ExtractPhases(text string) []int {
	if m := phaseRangePattern.FindStringSubmatch(text); m != nil {
		return dataset.ParsePhaseRange(m[1] + "-" + m[2])
	}
	if m := phaseListPattern.FindStringSubmatch(text); m != nil {
		var out []int
		for _, n := range intPattern.FindAllString(m[1], -1) {
			v, err := strconv.Atoi(n)
			if err != nil || v > dataset.MaxPhase {
				return []int{}
			}
			out = append(out, v)
		}
		return out
	}
	return []int{}
}

// ExtractInt returns the first non-empty group captured by pattern, or the
// first integer in text when pattern is nil.
func ExtractInt(text string, pattern *regexp.Regexp) (int, bool) {
	s := ""
	if pattern == nil {
		s = intPattern.FindString(text)
	} else if m := pattern.FindStringSubmatch(text); m != nil {
		s = firstNonEmpty(m[1:]...)
	}
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
