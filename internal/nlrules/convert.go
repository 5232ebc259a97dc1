// Package nlrules turns free-text sentences into business rules and proposes
// rules from the data itself.
package nlrules

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"data-workers/internal/models"

	"github.com/google/uuid"
)

// ParsedRule is a candidate rule with how sure the parser is and whether it
// can be applied to the current data.
type ParsedRule struct {
	Type        models.RuleType   `json:"type"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  models.Parameters `json:"parameters"`
	Confidence  float64           `json:"confidence"`
	CanApply    bool              `json:"canApply"`
	Reason      string            `json:"reason,omitempty"`
}

const (
	slotConfidence         = 0.8
	loadConfidence         = 0.85
	ungroupedConfidence    = 0.6
	phaseWindowConfidence  = 0.8
	patternMatchConfidence = 0.6
	precedenceConfidence   = 0.7
	defaultRulePriority    = 3
	defaultMinCommonSlots  = 1
	defaultPatternTemplate = "default"
)

type family func(text string, d Data) *ParsedRule

// families is evaluated in models.RuleTypes order.
var families = []family{
	parseCoRun,
	parseSlotRestriction,
	parseLoadLimit,
	parsePhaseWindow,
	parsePatternMatch,
	parsePrecedenceOverride,
}

// Convert evaluates every family and keeps the highest-confidence candidate,
// the earliest on ties. The winner is then checked against d. Convert
// returns nil when no family matches.
func Convert(text string, d Data) *ParsedRule {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var best *ParsedRule
	for _, f := range families {
		candidate := f(text, d)
		if candidate == nil {
			continue
		}
		if best == nil || candidate.Confidence > best.Confidence {
			best = candidate
		}
	}
	if best == nil {
		return nil
	}

	best.Description = text
	Revalidate(best, d)
	return best
}

// Revalidate confirms the rule's references exist in d. It sets CanApply and
// Reason in place.
func Revalidate(r *ParsedRule, d Data) {
	r.CanApply, r.Reason = true, ""

	switch p := r.Parameters.(type) {
	case models.CoRunParams:
		var missing []string
		for _, id := range p.Tasks {
			if !d.hasTask(id) {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			r.CanApply = false
			r.Reason = "Unknown task(s): " + strings.Join(missing, ", ")
		}
	case models.SlotRestrictionParams:
		switch {
		case p.Group == "":
			r.CanApply, r.Reason = false, "No group specified"
		case !d.hasGroup(p.GroupType, p.Group):
			r.CanApply, r.Reason = false, fmt.Sprintf("Unknown %s group: %s", p.GroupType, p.Group)
		}
	case models.LoadLimitParams:
		switch {
		case p.WorkerGroup == "":
			r.CanApply, r.Reason = false, "No worker group specified"
		case !d.hasGroup("worker", p.WorkerGroup):
			r.CanApply, r.Reason = false, "Unknown worker group: "+p.WorkerGroup
		case p.MaxSlotsPerPhase < 1:
			r.CanApply, r.Reason = false, "Max slots per phase must be at least 1"
		}
	case models.PhaseWindowParams:
		switch {
		case !d.hasTask(p.TaskID):
			r.CanApply, r.Reason = false, "Unknown task: "+p.TaskID
		case len(p.AllowedPhases) == 0:
			r.CanApply, r.Reason = false, "No phases specified"
		}
	case models.PatternMatchParams:
		if _, err := regexp.Compile(p.Regex); err != nil {
			r.CanApply, r.Reason = false, "Invalid regex: "+err.Error()
		}
	case models.PrecedenceOverrideParams:
		if len(p.PriorityOrder) == 0 {
			r.CanApply, r.Reason = false, "No precedence order specified"
		}
	default:
		r.CanApply, r.Reason = false, "Unsupported rule"
	}
}

// ToRule materializes an accepted parse as a stored rule.
func ToRule(p *ParsedRule) models.BusinessRule {
	now := time.Now().UTC()
	return models.BusinessRule{
		ID:          uuid.NewString(),
		Name:        p.Name,
		Description: p.Description,
		Priority:    defaultRulePriority,
		Enabled:     true,
		Parameters:  p.Parameters,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func newParsed(params models.Parameters, name string, confidence float64) *ParsedRule {
	return &ParsedRule{
		Type:       params.RuleType(),
		Name:       name,
		Parameters: params,
		Confidence: confidence,
	}
}

// ==========================
// Families
// ==========================

var coRunPattern = regexp.MustCompile(`(?i)\b(?:run|execute|schedule|scheduled|happen)\s+together\b|\bco-?run\b|\bsame\s+(?:phase|time)\b|\btogether\b`)

func parseCoRun(text string, d Data) *ParsedRule {
	if !coRunPattern.MatchString(text) {
		return nil
	}
	tasks := ExtractTaskIDs(text, d)
	if len(tasks) < 2 {
		return nil
	}
	confidence := math.Min(0.9, 0.5+0.1*float64(len(tasks)))
	return newParsed(models.CoRunParams{Tasks: tasks}, "Co-run: "+strings.Join(tasks, ", "), confidence)
}

var (
	slotPattern    = regexp.MustCompile(`(?i)\b(?:common|shared|share|overlapping)\s+(?:slots?|phases?)\b|\bslot\s+restriction\b|\bslots?\s+in\s+common\b`)
	minSlotPattern = regexp.MustCompile(`(?i)(?:at least|minimum(?:\s+of)?|min)\s+(\d+)|(\d+)\s+(?:common|shared|overlapping)\s+(?:slots?|phases?)`)
)

func parseSlotRestriction(text string, d Data) *ParsedRule {
	if !slotPattern.MatchString(text) {
		return nil
	}
	groupType := "client"
	if strings.Contains(strings.ToLower(text), "worker") {
		groupType = "worker"
	}
	minSlots, ok := ExtractInt(text, minSlotPattern)
	if !ok {
		minSlots = defaultMinCommonSlots
	}
	group := ExtractGroup(text, groupType, d)

	confidence := slotConfidence
	if group == "" {
		confidence = ungroupedConfidence
	}
	params := models.SlotRestrictionParams{GroupType: groupType, Group: group, MinCommonSlots: minSlots}
	return newParsed(params, "Slot restriction: "+displayGroup(group), confidence)
}

var (
	loadPattern = regexp.MustCompile(`(?i)(?:max(?:imum)?|at most|no more than|limit(?:ed)?(?:\s+to)?|cap(?:ped)?(?:\s+at)?)\s+(\d+)\s+(?:slots?|tasks?)\s*(?:per|each|a|in\s+any)\s+phase\b`)
	loadNamed   = regexp.MustCompile(`(?i)\bload\s+limit(?:\s+of)?\s+(\d+)`)
)

func parseLoadLimit(text string, d Data) *ParsedRule {
	limit, ok := ExtractInt(text, loadPattern)
	if !ok {
		if limit, ok = ExtractInt(text, loadNamed); !ok {
			return nil
		}
	}
	group := ExtractGroup(text, "worker", d)

	confidence := loadConfidence
	if group == "" {
		confidence = ungroupedConfidence
	}
	params := models.LoadLimitParams{WorkerGroup: group, MaxSlotsPerPhase: limit}
	return newParsed(params, "Load limit: "+displayGroup(group), confidence)
}

var phaseWindowPattern = regexp.MustCompile(`(?i)\b(?:only\s+)?(?:in|during|within|between)\s+phases?\s+\d+|\bphase\s+window\b`)

func parsePhaseWindow(text string, d Data) *ParsedRule {
	if !phaseWindowPattern.MatchString(text) {
		return nil
	}
	tasks := ExtractTaskIDs(text, d)
	if len(tasks) == 0 {
		return nil
	}
	phases := ExtractPhases(text)
	if len(phases) == 0 {
		return nil
	}
	params := models.PhaseWindowParams{TaskID: tasks[0], AllowedPhases: phases}
	return newParsed(params, "Phase window: "+tasks[0], phaseWindowConfidence)
}

var (
	regexPattern    = regexp.MustCompile(`(?i)\b(?:matching|matches|match|pattern|regex)\s+(?:"([^"]+)"|'([^']+)'|/([^/]+)/|(\S+))`)
	templatePattern = regexp.MustCompile(`(?i)\btemplate\s+["']?([\w-]+)|\b(?:apply|use)\s+["']?([\w-]+)["']?\s+template\b`)
)

func parsePatternMatch(text string, _ Data) *ParsedRule {
	m := regexPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	expr := firstNonEmpty(m[1:]...)
	template := defaultPatternTemplate
	if t := templatePattern.FindStringSubmatch(text); t != nil {
		template = firstNonEmpty(t[1:]...)
	}
	params := models.PatternMatchParams{Regex: expr, Template: template}
	return newParsed(params, "Pattern match: "+expr, patternMatchConfidence)
}

var (
	precedencePattern = regexp.MustCompile(`(?i)\b(?:precedence|override|overrides|takes?\s+priority|priority\s+over)\b`)
	ruleTypeMentions  = []struct {
		pattern *regexp.Regexp
		name    string
	}{
		{regexp.MustCompile(`(?i)\bco-?run\b`), string(models.RuleCoRun)},
		{regexp.MustCompile(`(?i)\bslot\s*restrictions?\b`), string(models.RuleSlotRestriction)},
		{regexp.MustCompile(`(?i)\bload\s*limits?\b`), string(models.RuleLoadLimit)},
		{regexp.MustCompile(`(?i)\bphase\s*windows?\b`), string(models.RulePhaseWindow)},
		{regexp.MustCompile(`(?i)\bpattern\s*match(?:es)?\b`), string(models.RulePatternMatch)},
		{regexp.MustCompile(`(?i)\bspecific\b`), "specific"},
		{regexp.MustCompile(`(?i)\bglobal\b`), "global"},
	}
)

func parsePrecedenceOverride(text string, d Data) *ParsedRule {
	if !precedencePattern.MatchString(text) {
		return nil
	}

	type mention struct {
		pos  int
		name string
	}
	var mentions []mention
	for _, rt := range ruleTypeMentions {
		if loc := rt.pattern.FindStringIndex(text); loc != nil {
			mentions = append(mentions, mention{loc[0], rt.name})
		}
	}
	sort.SliceStable(mentions, func(i, j int) bool { return mentions[i].pos < mentions[j].pos })

	order := make([]string, 0, len(mentions))
	var global []string
	for _, m := range mentions {
		order = append(order, m.name)
		if m.name != "specific" && m.name != "global" {
			global = append(global, m.name)
		}
	}
	if len(order) == 0 {
		order = []string{"specific", "global"}
	}

	params := models.PrecedenceOverrideParams{
		Global:        global,
		Specific:      ExtractTaskIDs(text, d),
		PriorityOrder: order,
	}
	return newParsed(params, "Precedence override", precedenceConfidence)
}

func displayGroup(g string) string {
	if g == "" {
		return "unspecified group"
	}
	return g
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
