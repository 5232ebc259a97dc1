// internal/dataset/coerce.go
package dataset

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"data-workers/internal/models"
)

// ToText renders a cell the way it would appear in a sheet.
func ToText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case []string:
		return strings.Join(t, ", ")
	case []interface{}:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = ToText(e)
		}
		return strings.Join(parts, ", ")
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// IsEmpty is true for nil, blank strings and empty lists.
func IsEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []interface{}:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

// ToNumber coerces a cell to float64. Anything non-numeric yields NaN.
func ToNumber(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

// IsNumber reports whether ToNumber yields a finite value.
func IsNumber(v interface{}) bool {
	f := ToNumber(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ToList reads a list cell: an array, a JSON array string, or a comma list.
// Tokens are trimmed and empty tokens dropped.
func ToList(v interface{}) []string {
	var raw []string
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		raw = t
	case []interface{}:
		raw = make([]string, len(t))
		for i, e := range t {
			raw[i] = ToText(e)
		}
	default:
		s := strings.TrimSpace(ToText(t))
		if strings.HasPrefix(s, "[") {
			var arr []interface{}
			if err := json.Unmarshal([]byte(s), &arr); err == nil {
				return ToList(arr)
			}
		}
		raw = strings.Split(s, ",")
	}

	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

var (
	rangePattern = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)
	listPattern  = regexp.MustCompile(`^\d+(\s*,\s*\d+)*$`)
)

// MaxPhase bounds phase numbers. Larger values make a cell invalid.
const MaxPhase = 1000

// ParsePhaseRange parses "start-end", "1,3,5" or "[1,3,5]". Numbers and
// numeric arrays are accepted as-is. Anything else, including a phase above
// MaxPhase, yields an empty slice.
func ParsePhaseRange(v interface{}) []int {
	switch t := v.(type) {
	case nil:
		return []int{}
	case []int:
		return append([]int{}, t...)
	case []interface{}:
		return phasesFromArray(t)
	case float64, int, int64, json.Number:
		f := ToNumber(t)
		if !validPhase(f) {
			return []int{}
		}
		return []int{int(f)}
	}

	s := strings.TrimSpace(ToText(v))
	switch {
	case s == "":
		return []int{}
	case rangePattern.MatchString(s):
		m := rangePattern.FindStringSubmatch(s)
		start, err1 := strconv.Atoi(m[1])
		end, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil || start > end || end > MaxPhase {
			return []int{}
		}
		out := make([]int, 0, end-start+1)
		for p := start; p <= end; p++ {
			out = append(out, p)
		}
		return out
	case listPattern.MatchString(s):
		parts := strings.Split(s, ",")
		out := make([]int, 0, len(parts))
		for _, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || n > MaxPhase {
				return []int{}
			}
			out = append(out, n)
		}
		return out
	case strings.HasPrefix(s, "["):
		var arr []interface{}
		if err := json.Unmarshal([]byte(s), &arr); err != nil {
			return []int{}
		}
		return phasesFromArray(arr)
	}
	return []int{}
}

func phasesFromArray(arr []interface{}) []int {
	out := make([]int, 0, len(arr))
	for _, e := range arr {
		f := ToNumber(e)
		if !validPhase(f) {
			return []int{}
		}
		out = append(out, int(f))
	}
	return out
}

func validPhase(f float64) bool {
	return !math.IsNaN(f) && f == math.Trunc(f) && f >= 0 && f <= MaxPhase
}

// FindColumn resolves the first candidate present in headers, exact match
// first, then ignoring case, whitespace, '_' and '-'.
func FindColumn(headers []string, candidates ...string) (string, bool) {
	for _, c := range candidates {
		for _, h := range headers {
			if h == c {
				return h, true
			}
		}
	}
	for _, c := range candidates {
		nc := normalizeHeader(c)
		for _, h := range headers {
			if normalizeHeader(h) == nc {
				return h, true
			}
		}
	}
	return "", false
}

// Columns returns the headers of ds, falling back to the keys of its rows.
func Columns(ds *models.Dataset) []string {
	if ds == nil {
		return nil
	}
	if len(ds.Headers) > 0 {
		return ds.Headers
	}
	return RowKeys(ds.Rows)
}

// RowKeys collects every key used by rows, in first-seen order.
func RowKeys(rows []models.Record) []string {
	seen := map[string]bool{}
	var keys []string
	for _, r := range rows {
		for _, k := range sortedKeys(r) {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}
