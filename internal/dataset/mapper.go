// internal/dataset/mapper.go
package dataset

import (
	"strings"
	"unicode"

	"data-workers/internal/models"
)

// normalizeHeader lowercases and drops whitespace, '_' and '-'.
func normalizeHeader(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// MapHeaders maps each uploaded header to its canonical field for kind.
// The first canonical field (in schema order) with a matching alias wins.
// Unmatched headers map to themselves, as do later headers that would
// claim a canonical field already taken.
func MapHeaders(headers []string, kind models.EntityKind) map[string]string {
	schema, ok := schemas[kind]
	mapping := make(map[string]string, len(headers))
	taken := make(map[string]bool)

	for _, h := range headers {
		mapping[h] = h
		if !ok {
			continue
		}
		norm := normalizeHeader(h)
	fields:
		for _, f := range schema.Fields {
			for _, alias := range f.Aliases {
				if normalizeHeader(alias) != norm {
					continue
				}
				if !taken[f.Name] {
					mapping[h] = f.Name
					taken[f.Name] = true
				}
				break fields
			}
		}
	}
	return mapping
}

// RemapRows returns new rows keyed by the mapped names, plus the mapped
// header list in original order.
func RemapRows(headers []string, rows []models.Record, mapping map[string]string) ([]string, []models.Record) {
	outHeaders := make([]string, len(headers))
	for i, h := range headers {
		outHeaders[i] = mapping[h]
		if outHeaders[i] == "" {
			outHeaders[i] = h
		}
	}

	out := make([]models.Record, len(rows))
	for i, row := range rows {
		next := make(models.Record, len(row))
		for k, v := range row {
			if canonical, ok := mapping[k]; ok && canonical != "" {
				next[canonical] = v
				continue
			}
			next[k] = v
		}
		out[i] = next
	}
	return outHeaders, out
}

// DetectKind guesses the entity kind from raw headers. For every schema it
// counts canonical fields with at least one alias contained in some header;
// the strict maximum wins. A zero maximum or a tie returns false.
func DetectKind(headers []string) (models.EntityKind, bool) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	best, runnerUp := -1, -1
	var bestKind models.EntityKind
	for _, kind := range models.EntityKinds {
		score := scoreSchema(schemas[kind], normalized)
		switch {
		case score > best:
			runnerUp = best
			best, bestKind = score, kind
		case score > runnerUp:
			runnerUp = score
		}
	}

	if best <= 0 || best == runnerUp {
		return "", false
	}
	return bestKind, true
}

// DetectionScores exposes the per-kind counts DetectKind compares.
func DetectionScores(headers []string) map[models.EntityKind]int {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}
	scores := make(map[models.EntityKind]int, len(models.EntityKinds))
	for _, kind := range models.EntityKinds {
		scores[kind] = scoreSchema(schemas[kind], normalized)
	}
	return scores
}

func scoreSchema(schema Schema, normalizedHeaders []string) int {
	score := 0
	for _, f := range schema.Fields {
		if fieldPresent(f, normalizedHeaders) {
			score++
		}
	}
	return score
}

func fieldPresent(f Field, normalizedHeaders []string) bool {
	for _, alias := range f.Aliases {
		a := normalizeHeader(alias)
		for _, h := range normalizedHeaders {
			if strings.Contains(h, a) {
				return true
			}
		}
	}
	return false
}

// Canonicalize maps headers and rows for kind in one step.
func Canonicalize(headers []string, rows []models.Record, kind models.EntityKind) ([]string, []models.Record) {
	return RemapRows(headers, rows, MapHeaders(headers, kind))
}
