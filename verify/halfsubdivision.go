package verify

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"vgbench/datagen"
)

// HalfSubdivision grades a neighbour-label answer: every leaf label that
// shares a boundary with the target, in any order, no duplicates. Accepted
// forms are a JSON or Python list of labels, or comma / newline separated
// tokens. The root leaf is written "" (or a literal pair of double quotes).
func HalfSubdivision(output string, rec *datagen.Record) Result {
	parsed, ok := parseLabelSequence(output)
	if !ok {
		return failure("parse_failure")
	}

	items, ok := anySlice(rec.GroundTruth)
	if !ok {
		return failure("ground_truth_not_list")
	}
	truth := make([]string, 0, len(items))
	for _, item := range items {
		label, ok := normaliseLabel(item)
		if !ok {
			return failure("invalid_ground_truth")
		}
		truth = append(truth, label)
	}

	return compareLabelSets(parsed, truth)
}

// normaliseLabel coerces one answer token into a leaf label. Integers and
// whole floats are read as bare binary strings, so an unquoted 101 still
// counts.
func normaliseLabel(token any) (string, bool) {
	var label string
	switch t := token.(type) {
	case string:
		label = strings.TrimSpace(t)
	case int:
		label = strconv.Itoa(t)
	case int64:
		label = strconv.FormatInt(t, 10)
	case float64:
		if t != math.Trunc(t) {
			return "", false
		}
		label = strconv.Itoa(int(t))
	default:
		return "", false
	}
	if label == "" || label == `""` {
		return "", true
	}
	for _, ch := range label {
		if ch != '0' && ch != '1' {
			return "", false
		}
	}
	return label, true
}

func parseLabelSequence(raw string) ([]string, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return []string{}, true
	}

	if parsed, err := ParseLiteral(text); err == nil {
		if items, ok := anySlice(parsed); ok {
			if labels, ok := labelsFrom(items); ok {
				return labels, true
			}
		}
	}

	// Fallback: comma or newline separated bare tokens.
	fields := strings.Split(strings.ReplaceAll(text, "\n", ","), ",")
	items := make([]any, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			items = append(items, f)
		}
	}
	if len(items) == 0 {
		return nil, false
	}
	return labelsFrom(items)
}

func labelsFrom(items []any) ([]string, bool) {
	seen := make(map[string]bool, len(items))
	labels := make([]string, 0, len(items))
	for _, item := range items {
		label, ok := normaliseLabel(item)
		if !ok || seen[label] {
			return nil, false
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels, true
}

func compareLabelSets(pred, truth []string) Result {
	predSet := make(map[string]bool, len(pred))
	for _, l := range pred {
		predSet[l] = true
	}
	truthSet := make(map[string]bool, len(truth))
	for _, l := range truth {
		truthSet[l] = true
	}

	missing := []string{}
	extra := []string{}
	for l := range truthSet {
		if !predSet[l] {
			missing = append(missing, l)
		}
	}
	for l := range predSet {
		if !truthSet[l] {
			extra = append(extra, l)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)

	return Result{
		Passed:  len(missing) == 0 && len(extra) == 0,
		Missing: anyValues(missing),
		Extra:   anyValues(extra),
		Errors:  []string{},
	}
}
