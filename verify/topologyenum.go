package verify

import (
	"fmt"
	"sort"
	"strings"

	"vgbench/datagen"
)

// TopologyEnumeration grades an enumeration answer: a Python list of
// 4-tuples of corner labels. Order of the list does not matter, order within
// a tuple does. Passing requires matching length, matching label sets, and
// matching first-occurrence canonical sets.
func TopologyEnumeration(output string, rec *datagen.Record) Result {
	parsed, ok := parseCornerConfigs(output)
	if !ok {
		r := failure("parse_failure")
		r.Details = map[string]any{"raw_output": clip(output, 200)}
		return r
	}

	gtItems, ok := anySlice(rec.GroundTruth)
	if !ok {
		return failure("ground_truth_not_list")
	}
	nClasses, ok := looseInt(rec.DatagenArgs["n_classes"])
	if !ok {
		return failure("missing_n_classes")
	}

	predLen, gtLen := len(parsed), len(gtItems)

	predLabels := make(map[int]bool)
	predSet := make(map[[4]int]bool)
	var issues []map[string]any
	for _, cfg := range parsed {
		inRange := true
		for _, v := range cfg {
			if v < 0 || v >= nClasses {
				inRange = false
			}
		}
		if !inRange {
			issues = append(issues, map[string]any{
				"config": []int{cfg[0], cfg[1], cfg[2], cfg[3]},
				"reason": fmt.Sprintf("values not in [0, %d]", nClasses-1),
			})
			continue
		}
		for _, v := range cfg {
			predLabels[v] = true
		}
		predSet[datagen.CanonicalizeConfig(cfg)] = true
	}
	if len(issues) > 0 {
		r := failure(fmt.Sprintf("%d validation issue(s)", len(issues)))
		r.Details = map[string]any{"issues": issues}
		return r
	}

	gtLabels := make(map[int]bool)
	gtSet := make(map[[4]int]bool)
	for _, item := range gtItems {
		row, ok := looseIntList(item)
		if !ok || len(row) != 4 {
			return failure("ground_truth_not_list")
		}
		cfg := [4]int{row[0], row[1], row[2], row[3]}
		for _, v := range cfg {
			gtLabels[v] = true
		}
		gtSet[datagen.CanonicalizeConfig(cfg)] = true
	}

	lengthOK := predLen == gtLen
	labelsOK := labelSetsEqual(predLabels, gtLabels)
	missing := configSetDiff(gtSet, predSet)
	extra := configSetDiff(predSet, gtSet)
	setsOK := len(missing) == 0 && len(extra) == 0

	details := map[string]any{
		"pred_len":           predLen,
		"gt_len":             gtLen,
		"pred_label_set":     sortedInts(predLabels),
		"gt_label_set":       sortedInts(gtLabels),
		"canonical_count":    len(predSet),
		"ground_truth_count": len(gtSet),
	}
	if !lengthOK {
		details["length_mismatch"] = map[string]any{"expected": gtLen, "actual": predLen}
	}
	if !labelsOK {
		details["label_set_diff"] = map[string]any{
			"missing_labels": labelDiff(gtLabels, predLabels),
			"extra_labels":   labelDiff(predLabels, gtLabels),
		}
	}

	return Result{
		Passed:  lengthOK && labelsOK && setsOK,
		Missing: anyValues(missing),
		Extra:   anyValues(extra),
		Errors:  []string{},
		Details: details,
	}
}

// parseCornerConfigs requires a Python list of integer 4-tuples; lists in
// tuple position are rejected.
func parseCornerConfigs(raw string) ([][4]int, bool) {
	parsed, err := ParseLiteral(strings.TrimSpace(raw))
	if err != nil {
		return nil, false
	}
	items, ok := parsed.([]any)
	if !ok {
		return nil, false
	}
	out := make([][4]int, 0, len(items))
	for _, item := range items {
		tup, ok := item.(Tuple)
		if !ok || len(tup) != 4 {
			return nil, false
		}
		var cfg [4]int
		for i, v := range tup {
			n, ok := strictInt(v)
			if !ok {
				return nil, false
			}
			cfg[i] = n
		}
		out = append(out, cfg)
	}
	return out, true
}

func labelSetsEqual(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for v := range a {
		if !b[v] {
			return false
		}
	}
	return true
}

func labelDiff(a, b map[int]bool) []int {
	out := []int{}
	for v := range a {
		if !b[v] {
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

func configSetDiff(a, b map[[4]int]bool) [][]int {
	var keys [][4]int
	for cfg := range a {
		if !b[cfg] {
			keys = append(keys, cfg)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		for k := range keys[i] {
			if keys[i][k] != keys[j][k] {
				return keys[i][k] < keys[j][k]
			}
		}
		return false
	})
	out := make([][]int, len(keys))
	for i, cfg := range keys {
		out[i] = []int{cfg[0], cfg[1], cfg[2], cfg[3]}
	}
	return out
}
