package verify

import (
	"sort"
	"strings"

	"vgbench/datagen"
	"vgbench/geom"
)

// ConvexHull grades a hull ordering answer: a list of at least three unique
// non-negative vertex indices in counter-clockwise order. Both sides are
// rotated to start at their minimum index before comparison, so a clockwise
// answer stays wrong even when the index set matches.
func ConvexHull(output string, rec *datagen.Record) Result {
	parsed, err := ParseLiteral(strings.TrimSpace(output))
	if err != nil {
		return failure("parse_failure")
	}
	items, ok := parsed.([]any)
	if !ok {
		return failure("parse_failure")
	}
	pred, ok := indexSequence(items, strictInt)
	if !ok {
		return failure("invalid_sequence")
	}

	gtItems, ok := anySlice(rec.GroundTruth)
	if !ok {
		return failure("ground_truth_invalid")
	}
	truth, ok := indexSequence(gtItems, looseInt)
	if !ok {
		return failure("ground_truth_invalid")
	}

	predCanon := geom.RotateToMin(pred)
	gtCanon := geom.RotateToMin(truth)
	if intsEqual(predCanon, gtCanon) {
		return success()
	}

	predSet := make(map[int]bool, len(predCanon))
	for _, v := range predCanon {
		predSet[v] = true
	}
	gtSet := make(map[int]bool, len(gtCanon))
	for _, v := range gtCanon {
		gtSet[v] = true
	}
	missing := []int{}
	extra := []int{}
	for v := range gtSet {
		if !predSet[v] {
			missing = append(missing, v)
		}
	}
	for v := range predSet {
		if !gtSet[v] {
			extra = append(extra, v)
		}
	}
	sort.Ints(missing)
	sort.Ints(extra)

	errs := []string{}
	if len(missing) == 0 && len(extra) == 0 {
		// Same vertex set, wrong traversal (usually clockwise).
		errs = append(errs, "order_mismatch")
	}
	return Result{
		Missing: anyValues(missing),
		Extra:   anyValues(extra),
		Errors:  errs,
	}
}

// indexSequence validates a list of at least three unique non-negative
// indices, with the given integer coercion.
func indexSequence(items []any, toInt func(any) (int, bool)) ([]int, bool) {
	if len(items) < 3 {
		return nil, false
	}
	seen := make(map[int]bool, len(items))
	out := make([]int, 0, len(items))
	for _, item := range items {
		n, ok := toInt(item)
		if !ok || n < 0 || seen[n] {
			return nil, false
		}
		seen[n] = true
		out = append(out, n)
	}
	return out, true
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
