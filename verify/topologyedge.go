package verify

import (
	"fmt"
	"sort"
	"strings"

	"vgbench/datagen"
)

// TopologyEdge grades an edge-task answer: one entry per square in prompt
// order. The subtask is inferred from the ground truth: lists mean
// enumerate_edges ([i, j] pairs with i < j, pair order free), strings mean
// classify_behaviour (exact labels).
func TopologyEdge(output string, rec *datagen.Record) Result {
	parsed, err := ParseLiteral(strings.TrimSpace(output))
	if err != nil {
		return failure("parse_failure")
	}
	items, ok := parsed.([]any)
	if !ok {
		return failure("parse_failure")
	}

	truth, ok := anySlice(rec.GroundTruth)
	if !ok {
		return failure("ground_truth_not_list")
	}
	if len(items) != len(truth) {
		return failure(fmt.Sprintf("length_mismatch: expected %d, got %d", len(truth), len(items)))
	}
	if len(truth) == 0 {
		return success()
	}

	if _, ok := truth[0].(string); ok {
		return compareBehaviourLabels(items, truth)
	}
	if _, ok := anySlice(truth[0]); ok {
		return compareEdgeLists(items, truth)
	}
	return failure("unable_to_infer_subtask")
}

func compareEdgeLists(pred, truth []any) Result {
	errs := []string{}
	mismatched := []int{}

	for idx := range pred {
		item, ok := pred[idx].([]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("idx_%d: not a list", idx))
			continue
		}

		pairs := make([][]int, 0, len(item))
		valid := true
		for _, raw := range item {
			seq, ok := raw.([]any)
			if !ok || len(seq) != 2 {
				errs = append(errs, fmt.Sprintf("idx_%d: invalid pair format", idx))
				valid = false
				break
			}
			a, okA := strictInt(seq[0])
			b, okB := strictInt(seq[1])
			if !okA || !okB {
				errs = append(errs, fmt.Sprintf("idx_%d: non-integer in pair", idx))
				valid = false
				break
			}
			if a >= b {
				errs = append(errs, fmt.Sprintf("idx_%d: pair not sorted (i < j required)", idx))
				valid = false
				break
			}
			pairs = append(pairs, []int{a, b})
		}
		if !valid {
			continue
		}

		gtPairs, ok := looseIntMatrix(truth[idx])
		if !ok {
			errs = append(errs, fmt.Sprintf("idx_%d: malformed ground truth", idx))
			continue
		}
		if !pairListsEqual(sortPairs(pairs), sortPairs(gtPairs)) {
			mismatched = append(mismatched, idx)
		}
	}

	return Result{
		Passed:  len(errs) == 0 && len(mismatched) == 0,
		Missing: anyValues(mismatched),
		Extra:   []any{},
		Errors:  errs,
	}
}

func compareBehaviourLabels(pred, truth []any) Result {
	valid := map[string]bool{
		datagen.BehaviourKnown:     true,
		datagen.BehaviourTriple:    true,
		datagen.BehaviourAmbiguous: true,
	}

	errs := []string{}
	mismatched := []int{}
	for idx := range pred {
		label, ok := pred[idx].(string)
		if !ok {
			errs = append(errs, fmt.Sprintf("idx_%d: not a string", idx))
			continue
		}
		if !valid[label] {
			errs = append(errs, fmt.Sprintf("idx_%d: invalid label '%s'", idx, label))
			continue
		}
		if want, _ := truth[idx].(string); label != want {
			mismatched = append(mismatched, idx)
		}
	}

	return Result{
		Passed:  len(errs) == 0 && len(mismatched) == 0,
		Missing: anyValues(mismatched),
		Extra:   []any{},
		Errors:  errs,
	}
}

func sortPairs(pairs [][]int) [][]int {
	out := make([][]int, len(pairs))
	copy(out, pairs)
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

func pairListsEqual(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(b[i]) != 2 || a[i][0] != b[i][0] || a[i][1] != b[i][1] {
			return false
		}
	}
	return true
}
