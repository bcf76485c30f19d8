// Package verify grades model answers against dataset records. Each task
// verifier accepts the raw answer text, parses it tolerantly, canonicalises
// both sides and reports a Result with pass/fail plus diagnostics. Verifiers
// never return Go errors: malformed answers, and malformed records, show up
// as error codes in the Result.
package verify

import (
	"math"
	"reflect"
	"sort"
)

// Result is the graded outcome of one answer.
type Result struct {
	Passed  bool           `json:"passed"`
	Missing []any          `json:"missing"`
	Extra   []any          `json:"extra"`
	Errors  []string       `json:"errors"`
	Details map[string]any `json:"details,omitempty"`
}

func failure(errs ...string) Result {
	return Result{Missing: []any{}, Extra: []any{}, Errors: errs}
}

func success() Result {
	return Result{Passed: true, Missing: []any{}, Extra: []any{}, Errors: []string{}}
}

// anySlice flattens any slice value, including Tuple and concrete slices
// such as [][]int from freshly generated records, into []any. Strings are
// not sequences here.
func anySlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case Tuple:
		return []any(s), true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// strictInt accepts only integer-typed values, matching the strict type
// checks applied to parsed answers.
func strictInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}

// looseInt also accepts whole floats, which is how ground-truth numbers
// arrive after a JSON round trip.
func looseInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	}
	return 0, false
}

func looseIntList(v any) ([]int, bool) {
	items, ok := anySlice(v)
	if !ok {
		return nil, false
	}
	out := make([]int, len(items))
	for i, item := range items {
		n, ok := looseInt(item)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

func looseIntMatrix(v any) ([][]int, bool) {
	items, ok := anySlice(v)
	if !ok {
		return nil, false
	}
	out := make([][]int, len(items))
	for i, item := range items {
		row, ok := looseIntList(item)
		if !ok {
			return nil, false
		}
		out[i] = row
	}
	return out, true
}

func anyValues[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func sortedInts(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
