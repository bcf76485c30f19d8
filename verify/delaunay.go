package verify

import (
	"fmt"
	"sort"
	"strings"

	"vgbench/datagen"
)

// Delaunay grades a triangulation answer: a list of 3-element integer
// triangles. Each triangle is sorted, the list is sorted, and the two sides
// are compared as multisets.
func Delaunay(output string, rec *datagen.Record) Result {
	parsed, err := ParseLiteral(strings.TrimSpace(output))
	if err != nil {
		return failure("parse_failure")
	}
	items, ok := parsed.([]any)
	if !ok {
		return failure("parse_failure")
	}

	pred := make([][]int, 0, len(items))
	for i, item := range items {
		elems, ok := item.([]any)
		if !ok {
			return failure(fmt.Sprintf("triangle_%d_not_list", i))
		}
		if len(elems) != 3 {
			return failure(fmt.Sprintf("triangle_%d_wrong_length", i))
		}
		tri := make([]int, 3)
		for j, e := range elems {
			n, ok := strictInt(e)
			if !ok || n < 0 {
				return failure(fmt.Sprintf("triangle_%d_invalid_indices", i))
			}
			tri[j] = n
		}
		pred = append(pred, tri)
	}

	truth, ok := looseIntMatrix(rec.GroundTruth)
	if !ok {
		return failure("ground_truth_not_list")
	}

	predCount := triangleCounter(pred)
	gtCount := triangleCounter(truth)

	missing := counterDiff(gtCount, predCount)
	extra := counterDiff(predCount, gtCount)

	return Result{
		Passed:  len(missing) == 0 && len(extra) == 0,
		Missing: anyValues(missing),
		Extra:   anyValues(extra),
		Errors:  []string{},
	}
}

// triangleCounter canonicalises triangles (sorted vertices) and counts
// multiplicities.
func triangleCounter(tris [][]int) map[[3]int]int {
	count := make(map[[3]int]int, len(tris))
	for _, tri := range tris {
		key := [3]int{tri[0], tri[1], tri[2]}
		sort.Ints(key[:])
		count[key]++
	}
	return count
}

// counterDiff returns the triangles of a not covered by b, repeated per
// surplus multiplicity, in sorted order.
func counterDiff(a, b map[[3]int]int) [][]int {
	keys := make([][3]int, 0, len(a))
	for key := range a {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		for k := range keys[i] {
			if keys[i][k] != keys[j][k] {
				return keys[i][k] < keys[j][k]
			}
		}
		return false
	})

	var out [][]int
	for _, key := range keys {
		for n := a[key] - b[key]; n > 0; n-- {
			out = append(out, []int{key[0], key[1], key[2]})
		}
	}
	return out
}
