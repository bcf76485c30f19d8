package verify

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"vgbench/datagen"
)

// Shikaku grades a rectangle-partition answer: a list of
// [left_col, top_row, right_col, bottom_row] boxes, 0-indexed, inclusive.
// The boxes must partition the grid exactly, each containing a single clue
// equal to its area, and then match the canonical ground truth.
func Shikaku(output string, rec *datagen.Record) Result {
	parsed, err := ParseLiteral(strings.TrimSpace(output))
	if err != nil {
		return failure("parse_failure")
	}
	items, ok := parsed.([]any)
	if !ok {
		return failure("parse_failure")
	}

	boxes, errCode := shikakuBoxes(items)
	if errCode != "" {
		return failure(errCode)
	}
	sortBoxes(boxes)

	truth, ok := looseIntMatrix(rec.GroundTruth)
	if !ok {
		return failure("ground_truth_not_list")
	}
	sortBoxes(truth)

	numbers, ok := looseIntMatrix(rec.Puzzle["numbers"])
	if !ok {
		return failure("missing_puzzle_numbers")
	}

	if errCode := checkShikakuPartition(boxes, numbers); errCode != "" {
		return failure(errCode)
	}

	missing := [][]int{}
	extra := [][]int{}
	for _, box := range truth {
		if !containsBox(boxes, box) {
			missing = append(missing, box)
		}
	}
	for _, box := range boxes {
		if !containsBox(truth, box) {
			extra = append(extra, box)
		}
	}
	return Result{
		Passed:  len(missing) == 0 && len(extra) == 0,
		Missing: anyValues(missing),
		Extra:   anyValues(extra),
		Errors:  []string{},
	}
}

// shikakuBoxes validates structure: 4-int sequences, non-negative, with
// right >= left and bottom >= top. Whole floats are truncated the way a
// lenient reader would.
func shikakuBoxes(items []any) ([][]int, string) {
	out := make([][]int, 0, len(items))
	for idx, item := range items {
		seq, ok := anySlice(item)
		if !ok {
			return nil, fmt.Sprintf("box_%d_not_sequence", idx)
		}
		if len(seq) != 4 {
			return nil, fmt.Sprintf("box_%d_wrong_length", idx)
		}
		box := make([]int, 4)
		for i, v := range seq {
			switch n := v.(type) {
			case int:
				box[i] = n
			case int64:
				box[i] = int(n)
			case float64:
				box[i] = int(math.Trunc(n))
			default:
				return nil, fmt.Sprintf("box_%d_non_integer", idx)
			}
		}
		if box[0] < 0 || box[1] < 0 || box[2] < 0 || box[3] < 0 {
			return nil, fmt.Sprintf("box_%d_negative", idx)
		}
		if box[2] < box[0] || box[3] < box[1] {
			return nil, fmt.Sprintf("box_%d_invalid_order", idx)
		}
		out = append(out, box)
	}
	return out, ""
}

func sortBoxes(boxes [][]int) {
	sort.Slice(boxes, func(i, j int) bool {
		for k := range boxes[i] {
			if boxes[i][k] != boxes[j][k] {
				return boxes[i][k] < boxes[j][k]
			}
		}
		return false
	})
}

// checkShikakuPartition validates coverage and clue constraints: every box
// in bounds, no overlap, exactly one clue per box equal to its area, and
// full grid coverage.
func checkShikakuPartition(boxes [][]int, numbers [][]int) string {
	if len(numbers) == 0 || len(numbers[0]) == 0 {
		return "empty_puzzle"
	}
	height, width := len(numbers), len(numbers[0])
	coverage := make([][]int, height)
	for y := range coverage {
		coverage[y] = make([]int, width)
	}

	for idx, box := range boxes {
		left, top, right, bottom := box[0], box[1], box[2], box[3]
		if right >= width || bottom >= height {
			return fmt.Sprintf("box_%d_out_of_bounds", idx)
		}

		area := (right - left + 1) * (bottom - top + 1)
		var clues []int
		for y := top; y <= bottom; y++ {
			for x := left; x <= right; x++ {
				coverage[y][x]++
				if coverage[y][x] > 1 {
					return fmt.Sprintf("box_%d_overlap", idx)
				}
				if v := numbers[y][x]; v > 0 {
					clues = append(clues, v)
				}
			}
		}
		if len(clues) != 1 {
			return fmt.Sprintf("box_%d_clue_count_%d", idx, len(clues))
		}
		if clues[0] != area {
			return fmt.Sprintf("box_%d_clue_mismatch", idx)
		}
	}

	for y, row := range coverage {
		for x, count := range row {
			if count != 1 {
				return fmt.Sprintf("cell_%d_%d_uncovered", y, x)
			}
		}
	}
	return ""
}

func containsBox(boxes [][]int, box []int) bool {
	for _, b := range boxes {
		if intsEqual(b, box) {
			return true
		}
	}
	return false
}
