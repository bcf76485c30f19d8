package datagen

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const shikakuFixture = `[
  {
    "id": "p-small",
    "width": 3,
    "height": 2,
    "numbers": [[2, 0, 0], [0, 4, 0]],
    "solution_rectangles": [
      {"top": 0, "left": 0, "width": 1, "height": 2},
      {"top": 0, "left": 1, "width": 2, "height": 2}
    ]
  },
  {
    "id": "p-wide",
    "width": 4,
    "height": 1,
    "numbers": [[4, 0, 0, 0]],
    "solution_rectangles": [
      {"top": 0, "left": 0, "width": 4, "height": 1}
    ]
  }
]`

func writeShikakuFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "puzzles.json")
	if err := os.WriteFile(path, []byte(shikakuFixture), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestGenerateShikaku_ByIndex(t *testing.T) {
	path := writeShikakuFixture(t)
	rec, err := GenerateShikaku(Args{"dataset_path": path, "puzzle_index": 0}, Options{})
	if err != nil {
		t.Fatalf("GenerateShikaku: %v", err)
	}

	want := [][]int{{0, 0, 0, 1}, {1, 0, 2, 1}}
	if !reflect.DeepEqual(rec.GroundTruth, want) {
		t.Errorf("ground truth = %v, want %v", rec.GroundTruth, want)
	}

	for _, fragment := range []string{
		"Solve the Shikaku puzzle on a 2×3 grid.",
		"2 0 0\n0 4 0",
		"[left_col, top_row, right_col, bottom_row]",
	} {
		if !strings.Contains(rec.Prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}

	if got := rec.Metadata["grid_shape"]; !reflect.DeepEqual(got, []int{2, 3}) {
		t.Errorf("grid_shape = %v, want [2 3]", got)
	}
	if got := rec.DatagenArgs["puzzle_id"]; got != "p-small" {
		t.Errorf("stored puzzle_id = %v", got)
	}
	if rec.Puzzle["width"] != 3 || rec.Puzzle["height"] != 2 {
		t.Errorf("puzzle payload = %v", rec.Puzzle)
	}
}

func TestGenerateShikaku_ByID(t *testing.T) {
	path := writeShikakuFixture(t)
	rec, err := GenerateShikaku(Args{"dataset_path": path, "puzzle_id": "p-wide"}, Options{})
	if err != nil {
		t.Fatalf("GenerateShikaku: %v", err)
	}
	if got := rec.DatagenArgs["puzzle_index"]; got != 1 {
		t.Errorf("stored puzzle_index = %v, want 1", got)
	}
	if !reflect.DeepEqual(rec.GroundTruth, [][]int{{0, 0, 3, 0}}) {
		t.Errorf("ground truth = %v", rec.GroundTruth)
	}
}

func TestGenerateShikaku_DefaultTagsAndVisual(t *testing.T) {
	path := writeShikakuFixture(t)
	rec, err := GenerateShikaku(Args{"dataset_path": path, "puzzle_index": 0}, Options{})
	if err != nil {
		t.Fatalf("GenerateShikaku: %v", err)
	}
	if got := rec.Metadata["tags"]; !reflect.DeepEqual(got, []string{"grid", "rectangles", "shikaku"}) {
		t.Errorf("default tags = %v", got)
	}
	if got := rec.Metadata["requires_visual"]; got != true {
		t.Errorf("requires_visual = %v, want true", got)
	}

	off := false
	rec, err = GenerateShikaku(Args{"dataset_path": path, "puzzle_index": 0}, Options{RequiresVisual: &off})
	if err != nil {
		t.Fatalf("GenerateShikaku: %v", err)
	}
	if got := rec.Metadata["requires_visual"]; got != false {
		t.Errorf("requires_visual override = %v, want false", got)
	}
}

func TestGenerateShikaku_SelectionErrors(t *testing.T) {
	path := writeShikakuFixture(t)
	cases := []struct {
		name string
		args Args
	}{
		{"missing dataset_path", Args{"puzzle_index": 0}},
		{"unknown id", Args{"dataset_path": path, "puzzle_id": "nope"}},
		{"index out of range", Args{"dataset_path": path, "puzzle_index": 5}},
		{"no selector", Args{"dataset_path": path}},
	}
	for _, tc := range cases {
		if _, err := GenerateShikaku(tc.args, Options{}); err == nil {
			t.Errorf("%s: want error", tc.name)
		}
	}
}

func TestCanonicalRectangles_Sorted(t *testing.T) {
	got := canonicalRectangles([]ShikakuRect{
		{Top: 2, Left: 3, Width: 1, Height: 1},
		{Top: 0, Left: 0, Width: 2, Height: 3},
	})
	want := [][]int{{0, 0, 1, 2}, {3, 2, 3, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("canonicalRectangles = %v, want %v", got, want)
	}
}
