package datagen

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatShapeCounts(t *testing.T) {
	cases := []struct {
		counts map[string]int
		want   string
	}{
		{map[string]int{"triangle": 1}, "1 triangle"},
		{map[string]int{"triangle": 2, "quadrilateral": 1}, "2 triangles and 1 quadrilateral"},
		{map[string]int{"triangle": 1, "quadrilateral": 2, "pentagon": 1}, "1 triangle, 2 quadrilaterals, and 1 pentagon"},
		{map[string]int{}, "0 regions"},
	}
	for _, tc := range cases {
		if got := formatShapeCounts(tc.counts); got != tc.want {
			t.Errorf("formatShapeCounts(%v) = %q, want %q", tc.counts, got, tc.want)
		}
	}
}

func TestGenerateTwoSegments_UnitSquare(t *testing.T) {
	rec, err := GenerateTwoSegments(Args{
		"counts": map[string]any{"triangle": 2, "quadrilateral": 1},
	}, Options{})
	if err != nil {
		t.Fatalf("GenerateTwoSegments: %v", err)
	}

	if !strings.Contains(rec.Prompt, "Work inside the unit square with corners (0, 0), (1, 0), (1, 1), and (0, 1).") {
		t.Errorf("prompt missing unit square header:\n%s", rec.Prompt)
	}
	if !strings.Contains(rec.Prompt, "exactly 2 triangles and 1 quadrilateral") {
		t.Errorf("prompt missing counts phrase")
	}

	// Ground truth is sorted by shape name.
	want := []map[string]any{
		{"shape": "quadrilateral", "count": 1},
		{"shape": "triangle", "count": 2},
	}
	if !reflect.DeepEqual(rec.GroundTruth, want) {
		t.Errorf("ground truth = %v, want %v", rec.GroundTruth, want)
	}

	if got := rec.DatagenArgs["snap_decimals"]; got != 2 {
		t.Errorf("snap_decimals default = %v, want 2", got)
	}
	if got := rec.DatagenArgs["square"]; got != "unit" {
		t.Errorf("square label = %v, want unit", got)
	}
	if got := rec.DatagenArgs["corners"]; !reflect.DeepEqual(got, unitSquareCorners) {
		t.Errorf("stored corners = %v", got)
	}
	if got := rec.Metadata["requires_visual"]; got != true {
		t.Errorf("requires_visual = %v, want true", got)
	}
}

func TestGenerateTwoSegments_ExplicitCorners(t *testing.T) {
	rec, err := GenerateTwoSegments(Args{
		"counts": map[string]any{"triangle": 2},
		"square": []any{
			[]any{0.2, 0.2}, []any{0.7, 0.2}, []any{0.7, 0.7}, []any{0.2, 0.7},
		},
	}, Options{})
	if err != nil {
		t.Fatalf("GenerateTwoSegments: %v", err)
	}
	if !strings.Contains(rec.Prompt, "boundary corners (in order) are (0.2, 0.2), (0.7, 0.2), (0.7, 0.7), (0.2, 0.7)") {
		t.Errorf("prompt missing explicit corners:\n%s", rec.Prompt)
	}
	if got := rec.DatagenArgs["square"]; got != "explicit" {
		t.Errorf("square label = %v, want explicit", got)
	}
}

func TestGenerateTwoSegments_CoordinateGridLine(t *testing.T) {
	rec, err := GenerateTwoSegments(Args{
		"counts":          map[string]any{"quadrilateral": 3},
		"coordinate_grid": []any{0.5, 0.0, 1.0, 0.5},
	}, Options{})
	if err != nil {
		t.Fatalf("GenerateTwoSegments: %v", err)
	}
	lines := strings.Split(rec.Prompt, "\n")
	if len(lines) < 3 || lines[2] != "Use boundary points whose coordinates are drawn from {0, 0.5, 1}." {
		t.Errorf("grid line misplaced or malformed: %q", lines)
	}
}

func TestGenerateTwoSegments_RandomSquare(t *testing.T) {
	args := Args{
		"counts":      map[string]any{"triangle": 2},
		"square":      "random",
		"square_seed": 7,
	}
	rec, err := GenerateTwoSegments(args, Options{})
	if err != nil {
		t.Fatalf("GenerateTwoSegments: %v", err)
	}
	corners := rec.DatagenArgs["corners"].([][]float64)
	if len(corners) != 4 {
		t.Fatalf("corners = %v", corners)
	}
	side := corners[1][0] - corners[0][0]
	if side < 0.3 || side > 1.0 {
		t.Errorf("side = %g, want within [0.3, 1]", side)
	}
	if math.Abs((corners[2][1]-corners[1][1])-side) > 1e-12 {
		t.Errorf("corners do not form a square: %v", corners)
	}
	for _, c := range corners {
		if c[0] < 0 || c[0] > 1 || c[1] < 0 || c[1] > 1 {
			t.Errorf("corner %v outside the unit square", c)
		}
	}

	again, err := GenerateTwoSegments(args, Options{})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if diff := cmp.Diff(rec, again); diff != "" {
		t.Errorf("records differ between runs:\n%s", diff)
	}
}

func TestGenerateTwoSegments_InvalidCounts(t *testing.T) {
	if _, err := GenerateTwoSegments(Args{}, Options{}); err == nil {
		t.Errorf("missing counts: want error")
	}
	if _, err := GenerateTwoSegments(Args{"counts": map[string]any{"triangle": 0}}, Options{}); err == nil {
		t.Errorf("all-zero counts: want error")
	}
	if _, err := GenerateTwoSegments(Args{"counts": "three triangles"}, Options{}); err == nil {
		t.Errorf("non-map counts: want error")
	}
	if _, err := GenerateTwoSegments(Args{
		"counts": map[string]any{"triangle": 2},
		"square": "oval",
	}, Options{}); err == nil {
		t.Errorf("bad square spec: want error")
	}
}
