package datagen

import (
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBoundaryBiasedPoints_InUnitSquare(t *testing.T) {
	for _, n := range []int{3, 8, 20} {
		pts := boundaryBiasedPoints(n, 42)
		if len(pts) != n {
			t.Fatalf("n=%d: got %d points", n, len(pts))
		}
		for i, p := range pts {
			if p.X < 0 || p.X >= 1 || p.Y < 0 || p.Y >= 1 {
				t.Errorf("n=%d: point %d = %v outside [0, 1)", n, i, p)
			}
		}
	}
}

func TestCirclePoints_Concyclic(t *testing.T) {
	pts := circlePoints(9, 7)
	if len(pts) != 9 {
		t.Fatalf("got %d points", len(pts))
	}

	// Circumcenter of the first three points; all others must be equidistant.
	a, b, c := pts[0], pts[1], pts[2]
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	ux := ((a.X*a.X+a.Y*a.Y)*(b.Y-c.Y) + (b.X*b.X+b.Y*b.Y)*(c.Y-a.Y) + (c.X*c.X+c.Y*c.Y)*(a.Y-b.Y)) / d
	uy := ((a.X*a.X+a.Y*a.Y)*(c.X-b.X) + (b.X*b.X+b.Y*b.Y)*(a.X-c.X) + (c.X*c.X+c.Y*c.Y)*(b.X-a.X)) / d

	radius := math.Hypot(a.X-ux, a.Y-uy)
	if radius < circleMinRadius-1e-9 {
		t.Errorf("radius %g below minimum", radius)
	}
	for i, p := range pts {
		if r := math.Hypot(p.X-ux, p.Y-uy); math.Abs(r-radius) > 1e-9 {
			t.Errorf("point %d off circle: r = %g, want %g", i, r, radius)
		}
	}
}

func TestGenerateConvexHull_CircleUsesEveryPoint(t *testing.T) {
	rec, err := GenerateConvexHull(Args{
		"num_points":         8,
		"seed":               3,
		"point_distribution": "circle",
	}, Options{})
	if err != nil {
		t.Fatalf("GenerateConvexHull: %v", err)
	}

	hull := rec.GroundTruth.([]int)
	if len(hull) != 8 {
		t.Fatalf("circle hull has %d vertices, want all 8", len(hull))
	}
	if hull[0] != 0 {
		t.Errorf("hull starts at %d, want minimum index 0", hull[0])
	}
	sorted := append([]int(nil), hull...)
	sort.Ints(sorted)
	for i, v := range sorted {
		if v != i {
			t.Fatalf("hull indices = %v, want a permutation of 0..7", hull)
		}
	}

	tags := rec.Metadata["tags"].([]string)
	found := false
	for _, tag := range tags {
		if tag == "circle" {
			found = true
		}
	}
	if !found {
		t.Errorf("circle records must carry the circle tag, got %v", tags)
	}
}

func TestGenerateConvexHull_Deterministic(t *testing.T) {
	args := Args{"num_points": 14, "seed": 99}
	a, err := GenerateConvexHull(args, Options{})
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	b, err := GenerateConvexHull(args, Options{})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("records differ between runs:\n%s", diff)
	}
}

func TestGenerateConvexHull_PromptShape(t *testing.T) {
	rec, err := GenerateConvexHull(Args{"num_points": 6, "seed": 5}, Options{})
	if err != nil {
		t.Fatalf("GenerateConvexHull: %v", err)
	}
	for _, fragment := range []string{
		"indices correspond to the order shown",
		"counterclockwise order",
		"Start the list at the smallest index",
		"Strict output: a Python list of integers only.",
	} {
		if !strings.Contains(rec.Prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
	if got := strings.Count(rec.Prompt, "["); got < 7 {
		// One opening bracket per point plus the list itself.
		t.Errorf("prompt lists %d brackets, want at least 7", got)
	}
}

func TestGenerateConvexHull_InvalidArgs(t *testing.T) {
	if _, err := GenerateConvexHull(Args{"num_points": 2, "seed": 1}, Options{}); err == nil {
		t.Errorf("num_points=2: want error")
	}
	if _, err := GenerateConvexHull(Args{"num_points": 5, "seed": 1, "point_distribution": "spiral"}, Options{}); err == nil {
		t.Errorf("unknown distribution: want error")
	}
	if _, err := GenerateConvexHull(Args{"num_points": 5}, Options{}); err == nil {
		t.Errorf("missing seed: want error")
	}
}

func TestFormatCoord(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0.5, "0.5"},
		{0, "0.0"},
		{1, "1.0"},
	}
	for _, tc := range cases {
		if got := formatCoord(tc.in); got != tc.want {
			t.Errorf("formatCoord(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
