package datagen

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vgbench/geom"
)

func TestSampleGeneralPosition_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 0))
	pts, err := sampleGeneralPosition(6, 0, 1, delaunayEps, 10000, rng)
	if err != nil {
		t.Fatalf("sampleGeneralPosition: %v", err)
	}
	if len(pts) != 6 {
		t.Fatalf("got %d points", len(pts))
	}
	for i, p := range pts {
		if p.X < 0 || p.X >= 1 || p.Y < 0 || p.Y >= 1 {
			t.Errorf("point %d = %v outside the box", i, p)
		}
	}
	if !inGeneralPosition(pts, delaunayEps) {
		t.Errorf("sampled points not in general position")
	}
}

func TestGenerateDelaunay_TriangleCountMatchesEuler(t *testing.T) {
	// A triangulation of n points whose hull has h vertices always has
	// 2n - 2 - h triangles.
	for seed := 0; seed < 10; seed++ {
		args := Args{"num_points": 7, "seed": seed}
		rec, err := GenerateDelaunay(args, Options{})
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		pts, err := delaunayPoints(args)
		if err != nil {
			t.Fatalf("seed %d: regenerating points: %v", seed, err)
		}
		hull, err := geom.ConvexHullIndices(pts)
		if err != nil {
			t.Fatalf("seed %d: hull: %v", seed, err)
		}

		tris := rec.GroundTruth.([][]int)
		want := 2*len(pts) - 2 - len(hull)
		if len(tris) != want {
			t.Errorf("seed %d: %d triangles, want %d (hull size %d)", seed, len(tris), want, len(hull))
		}

		prev := []int{-1, -1, -1}
		for _, tri := range tris {
			if len(tri) != 3 || !(tri[0] < tri[1] && tri[1] < tri[2]) {
				t.Errorf("seed %d: triangle %v not strictly ascending", seed, tri)
			}
			if tri[2] >= len(pts) {
				t.Errorf("seed %d: triangle %v references missing point", seed, tri)
			}
			if !lessTriple(prev, tri) {
				t.Errorf("seed %d: triangles not sorted at %v", seed, tri)
			}
			prev = tri
		}
	}
}

func lessTriple(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func TestGenerateDelaunay_Deterministic(t *testing.T) {
	args := Args{"num_points": 6, "seed": 21}
	a, err := GenerateDelaunay(args, Options{Tags: []string{"hard"}})
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	b, err := GenerateDelaunay(args, Options{Tags: []string{"hard"}})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("records differ between runs:\n%s", diff)
	}
}

func TestGenerateDelaunay_MetadataTags(t *testing.T) {
	rec, err := GenerateDelaunay(Args{"num_points": 5, "seed": 2}, Options{Tags: []string{"extra"}})
	if err != nil {
		t.Fatalf("GenerateDelaunay: %v", err)
	}
	tags := rec.Metadata["tags"].([]string)
	for _, want := range []string{"delaunay", "extra", "geometry", "triangulation"} {
		found := false
		for _, tag := range tags {
			if tag == want {
				found = true
			}
		}
		if !found {
			t.Errorf("tags %v missing %q", tags, want)
		}
	}
}

func TestGenerateDelaunay_PromptShape(t *testing.T) {
	rec, err := GenerateDelaunay(Args{"num_points": 5, "seed": 8}, Options{})
	if err != nil {
		t.Fatalf("GenerateDelaunay: %v", err)
	}
	for _, fragment := range []string{
		"general position",
		"Return the Delaunay triangulation as a list of triangles.",
		"Strict output: a Python list of lists of integers only.",
	} {
		if !strings.Contains(rec.Prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
}

func TestGenerateDelaunay_InvalidArgs(t *testing.T) {
	cases := []struct {
		name string
		args Args
	}{
		{"too few points", Args{"num_points": 2, "seed": 1}},
		{"missing seed", Args{"num_points": 5}},
		{"inverted box", Args{"num_points": 5, "seed": 1, "box": []any{1.0, 0.0}}},
		{"bad box length", Args{"num_points": 5, "seed": 1, "box": []any{0.0, 0.5, 1.0}}},
	}
	for _, tc := range cases {
		if _, err := GenerateDelaunay(tc.args, Options{}); err == nil {
			t.Errorf("%s: want error", tc.name)
		}
	}
}
