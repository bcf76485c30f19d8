package datagen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"vgbench/geom"
)

// ProblemDelaunay identifies Delaunay triangulation records.
const ProblemDelaunay = "delaunay_triangulation"

// delaunayEps is the base degeneracy tolerance; it is scaled by the squared
// box size since the determinant tests scale that way.
const delaunayEps = 1e-12

// GenerateDelaunay builds one triangulation record: points rejection-sampled
// into general position (no three collinear, no four concyclic, so the
// triangulation is unique), with the canonical triangle index triples as
// ground truth.
//
// Required args: num_points (>= 3), seed. Optional: box ([lo, hi], default
// [0, 1]), eps, max_tries.
func GenerateDelaunay(args Args, opts Options) (*Record, error) {
	pts, err := delaunayPoints(args)
	if err != nil {
		return nil, err
	}

	tris, err := geom.Triangulate(pts)
	if err != nil {
		return nil, fmt.Errorf("datagen: triangulating sampled points: %w", err)
	}
	groundTruth := make([][]int, len(tris))
	for i, tri := range tris {
		groundTruth[i] = []int{tri[0], tri[1], tri[2]}
	}

	prompt := delaunayPrompt(pts)

	id := opts.RecordID
	if id == "" {
		id = ContentHash(ProblemDelaunay, args, prompt, groundTruth)
	}

	return &Record{
		ID:          id,
		Prompt:      prompt,
		GroundTruth: groundTruth,
		Metadata: map[string]any{
			"problem_type": ProblemDelaunay,
			"tags":         mergeTags([]string{"geometry", "triangulation", "delaunay"}, opts.Tags),
			"difficulty":   opts.Difficulty,
		},
		DatagenArgs: args.clone(),
	}, nil
}

func delaunayPoints(args Args) ([]r2.Vec, error) {
	numPoints, err := args.intArg("num_points")
	if err != nil {
		return nil, err
	}
	seed, err := args.intArg("seed")
	if err != nil {
		return nil, err
	}
	if numPoints < 3 {
		return nil, fmt.Errorf("datagen: num_points must be at least 3, got %d", numPoints)
	}

	lo, hi := 0.0, 1.0
	if box, err := args.floatList("box"); err != nil {
		return nil, err
	} else if box != nil {
		if len(box) != 2 {
			return nil, fmt.Errorf("datagen: box must be two bounds, got %d", len(box))
		}
		lo, hi = box[0], box[1]
		if hi <= lo {
			return nil, fmt.Errorf("datagen: box upper bound must exceed lower bound")
		}
	}
	eps, err := args.floatDefault("eps", delaunayEps)
	if err != nil {
		return nil, err
	}
	maxTries, err := args.intDefault("max_tries", 10000)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	return sampleGeneralPosition(numPoints, lo, hi, eps, maxTries, rng)
}

// sampleGeneralPosition draws uniform point sets until one is free of
// collinear triples and concyclic quadruples.
func sampleGeneralPosition(n int, lo, hi, eps float64, maxTries int, rng *rand.Rand) ([]r2.Vec, error) {
	scale := hi - lo
	tol := eps * scale * scale

	for try := 0; try < maxTries; try++ {
		pts := make([]r2.Vec, n)
		for i := range pts {
			pts[i] = r2.Vec{X: lo + rng.Float64()*scale, Y: lo + rng.Float64()*scale}
		}
		if inGeneralPosition(pts, tol) {
			return pts, nil
		}
	}
	return nil, fmt.Errorf("datagen: no general-position sample found after %d attempts", maxTries)
}

func inGeneralPosition(pts []r2.Vec, tol float64) bool {
	n := len(pts)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				if math.Abs(geom.Orient(pts[i], pts[j], pts[k])) <= tol {
					return false
				}
				for l := k + 1; l < n; l++ {
					if math.Abs(geom.InCircle(pts[i], pts[j], pts[k], pts[l])) <= tol {
						return false
					}
				}
			}
		}
	}
	return true
}

func delaunayPrompt(pts []r2.Vec) string {
	rows := make([]string, len(pts))
	for i, p := range pts {
		rows[i] = fmt.Sprintf("  [%s, %s]", formatCoord(round3(p.X)), formatCoord(round3(p.Y)))
	}
	lines := []string{
		"You are given a set of 2D points in general position (indices correspond to the order shown):",
		"[",
		strings.Join(rows, ",\n"),
		"]",
		"",
		"Return the Delaunay triangulation as a list of triangles.",
		"Each triangle is a list of three point indices (sorted in ascending order).",
		"Before presenting the final list, begin your response with <thinking>...</thinking> containing your full chain of thought or reasoning for your answer.",
		"Strict output: a Python list of lists of integers only.",
	}
	return strings.Join(lines, "\n")
}

// round3 truncates display coordinates to three decimals; ground truth is
// computed on the unrounded points.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
