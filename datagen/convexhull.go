package datagen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat/distuv"

	"vgbench/geom"
)

// ProblemConvexHull identifies convex hull ordering records.
const ProblemConvexHull = "convex_hull_ordering"

const (
	// circleCenterMargin keeps sampled circles well inside the unit square.
	circleCenterMargin = 0.2
	circleMinRadius    = 0.1
)

// GenerateConvexHull builds one hull-ordering record: a sampled point cloud
// listed in the prompt, with the CCW hull index cycle (rotated to start at
// the smallest index) as ground truth.
//
// Required args: num_points (>= 3), seed. Optional: point_distribution
// ("default" boundary-biased, or "circle").
func GenerateConvexHull(args Args, opts Options) (*Record, error) {
	pts, distribution, err := convexHullPoints(args)
	if err != nil {
		return nil, err
	}

	hull, err := geom.ConvexHullIndices(pts)
	if err != nil {
		return nil, fmt.Errorf("datagen: sampled point set has no polygonal hull: %w", err)
	}

	prompt := convexHullPrompt(pts)

	id := opts.RecordID
	if id == "" {
		id = ContentHash(ProblemConvexHull, args, prompt, hull)
	}

	tags := opts.Tags
	if distribution == "circle" {
		tags = append(append([]string(nil), tags...), "circle")
	}

	return &Record{
		ID:          id,
		Prompt:      prompt,
		GroundTruth: hull,
		Metadata: map[string]any{
			"problem_type":       ProblemConvexHull,
			"tags":               mergeTags(nil, tags),
			"difficulty":         opts.Difficulty,
			"point_distribution": distribution,
		},
		DatagenArgs: args.clone(),
	}, nil
}

func convexHullPoints(args Args) ([]r2.Vec, string, error) {
	numPoints, err := args.intArg("num_points")
	if err != nil {
		return nil, "", err
	}
	seed, err := args.intArg("seed")
	if err != nil {
		return nil, "", err
	}
	distribution, err := args.stringDefault("point_distribution", "default")
	if err != nil {
		return nil, "", err
	}
	if numPoints < 3 {
		return nil, "", fmt.Errorf("datagen: convex sampling requires num_points >= 3, got %d", numPoints)
	}

	switch distribution {
	case "default":
		return boundaryBiasedPoints(numPoints, seed), distribution, nil
	case "circle":
		return circlePoints(numPoints, seed), distribution, nil
	}
	return nil, "", fmt.Errorf("datagen: unsupported point_distribution %q", distribution)
}

// boundaryBiasedPoints mixes well-spread interior points with samples
// crowded into a thin band along the square's edges. The boundary band plus
// corner-biased along-edge positions make near-hull points ambiguous, which
// is what hardens the task.
func boundaryBiasedPoints(n, seed int) []r2.Vec {
	src := rand.NewPCG(uint64(seed), 0)
	rng := rand.New(src)

	const boundaryFrac = 0.6
	interiorCount := int(math.Round(float64(n) * (1 - boundaryFrac)))
	if interiorCount < 3 {
		interiorCount = 3
	}
	if interiorCount > n-3 {
		interiorCount = n - 3
	}
	boundaryCount := n - interiorCount

	pts := make([]r2.Vec, 0, n)

	// Best-candidate sampling keeps interior points blue-noise spread.
	for len(pts) < interiorCount {
		var best r2.Vec
		bestDist := -1.0
		for c := 0; c < 12; c++ {
			cand := r2.Vec{X: rng.Float64(), Y: rng.Float64()}
			d := math.Inf(1)
			for _, p := range pts {
				if dd := r2.Norm(r2.Sub(cand, p)); dd < d {
					d = dd
				}
			}
			if d > bestDist {
				best, bestDist = cand, d
			}
		}
		pts = append(pts, best)
	}

	alongEdge := distuv.Beta{Alpha: 0.7, Beta: 0.7, Src: src}
	edgeInset := distuv.Beta{Alpha: 1, Beta: 8, Src: src}
	jitter := distuv.Normal{Mu: 0, Sigma: 0.006, Src: src}

	for i := 0; i < boundaryCount; i++ {
		side := rng.IntN(4) // 0:left 1:right 2:bottom 3:top
		u := alongEdge.Rand()
		inset := edgeInset.Rand() * 0.08

		var p r2.Vec
		switch side {
		case 0:
			p = r2.Vec{X: inset, Y: u}
		case 1:
			p = r2.Vec{X: 1 - inset, Y: u}
		case 2:
			p = r2.Vec{X: u, Y: inset}
		case 3:
			p = r2.Vec{X: u, Y: 1 - inset}
		}
		p.X = clampUnit(p.X + jitter.Rand())
		p.Y = clampUnit(p.Y + jitter.Rand())
		pts = append(pts, p)
	}

	rng.Shuffle(len(pts), func(i, j int) { pts[i], pts[j] = pts[j], pts[i] })
	return pts
}

// circlePoints spaces points evenly on a random circle inside the unit
// square, then shuffles the presentation order so the hull sequence is not
// given away.
func circlePoints(n, seed int) []r2.Vec {
	rng := rand.New(rand.NewPCG(uint64(seed), 0))

	cx := circleCenterMargin + rng.Float64()*(1-2*circleCenterMargin)
	cy := circleCenterMargin + rng.Float64()*(1-2*circleCenterMargin)
	maxRadius := math.Min(math.Min(cx, cy), math.Min(1-cx, 1-cy))
	radius := circleMinRadius + rng.Float64()*(maxRadius-circleMinRadius)
	offset := rng.Float64() * 2 * math.Pi

	pts := make([]r2.Vec, n)
	for i := range pts {
		a := offset + 2*math.Pi*float64(i)/float64(n)
		pts[i] = r2.Vec{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)}
	}
	rng.Shuffle(len(pts), func(i, j int) { pts[i], pts[j] = pts[j], pts[i] })
	return pts
}

func clampUnit(v float64) float64 {
	return math.Min(math.Max(v, 0), math.Nextafter(1, 0))
}

func convexHullPrompt(pts []r2.Vec) string {
	lines := make([]string, 0, len(pts)+6)
	lines = append(lines, "You are given a set of 2D points (indices correspond to the order shown):", "[")
	rows := make([]string, len(pts))
	for i, p := range pts {
		rows[i] = fmt.Sprintf("[%s, %s]", formatCoord(p.X), formatCoord(p.Y))
	}
	lines = append(lines,
		strings.Join(rows, ",\n"),
		"]",
		"",
		"Return the convex hull vertices as a list of integer indices in counterclockwise order.",
		"Start the list at the smallest index among the hull vertices.",
		"Before presenting the final list, begin your response with <thinking>...</thinking> containing your full chain of thought or reasoning for your answer.",
		"Strict output: a Python list of integers only.",
	)
	return strings.Join(lines, "\n")
}

func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	// Keep a decimal point on integral values so prompts read as floats.
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
