// Package geom provides the planar geometry primitives behind the benchmark
// tasks: convex hulls, Delaunay triangulations and segment arrangements over
// the unit square. Points are gonum r2 vectors; indices refer to the caller's
// input order.
package geom

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrDegenerate reports a point set without the required general position
// (collinear hull input, concyclic quadruple, zero-area polygon).
var ErrDegenerate = errors.New("geom: degenerate point configuration")

// Orient returns twice the signed area of triangle abc: positive when the
// triangle winds counterclockwise.
func Orient(a, b, c r2.Vec) float64 {
	return r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
}

// InCircle returns the incircle determinant for points a, b, c, d. When abc
// winds counterclockwise the result is positive exactly when d lies strictly
// inside the circle through a, b and c.
func InCircle(a, b, c, d r2.Vec) float64 {
	pts := []r2.Vec{a, b, c, d}
	m := mat.NewDense(4, 4, nil)
	for i, p := range pts {
		m.SetRow(i, []float64{p.X, p.Y, p.X*p.X + p.Y*p.Y, 1})
	}
	return mat.Det(m)
}

// ConvexHullIndices returns the indices of the convex hull of pts in
// counterclockwise order, rotated so the smallest index comes first.
// Collinear points interior to a hull edge are excluded. Fails when fewer
// than three points remain on a non-degenerate hull.
func ConvexHullIndices(pts []r2.Vec) ([]int, error) {
	if len(pts) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 points, got %d", ErrDegenerate, len(pts))
	}

	order := make([]int, len(pts))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := pts[order[i]], pts[order[j]]
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})

	// Monotone chain: lower hull then upper hull, both strict so edge-interior
	// collinear points drop out.
	build := func(idx []int) []int {
		var chain []int
		for _, i := range idx {
			for len(chain) >= 2 &&
				Orient(pts[chain[len(chain)-2]], pts[chain[len(chain)-1]], pts[i]) <= 0 {
				chain = chain[:len(chain)-1]
			}
			chain = append(chain, i)
		}
		return chain
	}
	lower := build(order)
	rev := make([]int, len(order))
	for i, v := range order {
		rev[len(order)-1-i] = v
	}
	upper := build(rev)

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	if len(hull) < 3 {
		return nil, fmt.Errorf("%w: all points collinear", ErrDegenerate)
	}
	return RotateToMin(hull), nil
}

// RotateToMin rotates an index cycle so its smallest element comes first.
// The cyclic order is preserved.
func RotateToMin(indices []int) []int {
	if len(indices) == 0 {
		return indices
	}
	at := 0
	for i, v := range indices {
		if v < indices[at] {
			at = i
		}
	}
	out := make([]int, 0, len(indices))
	out = append(out, indices[at:]...)
	out = append(out, indices[:at]...)
	return out
}
