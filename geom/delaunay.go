package geom

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// delaunayTol guards the empty-circumcircle test against rounding noise.
// Point sets are rejection-sampled well clear of this margin.
const delaunayTol = 1e-12

// Triangulate returns the Delaunay triangulation of pts as index triples,
// each triple sorted ascending and the list sorted lexicographically. The
// points must be in general position (no three collinear, no four
// concyclic); the triangulation is then unique. The triple scan is cubic in
// candidate triangles, which is fine at benchmark sizes.
func Triangulate(pts []r2.Vec) ([][3]int, error) {
	n := len(pts)
	if n < 3 {
		return nil, fmt.Errorf("%w: need at least 3 points, got %d", ErrDegenerate, n)
	}

	var tris [][3]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				a, b, c := pts[i], pts[j], pts[k]
				orient := Orient(a, b, c)
				if orient == 0 {
					return nil, fmt.Errorf("%w: points %d, %d, %d are collinear", ErrDegenerate, i, j, k)
				}
				// Orient counterclockwise so the incircle sign is fixed.
				if orient < 0 {
					b, c = c, b
				}
				empty := true
				for p := 0; p < n; p++ {
					if p == i || p == j || p == k {
						continue
					}
					d := InCircle(a, b, c, pts[p])
					if d > delaunayTol {
						empty = false
						break
					}
					if d > -delaunayTol {
						return nil, fmt.Errorf("%w: four concyclic points around triangle %d,%d,%d", ErrDegenerate, i, j, k)
					}
				}
				if empty {
					tris = append(tris, [3]int{i, j, k})
				}
			}
		}
	}

	sort.Slice(tris, func(x, y int) bool {
		a, b := tris[x], tris[y]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		return a[2] < b[2]
	})
	return tris, nil
}
