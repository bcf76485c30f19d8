package geom

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// Segment is a straight segment between two endpoints.
type Segment [2]r2.Vec

// arrTol merges nearly coincident arrangement vertices and guards the
// point-on-segment tests. Inputs are snapped to a coarse decimal grid before
// they reach the arrangement, so this is far below any real feature size.
const arrTol = 1e-9

var shapeByVertexCount = map[int]string{
	3: "triangle",
	4: "quadrilateral",
	5: "pentagon",
	6: "hexagon",
}

// UnitSquareFrame returns the four edges of the unit square.
func UnitSquareFrame() []Segment {
	return []Segment{
		{r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 0}},
		{r2.Vec{X: 1, Y: 0}, r2.Vec{X: 1, Y: 1}},
		{r2.Vec{X: 1, Y: 1}, r2.Vec{X: 0, Y: 1}},
		{r2.Vec{X: 0, Y: 1}, r2.Vec{X: 0, Y: 0}},
	}
}

// CountShapes overlays the given segments on the unit-square frame,
// polygonises the resulting planar arrangement, and counts the bounded
// faces by shape name (triangle, quadrilateral, pentagon, hexagon). Face
// vertices are snapped to the given number of decimals and collinear
// vertices dropped before classification, so a segment ending mid-edge does
// not turn a triangle into a quadrilateral. Faces outside the 3-6 vertex
// range are ignored.
func CountShapes(segments []Segment, decimals int) map[string]int {
	all := append(UnitSquareFrame(), segments...)

	g := newArrangement()
	for i, s := range all {
		g.addSegment(s, otherSegments(all, i))
	}

	counts := make(map[string]int)
	for _, face := range g.boundedFaces() {
		verts := simplifyFace(face, decimals)
		if name, ok := shapeByVertexCount[len(verts)]; ok {
			counts[name]++
		}
	}
	return counts
}

func otherSegments(all []Segment, skip int) []Segment {
	out := make([]Segment, 0, len(all)-1)
	for i, s := range all {
		if i != skip {
			out = append(out, s)
		}
	}
	return out
}

// arrangement is a planar graph of arrangement vertices and edges.
type arrangement struct {
	nodes []r2.Vec
	index map[[2]int64]int
	edges map[[2]int]struct{}
}

func newArrangement() *arrangement {
	return &arrangement{
		index: make(map[[2]int64]int),
		edges: make(map[[2]int]struct{}),
	}
}

func (g *arrangement) node(p r2.Vec) int {
	key := [2]int64{int64(math.Round(p.X / arrTol)), int64(math.Round(p.Y / arrTol))}
	if id, ok := g.index[key]; ok {
		return id
	}
	id := len(g.nodes)
	g.nodes = append(g.nodes, p)
	g.index[key] = id
	return id
}

// addSegment splits s at every crossing with, or endpoint of, the other
// segments and records the resulting sub-edges.
func (g *arrangement) addSegment(s Segment, others []Segment) {
	type cut struct {
		t float64
		p r2.Vec
	}
	cuts := []cut{{0, s[0]}, {1, s[1]}}

	for _, o := range others {
		if p, t, ok := properCrossing(s, o); ok {
			cuts = append(cuts, cut{t, p})
		}
		// Endpoints of other segments resting on s split it too (T-junctions
		// and collinear overlaps).
		for _, q := range o {
			if t, ok := paramOnSegment(q, s); ok {
				cuts = append(cuts, cut{t, q})
			}
		}
	}

	sort.Slice(cuts, func(i, j int) bool { return cuts[i].t < cuts[j].t })

	prev := -1
	for _, c := range cuts {
		id := g.node(c.p)
		if prev >= 0 && id != prev {
			lo, hi := prev, id
			if lo > hi {
				lo, hi = hi, lo
			}
			g.edges[[2]int{lo, hi}] = struct{}{}
		}
		if id != prev {
			prev = id
		}
	}
}

// properCrossing returns the intersection point of non-parallel segments a
// and b when it lies within both, with its parameter along a.
func properCrossing(a, b Segment) (r2.Vec, float64, bool) {
	da := r2.Sub(a[1], a[0])
	db := r2.Sub(b[1], b[0])
	denom := r2.Cross(da, db)
	if math.Abs(denom) <= arrTol {
		return r2.Vec{}, 0, false
	}
	w := r2.Sub(b[0], a[0])
	t := r2.Cross(w, db) / denom
	u := r2.Cross(w, da) / denom
	if t < -arrTol || t > 1+arrTol || u < -arrTol || u > 1+arrTol {
		return r2.Vec{}, 0, false
	}
	return r2.Add(a[0], r2.Scale(t, da)), t, true
}

// paramOnSegment returns p's parameter along s when p lies on s.
func paramOnSegment(p r2.Vec, s Segment) (float64, bool) {
	d := r2.Sub(s[1], s[0])
	w := r2.Sub(p, s[0])
	if math.Abs(r2.Cross(d, w)) > arrTol {
		return 0, false
	}
	len2 := r2.Dot(d, d)
	if len2 <= arrTol {
		return 0, false
	}
	t := r2.Dot(w, d) / len2
	if t < -arrTol || t > 1+arrTol {
		return 0, false
	}
	return t, true
}

// boundedFaces walks every face of the arrangement and returns the bounded
// ones as vertex loops. Traversal keeps the face interior on the left, so
// bounded faces come out counterclockwise with positive area and the single
// unbounded face drops out on its negative area.
func (g *arrangement) boundedFaces() [][]r2.Vec {
	adj := make(map[int][]int)
	for e := range g.edges {
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}
	for v, ns := range adj {
		p := g.nodes[v]
		sort.Slice(ns, func(i, j int) bool {
			return angleTo(p, g.nodes[ns[i]]) < angleTo(p, g.nodes[ns[j]])
		})
		adj[v] = ns
	}

	visited := make(map[[2]int]bool)
	var faces [][]r2.Vec
	for e := range g.edges {
		for _, start := range [][2]int{{e[0], e[1]}, {e[1], e[0]}} {
			if visited[start] {
				continue
			}
			var loop []r2.Vec
			u, v := start[0], start[1]
			for {
				visited[[2]int{u, v}] = true
				loop = append(loop, g.nodes[v])
				ns := adj[v]
				at := 0
				for i, w := range ns {
					if w == u {
						at = i
						break
					}
				}
				// Step to the next edge clockwise from the reversal: this
				// keeps the face interior on the left.
				u, v = v, ns[(at-1+len(ns))%len(ns)]
				if u == start[0] && v == start[1] {
					break
				}
			}
			if signedArea(loop) > arrTol {
				faces = append(faces, loop)
			}
		}
	}
	return faces
}

func angleTo(from, to r2.Vec) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

func signedArea(loop []r2.Vec) float64 {
	var area float64
	for i, p := range loop {
		q := loop[(i+1)%len(loop)]
		area += p.X*q.Y - q.X*p.Y
	}
	return area / 2
}

// simplifyFace snaps a face loop to the decimal grid, drops consecutive
// duplicates, then iteratively removes vertices that have become collinear
// at that precision.
func simplifyFace(loop []r2.Vec, decimals int) []r2.Vec {
	scale := math.Pow(10, float64(decimals))
	snap := func(v float64) float64 { return math.Round(v*scale) / scale }

	var verts []r2.Vec
	for _, p := range loop {
		q := r2.Vec{X: snap(p.X), Y: snap(p.Y)}
		if len(verts) == 0 || q != verts[len(verts)-1] {
			verts = append(verts, q)
		}
	}
	if len(verts) > 1 && verts[0] == verts[len(verts)-1] {
		verts = verts[:len(verts)-1]
	}

	changed := true
	for changed && len(verts) >= 3 {
		changed = false
		for i := range verts {
			prev := verts[(i-1+len(verts))%len(verts)]
			next := verts[(i+1)%len(verts)]
			if snap(Orient(prev, verts[i], next)) == 0 {
				verts = append(verts[:i], verts[i+1:]...)
				changed = true
				break
			}
		}
	}
	return verts
}
