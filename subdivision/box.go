package subdivision

import "fmt"

// unitOne is the fixed-point width of the unit interval. One halving per
// tree level keeps every node boundary on an integer tick up to MaxDepth.
const unitOne uint64 = 1 << MaxDepth

// Interval is a half-open fixed-point extent [Lo, Hi) along one axis,
// measured in 1/unitOne units of the unit interval.
type Interval struct {
	Lo uint64
	Hi uint64
}

// mid returns the exact midpoint. Node extents always have even width
// above depth MaxDepth-1, so the division is exact.
func (iv Interval) mid() uint64 {
	return iv.Lo + (iv.Hi-iv.Lo)/2
}

// Float64 returns the interval endpoints scaled into [0, 1]. Display only;
// all structural decisions use the integer ticks.
func (iv Interval) Float64() (lo, hi float64) {
	return float64(iv.Lo) / float64(unitOne), float64(iv.Hi) / float64(unitOne)
}

// Box is the axis-aligned extent of a node, one interval per axis.
// Entries beyond the tree's dimension are unused.
type Box struct {
	dim Dimension
	iv  [3]Interval
}

// Dim returns the box's dimensionality.
func (b Box) Dim() Dimension { return b.dim }

// Interval returns the extent along the given axis.
func (b Box) Interval(a Axis) Interval { return b.iv[a] }

// splitChild returns the half of b selected by bit along axis a.
func (b Box) splitChild(a Axis, bit byte) Box {
	m := b.iv[a].mid()
	child := b
	if bit == '0' {
		child.iv[a].Hi = m
	} else {
		child.iv[a].Lo = m
	}
	return child
}

// unitBox returns the full unit region.
func unitBox(dim Dimension) Box {
	b := Box{dim: dim}
	for a := 0; a < int(dim); a++ {
		b.iv[a] = Interval{Lo: 0, Hi: unitOne}
	}
	return b
}

// BoundingBox resolves the axis-aligned extent of the node at path by
// replaying its bits from the root, one exact halving per level. The path
// must name an existing node.
func (t *Tree) BoundingBox(path string) (Box, error) {
	if !t.Exists(path) {
		return Box{}, fmt.Errorf("%w: no node %q", ErrInvalidPath, path)
	}
	b := unitBox(t.Dim())
	for depth := 0; depth < len(path); depth++ {
		b = b.splitChild(t.SplitAxis(depth), path[depth])
	}
	return b, nil
}
