package subdivision

import (
	"errors"
	"fmt"
	"strings"
)

// Axis identifies a coordinate axis of the unit region.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the lowercase axis name ("x", "y" or "z").
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// Dimension is the dimensionality of the subdivided region.
type Dimension int

const (
	D2 Dimension = 2
	D3 Dimension = 3
)

// Errors returned by cycle, tree and adjacency operations.
var (
	// ErrInvalidCycle reports an empty axis cycle or one naming an axis
	// outside the region's dimension.
	ErrInvalidCycle = errors.New("subdivision: invalid axis cycle")

	// ErrInvalidPath reports a path that is malformed, too deep, or absent
	// from the tree where presence is required.
	ErrInvalidPath = errors.New("subdivision: invalid path")

	// ErrNotALeaf reports an adjacency query whose target is an internal node.
	ErrNotALeaf = errors.New("subdivision: target is not a leaf")
)

// Cycle is the repeating sequence of split axes. The axis used at depth d
// is the entry at d mod Len.
type Cycle struct {
	dim  Dimension
	axes []Axis
}

// NewCycle builds a validated cycle over the given axes.
func NewCycle(dim Dimension, axes []Axis) (Cycle, error) {
	if dim != D2 && dim != D3 {
		return Cycle{}, fmt.Errorf("%w: dimension must be 2 or 3, got %d", ErrInvalidCycle, int(dim))
	}
	if len(axes) == 0 {
		return Cycle{}, fmt.Errorf("%w: cycle must not be empty", ErrInvalidCycle)
	}
	for i, a := range axes {
		if a < AxisX || int(a) >= int(dim) {
			return Cycle{}, fmt.Errorf("%w: axis %s at position %d outside %dD", ErrInvalidCycle, a, i, int(dim))
		}
	}
	return Cycle{dim: dim, axes: append([]Axis(nil), axes...)}, nil
}

// ParseCycle builds a cycle from axis names such as ["x", "y", "z"].
// Names are case-insensitive.
func ParseCycle(dim Dimension, names []string) (Cycle, error) {
	axes := make([]Axis, 0, len(names))
	for i, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "x":
			axes = append(axes, AxisX)
		case "y":
			axes = append(axes, AxisY)
		case "z":
			axes = append(axes, AxisZ)
		default:
			return Cycle{}, fmt.Errorf("%w: unknown axis %q at position %d", ErrInvalidCycle, name, i)
		}
	}
	return NewCycle(dim, axes)
}

// DefaultCycle returns the alternating cycle x,y in 2D and x,y,z in 3D.
func DefaultCycle(dim Dimension) (Cycle, error) {
	switch dim {
	case D2:
		return NewCycle(dim, []Axis{AxisX, AxisY})
	case D3:
		return NewCycle(dim, []Axis{AxisX, AxisY, AxisZ})
	}
	return Cycle{}, fmt.Errorf("%w: dimension must be 2 or 3, got %d", ErrInvalidCycle, int(dim))
}

// StartAxisCycle returns the default cycle rotated to begin at start.
// In 2D, StartAxisCycle(D2, AxisY) yields y,x.
func StartAxisCycle(dim Dimension, start Axis) (Cycle, error) {
	base, err := DefaultCycle(dim)
	if err != nil {
		return Cycle{}, err
	}
	off := -1
	for i, a := range base.axes {
		if a == start {
			off = i
			break
		}
	}
	if off < 0 {
		return Cycle{}, fmt.Errorf("%w: start axis %s outside %dD", ErrInvalidCycle, start, int(dim))
	}
	rotated := make([]Axis, 0, len(base.axes))
	for i := range base.axes {
		rotated = append(rotated, base.axes[(off+i)%len(base.axes)])
	}
	return NewCycle(dim, rotated)
}

// Dim returns the cycle's region dimension.
func (c Cycle) Dim() Dimension { return c.dim }

// Len returns the number of axes in one period of the cycle.
func (c Cycle) Len() int { return len(c.axes) }

// AxisAt returns the split axis used by nodes at the given depth.
func (c Cycle) AxisAt(depth int) Axis {
	return c.axes[depth%len(c.axes)]
}

// Axes returns a copy of one period of the cycle.
func (c Cycle) Axes() []Axis {
	return append([]Axis(nil), c.axes...)
}

// String renders one period as "x → y → z".
func (c Cycle) String() string {
	names := make([]string, len(c.axes))
	for i, a := range c.axes {
		names[i] = a.String()
	}
	return strings.Join(names, " → ")
}
