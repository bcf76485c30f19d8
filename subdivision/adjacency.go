package subdivision

import (
	"fmt"
	"sort"
)

// faceDir distinguishes the two faces of a leaf along one axis.
type faceDir int

const (
	faceLower faceDir = iota // face at the leaf's low coordinate
	faceUpper                // face at the leaf's high coordinate
)

// AdjacentLeaves returns the leaves sharing a (D-1)-dimensional face of
// positive measure with target, in lexicographic order. Edge and corner
// contacts are excluded. The target must be an existing leaf.
//
// The computation is purely structural: for each of the 2·D faces it climbs
// to the deepest ancestor that split along the face's axis with the target
// on the far side, steps into that ancestor's other half, and descends back
// toward the face, comparing fixed-point interval bounds at off-axis splits.
// No floating-point coordinates are consulted.
func AdjacentLeaves(t *Tree, target string) ([]string, error) {
	if !t.Exists(target) {
		return nil, fmt.Errorf("%w: no node %q", ErrInvalidPath, target)
	}
	if !t.IsLeaf(target) {
		return nil, fmt.Errorf("%w: %q has children", ErrNotALeaf, target)
	}

	tbox, err := t.BoundingBox(target)
	if err != nil {
		return nil, err
	}

	found := make(map[string]struct{})
	for a := Axis(0); int(a) < int(t.Dim()); a++ {
		for _, dir := range []faceDir{faceLower, faceUpper} {
			if err := collectFaceNeighbours(t, target, tbox, a, dir, found); err != nil {
				return nil, err
			}
		}
	}

	out := make([]string, 0, len(found))
	for p := range found {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// collectFaceNeighbours adds to found every leaf touching the given face of
// target. A face on the unit-region boundary contributes nothing.
func collectFaceNeighbours(t *Tree, target string, tbox Box, a Axis, dir faceDir, found map[string]struct{}) error {
	// The neighbour across the lower face lies below the target, so the
	// relevant ancestor split put the target in its upper half ('1'), and
	// symmetrically for the upper face.
	wantBit := byte('1')
	if dir == faceUpper {
		wantBit = '0'
	}

	climb := -1
	for i := len(target) - 1; i >= 0; i-- {
		if t.SplitAxis(i) == a && target[i] == wantBit {
			climb = i
			break
		}
	}
	if climb < 0 {
		// Face lies on the boundary of the unit region.
		return nil
	}

	entry := target[:climb] + flipBit(target[climb])
	if !t.Exists(entry) {
		return fmt.Errorf("%w: node %q has no sibling %q covering the %s face of %q",
			ErrInvalidPath, target[:climb+1], entry, faceName(a, dir), target)
	}
	ebox, err := t.BoundingBox(entry)
	if err != nil {
		return err
	}

	// Descend from the sibling back toward the shared face. On the face
	// axis only the half touching the face survives; on other axes a child
	// survives when its interval overlaps the target's.
	type frame struct {
		path string
		box  Box
	}
	stack := []frame{{path: entry, box: ebox}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if t.IsLeaf(top.path) {
			found[top.path] = struct{}{}
			continue
		}

		b := t.SplitAxis(len(top.path))
		if b == a {
			// Keep the half facing the target: the upper child when the
			// target sits above this region, the lower child otherwise.
			bit := byte('1')
			if dir == faceUpper {
				bit = '0'
			}
			child := top.path + string(bit)
			if !t.Exists(child) {
				return fmt.Errorf("%w: node %q missing child %q covering the %s face of %q",
					ErrInvalidPath, top.path, child, faceName(a, dir), target)
			}
			stack = append(stack, frame{path: child, box: top.box.splitChild(b, bit)})
			continue
		}

		m := top.box.iv[b].mid()
		ti := tbox.iv[b]
		if ti.Lo < m {
			child := top.path + "0"
			if !t.Exists(child) {
				return fmt.Errorf("%w: node %q missing child %q covering the %s face of %q",
					ErrInvalidPath, top.path, child, faceName(a, dir), target)
			}
			stack = append(stack, frame{path: child, box: top.box.splitChild(b, '0')})
		}
		if ti.Hi > m {
			child := top.path + "1"
			if !t.Exists(child) {
				return fmt.Errorf("%w: node %q missing child %q covering the %s face of %q",
					ErrInvalidPath, top.path, child, faceName(a, dir), target)
			}
			stack = append(stack, frame{path: child, box: top.box.splitChild(b, '1')})
		}
	}
	return nil
}

func flipBit(b byte) string {
	if b == '0' {
		return "1"
	}
	return "0"
}

func faceName(a Axis, dir faceDir) string {
	if dir == faceLower {
		return "-" + a.String()
	}
	return "+" + a.String()
}
