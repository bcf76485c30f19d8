package subdivision

import (
	"fmt"
	"sort"
)

// MaxDepth is the deepest representable node. Depths beyond this would
// overflow the fixed-point interval arithmetic in BoundingBox.
const MaxDepth = 62

// Tree is an immutable half-space subdivision: a prefix-closed set of
// bit-string paths plus the axis cycle that assigns a split axis to every
// depth. The root is the empty path "".
type Tree struct {
	cycle Cycle
	nodes map[string]struct{}
}

// NewTree builds a tree from the given node paths. The root is always
// present and may be omitted from paths. Every other path must consist of
// '0'/'1' characters, be at most MaxDepth long, and have its parent in the
// set (prefix closure). Geometric consistency beyond closure is not
// checked; a node with a single child is representable.
func NewTree(cycle Cycle, paths []string) (*Tree, error) {
	if cycle.Len() == 0 {
		return nil, fmt.Errorf("%w: tree requires a non-empty cycle", ErrInvalidCycle)
	}
	nodes := make(map[string]struct{}, len(paths)+1)
	nodes[""] = struct{}{}
	for _, p := range paths {
		if err := checkPathSyntax(p); err != nil {
			return nil, err
		}
		nodes[p] = struct{}{}
	}
	for p := range nodes {
		if p == "" {
			continue
		}
		if _, ok := nodes[p[:len(p)-1]]; !ok {
			return nil, fmt.Errorf("%w: node %q has no parent %q", ErrInvalidPath, p, p[:len(p)-1])
		}
	}
	return &Tree{cycle: cycle, nodes: nodes}, nil
}

// checkPathSyntax rejects paths with non-bit characters or excessive depth.
func checkPathSyntax(p string) error {
	if len(p) > MaxDepth {
		return fmt.Errorf("%w: path %q exceeds max depth %d", ErrInvalidPath, p, MaxDepth)
	}
	for i := 0; i < len(p); i++ {
		if p[i] != '0' && p[i] != '1' {
			return fmt.Errorf("%w: path %q contains %q", ErrInvalidPath, p, p[i])
		}
	}
	return nil
}

// Cycle returns the tree's axis cycle.
func (t *Tree) Cycle() Cycle { return t.cycle }

// Dim returns the dimensionality of the subdivided region.
func (t *Tree) Dim() Dimension { return t.cycle.Dim() }

// Len returns the number of nodes, root included.
func (t *Tree) Len() int { return len(t.nodes) }

// Exists reports whether path names a node of the tree.
func (t *Tree) Exists(path string) bool {
	_, ok := t.nodes[path]
	return ok
}

// IsLeaf reports whether path is a node with no children. Absent paths are
// not leaves.
func (t *Tree) IsLeaf(path string) bool {
	if !t.Exists(path) {
		return false
	}
	if t.Exists(path+"0") || t.Exists(path+"1") {
		return false
	}
	return true
}

// SplitAxis returns the axis along which nodes at the given depth split.
func (t *Tree) SplitAxis(depth int) Axis {
	return t.cycle.AxisAt(depth)
}

// Sibling returns the path that differs from path in its final bit.
// The root has no sibling. The sibling is not required to exist in the
// tree; callers check Exists when presence matters.
func (t *Tree) Sibling(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: root has no sibling", ErrInvalidPath)
	}
	if err := checkPathSyntax(path); err != nil {
		return "", err
	}
	last := path[len(path)-1]
	if last == '0' {
		return path[:len(path)-1] + "1", nil
	}
	return path[:len(path)-1] + "0", nil
}

// Leaves returns all leaf paths in lexicographic order.
func (t *Tree) Leaves() []string {
	leaves := make([]string, 0, len(t.nodes))
	for p := range t.nodes {
		if t.IsLeaf(p) {
			leaves = append(leaves, p)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// Paths returns all node paths, root included, in lexicographic order.
func (t *Tree) Paths() []string {
	paths := make([]string, 0, len(t.nodes))
	for p := range t.nodes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
