package subdivision

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// withPrefixes expands a leaf set into the full prefix-closed node set.
func withPrefixes(leaves []string) []string {
	seen := map[string]struct{}{"": {}}
	for _, leaf := range leaves {
		for i := 1; i <= len(leaf); i++ {
			seen[leaf[:i]] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	return out
}

func mustTree(t *testing.T, dim Dimension, cycleAxes []Axis, leaves []string) *Tree {
	t.Helper()
	cyc, err := NewCycle(dim, cycleAxes)
	if err != nil {
		t.Fatalf("NewCycle: %v", err)
	}
	tree, err := NewTree(cyc, withPrefixes(leaves))
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	return tree
}

func TestTree_NewTree_PrefixClosure(t *testing.T) {
	cyc, _ := DefaultCycle(D2)
	if _, err := NewTree(cyc, []string{"0", "1", "00", "01"}); err != nil {
		t.Errorf("closed set rejected: %v", err)
	}
	if _, err := NewTree(cyc, []string{"0", "00"}); err != nil {
		t.Errorf("one-child closed set rejected: %v", err)
	}
	if _, err := NewTree(cyc, []string{"00"}); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("orphan node err = %v, want ErrInvalidPath", err)
	}
}

func TestTree_NewTree_PathSyntax(t *testing.T) {
	cyc, _ := DefaultCycle(D2)
	if _, err := NewTree(cyc, []string{"0", "1", "0x"}); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("non-bit path err = %v, want ErrInvalidPath", err)
	}
	deep := strings.Repeat("0", MaxDepth+1)
	if _, err := NewTree(cyc, []string{deep}); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("overdeep path err = %v, want ErrInvalidPath", err)
	}
}

func TestTree_NewTree_EmptyCycle(t *testing.T) {
	if _, err := NewTree(Cycle{}, nil); !errors.Is(err, ErrInvalidCycle) {
		t.Errorf("zero cycle err = %v, want ErrInvalidCycle", err)
	}
}

func TestTree_ExistsAndIsLeaf(t *testing.T) {
	tree := mustTree(t, D2, []Axis{AxisX, AxisY}, []string{"00", "01", "1"})

	cases := []struct {
		path   string
		exists bool
		leaf   bool
	}{
		{"", true, false},
		{"0", true, false},
		{"00", true, true},
		{"01", true, true},
		{"1", true, true},
		{"10", false, false},
		{"000", false, false},
	}
	for _, tc := range cases {
		if got := tree.Exists(tc.path); got != tc.exists {
			t.Errorf("Exists(%q) = %v, want %v", tc.path, got, tc.exists)
		}
		if got := tree.IsLeaf(tc.path); got != tc.leaf {
			t.Errorf("IsLeaf(%q) = %v, want %v", tc.path, got, tc.leaf)
		}
	}
}

func TestTree_IsLeaf_OneChildNode(t *testing.T) {
	// A node with a single child is internal, not a leaf.
	cyc, _ := DefaultCycle(D2)
	tree, err := NewTree(cyc, []string{"0", "00", "1"})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	if tree.IsLeaf("0") {
		t.Error("IsLeaf(0) = true for a one-child node")
	}
	if !tree.IsLeaf("00") {
		t.Error("IsLeaf(00) = false")
	}
}

func TestTree_Sibling(t *testing.T) {
	tree := mustTree(t, D2, []Axis{AxisX, AxisY}, []string{"00", "01", "1"})

	for _, tc := range []struct{ path, want string }{
		{"0", "1"},
		{"1", "0"},
		{"00", "01"},
		{"01", "00"},
	} {
		got, err := tree.Sibling(tc.path)
		if err != nil {
			t.Fatalf("Sibling(%q): %v", tc.path, err)
		}
		if got != tc.want {
			t.Errorf("Sibling(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}

	if _, err := tree.Sibling(""); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Sibling(root) err = %v, want ErrInvalidPath", err)
	}
}

func TestTree_SplitAxis_FollowsCycle(t *testing.T) {
	tree := mustTree(t, D3, []Axis{AxisZ, AxisY, AxisX}, []string{"0", "1"})
	want := []Axis{AxisZ, AxisY, AxisX, AxisZ}
	for depth, w := range want {
		if got := tree.SplitAxis(depth); got != w {
			t.Errorf("SplitAxis(%d) = %s, want %s", depth, got, w)
		}
	}
}

func TestTree_Leaves_Sorted(t *testing.T) {
	tree := mustTree(t, D2, []Axis{AxisX, AxisY}, []string{"1", "01", "000", "001"})
	want := []string{"000", "001", "01", "1"}
	if got := tree.Leaves(); !reflect.DeepEqual(got, want) {
		t.Errorf("Leaves() = %v, want %v", got, want)
	}
}

func TestTree_Leaves_RootOnly(t *testing.T) {
	cyc, _ := DefaultCycle(D2)
	tree, err := NewTree(cyc, nil)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	if got := tree.Leaves(); !reflect.DeepEqual(got, []string{""}) {
		t.Errorf("Leaves() = %v, want [\"\"]", got)
	}
}
