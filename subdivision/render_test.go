package subdivision

import (
	"errors"
	"reflect"
	"testing"
)

func TestRender_SmallTree(t *testing.T) {
	tree := mustTree(t, D2, []Axis{AxisX, AxisY}, []string{"00", "01", "1"})
	want := `""
├── 0
│   ├── 00
│   └── 01
└── 1
`
	if got := Render(tree); got != want {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_RootOnly(t *testing.T) {
	cyc, _ := DefaultCycle(D2)
	tree, err := NewTree(cyc, nil)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	if got := Render(tree); got != "\"\"\n" {
		t.Errorf("Render() = %q, want %q", got, "\"\"\n")
	}
}

func TestRender_ParseRoundTrip(t *testing.T) {
	tree := mustTree(t, D2, []Axis{AxisX, AxisY}, []string{
		"000", "00100", "00101", "00110", "00111", "01",
		"100", "1010", "10110", "10111", "1100", "1101", "111",
	})
	paths, err := ParseListing(Render(tree))
	if err != nil {
		t.Fatalf("ParseListing: %v", err)
	}
	cyc := tree.Cycle()
	back, err := NewTree(cyc, paths)
	if err != nil {
		t.Fatalf("NewTree(parsed): %v", err)
	}
	if !reflect.DeepEqual(back.Paths(), tree.Paths()) {
		t.Errorf("round trip paths = %v, want %v", back.Paths(), tree.Paths())
	}
}

func TestParseListing_RejectsBadLabels(t *testing.T) {
	if _, err := ParseListing("\"\"\n└── 2\n"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("non-bit label err = %v, want ErrInvalidPath", err)
	}
	if _, err := ParseListing("\"\"\n└── 00\n"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("depth mismatch err = %v, want ErrInvalidPath", err)
	}
}
