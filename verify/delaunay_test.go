package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vgbench/datagen"
)

func triangulationRecord(tris [][]int) *datagen.Record {
	return &datagen.Record{GroundTruth: tris}
}

func TestDelaunay_MultisetComparison(t *testing.T) {
	rec := triangulationRecord([][]int{{0, 1, 2}, {1, 2, 3}})
	for _, output := range []string{
		"[[0, 1, 2], [1, 2, 3]]",
		"[[1, 2, 3], [0, 1, 2]]",
		"[[2, 1, 3], [2, 0, 1]]", // vertex order within a triangle is free
	} {
		res := Delaunay(output, rec)
		assert.True(t, res.Passed, "output %q: %v", output, res)
	}
}

func TestDelaunay_MissingAndExtra(t *testing.T) {
	rec := triangulationRecord([][]int{{0, 1, 2}, {1, 2, 3}})
	res := Delaunay("[[0, 1, 2], [1, 2, 4]]", rec)
	assert.False(t, res.Passed)
	assert.Equal(t, []any{[]int{1, 2, 3}}, res.Missing)
	assert.Equal(t, []any{[]int{1, 2, 4}}, res.Extra)
}

func TestDelaunay_FormatErrors(t *testing.T) {
	rec := triangulationRecord([][]int{{0, 1, 2}})
	cases := []struct {
		output string
		want   string
	}{
		{"[(0, 1, 2)]", "triangle_0_not_list"},
		{"[[0, 1]]", "triangle_0_wrong_length"},
		{"[[0, 1, 2], [1, 2, 3, 4]]", "triangle_1_wrong_length"},
		{"[[0, 1, -2]]", "triangle_0_invalid_indices"},
		{"[[0, 1, 2.5]]", "triangle_0_invalid_indices"},
		{"not json", "parse_failure"},
	}
	for _, tc := range cases {
		res := Delaunay(tc.output, rec)
		assert.Equal(t, []string{tc.want}, res.Errors, "output %q", tc.output)
	}
}

func TestDelaunay_DuplicateTrianglesCounted(t *testing.T) {
	rec := triangulationRecord([][]int{{0, 1, 2}})
	res := Delaunay("[[0, 1, 2], [0, 1, 2]]", rec)
	assert.False(t, res.Passed)
	assert.Equal(t, []any{[]int{0, 1, 2}}, res.Extra)
	assert.Empty(t, res.Missing)
}
