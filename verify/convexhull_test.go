package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vgbench/datagen"
)

func hullRecord(indices ...int) *datagen.Record {
	return &datagen.Record{GroundTruth: indices}
}

func TestConvexHull_RotationInvariant(t *testing.T) {
	rec := hullRecord(0, 2, 5, 7)
	for _, output := range []string{
		"[0, 2, 5, 7]",
		"[5, 7, 0, 2]",
		"[7, 0, 2, 5]",
	} {
		res := ConvexHull(output, rec)
		assert.True(t, res.Passed, "output %q: %v", output, res)
	}
}

func TestConvexHull_OrderMismatch(t *testing.T) {
	res := ConvexHull("[0, 7, 5, 2]", hullRecord(0, 2, 5, 7))
	assert.False(t, res.Passed)
	assert.Empty(t, res.Missing)
	assert.Empty(t, res.Extra)
	assert.Equal(t, []string{"order_mismatch"}, res.Errors)
}

func TestConvexHull_MissingAndExtra(t *testing.T) {
	res := ConvexHull("[0, 2, 5, 8]", hullRecord(0, 2, 5, 7))
	assert.False(t, res.Passed)
	assert.Equal(t, []any{7}, res.Missing)
	assert.Equal(t, []any{8}, res.Extra)
	assert.Empty(t, res.Errors)
}

func TestConvexHull_InvalidSequences(t *testing.T) {
	rec := hullRecord(0, 2, 5)
	for _, output := range []string{
		"[0, 2]",        // too short
		"[0, 2, 2, 5]",  // duplicate
		"[0, -1, 5]",    // negative
		"[0.5, 2, 5]",   // non-integer
		"[0, 2.0, 5]",   // floats stay floats
		`["0", "2", "5"]`,
	} {
		res := ConvexHull(output, rec)
		assert.Equal(t, []string{"invalid_sequence"}, res.Errors, "output %q", output)
	}
}

func TestConvexHull_ParseFailure(t *testing.T) {
	rec := hullRecord(0, 2, 5)
	for _, output := range []string{"", "not a list", "(0, 2, 5)"} {
		res := ConvexHull(output, rec)
		assert.Equal(t, []string{"parse_failure"}, res.Errors, "output %q", output)
	}
}

func TestConvexHull_GroundTruthFromJSON(t *testing.T) {
	// After a JSONL round trip the ground truth arrives as []any of float64.
	rec := &datagen.Record{GroundTruth: []any{0.0, 2.0, 5.0}}
	res := ConvexHull("[2, 5, 0]", rec)
	assert.True(t, res.Passed, "%v", res)
}
