package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vgbench/datagen"
)

func TestProblemTypes(t *testing.T) {
	assert.Equal(t, []string{
		datagen.ProblemConvexHull,
		datagen.ProblemDelaunay,
		datagen.ProblemHalfSubdivision,
		datagen.ProblemShikaku,
		datagen.ProblemTopologyEdge,
		datagen.ProblemTopologyEnumeration,
		datagen.ProblemTwoSegments,
	}, ProblemTypes())
}

func TestTaskSpecFor(t *testing.T) {
	for _, name := range ProblemTypes() {
		spec, err := TaskSpecFor(name)
		require.NoError(t, err, name)
		assert.NotNil(t, spec.Generate, name)
		assert.NotNil(t, spec.Verify, name)
	}

	spec, err := TaskSpecFor(datagen.ProblemTwoSegments)
	require.NoError(t, err)
	assert.False(t, spec.RequiresGroundTruth)

	spec, err = TaskSpecFor(datagen.ProblemConvexHull)
	require.NoError(t, err)
	assert.True(t, spec.RequiresGroundTruth)
}

func TestTaskSpecFor_Unknown(t *testing.T) {
	_, err := TaskSpecFor("sudoku")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown problem type "sudoku"`)
	assert.Contains(t, err.Error(), datagen.ProblemDelaunay)
}
