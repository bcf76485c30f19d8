package dataset

import (
	"fmt"
	"sort"
	"strings"

	"vgbench/datagen"
	"vgbench/verify"
)

// GeneratorFn builds one dataset record from grid arguments.
type GeneratorFn func(datagen.Args, datagen.Options) (*datagen.Record, error)

// VerifierFn grades one answer against its record.
type VerifierFn func(string, *datagen.Record) verify.Result

// TaskSpec binds a problem type to its generator and verifier.
// RequiresGroundTruth is false for tasks graded geometrically rather than by
// comparing against a stored answer.
type TaskSpec struct {
	Generate            GeneratorFn
	Verify              VerifierFn
	RequiresGroundTruth bool
}

var taskRegistry = map[string]TaskSpec{
	datagen.ProblemTopologyEnumeration: {
		Generate:            datagen.GenerateTopologyEnumeration,
		Verify:              verify.TopologyEnumeration,
		RequiresGroundTruth: true,
	},
	datagen.ProblemTopologyEdge: {
		Generate:            datagen.GenerateTopologyEdge,
		Verify:              verify.TopologyEdge,
		RequiresGroundTruth: true,
	},
	datagen.ProblemConvexHull: {
		Generate:            datagen.GenerateConvexHull,
		Verify:              verify.ConvexHull,
		RequiresGroundTruth: true,
	},
	datagen.ProblemTwoSegments: {
		Generate:            datagen.GenerateTwoSegments,
		Verify:              verify.TwoSegments,
		RequiresGroundTruth: false,
	},
	datagen.ProblemDelaunay: {
		Generate:            datagen.GenerateDelaunay,
		Verify:              verify.Delaunay,
		RequiresGroundTruth: true,
	},
	datagen.ProblemShikaku: {
		Generate:            datagen.GenerateShikaku,
		Verify:              verify.Shikaku,
		RequiresGroundTruth: true,
	},
	datagen.ProblemHalfSubdivision: {
		Generate:            datagen.GenerateHalfSubdivision,
		Verify:              verify.HalfSubdivision,
		RequiresGroundTruth: true,
	},
}

// TaskSpecFor returns the registry entry for problemType.
func TaskSpecFor(problemType string) (TaskSpec, error) {
	spec, ok := taskRegistry[problemType]
	if !ok {
		return TaskSpec{}, fmt.Errorf("dataset: unknown problem type %q (available: %s)",
			problemType, strings.Join(ProblemTypes(), ", "))
	}
	return spec, nil
}

// ProblemTypes lists the registered problem types, sorted.
func ProblemTypes() []string {
	out := make([]string, 0, len(taskRegistry))
	for name := range taskRegistry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
