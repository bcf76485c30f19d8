package datagen

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"vgbench/subdivision"
)

// ProblemHalfSubdivision identifies half-subdivision neighbour records.
const ProblemHalfSubdivision = "half_subdivision_neighbours"

const halfSubdivisionPrompt2D = "You are given a binary tree describing an axis-aligned half subdivision of the unit square.\n" +
	"\n" +
	"Each node splits its parent cell into two children by bisecting along axes in the repeating cycle %s.\n" +
	"\n" +
	"Here is the subdivision tree:\n" +
	"\n" +
	"```\n" +
	"%s\n" +
	"```\n" +
	"\n" +
	"Target leaf: %s\n" +
	"\n" +
	"Before presenting the final list, begin your response with <thinking>...</thinking> containing your full chain of thought or reasoning for your answer.\n" +
	"List every leaf that shares a boundary segment with the target. Return the labels as a comma-separated list of strings (quotes optional)."

const halfSubdivisionPrompt3D = "You are given a binary tree describing an axis-aligned half subdivision of the unit cube.\n" +
	"\n" +
	"Each node splits its parent cell into two children by bisecting along axes in the repeating cycle %s.\n" +
	"\n" +
	"Here is the subdivision tree:\n" +
	"\n" +
	"```\n" +
	"%s\n" +
	"```\n" +
	"\n" +
	"Target leaf: %s\n" +
	"\n" +
	"Before presenting the final list, begin your response with <thinking>...</thinking> containing your full chain of thought or reasoning for your answer.\n" +
	"List every leaf that shares a face with the target voxel. Return the labels as a comma-separated list of strings (quotes optional)."

// GenerateHalfSubdivision builds one neighbour-listing record: a random
// subdivision tree rendered into the prompt, a target leaf, and the sorted
// labels of every leaf sharing a face with it as ground truth.
//
// Required args: max_depth, seed, split_prob. Optional: dimension ("2D" or
// "3D", default 2D), min_depth, axis_cycle, start_axis, target_label.
func GenerateHalfSubdivision(args Args, opts Options) (*Record, error) {
	maxDepth, err := args.intArg("max_depth")
	if err != nil {
		return nil, err
	}
	seed, err := args.intArg("seed")
	if err != nil {
		return nil, err
	}
	splitProb, err := args.floatArg("split_prob")
	if err != nil {
		return nil, err
	}
	minDepth, err := args.intDefault("min_depth", 0)
	if err != nil {
		return nil, err
	}
	dimName, err := args.stringDefault("dimension", "2D")
	if err != nil {
		return nil, err
	}
	dimName = strings.ToUpper(dimName)

	var dim subdivision.Dimension
	switch dimName {
	case "2D":
		dim = subdivision.D2
	case "3D":
		dim = subdivision.D3
	default:
		return nil, fmt.Errorf("datagen: invalid dimension %q, must be \"2D\" or \"3D\"", dimName)
	}

	if maxDepth < 0 || minDepth < 0 {
		return nil, fmt.Errorf("datagen: depth values must be non-negative")
	}
	if maxDepth > subdivision.MaxDepth {
		return nil, fmt.Errorf("datagen: max_depth %d exceeds limit %d", maxDepth, subdivision.MaxDepth)
	}
	if splitProb < 0 || splitProb > 1 {
		return nil, fmt.Errorf("datagen: split_prob must be within [0, 1], got %v", splitProb)
	}
	if minDepth > maxDepth {
		return nil, fmt.Errorf("datagen: min_depth %d cannot exceed max_depth %d", minDepth, maxDepth)
	}

	cycle, err := resolveAxisCycle(dim, args)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	paths := buildSubdivisionPaths(rng, maxDepth, minDepth, splitProb)

	tree, err := subdivision.NewTree(cycle, paths)
	if err != nil {
		return nil, fmt.Errorf("datagen: building subdivision tree: %w", err)
	}
	leaves := tree.Leaves()

	target, err := pickTarget(args, rng, tree, leaves)
	if err != nil {
		return nil, err
	}

	neighbours, err := subdivision.AdjacentLeaves(tree, target)
	if err != nil {
		return nil, fmt.Errorf("datagen: computing neighbours: %w", err)
	}

	groundTruth := make([]string, len(neighbours))
	for i, n := range neighbours {
		groundTruth[i] = displayLabel(n)
	}

	axisNames := make([]string, 0, cycle.Len())
	for _, a := range cycle.Axes() {
		axisNames = append(axisNames, a.String())
	}

	template := halfSubdivisionPrompt2D
	if dim == subdivision.D3 {
		template = halfSubdivisionPrompt3D
	}
	treeText := strings.TrimRight(subdivision.Render(tree), "\n")
	cycleText := cycle.String() + " (repeating)"
	prompt := fmt.Sprintf(template, cycleText, treeText, displayLabel(target))

	storedArgs := args.clone()
	storedArgs["axis_cycle"] = axisNames

	metadata := map[string]any{"problem_type": ProblemHalfSubdivision}
	if len(opts.Tags) > 0 {
		metadata["tags"] = opts.Tags
	}
	if opts.Difficulty != "" {
		metadata["difficulty"] = opts.Difficulty
	}

	id := opts.RecordID
	if id == "" {
		id = ContentHash(ProblemHalfSubdivision, storedArgs, prompt, groundTruth)
	}

	return &Record{
		ID:          id,
		Prompt:      prompt,
		GroundTruth: groundTruth,
		Metadata:    metadata,
		DatagenArgs: storedArgs,
		Runtime: map[string]any{
			"target_label":    displayLabel(target),
			"neighbour_count": len(groundTruth),
			"max_depth":       maxDepth,
			"min_depth":       minDepth,
			"split_prob":      splitProb,
			"seed":            seed,
			"start_axis":      axisNames[0],
			"axis_cycle":      axisNames,
			"dimension":       dimName,
		},
	}, nil
}

// resolveAxisCycle picks the cycle from an explicit axis_cycle list, a
// start_axis rotation of the default, or the plain default for the
// dimension, in that precedence order.
func resolveAxisCycle(dim subdivision.Dimension, args Args) (subdivision.Cycle, error) {
	names, err := args.stringList("axis_cycle")
	if err != nil {
		return subdivision.Cycle{}, err
	}
	if names != nil {
		if len(names) == 0 {
			return subdivision.Cycle{}, fmt.Errorf("datagen: axis_cycle must contain at least one axis")
		}
		return subdivision.ParseCycle(dim, names)
	}

	start, err := args.stringDefault("start_axis", "")
	if err != nil {
		return subdivision.Cycle{}, err
	}
	if start == "" {
		return subdivision.DefaultCycle(dim)
	}
	var axis subdivision.Axis
	switch strings.ToLower(start) {
	case "x":
		axis = subdivision.AxisX
	case "y":
		axis = subdivision.AxisY
	case "z":
		axis = subdivision.AxisZ
	default:
		return subdivision.Cycle{}, fmt.Errorf("datagen: invalid start_axis %q", start)
	}
	return subdivision.StartAxisCycle(dim, axis)
}

// buildSubdivisionPaths grows a random tree depth-first, lower child first.
// A node splits when it is shallower than min_depth, and otherwise with
// probability split_prob, up to max_depth. The single RNG draw per
// splittable node keeps the sequence reproducible.
func buildSubdivisionPaths(rng *rand.Rand, maxDepth, minDepth int, splitProb float64) []string {
	var paths []string
	var grow func(label string, depth int)
	grow = func(label string, depth int) {
		paths = append(paths, label)
		if depth == maxDepth {
			return
		}
		if depth >= minDepth && rng.Float64() >= splitProb {
			return
		}
		grow(label+"0", depth+1)
		grow(label+"1", depth+1)
	}
	grow("", 0)
	return paths
}

// pickTarget uses the forced target_label when present, otherwise draws a
// uniform leaf from the RNG stream after tree construction.
func pickTarget(args Args, rng *rand.Rand, tree *subdivision.Tree, leaves []string) (string, error) {
	raw, ok := args["target_label"]
	if !ok || raw == nil {
		return leaves[rng.IntN(len(leaves))], nil
	}
	label, isString := raw.(string)
	if !isString {
		return "", fmt.Errorf("datagen: target_label must be a string, got %T", raw)
	}
	label = strings.TrimSpace(label)
	if label == `""` {
		label = ""
	}
	if !tree.IsLeaf(label) {
		preview := leaves
		if len(preview) > 10 {
			preview = preview[:10]
		}
		return "", fmt.Errorf("datagen: target_label %q is not a leaf in this subdivision (first leaves: %v)", label, preview)
	}
	return label, nil
}

// displayLabel shows the root's empty path as a pair of quotes.
func displayLabel(path string) string {
	if path == "" {
		return `""`
	}
	return path
}
