package datagen

import (
	"fmt"
	"strings"
)

// ProblemTopologyEnumeration identifies topology enumeration records.
const ProblemTopologyEnumeration = "topology_enumeration"

// Configurations forcing two classes to meet inside the square, in
// canonical corner order.
var solutionsTwoClasses = [][4]int{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
	{0, 0, 0, 1},
	{0, 0, 1, 1},
	{0, 1, 1, 0},
	{0, 1, 0, 1},
}

// Configurations forcing three classes to meet at a point inside the
// square, in canonical corner order.
var solutionsThreeClasses = [][4]int{
	{0, 0, 1, 2},
	{1, 0, 0, 2},
	{1, 2, 0, 0},
	{0, 1, 2, 0},
}

// GenerateTopologyEnumeration builds one enumeration record: which
// corner-label configurations of a unit square guarantee that n distinct
// classes meet inside, given only corner observations and continuous
// boundaries. Solutions are stored in canonical corner order and permuted
// to the requested reading order.
//
// Required args: n_classes (2 or 3), corner_order (permutation of the
// canonical corner names).
func GenerateTopologyEnumeration(args Args, opts Options) (*Record, error) {
	nClasses, err := args.intArg("n_classes")
	if err != nil {
		return nil, err
	}
	orderNames, err := args.stringList("corner_order")
	if err != nil {
		return nil, err
	}
	if orderNames == nil {
		return nil, fmt.Errorf("datagen: datagen_args must include %q", "corner_order")
	}
	order, err := validateCornerOrder(orderNames)
	if err != nil {
		return nil, err
	}

	solutions, err := topologySolutions(nClasses, order)
	if err != nil {
		return nil, err
	}
	groundTruth := make([][]int, len(solutions))
	for i, cfg := range solutions {
		groundTruth[i] = []int{cfg[0], cfg[1], cfg[2], cfg[3]}
	}

	prompt, err := topologyEnumerationPrompt(nClasses, order)
	if err != nil {
		return nil, err
	}

	id := opts.RecordID
	if id == "" {
		id = ContentHash(ProblemTopologyEnumeration, args, prompt, groundTruth)
	}

	tags := opts.Tags
	if tags == nil {
		tags = []string{}
	}
	return &Record{
		ID:          id,
		Prompt:      prompt,
		GroundTruth: groundTruth,
		Metadata: map[string]any{
			"problem_type": ProblemTopologyEnumeration,
			"tags":         tags,
			"difficulty":   opts.Difficulty,
		},
		DatagenArgs: args.clone(),
	}, nil
}

func topologySolutions(nClasses int, order [4]string) ([][4]int, error) {
	var canonical [][4]int
	switch nClasses {
	case 2:
		canonical = solutionsTwoClasses
	case 3:
		canonical = solutionsThreeClasses
	default:
		return nil, fmt.Errorf("datagen: n_classes must be 2 or 3, got %d", nClasses)
	}

	if order == CanonicalCornerOrder {
		return append([][4]int(nil), canonical...), nil
	}
	// Solutions are stored canonically; express them in the requested
	// reading order via the inverse permutation.
	inv := inversePerm(cornerOrderPermutation(order))
	out := make([][4]int, len(canonical))
	for i, cfg := range canonical {
		out[i] = permuteConfig(cfg, inv)
	}
	return out, nil
}

func topologyEnumerationPrompt(nClasses int, order [4]string) (string, error) {
	if nClasses != 2 && nClasses != 3 {
		return "", fmt.Errorf("datagen: n_classes must be 2 or 3, got %d", nClasses)
	}
	meetPhrase := "meet somewhere inside the square"
	if nClasses == 3 {
		meetPhrase = "meet at some point strictly inside the square"
	}
	cornersText := "(" + strings.Join(order[:], ", ") + ")"

	return fmt.Sprintf(
		"You are given a unit square with corners ordered "+
			"%s. Each corner is labeled from {0, 1, 2...}. Boundaries "+
			"inside may be any continuous curves; only corner labels are observed.\n\n"+
			"Assume exactly %d distinct classes occur anywhere in or on the square.\n\n"+
			"List all corner-label configurations (4-tuples, in the order above) that are "+
			"sufficient to guarantee that %d distinct classes %s. "+
			"Canonicalisation: relabel by first occurrence (scan left-to-right; first new "+
			"label -> 0, next -> 1, ...). Treat any label renamings as identical; list each "+
			"equivalence class once.\n\n"+
			"Strict output: a Python-style list of 4-tuples only.",
		cornersText, nClasses, nClasses, meetPhrase,
	), nil
}
