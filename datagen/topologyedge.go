package datagen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ProblemTopologyEdge identifies topology edge-task records.
const ProblemTopologyEdge = "topology_edge_tasks"

// Behaviour labels for corner configurations.
const (
	BehaviourKnown     = "known behaviour"
	BehaviourAmbiguous = "ambiguous"
	BehaviourTriple    = "three domains meeting"
)

// canonicalEdgeOrder indexes square edges 0..3 in the canonical convention.
var canonicalEdgeOrder = [4]string{"bottom", "right", "top", "left"}

// classDict maps each canonical corner configuration (first-occurrence
// 1-based relabelling, canonical corner order) to its behaviour class.
var classDict = map[[4]int]string{
	{1, 1, 1, 1}: BehaviourKnown,
	{1, 1, 1, 2}: BehaviourKnown,
	{1, 1, 2, 1}: BehaviourKnown,
	{1, 1, 2, 2}: BehaviourKnown,
	{1, 1, 2, 3}: BehaviourTriple,
	{1, 2, 1, 1}: BehaviourKnown,
	{1, 2, 1, 2}: BehaviourAmbiguous,
	{1, 2, 1, 3}: BehaviourKnown,
	{1, 2, 2, 1}: BehaviourKnown,
	{1, 2, 2, 2}: BehaviourKnown,
	{1, 2, 2, 3}: BehaviourTriple,
	{1, 2, 3, 1}: BehaviourTriple,
	{1, 2, 3, 2}: BehaviourKnown,
	{1, 2, 3, 3}: BehaviourTriple,
	{1, 2, 3, 4}: BehaviourAmbiguous,
}

// quadEdgeDict gives the guaranteed edge connections for known-behaviour
// configurations, as canonical edge-index pairs [i, j] with i < j.
var quadEdgeDict = map[[4]int][][2]int{
	{1, 1, 1, 1}: {},
	{1, 1, 1, 2}: {{2, 3}},
	{1, 1, 2, 1}: {{1, 2}},
	{1, 1, 2, 2}: {{1, 3}},
	{1, 2, 1, 1}: {{0, 1}},
	{1, 2, 2, 1}: {{0, 2}},
	{1, 2, 2, 2}: {{0, 3}},
	{1, 2, 1, 3}: {{0, 1}, {2, 3}},
	{1, 2, 3, 2}: {{1, 2}, {0, 3}},
}

// caseRegistry enumerates the 15 canonical configurations by integer ID.
var caseRegistry = map[int][4]int{
	0:  {1, 1, 1, 1},
	1:  {1, 1, 1, 2},
	2:  {1, 1, 2, 1},
	3:  {1, 1, 2, 2},
	4:  {1, 1, 2, 3},
	5:  {1, 2, 1, 1},
	6:  {1, 2, 1, 2},
	7:  {1, 2, 1, 3},
	8:  {1, 2, 2, 1},
	9:  {1, 2, 2, 2},
	10: {1, 2, 2, 3},
	11: {1, 2, 3, 1},
	12: {1, 2, 3, 2},
	13: {1, 2, 3, 3},
	14: {1, 2, 3, 4},
}

type topologyCase struct {
	id     int
	config [4]int // expressed in the record's corner_order
}

// GenerateTopologyEdge builds one edge-task record. Two subtasks share the
// case format:
//
//   - enumerate_edges: for each square, the guaranteed edge connections as
//     sorted [i, j] index pairs under a configurable edge_order; ambiguous
//     cases yield an empty list and triple-junction cases are rejected.
//   - classify_behaviour: for each square, its behaviour label.
//
// Required args: subtask, cases (IDs into the case registry, or explicit
// {id, config} objects). Optional: corner_order, edge_order.
func GenerateTopologyEdge(args Args, opts Options) (*Record, error) {
	subtask, order, err := topologyEdgeCommonArgs(args)
	if err != nil {
		return nil, err
	}
	cases, err := resolveTopologyCases(args, order)
	if err != nil {
		return nil, err
	}

	var edgeOrder [4]string
	if subtask == "enumerate_edges" {
		edgeOrder, err = resolveEdgeOrder(args)
		if err != nil {
			return nil, err
		}
	}

	groundTruth, err := topologyEdgeSolutions(subtask, order, edgeOrder, cases)
	if err != nil {
		return nil, err
	}
	prompt := topologyEdgePrompt(subtask, order, edgeOrder, cases)

	id := opts.RecordID
	if id == "" {
		id = ContentHash(ProblemTopologyEdge, args, prompt, groundTruth)
	}

	return &Record{
		ID:          id,
		Prompt:      prompt,
		GroundTruth: groundTruth,
		Metadata: map[string]any{
			"problem_type": ProblemTopologyEdge,
			"tags":         mergeTags(nil, opts.Tags),
			"difficulty":   opts.Difficulty,
		},
		DatagenArgs: args.clone(),
	}, nil
}

func topologyEdgeCommonArgs(args Args) (string, [4]string, error) {
	subtask, err := args.stringDefault("subtask", "")
	if err != nil {
		return "", [4]string{}, err
	}
	if subtask != "enumerate_edges" && subtask != "classify_behaviour" {
		return "", [4]string{}, fmt.Errorf("datagen: invalid subtask %q", subtask)
	}
	orderNames, err := args.stringList("corner_order")
	if err != nil {
		return "", [4]string{}, err
	}
	order := CanonicalCornerOrder
	if orderNames != nil {
		order, err = validateCornerOrder(orderNames)
		if err != nil {
			return "", [4]string{}, err
		}
	}
	return subtask, order, nil
}

func resolveEdgeOrder(args Args) ([4]string, error) {
	names, err := args.stringList("edge_order")
	if err != nil {
		return [4]string{}, err
	}
	if names == nil {
		return canonicalEdgeOrder, nil
	}
	if len(names) != 4 {
		return [4]string{}, fmt.Errorf("datagen: edge_order must have 4 elements, got %d", len(names))
	}
	var order [4]string
	copy(order[:], names)
	seen := make(map[string]bool, 4)
	for _, name := range names {
		seen[name] = true
	}
	for _, name := range canonicalEdgeOrder {
		if !seen[name] {
			return [4]string{}, fmt.Errorf("datagen: edge_order must be a permutation of %v", canonicalEdgeOrder)
		}
	}
	return order, nil
}

// resolveTopologyCases accepts registry IDs or explicit {id, config}
// objects. Registry configurations are canonical and get re-expressed in
// the record's corner order; explicit configs are taken as already being in
// that order.
func resolveTopologyCases(args Args, order [4]string) ([]topologyCase, error) {
	raw, ok := args["cases"]
	if !ok || raw == nil {
		return nil, fmt.Errorf("datagen: datagen_args must include %q", "cases")
	}
	items, ok := raw.([]any)
	if !ok {
		if ids, err := args.intList("cases"); err == nil && ids != nil {
			items = make([]any, len(ids))
			for i, id := range ids {
				items[i] = id
			}
		} else {
			return nil, fmt.Errorf("datagen: cases must be a list, got %T", raw)
		}
	}

	inv := inversePerm(cornerOrderPermutation(order))

	cases := make([]topologyCase, 0, len(items))
	for i, item := range items {
		if obj, isMap := item.(map[string]any); isMap {
			sub := Args(obj)
			id, err := sub.intArg("id")
			if err != nil {
				return nil, fmt.Errorf("datagen: cases element %d: %v", i, err)
			}
			cfgList, err := sub.intList("config")
			if err != nil || len(cfgList) != 4 {
				return nil, fmt.Errorf("datagen: cases element %d: config must have 4 integers", i)
			}
			var cfg [4]int
			copy(cfg[:], cfgList)
			cases = append(cases, topologyCase{id: id, config: cfg})
			continue
		}
		id, err := Args{"v": item}.intArg("v")
		if err != nil {
			return nil, fmt.Errorf("datagen: cases element %d must be a case ID or object, got %T", i, item)
		}
		canon, known := caseRegistry[id]
		if !known {
			return nil, fmt.Errorf("datagen: unknown case id %d", id)
		}
		cases = append(cases, topologyCase{id: id, config: permuteConfig(canon, inv)})
	}
	return cases, nil
}

func topologyEdgePrompt(subtask string, order, edgeOrder [4]string, cases []topologyCase) string {
	lines := []string{
		"Squares (each tuple lists the four corner labels; integers denote distinct classes):",
	}
	for _, c := range cases {
		lines = append(lines, intTupleRepr(c.config))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("You are given unit squares with corners labelled in %s order.", stringTupleRepr(order)),
	)

	if subtask == "enumerate_edges" {
		pairs := make([]string, len(edgeOrder))
		for i, name := range edgeOrder {
			pairs[i] = fmt.Sprintf("%s=%d", name, i)
		}
		lines = append(lines,
			fmt.Sprintf("Edges are indexed: %s.", strings.Join(pairs, ", ")),
			"",
			"For each square above (in the same order), list which edges are guaranteed to connect.",
			"Return a list where each element is a list of sorted [i,j] pairs (i < j).",
			"If no edges are deterministically guaranteed (including ambiguous cases), return [] for that square.",
		)
	} else {
		lines = append(lines,
			"",
			"Classify each square's topological behaviour (in the same order) as one of: 'known behaviour', 'three domains meeting', or 'ambiguous'.",
			"Definitions: 'known behaviour' = deterministic edge connections can be made; 'three domains meeting' = deterministic edge connections where three distinct classes meet at a point; 'ambiguous' = multiple valid topologies could exist.",
			"Return a list of exact label strings.",
		)
	}
	return strings.Join(lines, "\n")
}

func topologyEdgeSolutions(subtask string, order, edgeOrder [4]string, cases []topologyCase) (any, error) {
	perm := cornerOrderPermutation(order)

	if subtask == "classify_behaviour" {
		labels := make([]string, 0, len(cases))
		for _, c := range cases {
			behaviour, err := caseBehaviour(c, perm)
			if err != nil {
				return nil, err
			}
			labels = append(labels, behaviour)
		}
		return labels, nil
	}

	results := make([][][]int, 0, len(cases))
	for _, c := range cases {
		behaviour, err := caseBehaviour(c, perm)
		if err != nil {
			return nil, err
		}
		if behaviour == BehaviourTriple {
			return nil, fmt.Errorf("datagen: enumerate_edges does not accept %q cases (case %d)", BehaviourTriple, c.id)
		}
		if behaviour != BehaviourKnown {
			results = append(results, [][]int{})
			continue
		}
		canon := relabelFirstOccurrence(permuteConfig(c.config, perm), 1)
		pairs, ok := quadEdgeDict[canon]
		if !ok {
			return nil, fmt.Errorf("datagen: missing edge mapping for configuration %v", canon)
		}
		results = append(results, reindexEdgePairs(pairs, edgeOrder))
	}
	return results, nil
}

func caseBehaviour(c topologyCase, perm [4]int) (string, error) {
	canon := relabelFirstOccurrence(permuteConfig(c.config, perm), 1)
	behaviour, ok := classDict[canon]
	if !ok {
		return "", fmt.Errorf("datagen: unsupported corner configuration %v", canon)
	}
	return behaviour, nil
}

// reindexEdgePairs converts canonical edge-index pairs to the record's edge
// order, normalising each pair to [i, j] with i < j and sorting the list.
func reindexEdgePairs(pairs [][2]int, edgeOrder [4]string) [][]int {
	indexByName := make(map[string]int, 4)
	for i, name := range edgeOrder {
		indexByName[name] = i
	}
	out := make([][]int, 0, len(pairs))
	for _, pair := range pairs {
		a := indexByName[canonicalEdgeOrder[pair[0]]]
		b := indexByName[canonicalEdgeOrder[pair[1]]]
		if a > b {
			a, b = b, a
		}
		out = append(out, []int{a, b})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

func intTupleRepr(cfg [4]int) string {
	parts := make([]string, len(cfg))
	for i, v := range cfg {
		parts[i] = strconv.Itoa(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func stringTupleRepr(order [4]string) string {
	parts := make([]string, len(order))
	for i, name := range order {
		parts[i] = "'" + name + "'"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
