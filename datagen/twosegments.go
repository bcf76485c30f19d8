package datagen

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
)

// ProblemTwoSegments identifies two-segment partition records.
const ProblemTwoSegments = "two_segments"

var unitSquareCorners = [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// shapeOrder fixes the phrasing order in prompts.
var shapeOrder = []string{"triangle", "quadrilateral", "pentagon", "hexagon"}

// GenerateTwoSegments builds one partition record: the model must provide
// two boundary-to-boundary segments cutting the square into the requested
// shape counts. The ground truth is the counts themselves; correctness of a
// response is established geometrically at verification time.
//
// Required args: counts (shape name to positive count). Optional: square
// ("unit", "random", or four corner points), corners override, square_seed,
// snap_decimals (default 2), coordinate_grid.
func GenerateTwoSegments(args Args, opts Options) (*Record, error) {
	recordArgs := args.clone()
	delete(recordArgs, "variant_id")

	counts, err := normaliseShapeCounts(recordArgs["counts"])
	if err != nil {
		return nil, err
	}
	recordArgs["counts"] = counts

	corners, err := resolveSquare(recordArgs)
	if err != nil {
		return nil, err
	}

	snapDecimals, err := recordArgs.intDefault("snap_decimals", 2)
	if err != nil {
		return nil, err
	}
	recordArgs["snap_decimals"] = snapDecimals

	grid, err := recordArgs.floatList("coordinate_grid")
	if err != nil {
		return nil, err
	}

	prompt := twoSegmentsPrompt(counts, corners, grid)

	shapes := make([]string, 0, len(counts))
	for shape := range counts {
		shapes = append(shapes, shape)
	}
	sort.Strings(shapes)
	groundTruth := make([]map[string]any, 0, len(shapes))
	for _, shape := range shapes {
		groundTruth = append(groundTruth, map[string]any{"shape": shape, "count": counts[shape]})
	}

	id := opts.RecordID
	if id == "" {
		id = ContentHash(ProblemTwoSegments, recordArgs, prompt, groundTruth)
	}

	tags := opts.Tags
	if tags == nil {
		tags = []string{}
	}
	requiresVisual := true
	if opts.RequiresVisual != nil {
		requiresVisual = *opts.RequiresVisual
	}

	return &Record{
		ID:          id,
		Prompt:      prompt,
		GroundTruth: groundTruth,
		Metadata: map[string]any{
			"problem_type":    ProblemTwoSegments,
			"tags":            tags,
			"difficulty":      opts.Difficulty,
			"requires_visual": requiresVisual,
		},
		DatagenArgs: recordArgs,
	}, nil
}

func normaliseShapeCounts(raw any) (map[string]int, error) {
	if raw == nil {
		return nil, fmt.Errorf("datagen: datagen_args must include %q", "counts")
	}
	counts := make(map[string]int)
	switch m := raw.(type) {
	case map[string]int:
		for shape, total := range m {
			if total > 0 {
				counts[shape] = total
			}
		}
	case map[string]any:
		for shape, v := range m {
			total, err := Args{"v": v}.intArg("v")
			if err != nil {
				return nil, fmt.Errorf("datagen: count for %q must be an integer", shape)
			}
			if total > 0 {
				counts[shape] = total
			}
		}
	default:
		return nil, fmt.Errorf("datagen: counts must map shape names to integers, got %T", raw)
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("datagen: counts must contain at least one positive entry")
	}
	return counts, nil
}

// resolveSquare normalises the square specification in recordArgs and
// returns the corners to display in the prompt. The canonical unit square
// is stored but not displayed.
func resolveSquare(recordArgs Args) ([][]float64, error) {
	cornersOverride, err := parseCornerList(recordArgs["corners"])
	if err != nil {
		return nil, err
	}

	var corners [][]float64
	label := "unit"

	switch spec := recordArgs["square"].(type) {
	case nil:
		corners = unitSquareCorners
	case string:
		switch spec {
		case "unit":
			corners = unitSquareCorners
		case "random":
			seed, err := recordArgs.intDefault("square_seed", 0)
			if err != nil {
				return nil, err
			}
			rng := rand.New(rand.NewPCG(uint64(seed), 0))
			side := 0.3 + rng.Float64()*0.7
			originX := rng.Float64() * (1 - side)
			originY := rng.Float64() * (1 - side)
			corners = [][]float64{
				{originX, originY},
				{originX + side, originY},
				{originX + side, originY + side},
				{originX, originY + side},
			}
			label = "random"
		default:
			return nil, fmt.Errorf("datagen: square must be \"unit\", \"random\", or a list of corners")
		}
	default:
		corners, err = parseCornerList(spec)
		if err != nil {
			return nil, err
		}
		if corners == nil {
			return nil, fmt.Errorf("datagen: square must be \"unit\", \"random\", or a list of corners")
		}
		label = "explicit"
	}

	if cornersOverride != nil {
		corners = cornersOverride
		label = "explicit"
	}

	recordArgs["square"] = label
	recordArgs["corners"] = corners

	if label == "unit" && cornersOverride == nil {
		return nil, nil
	}
	return corners, nil
}

// parseCornerList coerces a corner specification into four [x, y] pairs.
// A nil input returns nil without error.
func parseCornerList(raw any) ([][]float64, error) {
	if raw == nil {
		return nil, nil
	}
	var items []any
	switch list := raw.(type) {
	case [][]float64:
		if len(list) != 4 {
			return nil, fmt.Errorf("datagen: square corners must contain exactly four points, got %d", len(list))
		}
		out := make([][]float64, 4)
		for i, pair := range list {
			if len(pair) != 2 {
				return nil, fmt.Errorf("datagen: corner %d is not an [x, y] pair", i)
			}
			out[i] = []float64{pair[0], pair[1]}
		}
		return out, nil
	case []any:
		items = list
	default:
		return nil, fmt.Errorf("datagen: corners must be a list of [x, y] pairs, got %T", raw)
	}
	if len(items) != 4 {
		return nil, fmt.Errorf("datagen: square corners must contain exactly four points, got %d", len(items))
	}
	out := make([][]float64, 4)
	for i, item := range items {
		pair, err := Args{"v": item}.floatList("v")
		if err != nil || len(pair) != 2 {
			return nil, fmt.Errorf("datagen: corner %d is not an [x, y] pair", i)
		}
		out[i] = pair
	}
	return out, nil
}

func twoSegmentsPrompt(counts map[string]int, corners [][]float64, grid []float64) string {
	header := "Work inside the unit square with corners (0, 0), (1, 0), (1, 1), and (0, 1)."
	if corners != nil {
		formatted := make([]string, len(corners))
		for i, c := range corners {
			formatted[i] = fmt.Sprintf("(%s, %s)", formatCompact(c[0]), formatCompact(c[1]))
		}
		header = fmt.Sprintf(
			"Work inside the square whose boundary corners (in order) are %s.",
			strings.Join(formatted, ", "),
		)
	}

	lines := []string{
		header,
		"Provide two straight segments whose endpoints lie on the boundary of this square.",
		fmt.Sprintf(
			"The two segments together with the square's edges must partition the interior into exactly %s.",
			formatShapeCounts(counts),
		),
		"Before presenting the final list, begin your response with <thinking>...</thinking> containing your full chain of thought or reasoning for your answer.",
		"Return a Python list of the two segments in the form [((x0, y0), (x1, y1)), ((x2, y2), (x3, y3))].",
	}
	if len(grid) > 0 {
		unique := append([]float64(nil), grid...)
		sort.Float64s(unique)
		values := make([]string, 0, len(unique))
		for i, v := range unique {
			if i > 0 && v == unique[i-1] {
				continue
			}
			values = append(values, formatCompact(v))
		}
		gridLine := fmt.Sprintf("Use boundary points whose coordinates are drawn from {%s}.", strings.Join(values, ", "))
		lines = append(lines[:2], append([]string{gridLine}, lines[2:]...)...)
	}
	return strings.Join(lines, "\n")
}

// formatShapeCounts phrases counts naturally: "2 triangles and 1
// quadrilateral", with an Oxford comma for three or more parts.
func formatShapeCounts(counts map[string]int) string {
	var parts []string
	for _, shape := range shapeOrder {
		total := counts[shape]
		if total == 0 {
			continue
		}
		name := shape
		if total != 1 {
			name += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", total, name))
	}
	switch len(parts) {
	case 0:
		return "0 regions"
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
}

// formatCompact renders a float the short way, like %g without exponent
// switching for typical coordinates.
func formatCompact(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
