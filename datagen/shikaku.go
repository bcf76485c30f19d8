package datagen

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ProblemShikaku identifies Shikaku rectangle-partition records.
const ProblemShikaku = "shikaku_rectangles"

// ShikakuPuzzle is one pre-generated puzzle from a dataset file.
type ShikakuPuzzle struct {
	ID                 string        `json:"id"`
	Width              int           `json:"width"`
	Height             int           `json:"height"`
	Numbers            [][]int       `json:"numbers"`
	SolutionRectangles []ShikakuRect `json:"solution_rectangles"`
}

// ShikakuRect is a solution rectangle in top/left/width/height form.
type ShikakuRect struct {
	Top    int `json:"top"`
	Left   int `json:"left"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// shikakuCache keeps parsed dataset files; puzzles are drawn many times per
// dataset build.
var shikakuCache = struct {
	sync.Mutex
	sets map[string][]ShikakuPuzzle
}{sets: make(map[string][]ShikakuPuzzle)}

func loadShikakuDataset(path string) ([]ShikakuPuzzle, error) {
	shikakuCache.Lock()
	defer shikakuCache.Unlock()
	if puzzles, ok := shikakuCache.sets[path]; ok {
		return puzzles, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("datagen: reading shikaku dataset: %w", err)
	}
	var puzzles []ShikakuPuzzle
	if err := json.Unmarshal(data, &puzzles); err != nil {
		return nil, fmt.Errorf("datagen: shikaku dataset %s must contain a list of puzzles: %w", path, err)
	}
	shikakuCache.sets[path] = puzzles
	return puzzles, nil
}

func selectShikakuPuzzle(puzzles []ShikakuPuzzle, args Args) (ShikakuPuzzle, int, error) {
	if id, err := args.stringDefault("puzzle_id", ""); err != nil {
		return ShikakuPuzzle{}, 0, err
	} else if id != "" {
		for i, p := range puzzles {
			if p.ID == id {
				return p, i, nil
			}
		}
		return ShikakuPuzzle{}, 0, fmt.Errorf("datagen: puzzle_id %q not found in dataset", id)
	}
	if !args.has("puzzle_index") {
		return ShikakuPuzzle{}, 0, fmt.Errorf("datagen: datagen_args must include either \"puzzle_id\" or \"puzzle_index\"")
	}
	idx, err := args.intArg("puzzle_index")
	if err != nil {
		return ShikakuPuzzle{}, 0, err
	}
	if idx < 0 || idx >= len(puzzles) {
		return ShikakuPuzzle{}, 0, fmt.Errorf("datagen: puzzle_index %d out of range (dataset has %d puzzles)", idx, len(puzzles))
	}
	return puzzles[idx], idx, nil
}

// GenerateShikaku builds one record from a pre-generated puzzle file: the
// clue grid in the prompt, and the solution rectangles as sorted
// [left, top, right, bottom] boxes with 0-indexed inclusive coordinates.
//
// Required args: dataset_path plus puzzle_id or puzzle_index.
func GenerateShikaku(args Args, opts Options) (*Record, error) {
	datasetPath, err := args.stringDefault("dataset_path", "")
	if err != nil {
		return nil, err
	}
	if datasetPath == "" {
		return nil, fmt.Errorf("datagen: datagen_args must include \"dataset_path\"")
	}

	puzzles, err := loadShikakuDataset(datasetPath)
	if err != nil {
		return nil, err
	}
	puzzle, idx, err := selectShikakuPuzzle(puzzles, args)
	if err != nil {
		return nil, err
	}

	prompt := shikakuPrompt(puzzle)
	groundTruth := canonicalRectangles(puzzle.SolutionRectangles)

	storedArgs := Args{
		"dataset_path": datasetPath,
		"puzzle_id":    puzzle.ID,
		"puzzle_index": idx,
	}

	id := opts.RecordID
	if id == "" {
		id = ContentHash(ProblemShikaku, storedArgs, prompt, groundTruth)
	}

	tags := opts.Tags
	if len(tags) == 0 {
		tags = []string{"shikaku", "rectangles", "grid"}
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
			"problem_type":    ProblemShikaku,
			"tags":            mergeTags(nil, tags),
			"difficulty":      opts.Difficulty,
			"requires_visual": requiresVisual,
			"grid_shape":      []int{puzzle.Height, puzzle.Width},
		},
		DatagenArgs: storedArgs,
		Puzzle: map[string]any{
			"numbers": puzzle.Numbers,
			"width":   puzzle.Width,
			"height":  puzzle.Height,
		},
	}, nil
}

func shikakuPrompt(puzzle ShikakuPuzzle) string {
	rows := make([]string, len(puzzle.Numbers))
	for i, row := range puzzle.Numbers {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = strconv.Itoa(cell)
		}
		rows[i] = strings.Join(cells, " ")
	}

	lines := []string{
		fmt.Sprintf("Solve the Shikaku puzzle on a %d×%d grid.", puzzle.Height, puzzle.Width),
		"Cells contain numbers indicating the area of the rectangle that must cover them;",
		"all blank cells are denoted by 0.",
		"Grid (rows listed top to bottom, values space-separated):",
		strings.Join(rows, "\n"),
		"",
		"Return the solution as a Python list of bounding boxes.",
		"Each rectangle must be [left_col, top_row, right_col, bottom_row] using 0-indexed inclusive coordinates.",
		"Rectangles must exactly partition the grid and each must contain exactly one clue equal to its area.",
		"Before presenting the final list, begin your response with <thinking>...</thinking> containing your full chain of thought or reasoning for your answer.",
	}
	return strings.Join(lines, "\n")
}

// canonicalRectangles converts solution rectangles to sorted
// [left, top, right, bottom] form.
func canonicalRectangles(rects []ShikakuRect) [][]int {
	out := make([][]int, 0, len(rects))
	for _, r := range rects {
		out = append(out, []int{r.Left, r.Top, r.Left + r.Width - 1, r.Top + r.Height - 1})
	}
	sort.Slice(out, func(i, j int) bool {
		for k := 0; k < 4; k++ {
			if out[i][k] != out[j][k] {
				return out[i][k] < out[j][k]
			}
		}
		return false
	})
	return out
}
