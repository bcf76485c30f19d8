package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vgbench/datagen"
)

const buildConfigYAML = `
tasks:
  - type: convex_hull_ordering
    metadata:
      tags: [geometry, hulls]
      difficulty: easy
    datagen_args_grid:
      - num_points: 8
        seed: 1
      - num_points: 10
        seed: 2
        metadata:
          tags: [hard-seed]
          difficulty: medium
          record_id: hull-fixed
  - type: half_subdivision_neighbours
    datagen_args_grid:
      - max_depth: 3
        seed: 7
        split_prob: 0.8
dataset:
  output: out/records.jsonl
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, buildConfigYAML))
	require.NoError(t, err)

	require.Len(t, cfg.Tasks, 2)
	assert.Equal(t, datagen.ProblemConvexHull, cfg.Tasks[0].Type)
	assert.Len(t, cfg.Tasks[0].Grid, 2)
	assert.Equal(t, "easy", cfg.Tasks[0].Metadata["difficulty"])
	assert.Equal(t, "out/records.jsonl", cfg.Output.Path)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "tasks: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tasks")

	bad := `
tasks:
  - type: sudoku
    datagen_args_grid:
      - seed: 1
  - type: convex_hull_ordering
`
	_, err = LoadConfig(writeConfig(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown problem type")
	assert.Contains(t, err.Error(), "empty datagen_args_grid")
}

func TestBuild(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, buildConfigYAML))
	require.NoError(t, err)

	records, err := Build(cfg, nil)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Task metadata flows into every record; grid order is preserved.
	first := records[0]
	assert.Equal(t, datagen.ProblemConvexHull, first.Metadata["problem_type"])
	assert.Equal(t, "easy", first.Metadata["difficulty"])
	assert.Equal(t, []string{"geometry", "hulls"}, first.Metadata["tags"])

	// Question metadata overrides plain fields and unions tags.
	second := records[1]
	assert.Equal(t, "hull-fixed", second.ID)
	assert.Equal(t, "medium", second.Metadata["difficulty"])
	assert.Equal(t, []string{"geometry", "hard-seed", "hulls"}, second.Metadata["tags"])

	third := records[2]
	assert.Equal(t, datagen.ProblemHalfSubdivision, third.Metadata["problem_type"])
}

func TestBuild_Deterministic(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, buildConfigYAML))
	require.NoError(t, err)

	a, err := Build(cfg, nil)
	require.NoError(t, err)
	b, err := Build(cfg, nil)
	require.NoError(t, err)

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID, "record %d", i)
		assert.Equal(t, a[i].Prompt, b[i].Prompt, "record %d", i)
	}
}

func TestBuild_UnknownMetadataKey(t *testing.T) {
	cfg := &Config{Tasks: []TaskConfig{{
		Type:     datagen.ProblemConvexHull,
		Metadata: map[string]any{"author": "someone"},
		Grid:     []map[string]any{{"num_points": 8, "seed": 1}},
	}}}

	_, err := Build(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown metadata key "author"`)
}

func TestBuildFromConfig_WritesOutput(t *testing.T) {
	dir := t.TempDir()
	cfgText := buildConfigYAML
	path := writeConfig(t, cfgText)
	out := filepath.Join(dir, "nested", "ds.jsonl")

	records, err := BuildFromConfig(path, out, nil)
	require.NoError(t, err)
	require.Len(t, records, 3)

	loaded, err := LoadJSONL(out)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, records[1].ID, loaded[1].ID)
}
