package dataset

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vgbench/datagen"
)

// Build generates all records described by cfg. Grid items within a task are
// generated concurrently; record order follows the config.
func Build(cfg *Config, logger *zap.Logger) ([]*datagen.Record, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var all []*datagen.Record
	for _, task := range cfg.Tasks {
		spec, err := TaskSpecFor(task.Type)
		if err != nil {
			return nil, err
		}
		logger.Info("building task records",
			zap.String("type", task.Type),
			zap.Int("grid_size", len(task.Grid)))

		records := make([]*datagen.Record, len(task.Grid))
		var g errgroup.Group
		for gi := range task.Grid {
			g.Go(func() error {
				args, opts, err := splitGridItem(task, task.Grid[gi])
				if err != nil {
					return fmt.Errorf("dataset: %s grid item %d: %w", task.Type, gi, err)
				}
				rec, err := spec.Generate(args, opts)
				if err != nil {
					return fmt.Errorf("dataset: %s grid item %d: %w", task.Type, gi, err)
				}
				records[gi] = rec
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		all = append(all, records...)
	}

	logger.Info("dataset built", zap.Int("records", len(all)))
	return all, nil
}

// BuildFromConfig loads the config at configPath, builds its records, and
// writes them to outputOverride or, failing that, the config's output path.
func BuildFromConfig(configPath, outputOverride string, logger *zap.Logger) ([]*datagen.Record, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	records, err := Build(cfg, logger)
	if err != nil {
		return nil, err
	}

	out := outputOverride
	if out == "" {
		out = cfg.Output.Path
	}
	if out != "" {
		if err := SaveJSONL(records, out); err != nil {
			return nil, err
		}
		logger.Info("dataset written", zap.String("path", out), zap.Int("records", len(records)))
	}
	return records, nil
}

// splitGridItem separates datagen arguments from the metadata override and
// applies metadata inheritance: shallow override for plain fields, union for
// tags.
func splitGridItem(task TaskConfig, item map[string]any) (datagen.Args, datagen.Options, error) {
	args := make(datagen.Args, len(item))
	for k, v := range item {
		if k != "metadata" {
			args[k] = v
		}
	}

	questionMD, _ := item["metadata"].(map[string]any)
	merged := make(map[string]any, len(task.Metadata)+len(questionMD))
	for k, v := range task.Metadata {
		merged[k] = v
	}
	for k, v := range questionMD {
		merged[k] = v
	}

	taskTags, err := stringList(task.Metadata["tags"])
	if err != nil {
		return nil, datagen.Options{}, err
	}
	questionTags, err := stringList(questionMD["tags"])
	if err != nil {
		return nil, datagen.Options{}, err
	}
	if len(taskTags) > 0 || len(questionTags) > 0 {
		merged["tags"] = unionTags(taskTags, questionTags)
	}

	opts, err := optionsFromMetadata(merged)
	return args, opts, err
}

func optionsFromMetadata(md map[string]any) (datagen.Options, error) {
	var opts datagen.Options
	for key, v := range md {
		switch key {
		case "tags":
			tags, err := stringList(v)
			if err != nil {
				return opts, err
			}
			opts.Tags = tags
		case "difficulty":
			s, ok := v.(string)
			if !ok {
				return opts, fmt.Errorf("dataset: metadata difficulty must be a string, got %T", v)
			}
			opts.Difficulty = s
		case "record_id":
			s, ok := v.(string)
			if !ok {
				return opts, fmt.Errorf("dataset: metadata record_id must be a string, got %T", v)
			}
			opts.RecordID = s
		case "requires_visual":
			b, ok := v.(bool)
			if !ok {
				return opts, fmt.Errorf("dataset: metadata requires_visual must be a bool, got %T", v)
			}
			opts.RequiresVisual = &b
		default:
			return opts, fmt.Errorf("dataset: unknown metadata key %q", key)
		}
	}
	return opts, nil
}

func stringList(v any) ([]string, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return list, nil
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("dataset: tags must be strings, got %T", item)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("dataset: tags must be a list, got %T", v)
}

func unionTags(a, b []string) []string {
	set := make(map[string]bool, len(a)+len(b))
	for _, t := range a {
		set[t] = true
	}
	for _, t := range b {
		set[t] = true
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
