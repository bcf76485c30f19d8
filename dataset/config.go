// Package dataset builds benchmark datasets from a YAML config: each task
// entry names a problem type, shared metadata, and a grid of generator
// arguments. Records are assembled through the task registry and exported
// as JSONL.
package dataset

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config is the dataset build configuration.
type Config struct {
	Tasks  []TaskConfig `yaml:"tasks"`
	Output OutputConfig `yaml:"dataset"`
}

// TaskConfig describes one task block: a problem type, metadata inherited by
// every record, and a grid of datagen argument sets. A grid item may carry
// its own metadata block overriding the task's.
type TaskConfig struct {
	Type     string           `yaml:"type"`
	Metadata map[string]any   `yaml:"metadata"`
	Grid     []map[string]any `yaml:"datagen_args_grid"`
}

// OutputConfig holds export settings.
type OutputConfig struct {
	Path string `yaml:"output"`
}

// LoadConfig reads and validates a YAML build configuration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("dataset: parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var err error
	if len(c.Tasks) == 0 {
		err = multierr.Append(err, errors.New("dataset: config has no tasks"))
	}
	for i, task := range c.Tasks {
		if _, e := TaskSpecFor(task.Type); e != nil {
			err = multierr.Append(err, fmt.Errorf("dataset: task %d: %w", i, e))
		}
		if len(task.Grid) == 0 {
			err = multierr.Append(err, fmt.Errorf("dataset: task %d (%s): empty datagen_args_grid", i, task.Type))
		}
	}
	return err
}
