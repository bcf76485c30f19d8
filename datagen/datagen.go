// Package datagen builds benchmark records: a prompt for the model, the
// exact ground truth, and the arguments needed to regenerate both. Every
// generator is deterministic in its arguments; record IDs are short content
// hashes over the full record payload, so regenerating a dataset yields
// identical IDs.
package datagen

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Args is a generator argument map, stored verbatim on the record as
// datagen_args.
type Args map[string]any

// Options carries dataset-level record settings shared by all generators.
type Options struct {
	// RecordID overrides the content-hash ID when non-empty.
	RecordID string

	// Tags is merged into the record metadata.
	Tags []string

	// Difficulty labels the record; empty means unset.
	Difficulty string

	// RequiresVisual marks tasks that reference a rendered figure.
	// Nil keeps the task's default.
	RequiresVisual *bool
}

// Record is one benchmark question.
type Record struct {
	ID          string         `json:"id"`
	Prompt      string         `json:"prompt"`
	GroundTruth any            `json:"ground_truth"`
	Metadata    map[string]any `json:"metadata"`
	DatagenArgs Args           `json:"datagen_args"`
	Runtime     map[string]any `json:"runtime,omitempty"`
	Puzzle      map[string]any `json:"puzzle,omitempty"`
}

/// ContentHash derives the deterministic short record ID: the first 8 hex
// characters of a SHA-1 over the canonical JSON payload (object keys are
// emitted sorted).
func ContentHash(problemType string, args Args, prompt string, groundTruth any) string {
	payload := map[string]any{
		"problem_type": problemType,
		"datagen_args": map[string]any(args),
		"prompt":       prompt,
		"ground_truth": groundTruth,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		// Generators only put JSON-encodable values in records.
		panic(fmt.Sprintf("datagen: unhashable record payload: %v", err))
	}
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])[:8]
}

// mergeTags unions base and extra tags into a sorted list.
func mergeTags(base []string, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, t := range base {
		seen[t] = struct{}{}
	}
	for _, t := range extra {
		seen[t] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// --- argument extraction ---
//
// Arguments arrive either freshly built (Go ints, floats, strings) or
// decoded from JSON/YAML (float64, []any), so every accessor coerces.

func (a Args) has(key string) bool {
	_, ok := a[key]
	return ok
}

func (a Args) intArg(key string) (int, error) {
	v, ok := a[key]
	if !ok {
		return 0, fmt.Errorf("datagen: datagen_args must include %q", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("datagen: %q must be an integer, got %v", key, v)
		}
		return int(n), nil
	}
	return 0, fmt.Errorf("datagen: %q must be an integer, got %T", key, v)
}

func (a Args) intDefault(key string, def int) (int, error) {
	if !a.has(key) {
		return def, nil
	}
	return a.intArg(key)
}

func (a Args) floatArg(key string) (float64, error) {
	v, ok := a[key]
	if !ok {
		return 0, fmt.Errorf("datagen: datagen_args must include %q", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("datagen: %q must be a number, got %T", key, v)
}

func (a Args) floatDefault(key string, def float64) (float64, error) {
	if !a.has(key) {
		return def, nil
	}
	return a.floatArg(key)
}

func (a Args) stringDefault(key, def string) (string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("datagen: %q must be a string, got %T", key, v)
	}
	return s, nil
}

func (a Args) stringList(key string) ([]string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("datagen: %q must contain strings, got %T", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("datagen: %q must be a list of strings, got %T", key, v)
}

func (a Args) intList(key string) ([]int, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []int:
		return append([]int(nil), list...), nil
	case []any:
		out := make([]int, 0, len(list))
		for i, item := range list {
			tmp := Args{"v": item}
			n, err := tmp.intArg("v")
			if err != nil {
				return nil, fmt.Errorf("datagen: %q element %d: not an integer (%T)", key, i, item)
			}
			out = append(out, n)
		}
		return out, nil
	}
	return nil, fmt.Errorf("datagen: %q must be a list of integers, got %T", key, v)
}

func (a Args) floatList(key string) ([]float64, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []float64:
		return append([]float64(nil), list...), nil
	case []any:
		out := make([]float64, 0, len(list))
		for i, item := range list {
			tmp := Args{"v": item}
			f, err := tmp.floatArg("v")
			if err != nil {
				return nil, fmt.Errorf("datagen: %q element %d: not a number (%T)", key, i, item)
			}
			out = append(out, f)
		}
		return out, nil
	}
	return nil, fmt.Errorf("datagen: %q must be a list of numbers, got %T", key, v)
}

// clone returns a shallow copy, so generators can record normalised
// arguments without mutating the caller's map.
func (a Args) clone() Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
