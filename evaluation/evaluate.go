package evaluation

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vgbench/datagen"
	"vgbench/dataset"
	"vgbench/verify"
)

// RecordResult is the grading outcome for one dataset record.
type RecordResult struct {
	RecordID    string        `json:"record_id"`
	ProblemType string        `json:"problem_type"`
	Answered    bool          `json:"answered"`
	Extracted   string        `json:"extracted,omitempty"`
	Reward      float64       `json:"reward"`
	Verdict     verify.Result `json:"verdict"`
}

// TypeStats aggregates outcomes per problem type.
type TypeStats struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
}

// Report is the outcome of one evaluation run.
type Report struct {
	RunID      string                `json:"run_id"`
	Total      int                   `json:"total"`
	Answered   int                   `json:"answered"`
	Parsed     int                   `json:"parsed"`
	Passed     int                   `json:"passed"`
	MeanReward float64               `json:"mean_reward"`
	ByType     map[string]*TypeStats `json:"by_type"`
	Results    []RecordResult        `json:"results"`
}

// Evaluate grades stored completions, keyed by record ID, against dataset
// records. A record with no completion, an unparseable completion, or a
// failed verification earns reward 0; a passing one earns 1.
func Evaluate(records []*datagen.Record, completions map[string]string, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	report := &Report{
		RunID:   uuid.NewString(),
		Total:   len(records),
		ByType:  make(map[string]*TypeStats),
		Results: make([]RecordResult, 0, len(records)),
	}
	var parser Parser

	for _, rec := range records {
		problemType, _ := rec.Metadata["problem_type"].(string)
		spec, err := dataset.TaskSpecFor(problemType)
		if err != nil {
			return nil, fmt.Errorf("evaluation: record %s: %w", rec.ID, err)
		}
		if spec.RequiresGroundTruth && rec.GroundTruth == nil {
			return nil, fmt.Errorf("evaluation: record %s has no ground truth", rec.ID)
		}

		stats := report.ByType[problemType]
		if stats == nil {
			stats = &TypeStats{}
			report.ByType[problemType] = stats
		}
		stats.Total++

		result := RecordResult{RecordID: rec.ID, ProblemType: problemType}
		if completion, ok := completions[rec.ID]; ok {
			result.Answered = true
			report.Answered++
			if extracted, ok := parser.ParseAnswer(completion); ok {
				result.Extracted = extracted
				report.Parsed++
				result.Verdict = spec.Verify(extracted, rec)
				if result.Verdict.Passed {
					result.Reward = 1
					report.Passed++
					stats.Passed++
				}
			}
		}

		logger.Debug("record graded",
			zap.String("record_id", rec.ID),
			zap.String("problem_type", problemType),
			zap.Float64("reward", result.Reward))
		report.Results = append(report.Results, result)
	}

	if report.Total > 0 {
		report.MeanReward = float64(report.Passed) / float64(report.Total)
	}
	logger.Info("evaluation finished",
		zap.String("run_id", report.RunID),
		zap.Int("total", report.Total),
		zap.Int("answered", report.Answered),
		zap.Int("passed", report.Passed),
		zap.Float64("mean_reward", report.MeanReward))
	return report, nil
}

// LoadCompletions reads a JSONL file of {"id": ..., "completion": ...}
// objects into an ID-keyed map. Later lines win on duplicate IDs.
func LoadCompletions(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("evaluation: opening %s: %w", path, err)
	}
	defer f.Close()

	type entry struct {
		ID         string `json:"id"`
		Completion string `json:"completion"`
	}

	out := make(map[string]string)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var e entry
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return nil, fmt.Errorf("evaluation: %s line %d: %w", path, line, err)
		}
		if e.ID == "" {
			return nil, fmt.Errorf("evaluation: %s line %d: missing id", path, line)
		}
		out[e.ID] = e.Completion
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("evaluation: reading %s: %w", path, err)
	}
	return out, nil
}
