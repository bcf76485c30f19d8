package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vgbench/datagen"
	"vgbench/dataset"
	"vgbench/evaluation"
)

type ctxKey struct{}

type appEnv struct {
	Log *zap.Logger
}

func envFromContext(ctx context.Context) *appEnv {
	if env, ok := ctx.Value(ctxKey{}).(*appEnv); ok {
		return env
	}
	return &appEnv{Log: zap.NewNop()}
}

// initializeAppContext prepares the logger after the command line has been
// parsed but before command execution.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		return ctx, nil
	}

	env := envFromContext(ctx)

	level := zapcore.InfoLevel
	if cmd.Bool("debug") {
		level = zapcore.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}

	log, err := cfg.Build()
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.Log = log
	env.Log.Debug("Program started", zap.Strings("args", os.Args))
	return ctx, nil
}

func destroyAppContext(ctx context.Context, _ *cli.Command) error {
	env := envFromContext(ctx)
	if env.Log != nil {
		env.Log.Debug("Program ended")
		// stderr sync errors are expected on some platforms
		_ = env.Log.Sync()
	}
	return nil
}

// Ignore urfave/cli default error handling, subcommands return regular
// errors.
var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := envFromContext(ctx)
	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func main() {
	env := &appEnv{Log: zap.NewNop()}
	ctx, stop := signal.NotifyContext(
		context.WithValue(context.Background(), ctxKey{}, env),
		os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            "vgb",
		Usage:           "visual geometry benchmark toolkit",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "enable debug logging"},
		},
		Commands: []*cli.Command{
			{
				Name:         "generate",
				Usage:        "Builds a dataset from a YAML configuration",
				OnUsageError: usageErrorHandler,
				Action:       runGenerate,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Required: true,
						Usage: "load build configuration from `FILE` (YAML)"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"},
						Usage: "write records to `FILE` (JSONL), overrides the config's output path"},
				},
			},
			{
				Name:         "verify",
				Usage:        "Grades a single answer against one dataset record",
				OnUsageError: usageErrorHandler,
				Action:       runVerify,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dataset", Required: true, Usage: "dataset `FILE` (JSONL)"},
					&cli.StringFlag{Name: "id", Required: true, Usage: "record `ID` to grade against"},
					&cli.StringFlag{Name: "answer", Usage: "answer text (reads STDIN when omitted)"},
				},
			},
			{
				Name:         "eval",
				Usage:        "Scores a completions file against a dataset",
				OnUsageError: usageErrorHandler,
				Action:       runEval,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dataset", Required: true, Usage: "dataset `FILE` (JSONL)"},
					&cli.StringFlag{Name: "completions", Required: true,
						Usage: "completions `FILE` (JSONL with id and completion fields)"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"},
						Usage: "write the full report to `FILE` (JSON), summary goes to STDOUT either way"},
				},
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deferred functions after that
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	records, err := dataset.BuildFromConfig(cmd.String("config"), cmd.String("output"), env.Log)
	if err != nil {
		return err
	}
	fmt.Printf("generated %d records\n", len(records))
	return nil
}

func runVerify(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	records, err := dataset.LoadJSONL(cmd.String("dataset"))
	if err != nil {
		return err
	}
	id := cmd.String("id")
	var rec *datagen.Record
	for _, r := range records {
		if r.ID == id {
			rec = r
			break
		}
	}
	if rec == nil {
		return fmt.Errorf("record %q not found in dataset", id)
	}

	problemType, _ := rec.Metadata["problem_type"].(string)
	spec, err := dataset.TaskSpecFor(problemType)
	if err != nil {
		return err
	}

	answer := cmd.String("answer")
	if answer == "" {
		data, err := readAllStdin()
		if err != nil {
			return fmt.Errorf("unable to read answer from STDIN: %w", err)
		}
		answer = strings.TrimSpace(data)
	}

	result := spec.Verify(answer, rec)
	env.Log.Info("Answer graded",
		zap.String("record_id", rec.ID),
		zap.String("problem_type", problemType),
		zap.Bool("passed", result.Passed))

	return writeJSON(os.Stdout, result)
}

func runEval(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	records, err := dataset.LoadJSONL(cmd.String("dataset"))
	if err != nil {
		return err
	}
	completions, err := evaluation.LoadCompletions(cmd.String("completions"))
	if err != nil {
		return err
	}

	report, err := evaluation.Evaluate(records, completions, env.Log)
	if err != nil {
		return err
	}

	if out := cmd.String("output"); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("unable to create report file '%s': %w", out, err)
		}
		defer f.Close()
		if err := writeJSON(f, report); err != nil {
			return fmt.Errorf("unable to write report: %w", err)
		}
		env.Log.Info("Report written", zap.String("file", out))
	}

	fmt.Printf("run %s: %d/%d passed (mean reward %.3f)\n",
		report.RunID, report.Passed, report.Total, report.MeanReward)
	for _, name := range sortedTypeNames(report.ByType) {
		stats := report.ByType[name]
		fmt.Printf("  %-30s %d/%d\n", name, stats.Passed, stats.Total)
	}
	return nil
}

func readAllStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func writeJSON(w *os.File, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func sortedTypeNames(byType map[string]*evaluation.TypeStats) []string {
	names := make([]string, 0, len(byType))
	for name := range byType {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
