package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"codetale/internal/budget"
	"codetale/internal/config"
	"codetale/internal/llm"
	"codetale/internal/pipeline"
)

var (
	flagPath      string
	flagRecursive bool
	flagFuse      bool
	flagOutput    string
	flagModel     string
	flagDebug     bool
)

func main() {
	root := &cobra.Command{
		Use:          "codetale",
		Short:        "Generate documentation for source files, folders, and repositories",
		Long:         "codetale extracts the structural elements of source code, asks a generative model to document them, and fuses the results into per-file artifacts, folder READMEs, and a repository README.",
		RunE:         run,
		SilenceUsage: true,
	}
	root.Flags().StringVarP(&flagPath, "path", "p", "", "file, folder, or repository to document")
	root.Flags().BoolVarP(&flagRecursive, "recursive", "r", false, "document every folder under path as a repository")
	root.Flags().BoolVarP(&flagFuse, "fuse", "f", false, "also write source copies with the documentation injected")
	root.Flags().StringVarP(&flagOutput, "output-path", "o", "", "output directory (default $OUTPUT_PATH or codetale_out)")
	root.Flags().StringVarP(&flagModel, "model", "n", "", "model name (default $ANTHROPIC_MODEL)")
	root.Flags().BoolVar(&flagDebug, "debug", false, "run without network calls, producing empty artifacts")
	_ = root.MarkFlagRequired("path")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := config.Load()
	if flagOutput != "" {
		cfg.OutputPath = flagOutput
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var completer llm.Completer
	if flagDebug {
		log.Info("debug mode: no completions will be requested")
		completer = llm.DebugCompleter{}
	} else {
		if err := cfg.Validate(); err != nil {
			return err
		}
		client := llm.NewClient(cfg.AnthropicAPIKey, cfg.Model)
		defer client.Close()
		completer = client
	}

	stats := llm.NewCallStats()
	session := budget.NewSession(cfg.MaxBudget, cfg.Model)
	metered := budget.Metered{
		Inner:   llm.TimedCompleter{Inner: completer, Stats: stats},
		Session: session,
	}

	info, err := os.Stat(flagPath)
	if err != nil {
		return fmt.Errorf("path: %w", err)
	}

	store := pipeline.Store{}
	var failures int
	switch {
	case !info.IsDir():
		fp := pipeline.NewFileProcessor(metered, store, log, cfg, flagFuse)
		outcome := fp.Process(ctx, flagPath, cfg.OutputPath)
		failures = report(log, outcome)
	case flagRecursive:
		rp := pipeline.NewRepoProcessor(metered, store, log, cfg, flagFuse)
		outcomes, err := rp.Process(ctx, flagPath, cfg.OutputPath)
		if err != nil {
			return err
		}
		failures = report(log, outcomes...)
	default:
		fp := pipeline.NewFolderProcessor(metered, store, log, cfg, flagFuse)
		_, outcomes, err := fp.Process(ctx, flagPath, cfg.OutputPath)
		if err != nil {
			return err
		}
		failures = report(log, outcomes...)
	}

	snap := stats.Snapshot()
	log.Info("run finished",
		"output", cfg.OutputPath,
		"spent_usd", fmt.Sprintf("%.4f", session.Spent()),
		"completions", snap.Count,
		"avg_ms", snap.AvgMs,
		"p95_ms", snap.P95Ms,
	)
	if failures > 0 {
		return fmt.Errorf("%d file(s) failed", failures)
	}
	return nil
}

// report logs each outcome and returns the failure count.
func report(log *slog.Logger, outcomes ...pipeline.Outcome) int {
	var failures int
	counts := map[pipeline.Status]int{}
	for _, o := range outcomes {
		counts[o.Status]++
		if o.Status == pipeline.StatusFailed {
			failures++
			log.Error("file failed", "file", o.Path, "reason", o.Reason, "error", o.Err)
		}
	}
	log.Info("files processed",
		"completed", counts[pipeline.StatusCompleted],
		"cached", counts[pipeline.StatusCached],
		"skipped", counts[pipeline.StatusSkipped],
		"failed", counts[pipeline.StatusFailed],
	)
	return failures
}
