// Package main runs one projection from the command line and renders it as
// markdown, CSV, or JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"pnl-projection-service/internal/config"
	"pnl-projection-service/internal/decision"
	"pnl-projection-service/internal/history"
	"pnl-projection-service/internal/logging"
	"pnl-projection-service/internal/projection"
	"pnl-projection-service/internal/reporting"
	"pnl-projection-service/internal/simulation"
)

func main() {
	cfg := config.Load()

	days := flag.Int("days", 30, "Projection horizon in days (1-365)")
	simulations := flag.Int("simulations", 1000, "Number of Monte Carlo simulations (100-10000)")
	stability := flag.Bool("stability", false, "Include walk-forward stability analysis and verdict")
	seed := flag.Int64("seed", 0, "Random seed for a reproducible run (0 = random)")
	synthetic := flag.Bool("synthetic", false, "Skip the platform API and project from synthetic history")
	platformURL := flag.String("platform-url", cfg.PlatformBaseURL, "Trading platform API base URL")
	lookbackDays := flag.Int("lookback-days", cfg.LookbackDays, "Trade history window for parameter estimation, in days")
	format := flag.String("format", "markdown", "Output format: markdown, csv, or json")
	output := flag.String("output", "", "Output file (default: stdout)")
	flag.Parse()

	if *format != "markdown" && *format != "csv" && *format != "json" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (markdown, csv, json)\n", *format)
		os.Exit(1)
	}

	// Degradations (upstream failures, fallbacks) still reach stderr; the
	// report itself goes to stdout.
	logger := logging.NewLogger("warn")
	defer logger.Sync()

	var platform history.Source
	if !*synthetic && *platformURL != "" {
		platform = history.NewPlatformSource(history.PlatformOptions{BaseURL: *platformURL})
	}
	provider := history.NewProvider(history.ProviderOptions{
		Platform: platform,
		Fallback: history.NewSyntheticSource(history.SyntheticOptions{Seed: *seed}),
		Logger:   logger,
	})

	svc, err := projection.NewService(projection.ServiceOptions{
		Trades:       provider,
		Engine:       simulation.NewEngine(simulation.EngineOptions{Seed: *seed}),
		LookbackDays: *lookbackDays,
		Logger:       logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	resp, err := svc.Project(context.Background(), projection.Request{
		Days:        *days,
		Simulations: *simulations,
		Stability:   *stability,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var verdict *decision.Result
	if resp.Stability != nil {
		verdict = decision.NewEvaluator().Evaluate(resp.MonteCarlo, resp.Stability)
	}
	report := reporting.NewReport(time.Now(), resp.MonteCarlo, resp.Stability, verdict)

	var rendered []byte
	switch *format {
	case "markdown":
		rendered = []byte(reporting.RenderMarkdown(report))
	case "csv":
		rendered = []byte(reporting.RenderCSV(resp.MonteCarlo))
	case "json":
		rendered, err = reporting.RenderJSON(report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering JSON: %v\n", err)
			os.Exit(1)
		}
	}

	if *output == "" {
		os.Stdout.Write(rendered)
		return
	}
	if err := os.WriteFile(*output, rendered, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *output, err)
		os.Exit(1)
	}
	fmt.Printf("Report written to %s\n", *output)
}
