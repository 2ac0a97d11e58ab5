package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leca/dt-valet/internal/check"
	"github.com/leca/dt-valet/internal/config"
	"github.com/leca/dt-valet/internal/fixture"
	"github.com/leca/dt-valet/internal/runner"
	"github.com/leca/dt-valet/internal/valet"
)

const suiteAll = "all"

// runOnce runs the selected suites against cfg.Target and returns the
// finished report. Unit failures are in the report; the error is for runs
// that could not start.
func runOnce(ctx context.Context, cfg *config.Checker, suite string, logger *slog.Logger) (*runner.Report, error) {
	policy, err := check.ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}
	runDataDriven, runScenarios, err := selectSuites(suite)
	if err != nil {
		return nil, err
	}

	client, err := valet.NewClient(cfg.Target, valet.WithHTTPClient(valet.NewHTTPClient(cfg.Timeout())))
	if err != nil {
		return nil, fmt.Errorf("target %q: %w", cfg.Target, err)
	}

	report := runner.NewReport(client.BaseURL(), policy)
	logger = logger.With("runId", report.RunID)
	r := runner.New(client, runner.Options{
		Policy:  policy,
		Bounds:  boundsTable(cfg),
		Timeout: cfg.Timeout(),
		Logger:  logger,
	})
	logger.Info("starting run", "target", client.BaseURL(), "policy", policy.String(), "suite", suite)

	if runDataDriven {
		dd, err := fixture.LoadDataDriven(cfg.DataDrivenFixture)
		if err != nil {
			logger.Error("data-driven fixture unusable", "path", cfg.DataDrivenFixture, "error", err)
			report.Add(runner.FixtureFailure(runner.SuiteDataDriven, cfg.DataDrivenFixture, err))
		} else {
			report.Add(r.RunCases(ctx, dd.TestCases)...)
		}
	}
	if runScenarios {
		sc, err := fixture.LoadScenario(cfg.ScenarioFixture)
		if err != nil {
			logger.Error("scenario fixture unusable", "path", cfg.ScenarioFixture, "error", err)
			report.Add(runner.ScenarioFixtureFailures(err)...)
		} else {
			report.Add(r.RunScenarios(ctx, sc)...)
		}
	}

	report.Finish()
	s := report.Summary
	logger.Info("run finished", "total", s.Total, "passed", s.Passed, "failed", s.Failed)
	return report, nil
}

func selectSuites(suite string) (dataDriven, scenarios bool, err error) {
	switch suite {
	case "", suiteAll:
		return true, true, nil
	case runner.SuiteDataDriven:
		return true, false, nil
	case runner.SuiteScenarios:
		return false, true, nil
	default:
		return false, false, fmt.Errorf("unknown suite %q (want %s, %s or %s)", suite, suiteAll, runner.SuiteDataDriven, runner.SuiteScenarios)
	}
}

func boundsTable(cfg *config.Checker) check.BoundsTable {
	perPair := make(map[string]check.Bounds, len(cfg.Bounds))
	for pair, b := range cfg.Bounds {
		perPair[pair] = check.Bounds{Min: b.Min, Max: b.Max}
	}
	t := check.NewBoundsTable(perPair)
	if cfg.DefaultBounds != nil {
		t.Default = check.Bounds{Min: cfg.DefaultBounds.Min, Max: cfg.DefaultBounds.Max}
	}
	return t
}

// writeReports prints the text report to stdout and writes the optional
// report files.
func writeReports(stdout io.Writer, report *runner.Report, cfg *config.Checker) error {
	if err := report.WriteText(stdout); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if cfg.Report != "" {
		if err := writeFile(cfg.Report, report.WriteText); err != nil {
			return err
		}
	}
	if cfg.JSONReport != "" {
		if err := writeFile(cfg.JSONReport, report.WriteJSON); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// watch re-runs the suites on cfg.Schedule until ctx is done. Failed runs
// are logged and reported; they do not stop the schedule.
func watch(ctx context.Context, stdout io.Writer, cfg *config.Checker, suite string, logger *slog.Logger) error {
	if _, _, err := selectSuites(suite); err != nil {
		return err
	}
	return runner.Watch(ctx, cfg.Schedule, logger, func(ctx context.Context) {
		report, err := runOnce(ctx, cfg, suite, logger)
		if err != nil {
			logger.Error("run could not start", "error", err)
			return
		}
		if err := writeReports(stdout, report, cfg); err != nil {
			logger.Error("failed to write report", "error", err)
		}
	})
}

func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", format)
	}
}
