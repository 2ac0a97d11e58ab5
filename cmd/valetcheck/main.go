package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/leca/dt-valet/internal/config"
	"github.com/spf13/cobra"
)

// errFailed is returned when the run completed but a unit failed. The
// report already says why.
var errFailed = errors.New("conformance run failed")

type flags struct {
	configPath string
	target     string
	policy     string
	timeoutSec int
	schedule   string
	dataDriven string
	scenario   string
	suite      string
	report     string
	jsonReport string
	logFormat  string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "valetcheck",
		Short:         "Black-box conformance checks for the Bank of Canada Valet API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "valetcheck.yaml", "YAML config file (optional)")
	pf.StringVar(&f.target, "target", "", "Valet base URL (default from config, then "+config.DefaultTarget+")")
	pf.StringVar(&f.policy, "policy", "", "check policy: collect-all or fail-fast")
	pf.IntVar(&f.timeoutSec, "timeout", 0, "per-request timeout in seconds")
	pf.StringVar(&f.dataDriven, "data-driven", "", "data-driven fixture path")
	pf.StringVar(&f.scenario, "scenario", "", "scenario fixture path")
	pf.StringVar(&f.suite, "suite", suiteAll, "suites to run: all, data-driven or scenarios")
	pf.StringVar(&f.report, "report", "", "also write the text report to this file")
	pf.StringVar(&f.jsonReport, "json", "", "write the JSON report to this file")
	pf.StringVar(&f.logFormat, "log-format", "text", "log format: text or json")
	pf.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn or error")

	root.AddCommand(newRunCmd(f), newWatchCmd(f))
	return root
}

func newRunCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the suites once and exit non-zero on any failure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd, f)
			if err != nil {
				return err
			}
			report, err := runOnce(cmd.Context(), cfg, f.suite, logger)
			if err != nil {
				return err
			}
			if err := writeReports(cmd.OutOrStdout(), report, cfg); err != nil {
				return err
			}
			if !report.Passed() {
				return errFailed
			}
			return nil
		},
	}
}

func newWatchCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the suites on a cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd, f)
			if err != nil {
				return err
			}
			if cfg.Schedule == "" {
				return errors.New("watch needs a schedule (--schedule, VALET_SCHEDULE or schedule: in config)")
			}
			return watch(cmd.Context(), cmd.OutOrStdout(), cfg, f.suite, logger)
		},
	}
	cmd.Flags().StringVar(&f.schedule, "schedule", "", `cron schedule with seconds, e.g. "0 */15 * * * *"`)
	return cmd
}

// setup loads the config, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, f *flags) (*config.Checker, *slog.Logger, error) {
	cfg, err := config.LoadChecker(f.configPath)
	if err != nil {
		return nil, nil, err
	}

	fs := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	override("target", &cfg.Target, f.target)
	override("policy", &cfg.Policy, f.policy)
	override("data-driven", &cfg.DataDrivenFixture, f.dataDriven)
	override("scenario", &cfg.ScenarioFixture, f.scenario)
	override("report", &cfg.Report, f.report)
	override("json", &cfg.JSONReport, f.jsonReport)
	if fs.Lookup("schedule") != nil {
		override("schedule", &cfg.Schedule, f.schedule)
	}
	if fs.Changed("timeout") && f.timeoutSec > 0 {
		cfg.TimeoutSec = f.timeoutSec
	}

	logger, err := newLogger(cmd.ErrOrStderr(), f.logFormat, f.logLevel)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}
