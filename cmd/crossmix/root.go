package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bayneri/crossmix/internal/baseline"
	"github.com/bayneri/crossmix/internal/config"
	"github.com/bayneri/crossmix/internal/dataset"
	"github.com/bayneri/crossmix/internal/optimizer"
	"github.com/bayneri/crossmix/internal/output"
	"github.com/bayneri/crossmix/internal/report"
)

const parametersAnnotation = "crossmix/parameters"

// parameterKeys maps the allocation control flags to their config keys.
var parameterKeys = map[string]string{
	"tv-split":         "parameters.tv_digital_split",
	"platform-a-split": "parameters.platform_a_split",
	"intensity":        "parameters.intensity",
	"threshold":        "parameters.protection_threshold",
	"sync":             "parameters.sync_enabled",
	"sync-budget":      "parameters.sync_budget",
	"renormalize":      "parameters.renormalize",
}

// app is the state shared by every command of one invocation.
type app struct {
	cfgFile string
	verbose bool
	color   string
	quiet   bool

	v       *viper.Viper
	cfg     *config.Config
	logger  *slog.Logger
	printer *output.Printer
	stdout  io.Writer
	stderr  io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:   "crossmix",
		Short: "Cross-media budget allocation calculator",
		Long: `crossmix reallocates a media budget between TV channels and two digital
platforms under diminishing returns, and reports the projected add-to-cart
(ATC) outcome of each scenario.

Example usage:
  crossmix baseline                      # Aggregated current allocation
  crossmix optimize --tv-split 75        # Evaluate one control position
  crossmix optimal --sync                # Recommended plan with sync spend
  crossmix compare --plan client         # Score an alternate channel plan
  crossmix sweep --tv-split 60:90:5      # Rank a grid of scenarios`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is .crossmix.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&a.color, "color", "auto", "color output: auto, always, never")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "suppress informational messages")
	flags.String("dataset", "", "dataset YAML file (default: embedded dataset)")
	flags.String("plans", "", "plans YAML file merged over the dataset plans")
	_ = a.v.BindPFlag("dataset.path", flags.Lookup("dataset"))
	_ = a.v.BindPFlag("dataset.plans", flags.Lookup("plans"))

	root.AddCommand(
		newBaselineCmd(a),
		newOptimizeCmd(a),
		newOptimalCmd(a),
		newCompareCmd(a),
		newSweepCmd(a),
		newReportCmd(a),
		newExportCmd(a),
		newPublishCmd(a),
		newHistoryCmd(a),
		newImportCmd(a),
		newValidateCmd(a),
		newServeCmd(a),
		newExplainCmd(a),
		newVersionCmd(),
	)
	return root
}

// addParameterFlags registers the allocation controls on cmd. They are
// bound to the config keys when cmd runs, so each command sees its own
// flags.
func addParameterFlags(cmd *cobra.Command) {
	p := optimizer.DefaultParameters()
	f := cmd.Flags()
	f.Float64("tv-split", p.TVDigitalSplitPct, "TV share of the total budget, 50-95")
	f.Float64("platform-a-split", p.PlatformASplitPct, "platform A share of digital, 30-90")
	f.Float64("intensity", p.IntensityPct, "reallocation intensity, 5-30")
	f.Float64("threshold", p.ProtectionThresholdPct, "channel protection threshold, 50-90")
	f.Bool("sync", p.SyncEnabled, "fund sync spend out of TV")
	f.Float64("sync-budget", p.SyncBudget, "sync spend when --sync is set")
	f.Bool("renormalize", p.Renormalize, "rescale channel spends to their region budget")
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[parametersAnnotation] = "true"
}

func (a *app) init(cmd *cobra.Command) error {
	a.logger = newLogger(cmd.ErrOrStderr(), "info", "text", a.verbose)

	if cmd.Annotations[parametersAnnotation] == "true" {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if key, ok := parameterKeys[f.Name]; ok {
				_ = a.v.BindPFlag(key, f)
			}
		})
	}

	cfg, err := config.LoadWith(a.v, a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	a.logger = newLogger(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format, a.verbose)
	slog.SetDefault(a.logger)
	a.logger.Debug("configuration loaded",
		"config_file", a.v.ConfigFileUsed(),
		"dataset", cfg.Dataset.Path,
		"plans", cfg.Dataset.Plans,
	)

	a.stdout, a.stderr = cmd.OutOrStdout(), cmd.ErrOrStderr()
	if _, err := output.ParseColorMode(a.color); err != nil {
		return err
	}
	a.printer = a.newPrinter("", "")
	return nil
}

func (a *app) newPrinter(platformA, platformB string) *output.Printer {
	mode, _ := output.ParseColorMode(a.color)
	return output.NewPrinterTo(a.stdout, a.stderr, output.PrinterOptions{
		ColorMode:    mode,
		ConfigColors: a.cfg.Output.Colors,
		Quiet:        a.quiet,
		PlatformA:    platformA,
		PlatformB:    platformB,
	})
}

func newLogger(w io.Writer, level, format string, verbose bool) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// loadDataset reads the configured dataset, merges any plans file and
// returns it together with its baseline.
func (a *app) loadDataset() (dataset.Dataset, baseline.Metrics, error) {
	d, err := dataset.LoadOrDefault(a.cfg.Dataset.Path)
	if err != nil {
		return dataset.Dataset{}, baseline.Metrics{}, err
	}
	if a.cfg.Dataset.Plans != "" {
		plans, err := dataset.LoadPlans(a.cfg.Dataset.Plans)
		if err != nil {
			return dataset.Dataset{}, baseline.Metrics{}, err
		}
		d = d.MergePlans(plans)
	}
	if err := d.Validate(); err != nil {
		return dataset.Dataset{}, baseline.Metrics{}, fmt.Errorf("invalid dataset: %w", err)
	}
	a.logger.Debug("dataset loaded",
		"name", d.Name,
		"channels", len(d.ChannelTable),
		"plans", strings.Join(d.PlanNames(), ","),
	)
	// Platform names from the dataset label the digital rows.
	a.printer = a.newPrinter(d.PlatformAMetric.Name, d.PlatformBMetric.Name)
	return d, baseline.Aggregate(d), nil
}

// parameters returns the allocation controls from flags and config,
// validated against the supported ranges.
func (a *app) parameters() (optimizer.Parameters, error) {
	p := a.cfg.Parameters
	if err := p.Validate(); err != nil {
		return optimizer.Parameters{}, err
	}
	a.logger.Debug("parameters",
		"tv_split", p.TVDigitalSplitPct,
		"platform_a_split", p.PlatformASplitPct,
		"intensity", p.IntensityPct,
		"threshold", p.ProtectionThresholdPct,
		"sync", p.SyncEnabled,
		"sync_budget", p.SyncBudget,
		"renormalize", p.Renormalize,
	)
	return p, nil
}

func (a *app) reportOptions(d dataset.Dataset, channels bool) report.Options {
	return report.Options{
		Channels:  channels,
		PlatformA: d.PlatformAMetric.Name,
		PlatformB: d.PlatformBMetric.Name,
	}
}
