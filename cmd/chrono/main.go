package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/coolbeans/chronocore/pkg/config"
	"github.com/coolbeans/chronocore/pkg/metrics"
	"github.com/coolbeans/chronocore/pkg/tzdata"
	"github.com/coolbeans/chronocore/pkg/zone"
)

var version = "0.1.0"

// app is the state shared by every command, built before the command runs.
type app struct {
	cfg          config.Config
	logger       *slog.Logger
	registry     *zone.Registry
	gatherer     prometheus.Gatherer
	dirProviders []*tzdata.Provider
}

func main() {
	if err := rootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chrono",
		Short: "Calendar fields and time-zone rules",
		Long: `Chrono inspects the calendrical core: temporal fields and their
valid ranges, zone offsets, transitions, and how local date-times are
resolved in gaps and overlaps.

Zone data comes from the compiled-in data set, the fixed Etc/GMT zones,
and any directories of YAML zone files given with --data-dir or in the
config file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.Metrics {
				return nil
			}
			return a.dumpMetrics(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringSlice("data-dir", nil, "Directory of YAML zone files (repeatable)")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().Bool("metrics", false, "Print registry metrics to stderr after the command")

	cmd.AddCommand(fieldsCmd())
	cmd.AddCommand(fieldCmd())
	cmd.AddCommand(unitsCmd())
	cmd.AddCommand(zonesCmd(a))
	cmd.AddCommand(offsetCmd(a))
	cmd.AddCommand(transitionsCmd(a))
	cmd.AddCommand(resolveCmd(a))
	cmd.AddCommand(watchCmd(a))
	return cmd
}

// setup loads the configuration, applies flag overrides and registers the
// zone providers.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if dirs, _ := cmd.Flags().GetStringSlice("data-dir"); len(dirs) > 0 {
		cfg.DataDirs = append(cfg.DataDirs, dirs...)
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if cmd.Flags().Changed("metrics") {
		cfg.Metrics, _ = cmd.Flags().GetBool("metrics")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	promRegistry := prometheus.NewRegistry()
	a.cfg = cfg
	a.logger = logger
	a.gatherer = promRegistry
	a.registry = zone.NewRegistry(
		zone.WithLogger(logger),
		zone.WithObserver(metrics.New(promRegistry)),
	)
	return a.registerProviders()
}

func (a *app) registerProviders() error {
	if a.cfg.IncludeEmbedded {
		embedded, err := tzdata.Embedded(tzdata.WithLogger(a.logger))
		if err != nil {
			return err
		}
		if err := a.registry.RegisterProvider(embedded); err != nil {
			return err
		}
	}
	if a.cfg.IncludeEtc {
		if err := a.registry.RegisterProvider(zone.EtcProvider()); err != nil {
			return err
		}
	}
	for _, dir := range a.cfg.DataDirs {
		p, err := tzdata.NewDirectoryProvider("dir:"+dir, dir,
			tzdata.WithLogger(a.logger),
			tzdata.WithOnChange(a.onZoneFileChange),
		)
		if err != nil {
			return err
		}
		if err := a.registry.RegisterProvider(p); err != nil {
			return err
		}
		a.dirProviders = append(a.dirProviders, p)
	}
	return nil
}

// onZoneFileChange refreshes through the registry so cached rules of the
// edited provider are dropped.
func (a *app) onZoneFileChange(event tzdata.Event) {
	changed, err := a.registry.Refresh()
	if err != nil {
		a.logger.Warn("zone data refresh failed", "path", event.Path, "error", err)
		return
	}
	if changed {
		a.logger.Info("zone data reloaded", "path", event.Path, "op", event.Op)
	}
}

func (a *app) dumpMetrics(w io.Writer) error {
	families, err := a.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}
