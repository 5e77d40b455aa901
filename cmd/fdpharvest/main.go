// Package main provides the fdpharvest binary entry point.
// fdpharvest crawls FAIR Data Points and converts their catalogs, datasets
// and dataset series into catalog packages.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/fdpharvest/harvest"
	"github.com/c360studio/fdpharvest/identifier"
	"github.com/c360studio/fdpharvest/profile"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "fdpharvest"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath   string
	logLevel     string
	sourceConfig string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "FAIR Data Point harvester",
		Long: `fdpharvest crawls FAIR Data Point endpoints and converts the
catalogs, datasets and dataset series it finds into catalog packages.

Packages are written to a directory, published on NATS JetStream or
stored in a CKAN site. Labels of vocabulary URIs are resolved from
Wikidata, BioPortal or the vocabulary host itself.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.sourceConfig, "source-config", "", "Harvester JSON config, inline or @file")

	cmd.AddCommand(
		idsCmd(flags),
		recordCmd(flags),
		convertCmd(flags),
		harvestCmd(flags),
		runsCmd(flags),
		profilesCmd(),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

func profilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List registered RDF profiles",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range profile.Names() {
				cfg := profile.Profiles[profile.Name(name)]
				fmt.Fprintf(cmd.OutOrStdout(), "%-32s %s\n", name, cfg.Description)
			}
		},
	}
}

func idsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ids <fdp-url>",
		Short: "Print the record identifiers of an FDP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			h, err := app.harvester(args[0], false)
			if err != nil {
				return err
			}
			ids, err := h.Provider().RecordIDs(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id.String())
			}
			return nil
		},
	}
}

func recordCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "record <fdp-url> <guid>",
		Short: "Print the assembled Turtle of a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			h, err := app.harvester(args[0], false)
			if err != nil {
				return err
			}
			id, err := identifier.Parse(args[1])
			if err != nil {
				return err
			}
			ttl, err := h.Provider().RecordByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), ttl)
			return err
		},
	}
}

func convertCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <fdp-url> <guid>",
		Short: "Print the package JSON of a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			h, err := app.harvester(args[0], true)
			if err != nil {
				return err
			}
			id, err := identifier.Parse(args[1])
			if err != nil {
				return err
			}
			ttl, err := h.Provider().RecordByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			pkg, err := h.Converter().Convert(id.String(), ttl, nil)
			if err != nil {
				return err
			}
			if pkg == nil {
				return fmt.Errorf("record %s holds no matching subject", id)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(pkg)
		},
	}
}

func harvestCmd(flags *globalFlags) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "harvest <fdp-url>",
		Short: "Harvest an FDP into a sink",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			summary, err := app.run(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d discovered, %d published, %d skipped, %d failed in %s\n",
				summary.RunID, summary.Discovered, summary.Published, summary.Skipped, summary.Failed, summary.Duration)
			if summary.Failed > 0 {
				return fmt.Errorf("%d records failed", summary.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.sink, "sink", sinkDir, "Package sink (dir, nats, ckan)")
	cmd.Flags().StringVar(&opts.store, "store", storeMemory, "Translation store (memory, redis, ckan, kv)")
	cmd.Flags().BoolVar(&opts.labels, "labels", true, "Resolve labels of vocabulary URIs")
	cmd.Flags().BoolVar(&opts.recordRuns, "record-runs", false, "Record the run summary in NATS KV")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the run")
	return cmd
}

func runsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List recorded harvest runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			store, closeStore, err := app.runStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			runs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-28s %s  published=%d failed=%d\n",
					r.ID, r.StartedAt.Format(time.RFC3339), r.Profile, r.FDP, r.Published, r.Failed)
			}
			return nil
		},
	}
}

// newLogger builds the text logger for level.
func newLogger(w io.Writer, level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// readSourceConfig accepts inline JSON or @path.
func readSourceConfig(value string) (harvest.SourceConfig, error) {
	if value == "" {
		return harvest.SourceConfig{}, nil
	}
	data := []byte(value)
	if strings.HasPrefix(value, "@") {
		var err error
		if data, err = os.ReadFile(strings.TrimPrefix(value, "@")); err != nil {
			return nil, fmt.Errorf("read source config: %w", err)
		}
	}
	return harvest.ParseSourceConfig(data)
}
