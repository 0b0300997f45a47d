// Command treebench drives reproducible workloads against the ordered map and
// reports throughput and the shape of the resulting tree.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/segmentio/orderedmap/compare"
	"github.com/segmentio/orderedmap/container/tree"
	"github.com/segmentio/orderedmap/internal/workload"
)

var version = "dev"

func main() {
	if err := rootCommand().Execute(); err != nil {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		log.Error().Err(err).Msg("treebench failed")
		os.Exit(1)
	}
}

type globalFlags struct {
	logLevel  string
	logFormat string
}

func rootCommand() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "treebench",
		Short:         "Runs workloads against an unbalanced binary search tree.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug|info|warn|error).")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "console", "Log format (console|json).")

	cmd.AddCommand(runCommand(flags), versionCommand())
	return cmd
}

func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "invalid log level %q", level)
	}

	switch format {
	case "json":
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	default:
		return zerolog.Nop(), errors.Newf("invalid log format %q", format)
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Str("bench", "treebench").Logger(), nil
}

func runCommand(flags *globalFlags) *cobra.Command {
	config := workload.DefaultConfig()
	var metricsAddr string
	var reportEvery int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generates a workload and applies it to a new map.",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "Seed of the workload generator.")
	cmd.Flags().IntVar(&config.InitialSize, "initial", config.InitialSize, "Number of keys inserted before mixed changes start.")
	cmd.Flags().IntVar(&config.Changes, "changes", config.Changes, "Number of mixed changes applied after the initial inserts.")
	cmd.Flags().Float64Var(&config.DeleteFraction, "delete-fraction", config.DeleteFraction, "Share of mixed changes deleting a key.")
	cmd.Flags().Float64Var(&config.UpdateFraction, "update-fraction", config.UpdateFraction, "Share of mixed changes replacing a value.")
	cmd.Flags().Float64Var(&config.LookupFraction, "lookup-fraction", config.LookupFraction, "Share of mixed changes looking up a key.")
	cmd.Flags().IntVar(&config.KeyLength, "key-length", config.KeyLength, "Number of random bytes in generated keys.")
	cmd.Flags().IntVar(&config.ValueLength, "value-length", config.ValueLength, "Size of generated values in bytes.")
	cmd.Flags().BoolVar(&config.Sorted, "sorted", config.Sorted, "Generate keys in ascending order.")
	cmd.Flags().IntVar(&reportEvery, "report-every", workload.DefaultReportEvery, "Number of changes between progress reports, 0 disables them.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address to serve prometheus metrics on while running, e.g. :2112.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(cmd.ErrOrStderr(), flags.logLevel, flags.logFormat)
		if err != nil {
			return err
		}

		gen, err := workload.NewGenerator(*config)
		if err != nil {
			return errors.Wrap(err, "invalid workload configuration")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		runner := workload.NewRunner(log)
		runner.Metrics = workload.NewMetrics(reg)
		runner.ReportEvery = reportEvery

		if metricsAddr != "" {
			srv := serveMetrics(log, metricsAddr, reg)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
		}

		m := tree.NewMap[string, []byte](compare.Strings)
		stats, err := runner.Run(ctx, m, gen)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(),
			"inserts=%d updates=%d deletes=%d lookups=%d hits=%d size=%d height=%d\n",
			stats.Inserts, stats.Updates, stats.Deletes, stats.Lookups, stats.Hits, m.Len(), m.Height())
		m.Destroy()
		return err
	}
	return cmd
}

func serveMetrics(log zerolog.Logger, addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return srv
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version of treebench.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version)
			return err
		},
	}
}
