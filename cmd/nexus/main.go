// Package main provides a diagnostic harness for the nexus memory toolkit.
package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nexus/alloc"
	"nexus/arena"
	"nexus/hashmap"
)

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "nexus memory toolkit harness",
	Long: `Diagnostic harness for the nexus memory toolkit.

Runs arena and hashmap workloads through a tracking allocator and reports
outstanding allocations and arena metrics.`,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run an arena and hashmap workload with leak reporting",
	RunE:  runDemo,
}

var leakcheckCmd = &cobra.Command{
	Use:   "leakcheck",
	Short: "Allocate without freeing and print the leak report",
	Long: `Allocate a number of buffers without freeing them and print the
resulting leak report. Exits with status 1 when leaks are found, which makes
the command usable as a smoke test for the tracker itself.`,
	RunE: runLeakcheck,
}

func init() {
	rootCmd.PersistentFlags().Int("block-size", arena.DefaultBlockSize, "arena block size in bytes")
	rootCmd.PersistentFlags().Int("capacity", hashmap.InitialCapacity, "hashmap initial bucket count")
	rootCmd.PersistentFlags().Float64("load-factor", hashmap.DefaultLoadFactor, "hashmap load factor")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	leakcheckCmd.Flags().Int("leaks", 2, "number of buffers to leak")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(leakcheckCmd)

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(fmt.Errorf("failed to bind flags: %w", err))
	}
	if err := viper.BindPFlags(leakcheckCmd.Flags()); err != nil {
		panic(fmt.Errorf("failed to bind flags: %w", err))
	}
	viper.SetEnvPrefix("NEXUS")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runDemo(cmd *cobra.Command, args []string) error {
	logger := setupLogging(viper.GetString("log-level"))

	reg := prometheus.NewRegistry()
	tracker := alloc.NewTracker(nil,
		alloc.WithLogger(logger),
		alloc.WithMetrics(reg),
	)

	// Arena workload: three phases of allocations with a reset in between,
	// then a bulk release that drains the tracker.
	a := arena.NewArenaIn(tracker, viper.GetInt("block-size"))
	if err := reg.Register(arena.NewCollector("demo", a)); err != nil {
		return fmt.Errorf("register arena collector: %w", err)
	}

	for phase := 0; phase < 3; phase++ {
		for i := 0; i < 100; i++ {
			buf := a.AllocBytes(64 + i)
			buf[0] = byte(i)
		}
		m := a.Metrics()
		logger.Info().
			Int("phase", phase).
			Int("bytes_in_use", m.SizeInUse).
			Int("blocks", m.NumBlocks).
			Float64("utilization", m.Utilization).
			Msg("arena phase complete")
		a.Reset()
	}

	// Hashmap workload.
	m := hashmap.New[string, int](
		hashmap.WithCapacity[string](viper.GetInt("capacity")),
		hashmap.WithLoadFactor[string](viper.GetFloat64("load-factor")),
	)
	for i := 0; i < 1000; i++ {
		m.Put(fmt.Sprintf("key-%d", i), i)
	}
	for i := 0; i < 500; i++ {
		m.Remove(fmt.Sprintf("key-%d", i))
	}
	logger.Info().
		Int("entries", m.Len()).
		Int("buckets", m.Cap()).
		Msg("hashmap workload complete")

	a.Release()
	if n := tracker.ReportLeaks(); n != 0 {
		return fmt.Errorf("%d allocations leaked", n)
	}
	return nil
}

func runLeakcheck(cmd *cobra.Command, args []string) error {
	logger := setupLogging(viper.GetString("log-level"))
	tracker := alloc.NewTracker(nil, alloc.WithLogger(logger))

	n := viper.GetInt("leaks")
	for i := 0; i < n; i++ {
		tracker.Allocate(128 * (i + 1))
	}

	if leaked := tracker.ReportLeaks(); leaked != 0 {
		return fmt.Errorf("%d allocations leaked", leaked)
	}
	return nil
}

func setupLogging(level string) zerolog.Logger {
	var logLevel zerolog.Level
	switch level {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(logLevel).
		With().
		Timestamp().
		Logger()
}
