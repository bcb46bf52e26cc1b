package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags.
	traceFile string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "cachesim",
	Short: "Replay memory-access traces through set-associative cache models",
	Long: `Cachesim models the hit/miss behavior of a set-associative cache
with LRU replacement under a replayed memory-access trace.

Examples:
  # Measure one geometry
  cachesim run --trace gcc.trace --capacity 1048576 --block 4 --assoc 4

  # Sweep capacities, block sizes, and associativities
  cachesim sweep --trace gcc.trace --axis all --db results

  # Browse recorded sweep results
  cachesim serve --db results.sqlite3`,
}

func init() {
	// A local .env file can predefine the CACHESIM_* defaults.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&traceFile,
		"trace", "t", envString("CACHESIM_TRACE", ""),
		"trace file to replay")
	rootCmd.PersistentFlags().BoolVarP(&verbose,
		"verbose", "v", false, "enable verbose output")
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	return logger
}

func envString(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}

	return fallback
}

func envInt(name string, fallback int) int {
	v, ok := os.LookupEnv(name)
	if !ok {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}
