package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/simulator"
	"github.com/sarchlab/cachesim/trace"
)

var (
	runCapacity uint64
	runBlock    uint64
	runAssoc    int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a trace through one cache geometry",
	RunE: func(cmd *cobra.Command, args []string) error {
		if traceFile == "" {
			return fmt.Errorf("no trace file given, use --trace")
		}

		addrs, err := trace.ReadFile(traceFile)
		if err != nil {
			return err
		}

		c, err := cache.New(runCapacity, runBlock, runAssoc)
		if err != nil {
			return err
		}

		result, err := simulator.New(c).Run(addrs)
		if err != nil {
			return err
		}

		g := c.Geometry()
		fmt.Printf("Capacity = %d B, Block Size = %d B, Associativity = %d, "+
			"Sets = %d\n",
			g.CapacityBytes, g.BlockSizeBytes, g.Associativity, g.NumSets)
		fmt.Printf("Hit Rate = %.2f%%, Hits = %d, Misses = %d, "+
			"Total Accesses = %d\n",
			result.HitRate()*100, result.Hits, result.Misses, result.Total())

		return nil
	},
}

func init() {
	runCmd.Flags().Uint64Var(&runCapacity,
		"capacity", 1*cache.MB, "cache capacity in bytes")
	runCmd.Flags().Uint64Var(&runBlock,
		"block", 4, "block size in bytes")
	runCmd.Flags().IntVar(&runAssoc,
		"assoc", 4, "associativity (ways per set)")

	rootCmd.AddCommand(runCmd)
}
