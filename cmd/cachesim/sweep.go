package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/analysis"
	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/sweep"
	"github.com/sarchlab/cachesim/trace"
)

var (
	sweepAxis        string
	sweepDB          string
	sweepCSV         string
	sweepParallelism int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Measure hit-rate curves over ranges of cache geometries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if traceFile == "" {
			return fmt.Errorf("no trace file given, use --trace")
		}

		addrs, err := trace.ReadFile(traceFile)
		if err != nil {
			return err
		}

		runner := sweep.MakeRunner().
			WithTrace(addrs).
			WithLogger(newLogger())

		if sweepParallelism > 0 {
			runner = runner.WithParallelism(sweepParallelism)
		}

		if sweepDB != "" {
			runner = runner.WithRecorder(datarecording.New(sweepDB))
		}

		var allResults []sweep.PointResult
		for _, axis := range sweepAxes() {
			results, err := runner.WithTableName(axis.String()).
				Run(pointsFor(axis))
			if err != nil {
				return err
			}

			printCurve(axis, results)
			allResults = append(allResults, results...)
		}

		summary := analysis.Summarize(allResults)
		fmt.Printf("%d points, hit rate mean %.2f%%, min %.2f%%, max %.2f%%\n",
			summary.N, summary.Mean*100, summary.Min*100, summary.Max*100)

		if sweepCSV != "" {
			return writeCSVFile(sweepCSV, allResults)
		}

		return nil
	},
}

func sweepAxes() []sweep.Axis {
	switch sweepAxis {
	case "capacity":
		return []sweep.Axis{sweep.AxisCapacity}
	case "block":
		return []sweep.Axis{sweep.AxisBlockSize}
	case "assoc":
		return []sweep.Axis{sweep.AxisAssociativity}
	default:
		return []sweep.Axis{
			sweep.AxisCapacity, sweep.AxisBlockSize, sweep.AxisAssociativity,
		}
	}
}

func pointsFor(axis sweep.Axis) []sweep.Point {
	switch axis {
	case sweep.AxisCapacity:
		return sweep.CapacitySweep(sweep.DefaultCapacities,
			sweep.ReferenceBlockSize, sweep.ReferenceAssociativity)
	case sweep.AxisBlockSize:
		return sweep.BlockSizeSweep(sweep.DefaultBlockSizes,
			sweep.ReferenceCapacity, sweep.ReferenceAssociativity)
	default:
		return sweep.AssociativitySweep(sweep.DefaultAssociativities,
			sweep.ReferenceCapacity, sweep.ReferenceBlockSize)
	}
}

func printCurve(axis sweep.Axis, results []sweep.PointResult) {
	fmt.Printf("Hit rate vs %s:\n", axis)

	curve := analysis.CurveOf(results, axis)
	for _, p := range curve.Points {
		fmt.Printf("  %d: %.2f%%\n", p.X, p.HitRate*100)
	}
}

func writeCSVFile(path string, results []sweep.PointResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return analysis.WriteCSV(f, results)
}

func init() {
	sweepCmd.Flags().StringVar(&sweepAxis,
		"axis", "all", "axis to sweep: capacity, block, assoc, or all")
	sweepCmd.Flags().StringVar(&sweepDB,
		"db", envString("CACHESIM_DB", ""),
		"record results to this SQLite database")
	sweepCmd.Flags().StringVar(&sweepCSV,
		"csv", "", "export results to this CSV file")
	sweepCmd.Flags().IntVar(&sweepParallelism,
		"parallelism", 0, "points measured concurrently (0 = all CPUs)")

	rootCmd.AddCommand(sweepCmd)
}
