// Package analysis turns sweep results into hit-rate curves, summary
// statistics, and CSV reports.
package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sarchlab/cachesim/sweep"
)

// A CurvePoint is one sample of a hit-rate curve.
type CurvePoint struct {
	X       uint64
	HitRate float64
}

// A Curve is the hit-rate of a sweep as a function of one geometry axis,
// sorted by the axis value.
type Curve struct {
	Axis   sweep.Axis
	Points []CurvePoint
}

// CurveOf projects results onto one axis. The caller is responsible for
// passing results that only vary along that axis; other parameters are not
// checked here.
func CurveOf(results []sweep.PointResult, axis sweep.Axis) Curve {
	curve := Curve{Axis: axis}

	for _, res := range results {
		var x uint64
		switch axis {
		case sweep.AxisCapacity:
			x = res.CapacityBytes
		case sweep.AxisBlockSize:
			x = res.BlockSizeBytes
		case sweep.AxisAssociativity:
			x = uint64(res.Associativity)
		}

		curve.Points = append(curve.Points, CurvePoint{
			X:       x,
			HitRate: res.HitRate,
		})
	}

	sort.Slice(curve.Points, func(i, j int) bool {
		return curve.Points[i].X < curve.Points[j].X
	})

	return curve
}

// A Summary describes the distribution of hit rates over a set of sweep
// points.
type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes distribution statistics over the hit rates of the
// results. An empty result set yields a zero Summary.
func Summarize(results []sweep.PointResult) Summary {
	if len(results) == 0 {
		return Summary{}
	}

	rates := make([]float64, 0, len(results))
	for _, res := range results {
		rates = append(rates, res.HitRate)
	}

	summary := Summary{
		N:    len(rates),
		Mean: stat.Mean(rates, nil),
		Min:  rates[0],
		Max:  rates[0],
	}

	if len(rates) > 1 {
		summary.StdDev = stat.StdDev(rates, nil)
	}

	for _, rate := range rates {
		if rate < summary.Min {
			summary.Min = rate
		}
		if rate > summary.Max {
			summary.Max = rate
		}
	}

	return summary
}

// WriteCSV writes one row per sweep point, hit rates as percentages.
func WriteCSV(w io.Writer, results []sweep.PointResult) error {
	csvWriter := csv.NewWriter(w)

	header := []string{
		"capacity_bytes", "block_size_bytes", "associativity",
		"hits", "misses", "hit_rate_percent",
	}
	if err := csvWriter.Write(header); err != nil {
		return err
	}

	for _, res := range results {
		row := []string{
			fmt.Sprintf("%d", res.CapacityBytes),
			fmt.Sprintf("%d", res.BlockSizeBytes),
			fmt.Sprintf("%d", res.Associativity),
			fmt.Sprintf("%d", res.Hits),
			fmt.Sprintf("%d", res.Misses),
			fmt.Sprintf("%.2f", res.HitRate*100),
		}
		if err := csvWriter.Write(row); err != nil {
			return err
		}
	}

	csvWriter.Flush()

	return csvWriter.Error()
}
