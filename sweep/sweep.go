// Package sweep replays one memory-access trace against ranges of cache
// geometries and collects the hit-rate curve for each swept parameter.
package sweep

import (
	"fmt"

	"github.com/sarchlab/cachesim/cache"
)

// An Axis names the geometry parameter a sweep varies.
type Axis int

const (
	AxisCapacity Axis = iota
	AxisBlockSize
	AxisAssociativity
)

func (a Axis) String() string {
	switch a {
	case AxisCapacity:
		return "capacity"
	case AxisBlockSize:
		return "block_size"
	case AxisAssociativity:
		return "associativity"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// A Point is one geometry under test.
type Point struct {
	CapacityBytes  uint64
	BlockSizeBytes uint64
	Associativity  int
}

func (p Point) String() string {
	return fmt.Sprintf("capacity=%d block=%d assoc=%d",
		p.CapacityBytes, p.BlockSizeBytes, p.Associativity)
}

// A PointResult is the measured outcome of one point.
type PointResult struct {
	Point

	Hits    uint64
	Misses  uint64
	HitRate float64
}

// Default sweep ranges, centered on the capacity=1MB, block=4B, assoc=4
// reference point.
var (
	DefaultCapacities = []uint64{
		128 * cache.KB, 256 * cache.KB, 512 * cache.KB,
		1 * cache.MB, 2 * cache.MB, 4 * cache.MB,
	}
	DefaultBlockSizes      = []uint64{1, 2, 4, 8, 16, 32, 64, 128}
	DefaultAssociativities = []int{1, 2, 4, 8, 16, 32, 64}
)

// Reference values used for the parameters an axis does not vary.
const (
	ReferenceCapacity      = 1 * cache.MB
	ReferenceBlockSize     = uint64(4)
	ReferenceAssociativity = 4
)

// CapacitySweep returns points varying the capacity with the block size
// and associativity fixed.
func CapacitySweep(
	capacities []uint64,
	blockSize uint64,
	associativity int,
) []Point {
	points := make([]Point, 0, len(capacities))
	for _, c := range capacities {
		points = append(points, Point{
			CapacityBytes:  c,
			BlockSizeBytes: blockSize,
			Associativity:  associativity,
		})
	}

	return points
}

// BlockSizeSweep returns points varying the block size with the capacity
// and associativity fixed.
func BlockSizeSweep(
	blockSizes []uint64,
	capacity uint64,
	associativity int,
) []Point {
	points := make([]Point, 0, len(blockSizes))
	for _, b := range blockSizes {
		points = append(points, Point{
			CapacityBytes:  capacity,
			BlockSizeBytes: b,
			Associativity:  associativity,
		})
	}

	return points
}

// AssociativitySweep returns points varying the associativity with the
// capacity and block size fixed.
func AssociativitySweep(
	associativities []int,
	capacity, blockSize uint64,
) []Point {
	points := make([]Point, 0, len(associativities))
	for _, a := range associativities {
		points = append(points, Point{
			CapacityBytes:  capacity,
			BlockSizeBytes: blockSize,
			Associativity:  a,
		})
	}

	return points
}
