// Package cache models a set-associative hardware cache with LRU
// replacement. The model tracks which blocks are resident and in what
// order they were touched; it stores no data and models no timing.
package cache

import (
	"fmt"
	"math/bits"
)

// AddressBits is the width of the physical addresses the model accepts.
const AddressBits = 32

// Common capacity units.
const (
	KB uint64 = 1 << 10
	MB uint64 = 1 << 20
)

// A ConfigError reports a cache geometry that cannot be modeled. It is
// returned at construction time only; a cache that constructs successfully
// never fails a geometry check afterwards.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid cache geometry: " + e.Reason
}

// Geometry is the derived, read-only shape of a cache. All quantities are
// exact. Capacity, block size, and associativity must be powers of two so
// that the tag, index, and offset fields fall on bit boundaries.
type Geometry struct {
	CapacityBytes  uint64
	BlockSizeBytes uint64
	Associativity  int

	NumBlocks  uint64
	NumSets    uint64
	OffsetBits int
	IndexBits  int
	TagBits    int
}

// MakeGeometry derives the full cache geometry from capacity, block size,
// and associativity. Invalid parameters yield a ConfigError; nothing is
// clamped or rounded.
func MakeGeometry(
	capacityBytes, blockSizeBytes uint64,
	associativity int,
) (Geometry, error) {
	g := Geometry{
		CapacityBytes:  capacityBytes,
		BlockSizeBytes: blockSizeBytes,
		Associativity:  associativity,
	}

	capacityBits, err := log2Exact(capacityBytes, "capacity")
	if err != nil {
		return Geometry{}, err
	}

	g.OffsetBits, err = log2Exact(blockSizeBytes, "block size")
	if err != nil {
		return Geometry{}, err
	}

	if associativity <= 0 {
		return Geometry{}, &ConfigError{Reason: fmt.Sprintf(
			"associativity must be positive, got %d", associativity)}
	}

	assocBits, err := log2Exact(uint64(associativity), "associativity")
	if err != nil {
		return Geometry{}, err
	}

	if blockSizeBytes > capacityBytes {
		return Geometry{}, &ConfigError{Reason: fmt.Sprintf(
			"block size %d exceeds capacity %d",
			blockSizeBytes, capacityBytes)}
	}

	g.NumBlocks = capacityBytes / blockSizeBytes
	if uint64(associativity) > g.NumBlocks {
		return Geometry{}, &ConfigError{Reason: fmt.Sprintf(
			"associativity %d does not divide the %d blocks",
			associativity, g.NumBlocks)}
	}

	g.NumSets = g.NumBlocks / uint64(associativity)
	g.IndexBits = capacityBits - g.OffsetBits - assocBits
	g.TagBits = AddressBits - g.IndexBits - g.OffsetBits

	if g.TagBits < 0 {
		return Geometry{}, &ConfigError{Reason: fmt.Sprintf(
			"index and offset fields need %d bits, more than the %d-bit address",
			g.IndexBits+g.OffsetBits, AddressBits)}
	}

	return g, nil
}

// Decode splits an address into its tag and set index. The layout, most
// significant bit first, is [ tag | index | offset ]. The offset bits are
// discarded; the model never addresses within a block.
func (g Geometry) Decode(addr uint64) (tag, setID uint64) {
	tag = addr >> (g.IndexBits + g.OffsetBits)
	setID = (addr >> g.OffsetBits) & (1<<g.IndexBits - 1)

	return tag, setID
}

func log2Exact(n uint64, what string) (int, error) {
	if n == 0 || n&(n-1) != 0 {
		return 0, &ConfigError{Reason: fmt.Sprintf(
			"%s must be a positive power of two, got %d", what, n)}
	}

	return bits.TrailingZeros64(n), nil
}
