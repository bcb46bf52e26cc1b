// Package simulator replays memory-access traces through a cache model and
// accumulates hit/miss statistics.
package simulator

import (
	"github.com/sarchlab/cachesim/cache"
)

// A Result accumulates the outcome of one trace replay.
type Result struct {
	Hits   uint64
	Misses uint64
}

// Total returns the number of accesses counted.
func (r Result) Total() uint64 {
	return r.Hits + r.Misses
}

// HitRate returns the fraction of accesses that hit. A result with no
// accesses at all has a hit rate of 0; this is where the divide-by-zero of
// a degenerate run is guarded.
func (r Result) HitRate() float64 {
	total := r.Total()
	if total == 0 {
		return 0
	}

	return float64(r.Hits) / float64(total)
}

// A Simulator feeds addresses through a single cache instance. The replay
// is strictly ordered: LRU state depends on the access order, so no
// reordering or look-ahead is ever valid.
type Simulator struct {
	cache *cache.Cache
}

// New creates a simulator around a cache.
func New(c *cache.Cache) *Simulator {
	return &Simulator{cache: c}
}

// Run replays the addresses in order, one pass. An out-of-range address
// stops the replay and returns the counts accumulated so far along with
// the error; the offending access is not counted.
func (s *Simulator) Run(addrs []uint64) (Result, error) {
	var result Result

	for _, addr := range addrs {
		hit, err := s.cache.Access(addr)
		if err != nil {
			return result, err
		}

		if hit {
			result.Hits++
		} else {
			result.Misses++
		}
	}

	return result, nil
}
