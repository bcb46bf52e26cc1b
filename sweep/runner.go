package sweep

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/simulator"
)

// A TableEntry is the row recorded per sweep point. It doubles as the
// mapping struct for reading a recorded sweep back.
type TableEntry struct {
	Capacity      uint64
	BlockSize     uint64
	Associativity int
	Hits          uint64
	Misses        uint64
	HitRate       float64
}

// A Runner replays one trace against many geometries. Each point gets its
// own cold cache, so points are independent and run concurrently; accesses
// within a point stay strictly in trace order.
type Runner struct {
	addrs       []uint64
	recorder    datarecording.DataRecorder
	table       string
	parallelism int
	logger      *zap.Logger
}

// MakeRunner creates a runner with default settings.
func MakeRunner() Runner {
	return Runner{
		parallelism: runtime.GOMAXPROCS(0),
		table:       "sweep",
		logger:      zap.NewNop(),
	}
}

// WithTrace sets the addresses to replay. The slice is only read, never
// modified, so all points can share it.
func (r Runner) WithTrace(addrs []uint64) Runner {
	r.addrs = addrs
	return r
}

// WithRecorder sets the recorder that receives one row per point.
func (r Runner) WithRecorder(rec datarecording.DataRecorder) Runner {
	r.recorder = rec
	return r
}

// WithTableName sets the table the recorder writes to.
func (r Runner) WithTableName(table string) Runner {
	r.table = table
	return r
}

// WithParallelism sets the number of points measured concurrently.
func (r Runner) WithParallelism(n int) Runner {
	r.parallelism = n
	return r
}

// WithLogger sets the logger for per-point progress.
func (r Runner) WithLogger(logger *zap.Logger) Runner {
	r.logger = logger
	return r
}

// Run measures every point and returns the results in point order.
// Geometries are validated up front: a bad point fails the whole sweep
// before any trace replay starts.
func (r Runner) Run(points []Point) ([]PointResult, error) {
	for _, p := range points {
		_, err := cache.MakeGeometry(
			p.CapacityBytes, p.BlockSizeBytes, p.Associativity)
		if err != nil {
			return nil, fmt.Errorf("point %s: %w", p, err)
		}
	}

	results := make([]PointResult, len(points))
	errs := make([]error, len(points))

	parallelism := r.parallelism
	if parallelism < 1 {
		parallelism = 1
	}

	var wg sync.WaitGroup
	jobs := make(chan int)

	for w := 0; w < parallelism; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = r.measure(points[i])
			}
		}()
	}

	for i := range points {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	r.record(results)

	return results, nil
}

func (r Runner) measure(p Point) (PointResult, error) {
	c, err := cache.New(p.CapacityBytes, p.BlockSizeBytes, p.Associativity)
	if err != nil {
		return PointResult{}, fmt.Errorf("point %s: %w", p, err)
	}

	result, err := simulator.New(c).Run(r.addrs)
	if err != nil {
		return PointResult{}, fmt.Errorf("point %s: %w", p, err)
	}

	r.logger.Info("point measured",
		zap.Uint64("capacity", p.CapacityBytes),
		zap.Uint64("block_size", p.BlockSizeBytes),
		zap.Int("associativity", p.Associativity),
		zap.Uint64("hits", result.Hits),
		zap.Uint64("misses", result.Misses),
		zap.Float64("hit_rate", result.HitRate()),
	)

	return PointResult{
		Point:   p,
		Hits:    result.Hits,
		Misses:  result.Misses,
		HitRate: result.HitRate(),
	}, nil
}

// record writes the results after the parallel phase; the recorder is not
// assumed to be safe for concurrent use.
func (r Runner) record(results []PointResult) {
	if r.recorder == nil {
		return
	}

	r.recorder.CreateTable(r.table, TableEntry{})
	for _, res := range results {
		r.recorder.InsertData(r.table, TableEntry{
			Capacity:      res.CapacityBytes,
			BlockSize:     res.BlockSizeBytes,
			Associativity: res.Associativity,
			Hits:          res.Hits,
			Misses:        res.Misses,
			HitRate:       res.HitRate,
		})
	}
	r.recorder.Flush()
}
