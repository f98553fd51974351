package dataset

import (
	"fmt"
	"math/rand"
	"runtime"
	"sort"

	"github.com/kevwan/mapreduce/v2"

	oapErrors "github.com/steccami/OAP/pkg/errors"
)

// InMemory is the in-memory Dataset implementation. Points are split into
// contiguous partitions; Aggregate and Map fan the partitions out to a
// mapreduce worker pool. The point slice is owned by the dataset after
// construction and must not be mutated by the caller.
type InMemory struct {
	partitions [][]Point
	n          int
	numParts   int
	workers    int
}

// Option configures an InMemory dataset.
type Option func(*InMemory)

// WithPartitions sets the number of partitions. The count is clamped to the
// number of points, so small datasets never produce empty partitions.
func WithPartitions(n int) Option {
	return func(d *InMemory) {
		d.numParts = n
	}
}

// WithWorkers sets the number of goroutines aggregating partitions.
func WithWorkers(n int) Option {
	return func(d *InMemory) {
		d.workers = n
	}
}

// NewInMemory builds a partitioned dataset from points. Labels must be 0 or
// 1 and every point must have the same feature width; violations are
// reported here rather than surfacing mid-training.
func NewInMemory(points []Point, opts ...Option) (*InMemory, error) {
	d := &InMemory{
		numParts: runtime.NumCPU(),
		workers:  runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.numParts < 1 {
		return nil, oapErrors.NewValidationError("partitions", "must be at least 1", d.numParts)
	}
	if d.workers < 1 {
		return nil, oapErrors.NewValidationError("workers", "must be at least 1", d.workers)
	}

	width := -1
	for _, p := range points {
		if p.Label != 0 && p.Label != 1 {
			return nil, oapErrors.NewValidationError("label", "must be 0 or 1", p.Label)
		}
		if width == -1 {
			width = len(p.Features)
		} else if len(p.Features) != width {
			return nil, oapErrors.NewDimensionError("NewInMemory", width, len(p.Features), 1)
		}
	}

	d.n = len(points)
	d.partitions = partitionPoints(points, d.numParts)
	d.numParts = len(d.partitions)
	return d, nil
}

// partitionPoints splits points into at most numParts contiguous chunks of
// near-equal size.
func partitionPoints(points []Point, numParts int) [][]Point {
	if numParts > len(points) {
		numParts = len(points)
	}
	if numParts < 1 {
		numParts = 1
	}

	parts := make([][]Point, numParts)
	base := len(points) / numParts
	rem := len(points) % numParts
	start := 0
	for i := range parts {
		size := base
		if i < rem {
			size++
		}
		parts[i] = points[start : start+size : start+size]
		start += size
	}
	return parts
}

// Len returns the number of points.
func (d *InMemory) Len() int {
	return d.n
}

// Partitions returns the partition count.
func (d *InMemory) Partitions() int {
	return d.numParts
}

// Points returns a flat copy of all points in partition order.
func (d *InMemory) Points() []Point {
	out := make([]Point, 0, d.n)
	for _, part := range d.partitions {
		out = append(out, part...)
	}
	return out
}

// NumFeatures returns the feature width shared by every point.
func (d *InMemory) NumFeatures() (int, error) {
	for _, part := range d.partitions {
		if len(part) > 0 {
			return len(part[0].Features), nil
		}
	}
	return 0, oapErrors.NewModelError("NumFeatures", "cannot infer feature width", oapErrors.ErrEmptyData)
}

// Map returns a new InMemory with fn applied to every point. Partitioning
// and worker configuration carry over; partitions are transformed
// concurrently.
func (d *InMemory) Map(fn func(Point) Point) Dataset {
	mapped := make([][]Point, len(d.partitions))

	mapreduce.ForEach(func(source chan<- int) {
		for i := range d.partitions {
			source <- i
		}
	}, func(i int) {
		part := d.partitions[i]
		out := make([]Point, len(part))
		for j, p := range part {
			out[j] = fn(p)
		}
		mapped[i] = out
	}, mapreduce.WithWorkers(d.workers))

	return &InMemory{
		partitions: mapped,
		n:          d.n,
		numParts:   len(mapped),
		workers:    d.workers,
	}
}

// span is one partition plus its index, fed to the mapreduce mapper.
type span struct {
	idx    int
	points []Point
}

// partial is one partition's fold result.
type partial struct {
	idx int
	acc Accumulator
	n   int64
}

// reduced is the merged result of all partials.
type reduced struct {
	acc Accumulator
	n   int64
}

// Aggregate folds a Bernoulli(fraction) sample of the points into
// per-partition accumulators and merges them in partition order. Partition p
// samples with an RNG seeded seed+p. A panic inside an accumulator is
// converted to an error and fails the whole call.
func (d *InMemory) Aggregate(fraction float64, seed int64, newAcc func() Accumulator) (Accumulator, int64, error) {
	if newAcc == nil {
		return nil, 0, oapErrors.NewValidationError("newAcc", "must not be nil", nil)
	}
	if fraction <= 0 {
		return nil, 0, oapErrors.NewValidationError("fraction", "must be positive", fraction)
	}

	result, err := mapreduce.MapReduce(func(source chan<- span) {
		for i, part := range d.partitions {
			source <- span{idx: i, points: part}
		}
	}, func(s span, writer mapreduce.Writer[partial], cancel func(error)) {
		acc := newAcc()
		var count int64

		foldErr := oapErrors.SafeExecute(fmt.Sprintf("partition %d fold", s.idx), func() error {
			if fraction >= 1 {
				for _, p := range s.points {
					acc.Add(p)
				}
				count = int64(len(s.points))
				return nil
			}

			rng := rand.New(rand.NewSource(seed + int64(s.idx)))
			for _, p := range s.points {
				if rng.Float64() < fraction {
					acc.Add(p)
					count++
				}
			}
			return nil
		})
		if foldErr != nil {
			cancel(foldErr)
			return
		}

		writer.Write(partial{idx: s.idx, acc: acc, n: count})
	}, func(pipe <-chan partial, writer mapreduce.Writer[reduced], cancel func(error)) {
		partials := make([]partial, 0, len(d.partitions))
		for p := range pipe {
			partials = append(partials, p)
		}

		// Partials arrive in completion order. Merging in partition order
		// keeps the floating point reduction identical across runs.
		sort.Slice(partials, func(i, j int) bool {
			return partials[i].idx < partials[j].idx
		})

		merged := reduced{acc: newAcc()}
		for _, p := range partials {
			merged.acc.Merge(p.acc)
			merged.n += p.n
		}
		writer.Write(merged)
	}, mapreduce.WithWorkers(d.workers))
	if err != nil {
		return nil, 0, oapErrors.Wrap(err, "Aggregate")
	}

	return result.acc, result.n, nil
}
