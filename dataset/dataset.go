// Package dataset provides the partitioned, read-only view of training data
// that the optimization driver runs against.
//
// A Dataset hands out three capabilities: its size, its observed feature
// width, and a sampled fold (Aggregate) that visits a Bernoulli-sampled
// subset of the records and reduces per-partition partial results in
// partition order. The driver never sees partitions or goroutines; it sees
// one merged Accumulator per call.
package dataset

// Point is one labeled observation. Label is 0 or 1; Features has the same
// length for every point in a dataset.
type Point struct {
	Label    float64
	Features []float64
}

// Clone returns a deep copy of the point.
func (p Point) Clone() Point {
	features := make([]float64, len(p.Features))
	copy(features, p.Features)
	return Point{Label: p.Label, Features: features}
}

// Accumulator folds sampled points into a partial result and merges with
// partials from other partitions. Implementations must be associative and
// commutative in Merge so that the reduction order cannot change the
// outcome beyond floating point rounding; the dataset additionally pins the
// merge order to partition order, making repeated runs bit-identical.
//
// An Accumulator is only ever used by one partition at a time; Merge is
// called sequentially by the reducer.
type Accumulator interface {
	// Add folds one sampled point into the partial result.
	Add(p Point)

	// Merge combines another partition's partial result into this one.
	// The argument is always a value produced by the same factory that
	// produced the receiver.
	Merge(other Accumulator)
}

// Dataset is an immutable collection of labeled points supporting sampled
// parallel aggregation.
type Dataset interface {
	// Len returns the number of points.
	Len() int

	// NumFeatures returns the feature width shared by every point.
	// Calling it on an empty dataset is an error.
	NumFeatures() (int, error)

	// Map returns a new dataset with fn applied to every point. The
	// receiver is unchanged. fn must preserve per-record feature-width
	// consistency and must not retain the argument.
	Map(fn func(Point) Point) Dataset

	// Aggregate folds a Bernoulli(fraction) sample of the points into
	// accumulators produced by newAcc, one per partition, and merges them
	// in partition order. It returns the merged accumulator and the number
	// of sampled points. Sampling is partition-local: partition p uses an
	// RNG seeded seed+p, so a fixed seed resamples identically across
	// runs. fraction >= 1 keeps every point without consulting the RNG.
	Aggregate(fraction float64, seed int64, newAcc func() Accumulator) (Accumulator, int64, error)
}
