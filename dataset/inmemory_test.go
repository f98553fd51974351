package dataset

import (
	"strings"
	"testing"

	oapErrors "github.com/steccami/OAP/pkg/errors"
)

// countAcc counts sampled points and sums their labels.
type countAcc struct {
	n        int
	labelSum float64
}

func (a *countAcc) Add(p Point) {
	a.n++
	a.labelSum += p.Label
}

func (a *countAcc) Merge(other Accumulator) {
	o := other.(*countAcc)
	a.n += o.n
	a.labelSum += o.labelSum
}

// collectAcc records the first feature of every point in fold order, which
// makes the merge order observable.
type collectAcc struct {
	seen []float64
}

func (a *collectAcc) Add(p Point) {
	a.seen = append(a.seen, p.Features[0])
}

func (a *collectAcc) Merge(other Accumulator) {
	a.seen = append(a.seen, other.(*collectAcc).seen...)
}

// panicAcc panics on the first Add.
type panicAcc struct{}

func (a *panicAcc) Add(p Point) { panic("accumulator blew up") }

func (a *panicAcc) Merge(other Accumulator) {}

func syntheticPoints(n int) []Point {
	points := make([]Point, n)
	for i := range points {
		points[i] = Point{Label: float64(i % 2), Features: []float64{float64(i), 1.5}}
	}
	return points
}

func TestNewInMemoryValidation(t *testing.T) {
	tests := []struct {
		name    string
		points  []Point
		opts    []Option
		wantMsg string
	}{
		{
			name:    "label outside 0/1",
			points:  []Point{{Label: 2, Features: []float64{1.0}}},
			wantMsg: "oap: validation failed for parameter 'label': must be 0 or 1 (got: 2)",
		},
		{
			name: "inconsistent feature width",
			points: []Point{
				{Label: 1, Features: []float64{1.0, 2.0}},
				{Label: 0, Features: []float64{1.0, 2.0, 3.0}},
			},
			wantMsg: "oap: NewInMemory: dimension mismatch on axis 1 (features). Expected 2, got 3",
		},
		{
			name:    "zero partitions",
			points:  syntheticPoints(4),
			opts:    []Option{WithPartitions(0)},
			wantMsg: "oap: validation failed for parameter 'partitions': must be at least 1 (got: 0)",
		},
		{
			name:    "negative workers",
			points:  syntheticPoints(4),
			opts:    []Option{WithWorkers(-1)},
			wantMsg: "oap: validation failed for parameter 'workers': must be at least 1 (got: -1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInMemory(tt.points, tt.opts...)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Expected error message %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestInMemoryLenAndNumFeatures(t *testing.T) {
	ds, err := NewInMemory(syntheticPoints(10), WithPartitions(3))
	if err != nil {
		t.Fatalf("NewInMemory failed: %v", err)
	}

	if ds.Len() != 10 {
		t.Errorf("Expected 10 points, got %d", ds.Len())
	}
	if ds.Partitions() != 3 {
		t.Errorf("Expected 3 partitions, got %d", ds.Partitions())
	}

	width, err := ds.NumFeatures()
	if err != nil {
		t.Fatalf("NumFeatures failed: %v", err)
	}
	if width != 2 {
		t.Errorf("Expected feature width 2, got %d", width)
	}
}

func TestInMemoryEmpty(t *testing.T) {
	ds, err := NewInMemory(nil)
	if err != nil {
		t.Fatalf("NewInMemory failed: %v", err)
	}

	if ds.Len() != 0 {
		t.Errorf("Expected empty dataset, got %d points", ds.Len())
	}

	_, err = ds.NumFeatures()
	if err == nil {
		t.Fatal("Expected error from NumFeatures on empty dataset")
	}
	if !oapErrors.Is(err, oapErrors.ErrEmptyData) {
		t.Errorf("Expected ErrEmptyData in chain, got %v", err)
	}
}

func TestInMemoryPartitionClamping(t *testing.T) {
	ds, err := NewInMemory(syntheticPoints(3), WithPartitions(8))
	if err != nil {
		t.Fatalf("NewInMemory failed: %v", err)
	}

	// More partitions than points would leave some empty.
	if ds.Partitions() != 3 {
		t.Errorf("Expected partition count clamped to 3, got %d", ds.Partitions())
	}
}

func TestInMemoryMap(t *testing.T) {
	ds, err := NewInMemory(syntheticPoints(6), WithPartitions(2))
	if err != nil {
		t.Fatalf("NewInMemory failed: %v", err)
	}

	augmented := ds.Map(func(p Point) Point {
		features := make([]float64, 0, len(p.Features)+1)
		features = append(features, 1.0)
		features = append(features, p.Features...)
		return Point{Label: p.Label, Features: features}
	})

	width, err := augmented.NumFeatures()
	if err != nil {
		t.Fatalf("NumFeatures failed: %v", err)
	}
	if width != 3 {
		t.Errorf("Expected augmented width 3, got %d", width)
	}
	if augmented.Len() != ds.Len() {
		t.Errorf("Map changed the point count: %d != %d", augmented.Len(), ds.Len())
	}

	// Receiver must be untouched.
	origWidth, err := ds.NumFeatures()
	if err != nil {
		t.Fatalf("NumFeatures failed: %v", err)
	}
	if origWidth != 2 {
		t.Errorf("Original dataset width changed to %d", origWidth)
	}

	for i, p := range augmented.(*InMemory).Points() {
		if p.Features[0] != 1.0 {
			t.Errorf("Point %d: expected leading 1.0, got %v", i, p.Features[0])
		}
	}
}

func TestInMemoryAggregateFullFraction(t *testing.T) {
	points := syntheticPoints(10)
	ds, err := NewInMemory(points, WithPartitions(3), WithWorkers(2))
	if err != nil {
		t.Fatalf("NewInMemory failed: %v", err)
	}

	acc, n, err := ds.Aggregate(1.0, 42, func() Accumulator { return &countAcc{} })
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if n != 10 {
		t.Errorf("Expected 10 sampled points at fraction 1.0, got %d", n)
	}

	got := acc.(*countAcc)
	if got.n != 10 {
		t.Errorf("Expected accumulator to see 10 points, got %d", got.n)
	}
	if got.labelSum != 5 {
		t.Errorf("Expected label sum 5, got %v", got.labelSum)
	}
}

func TestInMemoryAggregateMergeOrder(t *testing.T) {
	points := []Point{
		{Label: 0, Features: []float64{0}},
		{Label: 1, Features: []float64{1}},
		{Label: 0, Features: []float64{2}},
		{Label: 1, Features: []float64{3}},
	}
	ds, err := NewInMemory(points, WithPartitions(2))
	if err != nil {
		t.Fatalf("NewInMemory failed: %v", err)
	}

	// Repeat to give partition completion order a chance to vary.
	for run := 0; run < 20; run++ {
		acc, _, err := ds.Aggregate(1.0, 42, func() Accumulator { return &collectAcc{} })
		if err != nil {
			t.Fatalf("Aggregate failed: %v", err)
		}

		seen := acc.(*collectAcc).seen
		want := []float64{0, 1, 2, 3}
		if len(seen) != len(want) {
			t.Fatalf("Run %d: expected %d points, got %d", run, len(want), len(seen))
		}
		for i := range want {
			if seen[i] != want[i] {
				t.Fatalf("Run %d: merge order broken at %d: got %v, want %v", run, i, seen, want)
			}
		}
	}
}

func TestInMemoryAggregateDeterministicSampling(t *testing.T) {
	ds, err := NewInMemory(syntheticPoints(200), WithPartitions(4))
	if err != nil {
		t.Fatalf("NewInMemory failed: %v", err)
	}

	sample := func(seed int64) (int64, float64) {
		acc, n, err := ds.Aggregate(0.5, seed, func() Accumulator { return &countAcc{} })
		if err != nil {
			t.Fatalf("Aggregate failed: %v", err)
		}
		return n, acc.(*countAcc).labelSum
	}

	n1, sum1 := sample(7)
	n2, sum2 := sample(7)

	if n1 != n2 || sum1 != sum2 {
		t.Errorf("Same seed should resample identically: (%d, %v) vs (%d, %v)", n1, sum1, n2, sum2)
	}
	if n1 <= 0 || n1 >= 200 {
		t.Errorf("Fraction 0.5 over 200 points sampled %d points", n1)
	}
}

func TestInMemoryAggregateValidation(t *testing.T) {
	ds, err := NewInMemory(syntheticPoints(4))
	if err != nil {
		t.Fatalf("NewInMemory failed: %v", err)
	}

	_, _, err = ds.Aggregate(0, 42, func() Accumulator { return &countAcc{} })
	if err == nil {
		t.Fatal("Expected error for non-positive fraction")
	}
	var validationErr *oapErrors.ValidationError
	if !oapErrors.As(err, &validationErr) {
		t.Errorf("Expected ValidationError, got %v", err)
	}

	_, _, err = ds.Aggregate(1.0, 42, nil)
	if err == nil {
		t.Fatal("Expected error for nil accumulator factory")
	}
}

func TestInMemoryAggregatePanicRecovery(t *testing.T) {
	ds, err := NewInMemory(syntheticPoints(8), WithPartitions(2))
	if err != nil {
		t.Fatalf("NewInMemory failed: %v", err)
	}

	_, _, err = ds.Aggregate(1.0, 42, func() Accumulator { return &panicAcc{} })
	if err == nil {
		t.Fatal("Expected error from panicking accumulator")
	}

	var panicErr *oapErrors.PanicError
	if !oapErrors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "panic in partition") {
		t.Errorf("Expected partition context in error, got %q", err.Error())
	}
}
