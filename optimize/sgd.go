// Package optimize implements mini-batch stochastic gradient descent over a
// partitioned dataset.
//
// The driver, GradientDescent, owns the iterative loop: sample a mini-batch,
// evaluate the configured Gradient on every sampled point, reduce the
// partial sums across partitions, and hand the averaged gradient to the
// configured Updater. Gradients and updaters are small pluggable interfaces
// so model families and regularization schemes combine freely.
package optimize

import (
	"gonum.org/v1/gonum/floats"

	"github.com/steccami/OAP/dataset"
	oapErrors "github.com/steccami/OAP/pkg/errors"
	"github.com/steccami/OAP/pkg/log"
)

// Default hyperparameters, applied when the corresponding option is not
// given.
const (
	DefaultStepSize          = 1.0
	DefaultNumIterations     = 100
	DefaultRegParam          = 0.0
	DefaultMiniBatchFraction = 1.0
	DefaultSeed              = 42
)

// GradientDescent runs mini-batch SGD with a fixed gradient, updater and
// hyperparameters. Construct it with NewGradientDescent; a constructed
// driver is immutable and safe to reuse across runs.
type GradientDescent struct {
	gradient Gradient
	updater  Updater

	stepSize          float64
	numIterations     int
	regParam          float64
	miniBatchFraction float64
	seed              int64
	maxGradientNorm   float64
	logger            log.Logger
}

// GDOption configures a GradientDescent.
type GDOption func(*GradientDescent)

// WithStepSize sets the base step size (default 1.0). The step applied at
// iteration i is stepSize/sqrt(i).
func WithStepSize(s float64) GDOption {
	return func(gd *GradientDescent) {
		gd.stepSize = s
	}
}

// WithNumIterations sets the number of iterations (default 100). The driver
// always runs exactly this many.
func WithNumIterations(n int) GDOption {
	return func(gd *GradientDescent) {
		gd.numIterations = n
	}
}

// WithRegParam sets the regularization strength (default 0).
func WithRegParam(r float64) GDOption {
	return func(gd *GradientDescent) {
		gd.regParam = r
	}
}

// WithMiniBatchFraction sets the Bernoulli sampling fraction per iteration
// (default 1.0, the full batch).
func WithMiniBatchFraction(f float64) GDOption {
	return func(gd *GradientDescent) {
		gd.miniBatchFraction = f
	}
}

// WithSeed sets the base sampling seed (default 42). Iteration i samples
// with seed+i, so a fixed seed makes runs reproducible.
func WithSeed(seed int64) GDOption {
	return func(gd *GradientDescent) {
		gd.seed = seed
	}
}

// WithMaxGradientNorm enables L2 gradient clipping at the given norm.
// Zero (the default) disables clipping.
func WithMaxGradientNorm(norm float64) GDOption {
	return func(gd *GradientDescent) {
		gd.maxGradientNorm = norm
	}
}

// WithLogger sets the logger for training progress. The default discards
// everything.
func WithLogger(logger log.Logger) GDOption {
	return func(gd *GradientDescent) {
		gd.logger = logger
	}
}

// NewGradientDescent validates all hyperparameters eagerly; a driver that
// constructs successfully cannot fail on configuration mid-run.
func NewGradientDescent(gradient Gradient, updater Updater, opts ...GDOption) (*GradientDescent, error) {
	gd := &GradientDescent{
		gradient:          gradient,
		updater:           updater,
		stepSize:          DefaultStepSize,
		numIterations:     DefaultNumIterations,
		regParam:          DefaultRegParam,
		miniBatchFraction: DefaultMiniBatchFraction,
		seed:              DefaultSeed,
		logger:            log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(gd)
	}

	if gd.gradient == nil {
		return nil, oapErrors.NewValidationError("gradient", "must not be nil", nil)
	}
	if gd.updater == nil {
		return nil, oapErrors.NewValidationError("updater", "must not be nil", nil)
	}
	if gd.stepSize <= 0 {
		return nil, oapErrors.NewValidationError("step_size", "must be greater than 0", gd.stepSize)
	}
	if gd.numIterations <= 0 {
		return nil, oapErrors.NewValidationError("num_iterations", "must be greater than 0", gd.numIterations)
	}
	if gd.regParam < 0 {
		return nil, oapErrors.NewValidationError("reg_param", "must not be negative", gd.regParam)
	}
	if gd.miniBatchFraction <= 0 || gd.miniBatchFraction > 1 {
		return nil, oapErrors.NewValidationError("mini_batch_fraction", "must be in (0, 1]", gd.miniBatchFraction)
	}
	if gd.maxGradientNorm < 0 {
		return nil, oapErrors.NewValidationError("max_gradient_norm", "must not be negative", gd.maxGradientNorm)
	}
	if gd.logger == nil {
		gd.logger = log.NewNopLogger()
	}

	return gd, nil
}

// gradAccumulator folds sampled points into a gradient sum, a loss sum and
// a count. The weight slice is broadcast read-only; every partition owns
// its own accumulator, so no locking is needed.
type gradAccumulator struct {
	gradient Gradient
	weights  []float64

	gradSum []float64
	lossSum float64
	count   int64
}

func newGradAccumulator(gradient Gradient, weights []float64) *gradAccumulator {
	return &gradAccumulator{
		gradient: gradient,
		weights:  weights,
		gradSum:  make([]float64, len(weights)),
	}
}

func (a *gradAccumulator) Add(p dataset.Point) {
	grad, loss := a.gradient.Compute(a.weights, p.Label, p.Features)
	floats.Add(a.gradSum, grad)
	a.lossSum += loss
	a.count++
}

func (a *gradAccumulator) Merge(other dataset.Accumulator) {
	o := other.(*gradAccumulator)
	floats.Add(a.gradSum, o.gradSum)
	a.lossSum += o.lossSum
	a.count += o.count
}

// Run executes exactly numIterations iterations of mini-batch SGD starting
// from initialWeights, whose length must equal the dataset's feature width.
// It returns the final weights and the loss trace, one entry per iteration.
//
// An iteration whose sample comes back empty keeps the previous weights and
// records a zero loss; it is not an error.
func (gd *GradientDescent) Run(ds dataset.Dataset, initialWeights []float64) ([]float64, []float64, error) {
	if ds == nil {
		return nil, nil, oapErrors.NewValidationError("dataset", "must not be nil", nil)
	}

	width, err := ds.NumFeatures()
	if err != nil {
		return nil, nil, err
	}
	if len(initialWeights) != width {
		return nil, nil, oapErrors.NewDimensionError("GradientDescent.Run", width, len(initialWeights), 1)
	}

	weights := make([]float64, len(initialWeights))
	copy(weights, initialWeights)
	lossTrace := make([]float64, 0, gd.numIterations)

	for i := 1; i <= gd.numIterations; i++ {
		currentWeights := weights

		acc, sampled, err := ds.Aggregate(gd.miniBatchFraction, gd.seed+int64(i), func() dataset.Accumulator {
			return newGradAccumulator(gd.gradient, currentWeights)
		})
		if err != nil {
			return nil, nil, oapErrors.Wrapf(err, "iteration %d", i)
		}

		if sampled == 0 {
			gd.logger.Warn("Empty mini-batch, keeping previous weights",
				log.IterationKey, i,
				log.MiniBatchFractionKey, gd.miniBatchFraction,
			)
			lossTrace = append(lossTrace, 0)
			continue
		}

		fold := acc.(*gradAccumulator)

		avgGrad := fold.gradSum
		floats.Scale(1/float64(sampled), avgGrad)
		avgLoss := fold.lossSum / float64(sampled)

		if gd.maxGradientNorm > 0 {
			avgGrad = oapErrors.ClipGradient(avgGrad, gd.maxGradientNorm)
		}
		if err := oapErrors.CheckNumericalStability("gradient_average", avgGrad, i); err != nil {
			return nil, nil, err
		}

		newWeights, regPenalty := gd.updater.Update(weights, avgGrad, gd.stepSize, i, gd.regParam)

		loss := avgLoss + regPenalty
		if err := oapErrors.CheckScalar("loss", loss, i); err != nil {
			return nil, nil, err
		}
		if err := oapErrors.CheckNumericalStability("weight_update", newWeights, i); err != nil {
			return nil, nil, err
		}

		lossTrace = append(lossTrace, loss)
		weights = newWeights

		gd.logger.Debug("Iteration finished",
			log.IterationKey, i,
			log.LossKey, loss,
			log.BatchSizeKey, sampled,
		)
	}

	tail := lossTrace
	if len(tail) > 10 {
		tail = tail[len(tail)-10:]
	}
	gd.logger.Debug("GradientDescent finished",
		log.NumIterationsKey, gd.numIterations,
		"last_losses", tail,
	)

	return weights, lossTrace, nil
}
