package linear

import (
	"github.com/steccami/OAP/optimize"
	"github.com/steccami/OAP/pkg/log"
)

// Option is a function that configures LogisticRegression
type Option func(*LogisticRegression)

// WithGradient replaces the logistic loss, e.g. with optimize.HingeGradient
func WithGradient(g optimize.Gradient) Option {
	return func(lr *LogisticRegression) {
		lr.gradient = g
	}
}

// WithUpdater replaces the plain gradient step, e.g. with optimize.L1Updater
func WithUpdater(u optimize.Updater) Option {
	return func(lr *LogisticRegression) {
		lr.updater = u
	}
}

// WithInitialWeights sets the starting coefficients, one per input feature.
// The intercept always starts at 1.
func WithInitialWeights(weights []float64) Option {
	return func(lr *LogisticRegression) {
		lr.initialWeights = make([]float64, len(weights))
		copy(lr.initialWeights, weights)
	}
}

// WithLogger sets the logger used during training
func WithLogger(logger log.Logger) Option {
	return func(lr *LogisticRegression) {
		lr.logger = logger
	}
}

// WithStepSize sets the initial learning rate of the optimizer
func WithStepSize(s float64) Option {
	return func(lr *LogisticRegression) {
		lr.driverOpts = append(lr.driverOpts, optimize.WithStepSize(s))
	}
}

// WithNumIterations sets the number of optimization iterations
func WithNumIterations(n int) Option {
	return func(lr *LogisticRegression) {
		lr.driverOpts = append(lr.driverOpts, optimize.WithNumIterations(n))
	}
}

// WithRegParam sets the regularization strength
func WithRegParam(r float64) Option {
	return func(lr *LogisticRegression) {
		lr.driverOpts = append(lr.driverOpts, optimize.WithRegParam(r))
	}
}

// WithMiniBatchFraction sets the fraction of data sampled each iteration
func WithMiniBatchFraction(f float64) Option {
	return func(lr *LogisticRegression) {
		lr.driverOpts = append(lr.driverOpts, optimize.WithMiniBatchFraction(f))
	}
}

// WithSeed sets the base seed for mini-batch sampling
func WithSeed(seed int64) Option {
	return func(lr *LogisticRegression) {
		lr.driverOpts = append(lr.driverOpts, optimize.WithSeed(seed))
	}
}

// WithMaxGradientNorm caps the L2 norm of the averaged gradient
func WithMaxGradientNorm(norm float64) Option {
	return func(lr *LogisticRegression) {
		lr.driverOpts = append(lr.driverOpts, optimize.WithMaxGradientNorm(norm))
	}
}
