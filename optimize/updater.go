package optimize

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Updater applies one accumulated gradient step to the weights and reports
// the regularization penalty the step incurred. iteration is 1-based; every
// updater decays the step as stepSize/sqrt(iteration).
type Updater interface {
	Update(weights, gradient []float64, stepSize float64, iteration int, regParam float64) ([]float64, float64)
}

// SimpleUpdater performs the plain gradient step with no regularization.
type SimpleUpdater struct{}

// Update returns weights - (stepSize/sqrt(iteration)) * gradient and a zero
// penalty. regParam is ignored.
func (SimpleUpdater) Update(weights, gradient []float64, stepSize float64, iteration int, regParam float64) ([]float64, float64) {
	eff := stepSize / math.Sqrt(float64(iteration))

	updated := make([]float64, len(weights))
	floats.AddScaledTo(updated, weights, -eff, gradient)
	return updated, 0
}

// SquaredL2Updater performs the gradient step with squared-L2 (ridge)
// regularization folded into the update.
type SquaredL2Updater struct{}

// Update shrinks the weights by (1 - eff*regParam) before taking the plain
// step, which is equivalent to adding regParam*weights to the gradient. The
// penalty is 0.5 * regParam * ||new||₂².
func (SquaredL2Updater) Update(weights, gradient []float64, stepSize float64, iteration int, regParam float64) ([]float64, float64) {
	eff := stepSize / math.Sqrt(float64(iteration))

	updated := make([]float64, len(weights))
	floats.ScaleTo(updated, 1-eff*regParam, weights)
	floats.AddScaled(updated, -eff, gradient)

	norm := floats.Norm(updated, 2)
	return updated, 0.5 * regParam * norm * norm
}

// L1Updater performs the gradient step followed by soft-thresholding, the
// proximal operator of the L1 penalty. Components whose magnitude falls
// below eff*regParam are zeroed.
type L1Updater struct{}

// Update takes the plain step, then applies
// new[k] = sign(w[k]) * max(0, |w[k]| - eff*regParam). The penalty is
// regParam * ||new||₁.
func (L1Updater) Update(weights, gradient []float64, stepSize float64, iteration int, regParam float64) ([]float64, float64) {
	eff := stepSize / math.Sqrt(float64(iteration))

	updated := make([]float64, len(weights))
	floats.AddScaledTo(updated, weights, -eff, gradient)

	threshold := eff * regParam
	var l1 float64
	for i, w := range updated {
		updated[i] = math.Copysign(math.Max(0, math.Abs(w)-threshold), w)
		l1 += math.Abs(updated[i])
	}
	return updated, regParam * l1
}
