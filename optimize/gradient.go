package optimize

import (
	"gonum.org/v1/gonum/floats"

	oapErrors "github.com/steccami/OAP/pkg/errors"
)

// Gradient computes the per-example loss and its gradient for one model
// family. Implementations must be stateless; the same value is shared by
// every partition of a training run.
type Gradient interface {
	// Compute returns the gradient of the loss at weights for a single
	// labeled example, together with the loss value. The returned slice is
	// freshly allocated on every call.
	Compute(weights []float64, label float64, features []float64) ([]float64, float64)
}

// LogisticGradient is the binary cross-entropy gradient for logistic
// regression. Labels are 0 or 1.
type LogisticGradient struct{}

// Compute evaluates margin = dot(weights, features), p = sigmoid(margin),
// loss = -(label*log(p) + (1-label)*log(1-p)) and
// gradient[k] = features[k] * (p - label). The log arguments are clamped
// away from zero so saturated probabilities yield a large finite loss
// instead of +Inf.
func (LogisticGradient) Compute(weights []float64, label float64, features []float64) ([]float64, float64) {
	margin := floats.Dot(weights, features)
	p := sigmoid(margin)

	grad := make([]float64, len(features))
	floats.ScaleTo(grad, p-label, features)

	loss := -(label*oapErrors.StabilizeLog(p) + (1-label)*oapErrors.StabilizeLog(1-p))
	return grad, loss
}

// HingeGradient is the hinge loss gradient for a soft-margin linear
// classifier. Labels are 0 or 1 at the interface and rescaled to ±1
// internally.
type HingeGradient struct{}

// Compute returns a zero gradient and zero loss for examples beyond the
// margin. Within the margin (labelScaled*margin < 1) the gradient is
// -labelScaled*features and the loss is 1 - labelScaled*margin.
func (HingeGradient) Compute(weights []float64, label float64, features []float64) ([]float64, float64) {
	margin := floats.Dot(weights, features)
	labelScaled := 2*label - 1

	grad := make([]float64, len(features))
	if labelScaled*margin < 1 {
		floats.ScaleTo(grad, -labelScaled, features)
		return grad, 1 - labelScaled*margin
	}
	return grad, 0
}

// sigmoid computes 1/(1+exp(-x)) with the exponential guarded against
// overflow for large negative x.
func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + oapErrors.StabilizeExp(-x))
}
