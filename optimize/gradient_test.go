package optimize

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestLogisticGradientZeroWeights(t *testing.T) {
	g := LogisticGradient{}

	// Zero weights give margin 0 and p = 0.5 for any input.
	grad, loss := g.Compute([]float64{0, 0}, 1, []float64{2.0, 3.0})

	if !almostEqual(grad[0], -1.0, 1e-12) || !almostEqual(grad[1], -1.5, 1e-12) {
		t.Errorf("Expected gradient [-1, -1.5], got %v", grad)
	}

	// Loss is -log(0.5).
	if !almostEqual(loss, -math.Log(0.5), 1e-12) {
		t.Errorf("Expected loss %v, got %v", -math.Log(0.5), loss)
	}
}

func TestLogisticGradientConfidentWrong(t *testing.T) {
	g := LogisticGradient{}

	// Label 0 with a strongly positive margin: the gradient pushes along
	// +features and the loss is large.
	weights := []float64{1, 1}
	features := []float64{2.0, 3.0}
	grad, loss := g.Compute(weights, 0, features)

	p := 1.0 / (1.0 + math.Exp(-5.0))
	wantLoss := -math.Log(1 - p)

	if !almostEqual(loss, wantLoss, 1e-9) {
		t.Errorf("Expected loss %v, got %v", wantLoss, loss)
	}
	for k := range features {
		if !almostEqual(grad[k], features[k]*p, 1e-9) {
			t.Errorf("Gradient component %d: expected %v, got %v", k, features[k]*p, grad[k])
		}
	}
}

func TestLogisticGradientSaturated(t *testing.T) {
	g := LogisticGradient{}

	// A huge margin saturates p to exactly 1; the clamped log keeps the
	// loss finite.
	grad, loss := g.Compute([]float64{1000}, 0, []float64{1.0})

	if math.IsInf(loss, 0) || math.IsNaN(loss) {
		t.Fatalf("Expected finite loss at saturation, got %v", loss)
	}
	if loss <= 0 {
		t.Errorf("Expected large positive loss for a confidently wrong prediction, got %v", loss)
	}
	if !almostEqual(grad[0], 1.0, 1e-12) {
		t.Errorf("Expected gradient 1.0 at saturation, got %v", grad[0])
	}

	// Mirror case: large negative margin with label 1.
	grad, loss = g.Compute([]float64{-1000}, 1, []float64{1.0})
	if math.IsInf(loss, 0) || math.IsNaN(loss) {
		t.Fatalf("Expected finite loss at saturation, got %v", loss)
	}
	if !almostEqual(grad[0], -1.0, 1e-12) {
		t.Errorf("Expected gradient -1.0 at saturation, got %v", grad[0])
	}
}

func TestHingeGradient(t *testing.T) {
	g := HingeGradient{}

	tests := []struct {
		name     string
		weights  []float64
		label    float64
		features []float64
		wantGrad []float64
		wantLoss float64
	}{
		{
			name:     "label 1 inside margin",
			weights:  []float64{0, 0},
			label:    1,
			features: []float64{2.0, 3.0},
			wantGrad: []float64{-2.0, -3.0},
			wantLoss: 1.0,
		},
		{
			name:     "label 1 beyond margin",
			weights:  []float64{1, 0},
			label:    1,
			features: []float64{2.0, 3.0}, // margin 2, labelScaled*margin = 2 >= 1
			wantGrad: []float64{0, 0},
			wantLoss: 0,
		},
		{
			name:     "label 1 exactly on margin",
			weights:  []float64{0.5, 0},
			label:    1,
			features: []float64{2.0, 0}, // labelScaled*margin == 1, outside the strict inequality
			wantGrad: []float64{0, 0},
			wantLoss: 0,
		},
		{
			name:     "label 0 inside margin",
			weights:  []float64{0.25, 0},
			label:    0,
			features: []float64{2.0, 1.0}, // margin 0.5, labelScaled -1
			wantGrad: []float64{2.0, 1.0},
			wantLoss: 1.5,
		},
		{
			name:     "label 0 beyond margin",
			weights:  []float64{-1, 0},
			label:    0,
			features: []float64{2.0, 1.0}, // margin -2, labelScaled*margin = 2 >= 1
			wantGrad: []float64{0, 0},
			wantLoss: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grad, loss := g.Compute(tt.weights, tt.label, tt.features)

			if !almostEqual(loss, tt.wantLoss, 1e-12) {
				t.Errorf("Expected loss %v, got %v", tt.wantLoss, loss)
			}
			for k := range tt.wantGrad {
				if !almostEqual(grad[k], tt.wantGrad[k], 1e-12) {
					t.Errorf("Gradient component %d: expected %v, got %v", k, tt.wantGrad[k], grad[k])
				}
			}
		})
	}
}

func TestSigmoidRange(t *testing.T) {
	for _, x := range []float64{-1e6, -700, -10, 0, 10, 700, 1e6} {
		p := sigmoid(x)
		if math.IsNaN(p) || p < 0 || p > 1 {
			t.Errorf("sigmoid(%v) = %v, outside [0, 1]", x, p)
		}
	}

	if got := sigmoid(0); !almostEqual(got, 0.5, 1e-15) {
		t.Errorf("sigmoid(0) = %v, want 0.5", got)
	}
}
