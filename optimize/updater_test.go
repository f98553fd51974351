package optimize

import (
	"math"
	"testing"
)

func TestSimpleUpdater(t *testing.T) {
	u := SimpleUpdater{}

	// stepSize 2 at iteration 4 gives an effective step of exactly 1.
	weights := []float64{0, 0}
	gradient := []float64{1.0, 2.0}
	updated, penalty := u.Update(weights, gradient, 2.0, 4, 0.5)

	if updated[0] != -1.0 || updated[1] != -2.0 {
		t.Errorf("Expected updated weights [-1, -2], got %v", updated)
	}
	if penalty != 0 {
		t.Errorf("Expected zero regularization penalty, got %v", penalty)
	}

	// Input slices are left untouched.
	if weights[0] != 0 || weights[1] != 0 {
		t.Errorf("Input weights mutated: %v", weights)
	}
	if gradient[0] != 1.0 || gradient[1] != 2.0 {
		t.Errorf("Input gradient mutated: %v", gradient)
	}
}

func TestSimpleUpdaterIgnoresRegParam(t *testing.T) {
	u := SimpleUpdater{}

	a, _ := u.Update([]float64{1, 1}, []float64{0.5, 0.5}, 1.0, 1, 0.0)
	b, _ := u.Update([]float64{1, 1}, []float64{0.5, 0.5}, 1.0, 1, 10.0)

	for k := range a {
		if a[k] != b[k] {
			t.Errorf("Component %d differs with regParam: %v vs %v", k, a[k], b[k])
		}
	}
}

func TestSquaredL2Updater(t *testing.T) {
	u := SquaredL2Updater{}

	// Zero gradient isolates the shrinkage: weights scale by (1 - eff*reg).
	weights := []float64{1, 1}
	updated, penalty := u.Update(weights, []float64{0, 0}, 1.0, 1, 0.1)

	if !almostEqual(updated[0], 0.9, 1e-12) || !almostEqual(updated[1], 0.9, 1e-12) {
		t.Errorf("Expected updated weights [0.9, 0.9], got %v", updated)
	}

	// Penalty is 0.5 * reg * ||w_new||^2 = 0.5 * 0.1 * (0.81 + 0.81).
	if !almostEqual(penalty, 0.081, 1e-12) {
		t.Errorf("Expected penalty 0.081, got %v", penalty)
	}

	if weights[0] != 1 || weights[1] != 1 {
		t.Errorf("Input weights mutated: %v", weights)
	}
}

func TestSquaredL2UpdaterWithGradient(t *testing.T) {
	u := SquaredL2Updater{}

	weights := []float64{2, -1}
	gradient := []float64{0.5, 0.25}
	stepSize, regParam := 0.4, 0.5
	updated, penalty := u.Update(weights, gradient, stepSize, 1, regParam)

	eff := stepSize / math.Sqrt(1)
	var wantNormSq float64
	for k := range weights {
		want := weights[k]*(1-eff*regParam) - eff*gradient[k]
		if !almostEqual(updated[k], want, 1e-12) {
			t.Errorf("Component %d: expected %v, got %v", k, want, updated[k])
		}
		wantNormSq += want * want
	}
	if !almostEqual(penalty, 0.5*regParam*wantNormSq, 1e-12) {
		t.Errorf("Expected penalty %v, got %v", 0.5*regParam*wantNormSq, penalty)
	}
}

func TestL1Updater(t *testing.T) {
	u := L1Updater{}

	// Zero gradient with eff*reg = 0.1 soft-thresholds each component
	// toward zero and zeroes the small middle one.
	weights := []float64{0.5, -0.05, 0.2}
	updated, penalty := u.Update(weights, []float64{0, 0, 0}, 1.0, 1, 0.1)

	want := []float64{0.4, 0, 0.1}
	for k := range want {
		if !almostEqual(updated[k], want[k], 1e-12) {
			t.Errorf("Component %d: expected %v, got %v", k, want[k], updated[k])
		}
	}

	// Penalty is reg * ||w_new||_1 = 0.1 * 0.5.
	if !almostEqual(penalty, 0.05, 1e-12) {
		t.Errorf("Expected penalty 0.05, got %v", penalty)
	}
}

func TestL1UpdaterKeepsSign(t *testing.T) {
	u := L1Updater{}

	// Components shrink toward zero but never cross it.
	weights := []float64{0.3, -0.3, 0.01, -0.01}
	updated, _ := u.Update(weights, []float64{0, 0, 0, 0}, 1.0, 1, 0.05)

	for k, w := range weights {
		if w > 0 && updated[k] < 0 || w < 0 && updated[k] > 0 {
			t.Errorf("Component %d crossed zero: %v -> %v", k, w, updated[k])
		}
	}
	if updated[2] != 0 || updated[3] != 0 {
		t.Errorf("Expected small components to clip to zero, got %v", updated)
	}
}

func TestUpdaterStepDecay(t *testing.T) {
	// All updaters divide the step size by sqrt(iteration).
	gradient := []float64{1.0}
	weights := []float64{0}

	for _, u := range []Updater{SimpleUpdater{}, SquaredL2Updater{}, L1Updater{}} {
		at1, _ := u.Update(weights, gradient, 1.0, 1, 0)
		at4, _ := u.Update(weights, gradient, 1.0, 4, 0)

		if !almostEqual(at1[0], -1.0, 1e-12) {
			t.Errorf("%T at iteration 1: expected -1, got %v", u, at1[0])
		}
		if !almostEqual(at4[0], -0.5, 1e-12) {
			t.Errorf("%T at iteration 4: expected -0.5, got %v", u, at4[0])
		}
	}
}
