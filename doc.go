// Package oap provides a parallel mini-batch SGD training engine for binary
// logistic regression, designed for backend services that need to fit and
// serve linear classifiers without leaving Go.
//
// OAP trains on partitioned in-memory datasets: every iteration samples a
// mini-batch from each partition, computes gradients in parallel workers,
// merges them deterministically and applies a pluggable weight update rule
// (plain SGD, L2 shrinkage or L1 soft-thresholding).
//
// # Features
//
// - Parallel training: per-partition gradient aggregation over a worker pool
// - Deterministic: fixed seeds reproduce runs bit-for-bit at any worker count
// - Pluggable losses: logistic and hinge gradients, three regularization rules
// - Robust error handling: typed errors with stacktraces for every failure mode
// - Structured logging: per-iteration loss and batch diagnostics
//
// # Quick Start
//
// Training a classifier on labeled points:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/steccami/OAP/dataset"
//	    "github.com/steccami/OAP/linear"
//	)
//
//	func main() {
//	    ds, err := dataset.NewInMemory([]dataset.Point{
//	        {Label: 1, Features: []float64{2.0}},
//	        {Label: 1, Features: []float64{3.0}},
//	        {Label: 0, Features: []float64{-2.0}},
//	        {Label: 0, Features: []float64{-3.0}},
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    lr := linear.NewLogisticRegression(
//	        linear.WithStepSize(1.0),
//	        linear.WithNumIterations(50),
//	    )
//	    model, err := lr.Train(ds)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    label, err := model.Predict([]float64{2.5})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("Predicted label:", label)
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - linear: logistic regression trainer and the fitted Model
//   - optimize: gradient descent driver, gradient and updater implementations
//   - dataset: partitioned in-memory datasets and text/CSV loaders
//   - metrics: binary classification metrics (AUC, log loss, precision/recall) and loss-curve plotting
//   - pkg/errors: typed errors, warnings and numerical stability helpers
//   - pkg/log: structured logging built on zerolog
//   - core/model: fitted-state tracking shared by estimators
//   - cmd/lrtrain: command-line trainer over directories of labeled points
//
// # Determinism
//
// Runs are reproducible: mini-batch sampling derives one RNG per partition
// and iteration from the configured seed, and partial gradients are merged
// in partition order regardless of worker scheduling. The same seed, data
// and hyperparameters produce identical weights and loss traces.
package oap
