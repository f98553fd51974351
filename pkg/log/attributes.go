// Package log defines standard attribute keys for training and evaluation
// operations.
//
// Using these keys consistently across OAP keeps log streams filterable: a
// run can be reconstructed by selecting on "sgd.iteration", a model by
// "model.name", a data problem by "data.features". The keys follow a
// hierarchical naming convention (e.g. "data.samples", "sgd.step_size").

package log

// Model and operation context.
// These attributes identify the model and the operation being performed.
const (
	// ModelNameKey identifies the model type.
	// Examples: "LogisticRegression", "HingeClassifier"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "train", "predict", "evaluate", "load"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "optimize.sgd", "dataset", "linear"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the run.
	// Examples: "training", "inference", "evaluation"
	PhaseKey = "ml.phase"
)

// Data shape and characteristics.
const (
	// SamplesKey is the number of labeled points in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey is the feature dimensionality, excluding any intercept
	// column added during training.
	FeaturesKey = "data.features"

	// PartitionsKey is the number of partitions the dataset is split into
	// for parallel aggregation.
	PartitionsKey = "data.partitions"

	// BatchSizeKey is the number of points sampled into a mini-batch.
	BatchSizeKey = "data.batch_size"

	// SourceKey names the file or directory the data was loaded from.
	SourceKey = "data.source"
)

// Optimization progress.
// These attributes track the state of an iterative gradient descent run.
const (
	// IterationKey is the current 1-based iteration number.
	IterationKey = "sgd.iteration"

	// NumIterationsKey is the configured total number of iterations.
	NumIterationsKey = "sgd.num_iterations"

	// StepSizeKey is the configured base step size.
	StepSizeKey = "sgd.step_size"

	// EffectiveStepKey is the decayed step size used at one iteration.
	EffectiveStepKey = "sgd.effective_step"

	// MiniBatchFractionKey is the configured sampling fraction per iteration.
	MiniBatchFractionKey = "sgd.mini_batch_fraction"

	// RegParamKey is the regularization strength.
	RegParamKey = "sgd.reg_param"

	// SeedKey is the base random seed for mini-batch sampling.
	SeedKey = "sgd.seed"

	// LossKey is a regularized average loss value.
	LossKey = "metrics.loss"

	// AccuracyKey is classification accuracy in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// AUCKey is the area under the ROC curve.
	AUCKey = "metrics.auc"

	// DurationMsKey records execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Prediction context.
const (
	// PredsKey is the number of predictions produced.
	PredsKey = "preds.count"

	// WorkersKey is the number of concurrent workers used for a batch
	// operation.
	WorkersKey = "preds.workers"
)

// Error and warning context.
const (
	// ErrorTypeKey categorizes the error or warning.
	// Examples: "*errors.DimensionError", "*errors.UndefinedMetricWarning"
	ErrorTypeKey = "error.type"

	// StacktraceKey carries stacktrace text extracted from wrapped errors.
	// Populated automatically by the zerolog backend.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute values for common operations. Using the constants keeps
// the vocabulary closed.
const (
	OperationTrain    = "train"
	OperationPredict  = "predict"
	OperationEvaluate = "evaluate"
	OperationLoad     = "load"

	PhaseTraining   = "training"
	PhaseInference  = "inference"
	PhaseEvaluation = "evaluation"
)
