// Command lrtrain trains a binary logistic regression model on labeled
// points read from a directory of text files.
//
// Usage:
//
//	lrtrain <target> <input-dir> <step-size> <reg-param> <iterations>
//
// The target controls parallelism: "local" uses a single worker,
// "local[4]" uses four and "local[*]" one per CPU. Input files contain one
// point per line in the form "label,f1 f2 f3".
package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/steccami/OAP/dataset"
	"github.com/steccami/OAP/linear"
	oapErrors "github.com/steccami/OAP/pkg/errors"
	"github.com/steccami/OAP/pkg/log"
)

var rootCmd = &cobra.Command{
	Use:               "lrtrain <target> <input-dir> <step-size> <reg-param> <iterations>",
	Short:             "Train a binary logistic regression model with mini-batch SGD",
	Args:              cobra.ExactArgs(5),
	DisableAutoGenTag: true,
	RunE:              run,
}

func run(cmd *cobra.Command, args []string) error {
	workers, err := parseTarget(args[0])
	if err != nil {
		return err
	}

	inputDir := args[1]

	stepSize, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return oapErrors.NewValidationError("step_size", "must be a number", args[2])
	}
	regParam, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return oapErrors.NewValidationError("reg_param", "must be a number", args[3])
	}
	iterations, err := strconv.Atoi(args[4])
	if err != nil {
		return oapErrors.NewValidationError("num_iterations", "must be an integer", args[4])
	}

	log.SetLoggerProvider(log.NewConsoleProvider(os.Stderr, log.LevelInfo))
	log.CaptureWarnings()
	logger := log.GetLoggerWithName("lrtrain")

	ds, err := dataset.LoadDir(inputDir,
		dataset.WithPartitions(workers),
		dataset.WithWorkers(workers),
	)
	if err != nil {
		return err
	}

	width, err := ds.NumFeatures()
	if err != nil {
		return err
	}
	logger.Info("Loaded training data",
		log.SourceKey, inputDir,
		log.SamplesKey, ds.Len(),
		log.FeaturesKey, width,
		log.PartitionsKey, workers,
	)

	lr := linear.NewLogisticRegression(
		linear.WithStepSize(stepSize),
		linear.WithRegParam(regParam),
		linear.WithNumIterations(iterations),
		linear.WithLogger(logger),
	)

	model, err := lr.Train(ds)
	if err != nil {
		return err
	}

	losses := model.LossTrace
	if len(losses) > 10 {
		losses = losses[len(losses)-10:]
	}
	logger.Info("Final model",
		log.ModelNameKey, "LogisticRegression",
		"weights", model.GetWeights(),
		"intercept", model.Intercept,
		"last_losses", losses,
	)

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
