package linear

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/steccami/OAP/dataset"
	"github.com/steccami/OAP/optimize"
	oapErrors "github.com/steccami/OAP/pkg/errors"
	"github.com/steccami/OAP/pkg/log"
)

// LogisticRegression はミニバッチ勾配降下法で学習する二値分類器
//
// 学習時には各サンプルの先頭にバイアス入力 1.0 を付加し、切片を
// 重みベクトルの第0要素として一緒に学習する。学習結果は切片と
// 係数に分離された Model として返される。
type LogisticRegression struct {
	gradient       optimize.Gradient
	updater        optimize.Updater
	initialWeights []float64
	logger         log.Logger
	driverOpts     []optimize.GDOption
}

// NewLogisticRegression は新しいロジスティック回帰の学習器を作成する
//
// 既定ではロジスティック損失と正則化なしの勾配ステップを使用し、
// 最適化のハイパーパラメータは optimize パッケージの既定値に従う。
func NewLogisticRegression(opts ...Option) *LogisticRegression {
	lr := &LogisticRegression{
		gradient: optimize.LogisticGradient{},
		updater:  optimize.SimpleUpdater{},
	}
	for _, opt := range opts {
		opt(lr)
	}
	if lr.logger == nil {
		lr.logger = log.GetLoggerWithName("LogisticRegression")
	}
	return lr
}

// Train はデータセット全体でモデルを学習させる
//
// 初期重みが指定されていない場合、切片を含む全ての重みを 1.0 から
// 開始する。指定された場合はその長さが特徴量数と一致している必要が
// あり、切片のみ 1.0 から開始する。
func (lr *LogisticRegression) Train(ds dataset.Dataset) (*Model, error) {
	if ds == nil {
		return nil, oapErrors.NewValidationError("dataset", "must not be nil", nil)
	}

	width, err := ds.NumFeatures()
	if err != nil {
		return nil, err
	}

	initial := make([]float64, width+1)
	if lr.initialWeights == nil {
		for i := range initial {
			initial[i] = 1.0
		}
	} else {
		if len(lr.initialWeights) != width {
			return nil, oapErrors.NewDimensionError("LogisticRegression.Train", width, len(lr.initialWeights), 1)
		}
		initial[0] = 1.0
		copy(initial[1:], lr.initialWeights)
	}

	// バイアス入力を先頭に付加し、切片を第0重みとして学習させる
	augmented := ds.Map(func(p dataset.Point) dataset.Point {
		features := make([]float64, len(p.Features)+1)
		features[0] = 1.0
		copy(features[1:], p.Features)
		return dataset.Point{Label: p.Label, Features: features}
	})

	gdOpts := append([]optimize.GDOption{optimize.WithLogger(lr.logger)}, lr.driverOpts...)
	gd, err := optimize.NewGradientDescent(lr.gradient, lr.updater, gdOpts...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	weights, trace, err := gd.Run(augmented, initial)
	if err != nil {
		return nil, err
	}

	m := &Model{
		Weights:   mat.NewVecDense(width, weights[1:]),
		Intercept: weights[0],
		LossTrace: trace,
		NFeatures: width,
	}
	m.SetFitted()

	lr.logger.Info("Training finished",
		log.ModelNameKey, "LogisticRegression",
		log.OperationKey, log.OperationTrain,
		log.SamplesKey, ds.Len(),
		log.FeaturesKey, width,
		log.NumIterationsKey, len(trace),
		log.LossKey, trace[len(trace)-1],
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return m, nil
}
