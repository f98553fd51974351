package linear

import (
	"math"
	"runtime"

	"github.com/kevwan/mapreduce/v2"
	"gonum.org/v1/gonum/mat"

	"github.com/steccami/OAP/core/model"
	oapErrors "github.com/steccami/OAP/pkg/errors"
)

// Model は学習済みの二値ロジスティック回帰分類器
type Model struct {
	model.BaseEstimator
	Weights   *mat.VecDense // 特徴量ごとの係数（切片は含まない）
	Intercept float64       // 切片
	LossTrace []float64     // 反復ごとの損失（古い順）
	NFeatures int           // 特徴量の数
}

// PredictProba は1つの特徴量ベクトルに対する陽性クラスの確率を返す
func (m *Model) PredictProba(features []float64) (float64, error) {
	if !m.IsFitted() {
		return 0, oapErrors.NewNotFittedError("Model", "PredictProba")
	}
	if len(features) != m.NFeatures {
		return 0, oapErrors.NewDimensionError("Model.PredictProba", m.NFeatures, len(features), 1)
	}
	return m.probability(features), nil
}

// Predict は1つの特徴量ベクトルを0か1に分類する
// 確率がちょうど0.5の場合は陽性クラス(1)に丸める
func (m *Model) Predict(features []float64) (float64, error) {
	p, err := m.PredictProba(features)
	if err != nil {
		return 0, err
	}
	return math.Round(p), nil
}

func (m *Model) probability(features []float64) float64 {
	margin := m.Intercept
	for j := 0; j < m.Weights.Len(); j++ {
		margin += m.Weights.AtVec(j) * features[j]
	}
	return 1.0 / (1.0 + oapErrors.StabilizeExp(-margin))
}

// PredictBatch は行列 X の各行を並列に分類し、r×1 の 0/1 ラベル行列を返す
//
// 行は連続したチャンクに分割され、ワーカーごとに独立して処理される。
// 各ワーカーは学習済みの重みと切片のみを参照する。
func (m *Model) PredictBatch(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, oapErrors.NewNotFittedError("Model", "PredictBatch")
	}

	r, c := X.Dims()
	if r == 0 {
		return nil, oapErrors.NewModelError("Model.PredictBatch", "empty data", oapErrors.ErrEmptyData)
	}
	if c != m.NFeatures {
		return nil, oapErrors.NewDimensionError("Model.PredictBatch", m.NFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	workers := runtime.NumCPU()
	chunk := (r + workers - 1) / workers

	type span struct {
		start, end int
	}

	// 各チャンクは互いに異なる行にのみ書き込むため、ロックは不要
	mapreduce.ForEach(func(source chan<- span) {
		for start := 0; start < r; start += chunk {
			end := start + chunk
			if end > r {
				end = r
			}
			source <- span{start: start, end: end}
		}
	}, func(s span) {
		row := make([]float64, c)
		for i := s.start; i < s.end; i++ {
			for j := 0; j < c; j++ {
				row[j] = X.At(i, j)
			}
			predictions.Set(i, 0, math.Round(m.probability(row)))
		}
	}, mapreduce.WithWorkers(workers))

	return predictions, nil
}

// GetWeights は学習された係数のコピーを返す
func (m *Model) GetWeights() []float64 {
	if m.Weights == nil {
		return nil
	}

	weights := make([]float64, m.Weights.Len())
	for i := 0; i < m.Weights.Len(); i++ {
		weights[i] = m.Weights.AtVec(i)
	}
	return weights
}

// GetIntercept は学習された切片を返す
func (m *Model) GetIntercept() float64 {
	if !m.IsFitted() {
		return 0
	}
	return m.Intercept
}
