package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/steccami/OAP/pkg/errors"
)

// validateVectors は評価指標の入力ベクトルを検証し、サンプル数を返す
func validateVectors(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 || yPred.Len() == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}

	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// checkBinaryLabels はラベルが0または1であることを検証する
func checkBinaryLabels(op string, y *mat.VecDense) error {
	for i := 0; i < y.Len(); i++ {
		if v := y.AtVec(i); v != 0 && v != 1 {
			return errors.NewValueError(op, "labels must be 0 or 1")
		}
	}
	return nil
}

// AUC はROC曲線下面積をランクに基づいて計算する
//
// 同点の予測値には平均順位を割り当てる。片方のクラスしか存在しない
// 場合はAUCが定義できないため、警告を発して0.5を返す。
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validateVectors("AUC", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if err := checkBinaryLabels("AUC", yTrue); err != nil {
		return 0, err
	}

	nPos := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			nPos++
		}
	}
	nNeg := n - nPos

	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("AUC", "only one class present in yTrue", 0.5))
		return 0.5, nil
	}

	// 予測値の昇順に並べる
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return yPred.AtVec(idx[a]) < yPred.AtVec(idx[b])
	})

	// 同点グループには平均順位（1始まり）を割り当てる
	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && yPred.AtVec(idx[j]) == yPred.AtVec(idx[i]) {
			j++
		}
		avgRank := float64(i+j+1) / 2.0
		for k := i; k < j; k++ {
			ranks[idx[k]] = avgRank
		}
		i = j
	}

	var sumRanksPos float64
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			sumRanksPos += ranks[i]
		}
	}

	// Mann-WhitneyのU統計量から導出
	auc := (sumRanksPos - float64(nPos)*float64(nPos+1)/2.0) / (float64(nPos) * float64(nNeg))
	return auc, nil
}

// AUCMatrix は行列形式の入力に対してAUCを計算する（最初の列を使用）
func AUCMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("AUCMatrix", "nil matrix")
	}

	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()
	if rTrue == 0 || cTrue == 0 || rPred == 0 || cPred == 0 {
		return 0, errors.NewValueError("AUCMatrix", "empty matrix")
	}
	if rPred != rTrue {
		return 0, errors.NewDimensionError("AUCMatrix", rTrue, rPred, 0)
	}

	yTrueVec := mat.NewVecDense(rTrue, nil)
	yPredVec := mat.NewVecDense(rTrue, nil)
	for i := 0; i < rTrue; i++ {
		yTrueVec.SetVec(i, yTrue.At(i, 0))
		yPredVec.SetVec(i, yPred.At(i, 0))
	}

	return AUC(yTrueVec, yPredVec)
}

// BinaryLogLoss は二値分類の交差エントロピー損失を計算する
//
// log(0)を避けるため、予測確率は [eps, 1-eps] にクリップされる。
func BinaryLogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validateVectors("BinaryLogLoss", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if err := checkBinaryLabels("BinaryLogLoss", yTrue); err != nil {
		return 0, err
	}

	const eps = 1e-15

	var sum float64
	for i := 0; i < n; i++ {
		p := errors.ClipValue(yPred.AtVec(i), eps, 1-eps)
		if yTrue.AtVec(i) == 1 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}

	return sum / float64(n), nil
}

// Accuracy は正解率を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validateVectors("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}

// ClassificationError は誤分類率（1 - Accuracy）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// ConfusionCounts は二値分類の混同行列の4つの要素
type ConfusionCounts struct {
	TruePositives  int
	TrueNegatives  int
	FalsePositives int
	FalseNegatives int
}

// Confusion は正解ラベルと予測ラベルから混同行列を集計する
func Confusion(yTrue, yPred *mat.VecDense) (ConfusionCounts, error) {
	n, err := validateVectors("Confusion", yTrue, yPred)
	if err != nil {
		return ConfusionCounts{}, err
	}
	if err := checkBinaryLabels("Confusion", yTrue); err != nil {
		return ConfusionCounts{}, err
	}
	if err := checkBinaryLabels("Confusion", yPred); err != nil {
		return ConfusionCounts{}, err
	}

	var c ConfusionCounts
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			if yPred.AtVec(i) == 1 {
				c.TruePositives++
			} else {
				c.FalseNegatives++
			}
		} else {
			if yPred.AtVec(i) == 1 {
				c.FalsePositives++
			} else {
				c.TrueNegatives++
			}
		}
	}

	return c, nil
}

// Precision は陽性と予測したサンプルのうち実際に陽性だった割合を返す
// 陽性の予測が一つもない場合は警告を発して0を返す
func Precision(yTrue, yPred *mat.VecDense) (float64, error) {
	c, err := Confusion(yTrue, yPred)
	if err != nil {
		return 0, err
	}

	denom := c.TruePositives + c.FalsePositives
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("Precision", "no positive predictions", 0))
		return 0, nil
	}

	return float64(c.TruePositives) / float64(denom), nil
}

// Recall は実際に陽性のサンプルのうち陽性と予測できた割合を返す
// 陽性のラベルが一つもない場合は警告を発して0を返す
func Recall(yTrue, yPred *mat.VecDense) (float64, error) {
	c, err := Confusion(yTrue, yPred)
	if err != nil {
		return 0, err
	}

	denom := c.TruePositives + c.FalseNegatives
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("Recall", "no positive labels in yTrue", 0))
		return 0, nil
	}

	return float64(c.TruePositives) / float64(denom), nil
}

// F1Score は適合率と再現率の調和平均を返す
// 両方が0の場合は警告を発して0を返す
func F1Score(yTrue, yPred *mat.VecDense) (float64, error) {
	precision, err := Precision(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	recall, err := Recall(yTrue, yPred)
	if err != nil {
		return 0, err
	}

	if precision+recall == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("F1Score", "precision and recall are both zero", 0))
		return 0, nil
	}

	return 2 * precision * recall / (precision + recall), nil
}

// BrierScore は予測確率と正解ラベルの平均二乗誤差を計算する
func BrierScore(yTrue, yProb *mat.VecDense) (float64, error) {
	n, err := validateVectors("BrierScore", yTrue, yProb)
	if err != nil {
		return 0, err
	}
	if err := checkBinaryLabels("BrierScore", yTrue); err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yProb.AtVec(i) - yTrue.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// Report は二値分類モデルの主要な評価指標をまとめたもの
type Report struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
	AUC       float64
	LogLoss   float64
	Brier     float64
	Confusion ConfusionCounts
}

// Evaluate は正解ラベルと予測確率から評価レポートを作成する
//
// 予測ラベルは確率を四捨五入して導出する（0.5は陽性側に丸める）。
// 正解率などのラベルベースの指標は導出したラベルから、AUC・LogLoss・
// Brierは確率から計算される。
func Evaluate(yTrue, yProb *mat.VecDense) (*Report, error) {
	n, err := validateVectors("Evaluate", yTrue, yProb)
	if err != nil {
		return nil, err
	}
	if err := checkBinaryLabels("Evaluate", yTrue); err != nil {
		return nil, err
	}

	yPred := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yPred.SetVec(i, math.Round(yProb.AtVec(i)))
	}

	report := &Report{}
	if report.Accuracy, err = Accuracy(yTrue, yPred); err != nil {
		return nil, err
	}
	if report.Precision, err = Precision(yTrue, yPred); err != nil {
		return nil, err
	}
	if report.Recall, err = Recall(yTrue, yPred); err != nil {
		return nil, err
	}
	if report.F1, err = F1Score(yTrue, yPred); err != nil {
		return nil, err
	}
	if report.AUC, err = AUC(yTrue, yProb); err != nil {
		return nil, err
	}
	if report.LogLoss, err = BinaryLogLoss(yTrue, yProb); err != nil {
		return nil, err
	}
	if report.Brier, err = BrierScore(yTrue, yProb); err != nil {
		return nil, err
	}
	if report.Confusion, err = Confusion(yTrue, yPred); err != nil {
		return nil, err
	}

	return report, nil
}
