package metrics

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/steccami/OAP/pkg/errors"
)

// SaveLossCurve は反復ごとの損失の推移を折れ線グラフとして保存する
//
// 横軸は反復番号（1始まり）、縦軸は損失。ファイル形式は拡張子から
// 決定される（例: .png）。
func SaveLossCurve(losses []float64, path string) error {
	if len(losses) == 0 {
		return errors.NewValueError("SaveLossCurve", "empty loss trace")
	}

	pts := make(plotter.XYs, len(losses))
	for i, loss := range losses {
		pts[i].X = float64(i + 1)
		pts[i].Y = loss
	}

	p := plot.New()
	p.Title.Text = "Training Loss"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Loss"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "SaveLossCurve")
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "SaveLossCurve")
	}

	return nil
}
