package dataset

import (
	"fmt"
	"io"
	"os"

	"github.com/sjwhitworth/golearn/base"

	oapErrors "github.com/steccami/OAP/pkg/errors"
)

// LoadCSV parses CSV data with golearn. The last column is the label, all
// preceding columns are features. hasHeader indicates whether the first row
// is a header row.
func LoadCSV(r io.Reader, hasHeader bool, opts ...Option) (*InMemory, error) {
	instances, err := base.ParseCSVToInstancesFromReader(r, hasHeader)
	if err != nil {
		return nil, oapErrors.Wrap(err, "LoadCSV: parse")
	}
	return fromInstances(instances, opts...)
}

// LoadCSVFile reads one CSV file, last column the label.
func LoadCSVFile(path string, hasHeader bool, opts ...Option) (*InMemory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, oapErrors.Wrapf(err, "LoadCSVFile %s", path)
	}
	defer f.Close()

	return LoadCSV(f, hasHeader, opts...)
}

func fromInstances(instances *base.DenseInstances, opts ...Option) (*InMemory, error) {
	cols, rows := instances.Size()
	if cols < 2 {
		return nil, oapErrors.NewValueError("LoadCSV", "need at least one feature column and a label column")
	}

	attributes := instances.AllAttributes()
	specs := make([]base.AttributeSpec, len(attributes))
	for i, attr := range attributes {
		spec, err := instances.GetAttribute(attr)
		if err != nil {
			return nil, oapErrors.Wrapf(err, "LoadCSV: resolve column %d", i)
		}
		specs[i] = spec
	}

	points := make([]Point, rows)
	for i := 0; i < rows; i++ {
		features := make([]float64, cols-1)
		for j := 0; j < cols-1; j++ {
			features[j] = base.UnpackBytesToFloat(instances.Get(specs[j], i))
		}

		label := base.UnpackBytesToFloat(instances.Get(specs[cols-1], i))
		if label != 0 && label != 1 {
			return nil, oapErrors.NewValidationError("label", fmt.Sprintf("must be 0 or 1 (row %d)", i), label)
		}

		points[i] = Point{Label: label, Features: features}
	}

	return NewInMemory(points, opts...)
}
