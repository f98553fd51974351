package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	oapErrors "github.com/steccami/OAP/pkg/errors"
)

// LoadLabeledPoints parses the labeled-point text format from r: one record
// per line as "label,f1 f2 f3 ..." with a comma after the label and
// space-separated features. Blank lines are skipped. Parse failures name
// the offending line.
func LoadLabeledPoints(r io.Reader) ([]Point, error) {
	return parseLabeledPoints(r, "input")
}

// LoadFile reads one labeled-point text file.
func LoadFile(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, oapErrors.Wrapf(err, "LoadFile %s", path)
	}
	defer f.Close()

	return parseLabeledPoints(f, path)
}

// LoadDir reads every regular file in dir in name order as labeled-point
// text and returns the combined dataset. Hidden and marker files (names
// starting with "." or "_") are skipped.
func LoadDir(dir string, opts ...Option) (*InMemory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, oapErrors.Wrapf(err, "LoadDir %s", dir)
	}

	var points []Point
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}

		filePoints, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		points = append(points, filePoints...)
	}

	if len(points) == 0 {
		return nil, oapErrors.NewModelError("LoadDir", "no labeled points found", oapErrors.ErrEmptyData)
	}
	return NewInMemory(points, opts...)
}

func parseLabeledPoints(r io.Reader, source string) ([]Point, error) {
	scanner := bufio.NewScanner(r)
	var points []Point
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		labelPart, featuresPart, found := strings.Cut(line, ",")
		if !found {
			return nil, oapErrors.Newf("%s:%d: missing ',' after label", source, lineNo)
		}

		label, err := strconv.ParseFloat(strings.TrimSpace(labelPart), 64)
		if err != nil {
			return nil, oapErrors.Wrapf(err, "%s:%d: invalid label %q", source, lineNo, labelPart)
		}
		if label != 0 && label != 1 {
			return nil, oapErrors.NewValidationError("label", fmt.Sprintf("must be 0 or 1 (%s:%d)", source, lineNo), label)
		}

		fields := strings.Fields(featuresPart)
		features := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, oapErrors.Wrapf(err, "%s:%d: invalid feature value %q", source, lineNo, field)
			}
			features[i] = v
		}

		points = append(points, Point{Label: label, Features: features})
	}
	if err := scanner.Err(); err != nil {
		return nil, oapErrors.Wrapf(err, "%s: read", source)
	}

	return points, nil
}
