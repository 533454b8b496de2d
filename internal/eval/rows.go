package eval

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ayusman/mudra/internal/face"
	"github.com/ayusman/mudra/internal/gesture"
)

// Required CSV columns.
const (
	ColImagePath   = "image_path"
	ColTrueGesture = "true_gesture"
	ColTrueFace    = "true_face_expression"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidRow is returned for a row that fails validation.
	ErrInvalidRow = errors.New("invalid row")
)

// Row is one labelled sample. Index is the 1-based data row number.
type Row struct {
	Index       int
	ImagePath   string          `validate:"required,file"`
	TrueGesture gesture.Label   `validate:"required"`
	TrueFace    face.Expression `validate:"required"`
}

var validate = validator.New()

// LoadFile reads rows from a CSV file; relative image paths resolve against
// the file's directory.
func LoadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rows: %w", err)
	}
	defer f.Close()

	return LoadRows(f, filepath.Dir(path))
}

// LoadRows reads a CSV with a header row. Extra columns are ignored. Any bad
// row fails the whole load.
func LoadRows(r io.Reader, baseDir string) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idx := make(map[string]int, 3)
	for _, name := range []string{ColImagePath, ColTrueGesture, ColTrueFace} {
		i, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		idx[name] = i
	}

	var rows []Row
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}

		row, err := parseRow(n, rec, idx, baseDir)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseRow(n int, rec []string, idx map[string]int, baseDir string) (Row, error) {
	field := func(name string) string {
		return strings.TrimSpace(rec[idx[name]])
	}

	g, err := gesture.ParseLabel(field(ColTrueGesture))
	if err != nil {
		return Row{}, fmt.Errorf("%w %d: %w", ErrInvalidRow, n, err)
	}
	e, err := face.ParseExpression(field(ColTrueFace))
	if err != nil {
		return Row{}, fmt.Errorf("%w %d: %w", ErrInvalidRow, n, err)
	}

	path := field(ColImagePath)
	if path != "" && !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}

	row := Row{Index: n, ImagePath: path, TrueGesture: g, TrueFace: e}
	if err := validate.Struct(row); err != nil {
		return Row{}, fmt.Errorf("%w %d: %w", ErrInvalidRow, n, err)
	}
	return row, nil
}
