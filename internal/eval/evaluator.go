// Package eval scores the vision pipeline against labelled images.
package eval

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/face"
	"github.com/ayusman/mudra/internal/vision"
)

// NoHand is the predicted gesture for an image with no detected hand.
const NoHand = "none"

// ErrEmptyImage is returned when a row's image decodes to nothing.
var ErrEmptyImage = errors.New("empty image")

// Processor runs the vision pipeline on one frame.
type Processor interface {
	Process(frame *gocv.Mat) (*vision.Result, error)
}

// ImageLoader reads a BGR image. The caller closes the returned Mat.
type ImageLoader func(path string) (gocv.Mat, error)

// LoadImage reads path with OpenCV.
func LoadImage(path string) (gocv.Mat, error) {
	m := gocv.IMRead(path, gocv.IMReadColor)
	if m.Empty() {
		m.Close()
		return gocv.Mat{}, fmt.Errorf("%w: %s", ErrEmptyImage, path)
	}
	return m, nil
}

// Prediction is the pipeline's verdict on one row.
type Prediction struct {
	Row     Row
	Gesture string
	Face    face.Expression
}

// Options configures an Evaluator.
type Options struct {
	Loader ImageLoader
	Logger logrus.FieldLogger
}

// Evaluator runs rows through a Processor and scores the predictions.
type Evaluator struct {
	proc Processor
	load ImageLoader
	log  logrus.FieldLogger
}

// New creates an Evaluator. A nil Loader means LoadImage.
func New(proc Processor, opts Options) *Evaluator {
	if opts.Loader == nil {
		opts.Loader = LoadImage
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Evaluator{
		proc: proc,
		load: opts.Loader,
		log:  opts.Logger.WithField("component", "eval"),
	}
}

// Evaluate predicts every row and scores both label families. The predicted
// gesture is the first detected hand's label, or NoHand. Any row failure
// aborts the run.
func (e *Evaluator) Evaluate(ctx context.Context, rows []Row) (*Report, error) {
	preds := make([]Prediction, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := e.predict(row)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", row.Index, row.ImagePath, err)
		}
		preds = append(preds, p)

		e.log.WithFields(logrus.Fields{
			"row":     row.Index,
			"gesture": p.Gesture,
			"face":    p.Face,
		}).Debug("row predicted")
	}

	report := NewReport(preds)
	e.log.WithField("rows", report.Rows).Info("evaluation complete")
	return report, nil
}

func (e *Evaluator) predict(row Row) (Prediction, error) {
	img, err := e.load(row.ImagePath)
	if err != nil {
		return Prediction{}, err
	}
	defer img.Close()

	if img.Empty() {
		return Prediction{}, fmt.Errorf("%w: %s", ErrEmptyImage, row.ImagePath)
	}

	res, err := e.proc.Process(&img)
	if err != nil {
		return Prediction{}, err
	}
	defer res.Close()

	g := NoHand
	if len(res.Gestures) > 0 {
		g = string(res.Gestures[0])
	}
	return Prediction{Row: row, Gesture: g, Face: res.Face}, nil
}
