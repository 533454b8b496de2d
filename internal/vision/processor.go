// Package vision runs the per-frame detection pipeline: hands, gestures,
// faces and smiles, then annotation.
package vision

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/annotate"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/face"
	"github.com/ayusman/mudra/internal/gesture"
)

// ErrEmptyFrame is returned for nil or empty input frames.
var ErrEmptyFrame = errors.New("empty frame")

// Result is the outcome of processing one frame.
type Result struct {
	// Frame is the annotated, smoothed frame. The caller must Close it.
	Frame    gocv.Mat
	Hands    []detector.HandLandmarks
	Gestures []gesture.Label
	Face     face.Expression
	Faces    face.Result
}

// Close releases the annotated frame.
func (r *Result) Close() error {
	return r.Frame.Close()
}

// Processor wires the hand detector, face analyzer and annotator together.
// All collaborators are constructed once by the caller and reused per frame.
type Processor struct {
	hands     detector.Detector
	faces     *face.Analyzer
	annotator *annotate.Annotator
	log       logrus.FieldLogger
}

// NewProcessor creates a Processor.
func NewProcessor(hands detector.Detector, faces *face.Analyzer, annotator *annotate.Annotator, log logrus.FieldLogger) *Processor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Processor{
		hands:     hands,
		faces:     faces,
		annotator: annotator,
		log:       log.WithField("component", "vision"),
	}
}

// Process detects and classifies hands, finds faces and smiles, and draws the
// overlays. The input frame is drawn on. Zero hands or zero faces are not
// errors; only a failing hand detector is.
func (p *Processor) Process(frame *gocv.Mat) (*Result, error) {
	if frame == nil || frame.Empty() {
		return nil, ErrEmptyFrame
	}

	hands, err := p.hands.Detect(frame)
	if err != nil {
		return nil, fmt.Errorf("detect hands: %w", err)
	}
	labels := gesture.ClassifyAll(hands)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)

	faces := p.faces.Analyze(gray)

	annotated := make([]annotate.Hand, len(hands))
	for i := range hands {
		annotated[i] = annotate.Hand{Landmarks: hands[i], Label: labels[i]}
	}

	out := p.annotator.Annotate(frame, annotated, faces)

	p.log.WithFields(logrus.Fields{
		"hands": len(hands),
		"faces": len(faces.Faces),
		"face":  faces.Expression,
	}).Debug("frame processed")

	return &Result{
		Frame:    out,
		Hands:    hands,
		Gestures: labels,
		Face:     faces.Expression,
		Faces:    faces,
	}, nil
}
