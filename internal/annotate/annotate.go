// Package annotate draws detection overlays onto video frames.
package annotate

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/face"
	"github.com/ayusman/mudra/internal/gesture"
)

// Layout and smoothing constants.
const (
	TextX        = 10
	FirstLineY   = 30
	LineSpacing  = 40
	FontScale    = 1.0
	Thickness    = 2
	LandmarkSize = 4

	SmoothDiameter   = 9
	SmoothSigmaColor = 75
	SmoothSigmaSpace = 75
)

// gocv converts color.RGBA to BGR scalars itself.
var (
	GestureColor  = color.RGBA{R: 0, G: 255, B: 0}
	FaceColor     = color.RGBA{R: 0, G: 0, B: 255}
	SmileColor    = color.RGBA{R: 0, G: 255, B: 0}
	SkeletonColor = color.RGBA{R: 255, G: 255, B: 255}
	LandmarkColor = color.RGBA{R: 255, G: 0, B: 0}
)

// Hand is a detected hand together with its label.
type Hand struct {
	Landmarks detector.HandLandmarks
	Label     gesture.Label
}

// Annotator draws skeletons, labels and face boxes, then smooths the frame.
type Annotator struct{}

// New returns an Annotator that applies the bilateral smoothing pass.
func New() *Annotator {
	return &Annotator{}
}

// GestureLine is the baseline of hand k's label.
func GestureLine(k int) image.Point {
	return image.Pt(TextX, FirstLineY+LineSpacing*k)
}

// FaceLine is the baseline of the face label: the line after the gesture
// stack, never above the second line.
func FaceLine(hands int) image.Point {
	if hands < 1 {
		hands = 1
	}
	return image.Pt(TextX, FirstLineY+LineSpacing*hands)
}

// GestureText is the overlay text for hand k.
func GestureText(k int, l gesture.Label) string {
	return fmt.Sprintf("Hand %d: %s", k+1, l)
}

// Annotate draws overlays onto frame in place and returns a new smoothed Mat
// owned by the caller.
func (a *Annotator) Annotate(frame *gocv.Mat, hands []Hand, faces face.Result) gocv.Mat {
	a.Draw(frame, hands, faces)

	out := gocv.NewMat()
	if frame.Empty() {
		return out
	}
	gocv.BilateralFilter(*frame, &out, SmoothDiameter, SmoothSigmaColor, SmoothSigmaSpace)
	return out
}

// Draw renders every overlay onto frame.
func (a *Annotator) Draw(frame *gocv.Mat, hands []Hand, faces face.Result) {
	if frame.Empty() {
		return
	}
	w, h := frame.Cols(), frame.Rows()

	for k := range hands {
		drawSkeleton(frame, &hands[k].Landmarks, w, h)
		gocv.PutText(frame, GestureText(k, hands[k].Label), GestureLine(k),
			gocv.FontHersheySimplex, FontScale, GestureColor, Thickness)
	}

	for _, r := range faces.Faces {
		gocv.Rectangle(frame, r, FaceColor, Thickness)
	}
	for _, r := range faces.Smiles {
		gocv.Rectangle(frame, r, SmileColor, Thickness)
	}

	gocv.PutText(frame, faces.Expression.String(), FaceLine(len(hands)),
		gocv.FontHersheySimplex, FontScale, FaceColor, Thickness)
}

func drawSkeleton(frame *gocv.Mat, hand *detector.HandLandmarks, w, h int) {
	for _, c := range detector.Connections {
		gocv.Line(frame, hand.Pixel(c[0], w, h), hand.Pixel(c[1], w, h), SkeletonColor, Thickness)
	}
	for i := 0; i < detector.NumLandmarks; i++ {
		gocv.Circle(frame, hand.Pixel(i, w, h), LandmarkSize, LandmarkColor, -1)
	}
}
