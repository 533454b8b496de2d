package annotate

import (
	"image"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/face"
	"github.com/ayusman/mudra/internal/gesture"
)

func TestGestureLine_Stacks(t *testing.T) {
	tests := []struct {
		k    int
		want image.Point
	}{
		{k: 0, want: image.Pt(10, 30)},
		{k: 1, want: image.Pt(10, 70)},
		{k: 2, want: image.Pt(10, 110)},
	}

	for _, tt := range tests {
		if got := GestureLine(tt.k); got != tt.want {
			t.Errorf("GestureLine(%d) = %v, want %v", tt.k, got, tt.want)
		}
	}
}

func TestFaceLine_BelowGestures(t *testing.T) {
	tests := []struct {
		hands int
		want  image.Point
	}{
		{hands: 0, want: image.Pt(10, 70)},
		{hands: 1, want: image.Pt(10, 70)},
		{hands: 2, want: image.Pt(10, 110)},
	}

	for _, tt := range tests {
		got := FaceLine(tt.hands)
		if got != tt.want {
			t.Errorf("FaceLine(%d) = %v, want %v", tt.hands, got, tt.want)
		}
		for k := 0; k < tt.hands; k++ {
			if GestureLine(k).Y >= got.Y {
				t.Errorf("gesture line %d (%v) collides with face line %v", k, GestureLine(k), got)
			}
		}
	}
}

func TestGestureText(t *testing.T) {
	if got := GestureText(0, gesture.ThumbUp); got != "Hand 1: Thumb Up" {
		t.Errorf("GestureText() = %q", got)
	}
	if got := GestureText(1, gesture.OpenPalm); got != "Hand 2: Open Palm" {
		t.Errorf("GestureText() = %q", got)
	}
}

func TestAnnotate_ReturnsNewSmoothedFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	hands := []Hand{
		{Landmarks: detector.ThumbsUpLandmarks(), Label: gesture.ThumbUp},
		{Landmarks: detector.OpenPalmLandmarks(), Label: gesture.OpenPalm},
	}
	faces := face.Result{
		Expression:  face.Smiling,
		Faces:       []image.Rectangle{image.Rect(100, 100, 200, 200)},
		Smiles:      []image.Rectangle{image.Rect(120, 160, 180, 190)},
		SmilingFace: 0,
	}

	out := New().Annotate(&frame, hands, faces)
	defer out.Close()

	if out.Empty() {
		t.Fatal("annotated frame is empty")
	}
	if out.Cols() != 640 || out.Rows() != 480 {
		t.Errorf("annotated frame is %dx%d, want 640x480", out.Cols(), out.Rows())
	}
	if out.Type() != gocv.MatTypeCV8UC3 {
		t.Errorf("annotated frame type = %v, want CV8UC3", out.Type())
	}

	// Overlays are drawn on the input; a black frame must no longer be black.
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	if gocv.CountNonZero(gray) == 0 {
		t.Error("expected overlays to be drawn onto the input frame")
	}
}

func TestAnnotate_NoDetections(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()

	out := New().Annotate(&frame, nil, face.Result{Expression: face.NotSmiling, SmilingFace: -1})
	defer out.Close()

	if out.Empty() {
		t.Fatal("annotated frame is empty")
	}
}

func TestAnnotate_EmptyFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMat()
	defer frame.Close()

	out := New().Annotate(&frame, []Hand{{Landmarks: detector.OpenPalmLandmarks(), Label: gesture.OpenPalm}}, face.Result{Expression: face.Smiling})
	defer out.Close()

	if !out.Empty() {
		t.Errorf("expected empty output for empty input, got %dx%d", out.Cols(), out.Rows())
	}
}
