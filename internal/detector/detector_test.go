package detector

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
)

func TestHandLandmarks_Pixel(t *testing.T) {
	hand := HandLandmarks{}
	hand.Points[IndexTip] = Point3D{X: 0.25, Y: 0.5}

	got := hand.Pixel(IndexTip, 640, 480)
	want := image.Point{X: 160, Y: 240}
	if got != want {
		t.Errorf("Pixel() = %v, want %v", got, want)
	}
}

func TestHandLandmarks_Bounds(t *testing.T) {
	hand := OpenPalmLandmarks()

	b := hand.Bounds(100, 100)

	// OpenPalm spans x 0.34..0.73 and y 0.28..0.80
	if b.Min.X != 34 || b.Max.X != 73 {
		t.Errorf("x bounds = [%d,%d], want [34,73]", b.Min.X, b.Max.X)
	}
	if b.Min.Y != 28 || b.Max.Y != 80 {
		t.Errorf("y bounds = [%d,%d], want [28,80]", b.Min.Y, b.Max.Y)
	}
}

func TestConnections_InRange(t *testing.T) {
	if len(Connections) != 21 {
		t.Errorf("expected 21 skeleton connections, got %d", len(Connections))
	}
	for _, c := range Connections {
		for _, idx := range c {
			if idx < 0 || idx >= NumLandmarks {
				t.Errorf("connection %v references landmark %d out of range", c, idx)
			}
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxHands != 2 {
		t.Errorf("MaxHands = %d, want 2", cfg.MaxHands)
	}
	if cfg.MinConfidence != 0.7 {
		t.Errorf("MinConfidence = %f, want 0.7", cfg.MinConfidence)
	}
	if cfg.MinTrackingConf != 0.7 {
		t.Errorf("MinTrackingConf = %f, want 0.7", cfg.MinTrackingConf)
	}
	if cfg.StaticImages {
		t.Error("live config should track between frames")
	}
}

func TestStillImageConfig(t *testing.T) {
	cfg := StillImageConfig()

	if !cfg.StaticImages {
		t.Error("StaticImages = false, want true")
	}
	if cfg.MaxHands != 2 || cfg.MinConfidence != 0.7 {
		t.Errorf("thresholds changed: %+v", cfg)
	}
}

func TestDecodeResponse(t *testing.T) {
	full := `{"x":0.1,"y":0.2,"z":0.0}`
	points := full
	for i := 1; i < NumLandmarks; i++ {
		points += "," + full
	}

	tests := []struct {
		name      string
		line      string
		wantHands int
		wantErr   bool
	}{
		{
			name:      "no hands",
			line:      `{"hands":[]}`,
			wantHands: 0,
		},
		{
			name:      "one complete hand",
			line:      `{"hands":[{"points":[` + points + `],"handedness":"Left","score":0.9}]}`,
			wantHands: 1,
		},
		{
			name:      "short hand is dropped",
			line:      `{"hands":[{"points":[` + full + `],"handedness":"Left","score":0.9}]}`,
			wantHands: 0,
		},
		{
			name:    "service error",
			line:    `{"error":"model failed"}`,
			wantErr: true,
		},
		{
			name:    "garbage",
			line:    `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hands, err := decodeResponse([]byte(tt.line))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(hands) != tt.wantHands {
				t.Errorf("got %d hands, want %d", len(hands), tt.wantHands)
			}
		})
	}
}

func TestNewMediaPipeDetector(t *testing.T) {
	t.Run("missing script", func(t *testing.T) {
		_, err := NewMediaPipeDetector(MediaPipeOptions{
			Config:     DefaultConfig(),
			ScriptPath: filepath.Join(t.TempDir(), "nope.py"),
		})
		if !errors.Is(err, ErrServiceNotFound) {
			t.Errorf("expected ErrServiceNotFound, got %v", err)
		}
	})

	t.Run("passes config to the service", func(t *testing.T) {
		script := filepath.Join(t.TempDir(), "mediapipe_service.py")
		if err := os.WriteFile(script, []byte("# test\n"), 0o644); err != nil {
			t.Fatalf("write script: %v", err)
		}

		d, err := NewMediaPipeDetector(MediaPipeOptions{
			Config:     DefaultConfig(),
			ScriptPath: script,
			PythonPath: "python3",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer d.Close()

		want := []string{
			script,
			"--max-hands", "2",
			"--min-detection-confidence", "0.7",
			"--min-tracking-confidence", "0.7",
		}
		got := d.Args()
		if len(got) != len(want) {
			t.Fatalf("Args() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Args()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("static image mode", func(t *testing.T) {
		script := filepath.Join(t.TempDir(), "mediapipe_service.py")
		if err := os.WriteFile(script, []byte("# test\n"), 0o644); err != nil {
			t.Fatalf("write script: %v", err)
		}

		d, err := NewMediaPipeDetector(MediaPipeOptions{
			Config:     StillImageConfig(),
			ScriptPath: script,
			PythonPath: "python3",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer d.Close()

		args := d.Args()
		if last := args[len(args)-1]; last != "--static-image-mode" {
			t.Errorf("last arg = %q, want --static-image-mode (args %v)", last, args)
		}
	})
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{ThumbsUpLandmarks(), OpenPalmLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
		if mock.Calls() != 1 {
			t.Errorf("expected 1 call, got %d", mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()
		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("Close marks closed", func(t *testing.T) {
		mock := NewMockDetector()

		if err := mock.Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
		if !mock.Closed() {
			t.Error("expected mock to report closed")
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestFixtures(t *testing.T) {
	t.Run("thumbs up has thumb tip above every other tip", func(t *testing.T) {
		h := ThumbsUpLandmarks()
		for _, tip := range []int{IndexTip, MiddleTip, RingTip, PinkyTip} {
			if h.Points[ThumbTip].Y >= h.Points[tip].Y {
				t.Errorf("thumb tip y %f not above tip %d y %f", h.Points[ThumbTip].Y, tip, h.Points[tip].Y)
			}
		}
	})

	t.Run("open palm has fingers extended above their knuckles", func(t *testing.T) {
		h := OpenPalmLandmarks()
		pairs := [][2]int{{IndexMCP, IndexTip}, {MiddleMCP, MiddleTip}, {RingMCP, RingTip}, {PinkyMCP, PinkyTip}}
		for _, p := range pairs {
			if ext := h.Points[p[0]].Y - h.Points[p[1]].Y; ext < 0.2 {
				t.Errorf("finger %d extension %f, expected >= 0.2", p[1], ext)
			}
		}
	})

	t.Run("tip heights overrides only fingertips", func(t *testing.T) {
		h := TipHeights(0.1, 0.2, 0.3, 0.4, 0.5)
		base := OpenPalmLandmarks()

		if h.Points[ThumbTip].Y != 0.1 || h.Points[PinkyTip].Y != 0.5 {
			t.Errorf("fingertips not set: thumb %f pinky %f", h.Points[ThumbTip].Y, h.Points[PinkyTip].Y)
		}
		if h.Points[Wrist] != base.Points[Wrist] {
			t.Error("wrist should be unchanged")
		}
	})
}
