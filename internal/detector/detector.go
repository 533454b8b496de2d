package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a BGR video frame and returns detected hand landmarks
	// in detector-reported order. Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to track simultaneously.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// StaticImages treats every frame as unrelated, with no landmark
	// tracking from the previous frame. Use it for independent stills.
	StaticImages bool
}

// DefaultConfig returns the live-video configuration: two hands, 0.7 detection
// and tracking confidence.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.7,
		MinTrackingConf: 0.7,
	}
}

// StillImageConfig is DefaultConfig with tracking disabled, for scoring
// unrelated images.
func StillImageConfig() Config {
	c := DefaultConfig()
	c.StaticImages = true
	return c
}
