package face

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Cascade parameters for live video.
const (
	FaceScaleFactor   = 1.3
	FaceMinNeighbors  = 5
	SmileScaleFactor  = 1.8
	SmileMinNeighbors = 20
)

// RegionDetector finds rectangular regions in a grayscale image.
type RegionDetector interface {
	Detect(gray gocv.Mat) []image.Rectangle
}

// CascadeDetector is a Haar cascade with fixed multi-scale parameters.
type CascadeDetector struct {
	classifier   gocv.CascadeClassifier
	scaleFactor  float64
	minNeighbors int
}

// NewCascade loads the cascade XML at path.
func NewCascade(path string, scaleFactor float64, minNeighbors int) (*CascadeDetector, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, fmt.Errorf("failed to load cascade classifier from %s", path)
	}

	return &CascadeDetector{
		classifier:   classifier,
		scaleFactor:  scaleFactor,
		minNeighbors: minNeighbors,
	}, nil
}

// Detect runs the cascade over gray and returns hits in detector order.
func (c *CascadeDetector) Detect(gray gocv.Mat) []image.Rectangle {
	if gray.Empty() {
		return nil
	}
	return c.classifier.DetectMultiScaleWithParams(
		gray,
		c.scaleFactor,
		c.minNeighbors,
		0,
		image.Point{},
		image.Point{},
	)
}

// Close releases the classifier.
func (c *CascadeDetector) Close() error {
	return c.classifier.Close()
}
