package face

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// MockRegionDetector returns scripted results, one entry per Detect call.
// Once the script is exhausted it returns nil.
type MockRegionDetector struct {
	mu      sync.Mutex
	results [][]image.Rectangle
	sizes   []image.Point
}

// NewMockRegionDetector creates a mock returning results in order.
func NewMockRegionDetector(results ...[]image.Rectangle) *MockRegionDetector {
	return &MockRegionDetector{results: results}
}

// Detect returns the next scripted result and records the image size it saw.
func (m *MockRegionDetector) Detect(gray gocv.Mat) []image.Rectangle {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sizes = append(m.sizes, image.Point{X: gray.Cols(), Y: gray.Rows()})
	if len(m.results) == 0 {
		return nil
	}
	next := m.results[0]
	m.results = m.results[1:]
	return next
}

// Calls returns the image sizes Detect was called with, in order.
func (m *MockRegionDetector) Calls() []image.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]image.Point(nil), m.sizes...)
}
