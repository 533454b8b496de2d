// Package gesture classifies detected hands into coarse gesture labels.
package gesture

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ayusman/mudra/internal/detector"
)

// ErrUnknownLabel is returned when a string does not name a gesture.
var ErrUnknownLabel = errors.New("unknown gesture label")

// Label is a coarse hand pose.
type Label string

const (
	// ThumbUp means the thumb tip is strictly above every other fingertip.
	ThumbUp Label = "Thumb Up"
	// OpenPalm is every other hand configuration.
	OpenPalm Label = "Open Palm"
)

// Labels lists every gesture label in display order.
var Labels = []Label{ThumbUp, OpenPalm}

func (l Label) String() string {
	return string(l)
}

var aliases = map[string]Label{
	"thumb up":      ThumbUp,
	"thumbs up":     ThumbUp,
	"thumb_up":      ThumbUp,
	"thumbup":       ThumbUp,
	"pulgar arriba": ThumbUp,
	"open palm":     OpenPalm,
	"open_palm":     OpenPalm,
	"openpalm":      OpenPalm,
	"palma abierta": OpenPalm,
}

// ParseLabel parses a gesture label, case-insensitively.
func ParseLabel(s string) (Label, error) {
	if l, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLabel, s)
}

// Classify returns ThumbUp when the thumb tip is strictly higher in the frame
// (smaller y) than the index, middle, ring and pinky tips, and OpenPalm otherwise.
func Classify(hand *detector.HandLandmarks) Label {
	p := &hand.Points
	t := p[detector.ThumbTip].Y

	if t < p[detector.IndexTip].Y &&
		t < p[detector.MiddleTip].Y &&
		t < p[detector.RingTip].Y &&
		t < p[detector.PinkyTip].Y {
		return ThumbUp
	}
	return OpenPalm
}

// ClassifyAll classifies hands in order.
func ClassifyAll(hands []detector.HandLandmarks) []Label {
	labels := make([]Label, len(hands))
	for i := range hands {
		labels[i] = Classify(&hands[i])
	}
	return labels
}
