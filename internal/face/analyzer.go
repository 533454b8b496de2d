package face

import (
	"image"

	"gocv.io/x/gocv"
)

// Result is what Analyze found in one frame. Smiles are in frame coordinates
// and belong to the face at SmilingFace, or SmilingFace is -1.
type Result struct {
	Expression  Expression
	Faces       []image.Rectangle
	Smiles      []image.Rectangle
	SmilingFace int
}

// Analyzer combines a face detector with a smile detector run inside each face.
type Analyzer struct {
	faces  RegionDetector
	smiles RegionDetector
}

// NewAnalyzer returns an Analyzer using the given detectors. The detectors are
// owned by the caller.
func NewAnalyzer(faces, smiles RegionDetector) *Analyzer {
	return &Analyzer{faces: faces, smiles: smiles}
}

// Analyze detects faces in gray and searches each face, in detector order, for
// a smile. The first face with at least one smile makes the frame Smiling and
// ends the search; all faces are still reported. No faces means NotSmiling.
func (a *Analyzer) Analyze(gray gocv.Mat) Result {
	res := Result{
		Expression:  NotSmiling,
		SmilingFace: -1,
	}

	if gray.Empty() {
		return res
	}

	res.Faces = a.faces.Detect(gray)
	bounds := image.Rect(0, 0, gray.Cols(), gray.Rows())

	for i, f := range res.Faces {
		region := f.Intersect(bounds)
		if region.Empty() {
			continue
		}

		roi := gray.Region(region)
		smiles := a.smiles.Detect(roi)
		roi.Close()

		if len(smiles) == 0 {
			continue
		}

		res.Expression = Smiling
		res.SmilingFace = i
		res.Smiles = make([]image.Rectangle, len(smiles))
		for j, s := range smiles {
			res.Smiles[j] = s.Add(region.Min)
		}
		break
	}

	return res
}
