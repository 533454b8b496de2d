package eval

import (
	"fmt"
	"io"
	"strings"

	"github.com/ayusman/mudra/internal/store"
)

// Report holds the scores of one evaluation run.
type Report struct {
	Rows             int
	Gesture          Scores
	Face             Scores
	GestureConfusion Confusion
	FaceConfusion    Confusion
	Predictions      []Prediction
}

// NewReport scores preds.
func NewReport(preds []Prediction) *Report {
	var gt, gp, ft, fp []string
	for _, p := range preds {
		gt = append(gt, string(p.Row.TrueGesture))
		gp = append(gp, p.Gesture)
		ft = append(ft, string(p.Row.TrueFace))
		fp = append(fp, string(p.Face))
	}

	return &Report{
		Rows:             len(preds),
		Gesture:          Score(gt, gp),
		Face:             Score(ft, fp),
		GestureConfusion: NewConfusion(gt, gp),
		FaceConfusion:    NewConfusion(ft, fp),
		Predictions:      preds,
	}
}

// Print writes the eight metric lines followed by both confusion matrices.
func (r *Report) Print(w io.Writer) error {
	var b strings.Builder

	writeScores(&b, "Gesture", r.Gesture)
	writeScores(&b, "Face", r.Face)

	b.WriteString("\nGesture confusion (rows: true, columns: predicted)\n")
	writeConfusion(&b, r.GestureConfusion)
	b.WriteString("\nFace confusion (rows: true, columns: predicted)\n")
	writeConfusion(&b, r.FaceConfusion)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeScores(b *strings.Builder, family string, s Scores) {
	fmt.Fprintf(b, "%s Accuracy: %.4f\n", family, s.Accuracy)
	fmt.Fprintf(b, "%s Precision: %.4f\n", family, s.Precision)
	fmt.Fprintf(b, "%s Recall: %.4f\n", family, s.Recall)
	fmt.Fprintf(b, "%s F1: %.4f\n", family, s.F1)
}

func writeConfusion(b *strings.Builder, c Confusion) {
	if len(c.Labels) == 0 {
		b.WriteString("(no rows)\n")
		return
	}

	width := 0
	for _, l := range c.Labels {
		width = max(width, len(l))
	}

	fmt.Fprintf(b, "%-*s", width, "")
	for _, l := range c.Labels {
		fmt.Fprintf(b, "  %*s", width, l)
	}
	b.WriteByte('\n')
	for i, l := range c.Labels {
		fmt.Fprintf(b, "%-*s", width, l)
		for _, n := range c.Counts[i] {
			fmt.Fprintf(b, "  %*d", width, n)
		}
		b.WriteByte('\n')
	}
}

// Record converts the report into its stored form.
func (r *Report) Record(source string) (*store.Run, []store.Prediction) {
	run := &store.Run{
		Source:  source,
		Rows:    r.Rows,
		Gesture: store.Metrics(r.Gesture),
		Face:    store.Metrics(r.Face),
	}

	preds := make([]store.Prediction, len(r.Predictions))
	for i, p := range r.Predictions {
		preds[i] = store.Prediction{
			RowIndex:         p.Row.Index,
			ImagePath:        p.Row.ImagePath,
			TrueGesture:      string(p.Row.TrueGesture),
			PredictedGesture: p.Gesture,
			TrueFace:         string(p.Row.TrueFace),
			PredictedFace:    string(p.Face),
		}
	}
	return run, preds
}
