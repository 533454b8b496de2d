package eval

import (
	"fmt"
	"sort"
)

// Scores are accuracy and support-weighted precision, recall and F1.
type Scores struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Score compares predictions against ground truth. Per-class metrics are
// computed over the union of labels and averaged with the true support of
// each class as weight; a zero denominator gives 0. Empty input scores 0.
// truth and pred must have the same length.
func Score(truth, pred []string) Scores {
	if len(truth) != len(pred) {
		panic(fmt.Sprintf("eval: %d truths for %d predictions", len(truth), len(pred)))
	}
	total := len(truth)
	if total == 0 {
		return Scores{}
	}

	cm := NewConfusion(truth, pred)

	var s Scores
	correct := 0
	for i := range cm.Labels {
		tp := cm.Counts[i][i]
		correct += tp

		support := cm.rowSum(i)
		if support == 0 {
			continue
		}
		p := ratio(tp, cm.colSum(i))
		r := ratio(tp, support)
		f := 0.0
		if p+r > 0 {
			f = 2 * p * r / (p + r)
		}

		w := float64(support)
		s.Precision += w * p
		s.Recall += w * r
		s.F1 += w * f
	}

	n := float64(total)
	s.Accuracy = float64(correct) / n
	s.Precision /= n
	s.Recall /= n
	s.F1 /= n
	return s
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// Confusion is a confusion matrix: Counts[i][j] is the number of samples
// whose truth is Labels[i] and prediction is Labels[j].
type Confusion struct {
	Labels []string `json:"labels"`
	Counts [][]int  `json:"counts"`
}

// NewConfusion builds the matrix over the sorted union of labels.
func NewConfusion(truth, pred []string) Confusion {
	seen := make(map[string]struct{})
	for _, l := range truth {
		seen[l] = struct{}{}
	}
	for _, l := range pred {
		seen[l] = struct{}{}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	pos := make(map[string]int, len(labels))
	for i, l := range labels {
		pos[l] = i
	}
	counts := make([][]int, len(labels))
	for i := range counts {
		counts[i] = make([]int, len(labels))
	}
	for i := range truth {
		counts[pos[truth[i]]][pos[pred[i]]]++
	}

	return Confusion{Labels: labels, Counts: counts}
}

func (c Confusion) rowSum(i int) int {
	sum := 0
	for _, v := range c.Counts[i] {
		sum += v
	}
	return sum
}

func (c Confusion) colSum(j int) int {
	sum := 0
	for i := range c.Counts {
		sum += c.Counts[i][j]
	}
	return sum
}
