package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func samplePredictions() []Prediction {
	return []Prediction{
		{RowIndex: 2, ImagePath: "/data/b.jpg", TrueGesture: "Open Palm", PredictedGesture: "none", TrueFace: "Smiling", PredictedFace: "Not Smiling"},
		{RowIndex: 1, ImagePath: "/data/a.jpg", TrueGesture: "Thumb Up", PredictedGesture: "Thumb Up", TrueFace: "Smiling", PredictedFace: "Smiling"},
	}
}

func TestRunRepository_Create(t *testing.T) {
	s := newTestStore(t)

	run := &Run{
		Source:  "rows.csv",
		Rows:    2,
		Gesture: Metrics{Accuracy: 0.5, Precision: 0.5, Recall: 0.5, F1: 0.5},
		Face:    Metrics{Accuracy: 0.5, Precision: 1, Recall: 0.5, F1: 0.6667},
	}
	if err := s.Runs().Create(run, samplePredictions()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := uuid.Parse(run.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", run.ID, err)
	}
	if run.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	got, err := s.Runs().GetByID(run.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Source != run.Source || got.Rows != run.Rows {
		t.Errorf("got %+v, want %+v", got, run)
	}
	if got.Gesture != run.Gesture {
		t.Errorf("Gesture = %+v, want %+v", got.Gesture, run.Gesture)
	}
	if got.Face != run.Face {
		t.Errorf("Face = %+v, want %+v", got.Face, run.Face)
	}
}

func TestRunRepository_CreateKeepsGivenID(t *testing.T) {
	s := newTestStore(t)

	run := &Run{ID: "fixed-id", Source: "rows.csv"}
	if err := s.Runs().Create(run, nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if run.ID != "fixed-id" {
		t.Errorf("ID = %q, want fixed-id", run.ID)
	}
}

func TestRunRepository_CreateDuplicateRollsBack(t *testing.T) {
	s := newTestStore(t)

	if err := s.Runs().Create(&Run{ID: "dup", Source: "a.csv"}, nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Runs().Create(&Run{ID: "dup", Source: "b.csv"}, samplePredictions()); err == nil {
		t.Fatal("expected error for duplicate ID")
	}

	preds, err := s.Runs().Predictions("dup")
	if err != nil {
		t.Fatalf("Predictions() error = %v", err)
	}
	if len(preds) != 0 {
		t.Errorf("expected no predictions from failed insert, got %d", len(preds))
	}
}

func TestRunRepository_Predictions(t *testing.T) {
	s := newTestStore(t)

	run := &Run{Source: "rows.csv", Rows: 2}
	if err := s.Runs().Create(run, samplePredictions()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	preds, err := s.Runs().Predictions(run.ID)
	if err != nil {
		t.Fatalf("Predictions() error = %v", err)
	}
	if len(preds) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(preds))
	}
	if preds[0].RowIndex != 1 || preds[1].RowIndex != 2 {
		t.Errorf("predictions not in row order: %d, %d", preds[0].RowIndex, preds[1].RowIndex)
	}
	if preds[1].PredictedGesture != "none" {
		t.Errorf("PredictedGesture = %q, want none", preds[1].PredictedGesture)
	}
}

func TestRunRepository_List(t *testing.T) {
	s := newTestStore(t)

	for _, src := range []string{"first.csv", "second.csv", "third.csv"} {
		if err := s.Runs().Create(&Run{Source: src}, nil); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	runs, err := s.Runs().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].Source != "third.csv" {
		t.Errorf("newest run first: got %q", runs[0].Source)
	}
}

func TestRunRepository_Delete(t *testing.T) {
	s := newTestStore(t)

	run := &Run{Source: "rows.csv"}
	if err := s.Runs().Create(run, samplePredictions()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := s.Runs().Delete(run.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var n int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM evaluation_predictions").Scan(&n); err != nil {
		t.Fatalf("count predictions: %v", err)
	}
	if n != 0 {
		t.Errorf("predictions should cascade, %d left", n)
	}
}

func TestRunRepository_NotFound(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name string
		call func() error
	}{
		{"GetByID", func() error { _, err := s.Runs().GetByID("missing"); return err }},
		{"Predictions", func() error { _, err := s.Runs().Predictions("missing"); return err }},
		{"Delete", func() error { return s.Runs().Delete("missing") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}
