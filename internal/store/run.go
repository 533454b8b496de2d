package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Metrics are one label family's scores.
type Metrics struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

// Run is a stored evaluation run.
type Run struct {
	ID        string
	Source    string
	Rows      int
	Gesture   Metrics
	Face      Metrics
	CreatedAt time.Time
}

// Prediction is one evaluated row of a run.
type Prediction struct {
	RowIndex         int
	ImagePath        string
	TrueGesture      string
	PredictedGesture string
	TrueFace         string
	PredictedFace    string
}

// RunRepository stores evaluation runs.
type RunRepository struct {
	db *sql.DB
}

// Runs returns the run repository for this store.
func (s *Store) Runs() *RunRepository {
	return &RunRepository{db: s.db}
}

const runColumns = `id, source, rows,
	gesture_accuracy, gesture_precision, gesture_recall, gesture_f1,
	face_accuracy, face_precision, face_recall, face_f1, created_at`

// Create inserts run and its predictions in one transaction. An empty ID is
// replaced with a new UUID.
func (r *RunRepository) Create(run *Run, preds []Prediction) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	run.CreatedAt = time.Now().UTC()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO evaluation_runs (`+runColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Rows,
		run.Gesture.Accuracy, run.Gesture.Precision, run.Gesture.Recall, run.Gesture.F1,
		run.Face.Accuracy, run.Face.Precision, run.Face.Recall, run.Face.F1,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO evaluation_predictions
		 (run_id, row_index, image_path, true_gesture, predicted_gesture, true_face, predicted_face)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare predictions: %w", err)
	}
	defer stmt.Close()

	for _, p := range preds {
		if _, err := stmt.Exec(run.ID, p.RowIndex, p.ImagePath,
			p.TrueGesture, p.PredictedGesture, p.TrueFace, p.PredictedFace); err != nil {
			return fmt.Errorf("insert prediction %d: %w", p.RowIndex, err)
		}
	}

	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	run := &Run{}
	err := s.Scan(&run.ID, &run.Source, &run.Rows,
		&run.Gesture.Accuracy, &run.Gesture.Precision, &run.Gesture.Recall, &run.Gesture.F1,
		&run.Face.Accuracy, &run.Face.Precision, &run.Face.Recall, &run.Face.F1,
		&run.CreatedAt)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetByID retrieves a run by its ID.
func (r *RunRepository) GetByID(id string) (*Run, error) {
	run, err := scanRun(r.db.QueryRow(
		`SELECT `+runColumns+` FROM evaluation_runs WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return run, nil
}

// List retrieves all runs, newest first.
func (r *RunRepository) List() ([]*Run, error) {
	rows, err := r.db.Query(
		`SELECT ` + runColumns + ` FROM evaluation_runs ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// Predictions returns a run's predictions in row order.
func (r *RunRepository) Predictions(runID string) ([]Prediction, error) {
	if _, err := r.GetByID(runID); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		`SELECT row_index, image_path, true_gesture, predicted_gesture, true_face, predicted_face
		 FROM evaluation_predictions WHERE run_id = ? ORDER BY row_index`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var preds []Prediction
	for rows.Next() {
		var p Prediction
		if err := rows.Scan(&p.RowIndex, &p.ImagePath,
			&p.TrueGesture, &p.PredictedGesture, &p.TrueFace, &p.PredictedFace); err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return preds, nil
}

// Delete removes a run and its predictions.
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM evaluation_runs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
