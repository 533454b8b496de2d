package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS evaluation_runs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			rows INTEGER NOT NULL,
			gesture_accuracy REAL NOT NULL,
			gesture_precision REAL NOT NULL,
			gesture_recall REAL NOT NULL,
			gesture_f1 REAL NOT NULL,
			face_accuracy REAL NOT NULL,
			face_precision REAL NOT NULL,
			face_recall REAL NOT NULL,
			face_f1 REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// One row per evaluated image
		`CREATE TABLE IF NOT EXISTS evaluation_predictions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES evaluation_runs(id) ON DELETE CASCADE,
			row_index INTEGER NOT NULL,
			image_path TEXT NOT NULL,
			true_gesture TEXT NOT NULL,
			predicted_gesture TEXT NOT NULL,
			true_face TEXT NOT NULL,
			predicted_face TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_evaluation_predictions_run_id ON evaluation_predictions(run_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
