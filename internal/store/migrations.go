package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Activity summaries
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			source TEXT NOT NULL,
			start_time TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			distance REAL NOT NULL,
			elevation_gain REAL NOT NULL,
			elevation_loss REAL NOT NULL,
			average_speed REAL,
			max_speed REAL,
			average_heartrate REAL,
			max_heartrate INTEGER,
			min_heartrate INTEGER,
			average_cadence REAL,
			calories INTEGER,
			min_lat REAL NOT NULL,
			max_lat REAL NOT NULL,
			min_lon REAL NOT NULL,
			max_lon REAL NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_start_time ON activities(start_time)`,

		// Fused, resampled playback points
		`CREATE TABLE IF NOT EXISTS points (
			activity_id INTEGER NOT NULL,
			offset_ms INTEGER NOT NULL,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			elevation REAL,
			speed REAL,
			heartrate INTEGER,
			cadence INTEGER,
			grade REAL,
			distance REAL,
			temperature REAL,
			moving INTEGER NOT NULL,
			PRIMARY KEY (activity_id, offset_ms),
			FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_points_activity ON points(activity_id)`,

		// Lap splits
		`CREATE TABLE IF NOT EXISTS laps (
			activity_id INTEGER NOT NULL,
			number INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			distance REAL NOT NULL,
			pace_sec_per_mile REAL NOT NULL,
			ascent REAL NOT NULL,
			descent REAL NOT NULL,
			avg_heartrate REAL,
			max_heartrate INTEGER,
			avg_speed REAL,
			avg_temperature REAL,
			calories INTEGER,
			PRIMARY KEY (activity_id, number),
			FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}
