package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"trailplay/internal/activity"
)

// SaveActivity inserts an activity with its points and laps in one
// transaction and returns the new row id.
func (s *Store) SaveActivity(a *activity.Activity) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO activities (
			name, source, start_time, duration_ms, distance,
			elevation_gain, elevation_loss,
			average_speed, max_speed,
			average_heartrate, max_heartrate, min_heartrate,
			average_cadence, calories,
			min_lat, max_lat, min_lon, max_lon
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Name, a.Source, a.StartTime.UTC().Format(time.RFC3339),
		a.Summary.Duration.Milliseconds(), a.Summary.Distance,
		a.Summary.ElevationGain, a.Summary.ElevationLoss,
		toNullFloat(a.Summary.AverageSpeed), toNullFloat(a.Summary.MaxSpeed),
		toNullFloat(a.Summary.AverageHeartrate),
		toNullInt(a.Summary.MaxHeartrate), toNullInt(a.Summary.MinHeartrate),
		toNullFloat(a.Summary.AverageCadence), toNullInt(a.Summary.Calories),
		a.Bounds.MinLat, a.Bounds.MaxLat, a.Bounds.MinLon, a.Bounds.MaxLon,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting activity: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := insertPoints(tx, id, a.Points); err != nil {
		return 0, err
	}
	if err := insertLaps(tx, id, a.Laps); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing activity: %w", err)
	}
	return id, nil
}

// ListActivities returns library rows ordered most recent first.
func (s *Store) ListActivities() ([]ActivityRow, error) {
	rows, err := s.db.Query(`
		SELECT id, name, source, start_time, duration_ms, distance
		FROM activities
		ORDER BY start_time DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []ActivityRow
	for rows.Next() {
		var r ActivityRow
		var startTime string
		var durationMs int64
		if err := rows.Scan(&r.ID, &r.Name, &r.Source, &startTime, &durationMs, &r.Distance); err != nil {
			return nil, err
		}
		r.StartTime, err = time.Parse(time.RFC3339, startTime)
		if err != nil {
			return nil, fmt.Errorf("parsing start time: %w", err)
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		list = append(list, r)
	}
	return list, rows.Err()
}

// GetActivity loads a full activity including its points and laps.
func (s *Store) GetActivity(id int64) (*activity.Activity, error) {
	var a activity.Activity
	var startTime string
	var durationMs int64
	var avgSpeed, maxSpeed, avgHR, avgCadence sql.NullFloat64
	var maxHR, minHR, calories sql.NullInt64

	err := s.db.QueryRow(`
		SELECT name, source, start_time, duration_ms, distance,
			elevation_gain, elevation_loss,
			average_speed, max_speed,
			average_heartrate, max_heartrate, min_heartrate,
			average_cadence, calories,
			min_lat, max_lat, min_lon, max_lon
		FROM activities WHERE id = ?`, id).Scan(
		&a.Name, &a.Source, &startTime, &durationMs, &a.Summary.Distance,
		&a.Summary.ElevationGain, &a.Summary.ElevationLoss,
		&avgSpeed, &maxSpeed,
		&avgHR, &maxHR, &minHR,
		&avgCadence, &calories,
		&a.Bounds.MinLat, &a.Bounds.MaxLat, &a.Bounds.MinLon, &a.Bounds.MaxLon,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}

	a.StartTime, err = time.Parse(time.RFC3339, startTime)
	if err != nil {
		return nil, fmt.Errorf("parsing start time: %w", err)
	}
	a.Summary.Duration = time.Duration(durationMs) * time.Millisecond
	a.Summary.AverageSpeed = fromNullFloat(avgSpeed)
	a.Summary.MaxSpeed = fromNullFloat(maxSpeed)
	a.Summary.AverageHeartrate = fromNullFloat(avgHR)
	a.Summary.MaxHeartrate = fromNullInt(maxHR)
	a.Summary.MinHeartrate = fromNullInt(minHR)
	a.Summary.AverageCadence = fromNullFloat(avgCadence)
	a.Summary.Calories = fromNullInt(calories)

	a.Points, err = s.getPoints(id)
	if err != nil {
		return nil, err
	}
	a.Laps, err = s.getLaps(id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteActivity removes an activity; points and laps cascade.
func (s *Store) DeleteActivity(id int64) error {
	result, err := s.db.Exec(`DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrActivityNotFound
	}
	return nil
}
