package store

import (
	"database/sql"
	"fmt"
	"time"

	"trailplay/internal/activity"
)

func insertPoints(tx *sql.Tx, activityID int64, points []activity.Point) error {
	stmt, err := tx.Prepare(`
		INSERT INTO points (
			activity_id, offset_ms, lat, lon, elevation, speed,
			heartrate, cadence, grade, distance, temperature, moving
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing point insert: %w", err)
	}
	defer stmt.Close()

	for i := range points {
		p := &points[i]
		_, err := stmt.Exec(
			activityID, p.OffsetMs, p.Lat, p.Lon,
			toNullFloat(p.Elevation), toNullFloat(p.Speed),
			toNullInt(p.Heartrate), toNullInt(p.Cadence),
			toNullFloat(p.Grade), toNullFloat(p.Distance),
			toNullFloat(p.Temperature), p.Moving,
		)
		if err != nil {
			return fmt.Errorf("inserting point at %dms: %w", p.OffsetMs, err)
		}
	}
	return nil
}

func (s *Store) getPoints(activityID int64) ([]activity.Point, error) {
	rows, err := s.db.Query(`
		SELECT offset_ms, lat, lon, elevation, speed,
			heartrate, cadence, grade, distance, temperature, moving
		FROM points
		WHERE activity_id = ?
		ORDER BY offset_ms`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []activity.Point
	for rows.Next() {
		var p activity.Point
		var elevation, speed, grade, distance, temperature sql.NullFloat64
		var heartrate, cadence sql.NullInt64
		err := rows.Scan(
			&p.OffsetMs, &p.Lat, &p.Lon, &elevation, &speed,
			&heartrate, &cadence, &grade, &distance, &temperature, &p.Moving,
		)
		if err != nil {
			return nil, err
		}
		p.Elevation = fromNullFloat(elevation)
		p.Speed = fromNullFloat(speed)
		p.Heartrate = fromNullInt(heartrate)
		p.Cadence = fromNullInt(cadence)
		p.Grade = fromNullFloat(grade)
		p.Distance = fromNullFloat(distance)
		p.Temperature = fromNullFloat(temperature)
		points = append(points, p)
	}
	return points, rows.Err()
}

func insertLaps(tx *sql.Tx, activityID int64, laps []activity.Lap) error {
	for _, l := range laps {
		_, err := tx.Exec(`
			INSERT INTO laps (
				activity_id, number, duration_ms, distance, pace_sec_per_mile,
				ascent, descent, avg_heartrate, max_heartrate,
				avg_speed, avg_temperature, calories
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			activityID, l.Number, l.Duration.Milliseconds(), l.Distance,
			l.PaceSecPerMile, l.Ascent, l.Descent,
			toNullFloat(l.AvgHeartrate), toNullInt(l.MaxHeartrate),
			toNullFloat(l.AvgSpeed), toNullFloat(l.AvgTemperature),
			toNullInt(l.Calories),
		)
		if err != nil {
			return fmt.Errorf("inserting lap %d: %w", l.Number, err)
		}
	}
	return nil
}

func (s *Store) getLaps(activityID int64) ([]activity.Lap, error) {
	rows, err := s.db.Query(`
		SELECT number, duration_ms, distance, pace_sec_per_mile,
			ascent, descent, avg_heartrate, max_heartrate,
			avg_speed, avg_temperature, calories
		FROM laps
		WHERE activity_id = ?
		ORDER BY number`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var laps []activity.Lap
	for rows.Next() {
		var l activity.Lap
		var durationMs int64
		var avgHR, avgSpeed, avgTemp sql.NullFloat64
		var maxHR, calories sql.NullInt64
		err := rows.Scan(
			&l.Number, &durationMs, &l.Distance, &l.PaceSecPerMile,
			&l.Ascent, &l.Descent, &avgHR, &maxHR,
			&avgSpeed, &avgTemp, &calories,
		)
		if err != nil {
			return nil, err
		}
		l.Duration = time.Duration(durationMs) * time.Millisecond
		l.AvgHeartrate = fromNullFloat(avgHR)
		l.MaxHeartrate = fromNullInt(maxHR)
		l.AvgSpeed = fromNullFloat(avgSpeed)
		l.AvgTemperature = fromNullFloat(avgTemp)
		l.Calories = fromNullInt(calories)
		laps = append(laps, l)
	}
	return laps, rows.Err()
}
