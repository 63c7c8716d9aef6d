package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"trailplay/internal/activity"
)

// jsonDocument is the portable JSON export shape. Optional metrics stay
// pointers so absent values serialize as null.
type jsonDocument struct {
	Name      string           `json:"name"`
	Source    string           `json:"source"`
	StartTime time.Time        `json:"start_time"`
	Summary   jsonSummary      `json:"summary"`
	Bounds    activity.Bounds  `json:"bounds"`
	Laps      []activity.Lap   `json:"laps,omitempty"`
	Points    []activity.Point `json:"points"`
}

type jsonSummary struct {
	DurationMs       int64    `json:"duration_ms"`
	DistanceM        float64  `json:"distance_m"`
	ElevationGainM   float64  `json:"elevation_gain_m"`
	ElevationLossM   float64  `json:"elevation_loss_m"`
	AverageSpeedMPS  *float64 `json:"average_speed_mps"`
	MaxSpeedMPS      *float64 `json:"max_speed_mps"`
	AverageHeartrate *float64 `json:"average_heartrate"`
	MaxHeartrate     *int     `json:"max_heartrate"`
	MinHeartrate     *int     `json:"min_heartrate"`
	AverageCadence   *float64 `json:"average_cadence"`
	Calories         *int     `json:"calories"`
}

// WriteJSON writes an activity as an indented JSON document.
func WriteJSON(act *activity.Activity, path string) error {
	doc := jsonDocument{
		Name:      act.Name,
		Source:    act.Source,
		StartTime: act.StartTime,
		Summary: jsonSummary{
			DurationMs:       act.Summary.Duration.Milliseconds(),
			DistanceM:        act.Summary.Distance,
			ElevationGainM:   act.Summary.ElevationGain,
			ElevationLossM:   act.Summary.ElevationLoss,
			AverageSpeedMPS:  act.Summary.AverageSpeed,
			MaxSpeedMPS:      act.Summary.MaxSpeed,
			AverageHeartrate: act.Summary.AverageHeartrate,
			MaxHeartrate:     act.Summary.MaxHeartrate,
			MinHeartrate:     act.Summary.MinHeartrate,
			AverageCadence:   act.Summary.AverageCadence,
			Calories:         act.Summary.Calories,
		},
		Bounds: act.Bounds,
		Laps:   act.Laps,
		Points: act.Points,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
