package activity

import "time"

// TrackPoint is a raw positioned sample as produced by a track decoder
// (GPX, FIT) or by the vendor decoder's GPS series. Elevation and Time
// are optional; position is not.
type TrackPoint struct {
	Lat       float64
	Lon       float64
	Elevation *float64 // meters
	Time      *time.Time
}

// Point is one row of the fused, time-ordered stream. Position is always
// present; every other metric is best-effort. OffsetMs is milliseconds
// from the first point and is non-decreasing along a sequence.
type Point struct {
	OffsetMs    int64    `json:"offset_ms"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Elevation   *float64 `json:"elevation"`   // meters
	Speed       *float64 `json:"speed"`       // m/s
	Heartrate   *int     `json:"heartrate"`   // bpm
	Cadence     *int     `json:"cadence"`     // spm
	Grade       *float64 `json:"grade"`       // percent
	Distance    *float64 `json:"distance"`    // cumulative meters
	Temperature *float64 `json:"temperature"` // celsius
	Moving      bool     `json:"moving"`
}

// Bounds is the geographic bounding box of a fused sequence.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Summary holds aggregate totals derived once from a fused sequence.
type Summary struct {
	Duration         time.Duration
	Distance         float64 // meters
	ElevationGain    float64 // meters
	ElevationLoss    float64 // meters
	AverageSpeed     *float64
	MaxSpeed         *float64
	AverageHeartrate *float64
	MaxHeartrate     *int
	MinHeartrate     *int
	AverageCadence   *float64
	Calories         *int
}

// Lap is one split between consecutive lap markers. Laps are display-only
// and independent of the fused sequence.
type Lap struct {
	Number         int           `json:"number"`
	Duration       time.Duration `json:"duration"`
	Distance       float64       `json:"distance"`          // meters
	PaceSecPerMile float64       `json:"pace_sec_per_mile"` // 0 when distance is 0
	Ascent         float64       `json:"ascent"`            // meters
	Descent        float64       `json:"descent"`           // meters
	AvgHeartrate   *float64      `json:"avg_heartrate"`
	MaxHeartrate   *int          `json:"max_heartrate"`
	AvgSpeed       *float64      `json:"avg_speed"`       // m/s
	AvgTemperature *float64      `json:"avg_temperature"` // celsius
	Calories       *int          `json:"calories"`
}

// Activity is the playback-ready representation of one outdoor activity:
// the fused point sequence plus its derived summary and bounds. Built once
// per source file and immutable afterwards.
type Activity struct {
	Name      string
	Source    string // "suunto", "gpx", or "fit"
	StartTime time.Time
	Points    []Point
	Summary   Summary
	Bounds    Bounds
	Laps      []Lap
}
