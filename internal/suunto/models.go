package suunto

import (
	"time"

	"trailplay/internal/activity"
)

// export mirrors the top level of a watch JSON dump.
type export struct {
	DeviceLog *deviceLog `json:"DeviceLog"`
}

type deviceLog struct {
	Header  *header      `json:"Header"`
	Samples []sampleWrap `json:"Samples"`
}

// header is the per-activity summary block. Distances are meters, times
// seconds, temperatures Kelvin, energy joules, heart rates Hz.
type header struct {
	ActivityType       int       `json:"ActivityType"`
	DateTime           string    `json:"DateTime"`
	Distance           float64   `json:"Distance"`
	Duration           float64   `json:"Duration"`
	Ascent             float64   `json:"Ascent"`
	Descent            float64   `json:"Descent"`
	AscentTime         float64   `json:"AscentTime"`
	DescentTime        float64   `json:"DescentTime"`
	AltitudeMax        float64   `json:"AltitudeMax"`
	AltitudeMin        float64   `json:"AltitudeMin"`
	StepCount          int       `json:"StepCount"`
	Energy             float64   `json:"Energy"`
	HR                 *headerHR `json:"HR"`
	HrZones            *hrZones  `json:"HrZones"`
	TemperatureMax     float64   `json:"TemperatureMax"`
	TemperatureMin     float64   `json:"TemperatureMin"`
	PeakTrainingEffect *float64  `json:"PeakTrainingEffect"`
	RecoveryTime       *float64  `json:"RecoveryTime"`
	EPOC               *float64  `json:"EPOC"`
	Feeling            *int      `json:"Feeling"`
}

type headerHR struct {
	Avg *float64 `json:"Avg"` // Hz
	Max *float64 `json:"Max"` // Hz
}

// hrZones carries the five-zone duration histogram and each zone's lower
// bpm limit.
type hrZones struct {
	Zone1Duration   float64 `json:"Zone1Duration"`
	Zone2Duration   float64 `json:"Zone2Duration"`
	Zone3Duration   float64 `json:"Zone3Duration"`
	Zone4Duration   float64 `json:"Zone4Duration"`
	Zone5Duration   float64 `json:"Zone5Duration"`
	Zone1LowerLimit float64 `json:"Zone1LowerLimit"`
	Zone2LowerLimit float64 `json:"Zone2LowerLimit"`
	Zone3LowerLimit float64 `json:"Zone3LowerLimit"`
	Zone4LowerLimit float64 `json:"Zone4LowerLimit"`
	Zone5LowerLimit float64 `json:"Zone5LowerLimit"`
}

type sampleWrap struct {
	Attributes *sampleAttributes `json:"Attributes"`
	TimeISO    string            `json:"TimeISO8601"`
}

type sampleAttributes struct {
	Sample *rawSample `json:"suunto/sml"`
}

// rawSample is one raw tick. Every sensor field is optional; the watch
// writes each sub-stream at its own rate.
type rawSample struct {
	Sample *sampleFields `json:"Sample"`
	Events []event       `json:"Events"`
}

type sampleFields struct {
	UTC               string   `json:"UTC"`
	HR                *float64 `json:"HR"`        // Hz
	Latitude          *float64 `json:"Latitude"`  // radians
	Longitude         *float64 `json:"Longitude"` // radians
	GPSAltitude       *float64 `json:"GPSAltitude"`
	Altitude          *float64 `json:"Altitude"`    // barometric
	Speed             *float64 `json:"Speed"`       // m/s
	Cadence           *float64 `json:"Cadence"`     // Hz
	Temperature       *float64 `json:"Temperature"` // Kelvin
	Distance          *float64 `json:"Distance"`    // cumulative meters
	VerticalSpeed     *float64 `json:"VerticalSpeed"`
	EnergyConsumption *float64 `json:"EnergyConsumption"`
	AbsPressure       *float64 `json:"AbsPressure"`
}

type event struct {
	Lap *lapEvent `json:"Lap"`
}

type lapEvent struct {
	Type string `json:"Type"`
}

// Stats holds the header-derived display statistics in US customary
// units, the way the journal's stat panels present them.
type Stats struct {
	ActivityType    int
	StartTime       time.Time
	DistanceMiles   float64
	Duration        time.Duration
	AscentFeet      float64
	DescentFeet     float64
	AscentTime      time.Duration
	DescentTime     time.Duration
	AltitudeMaxFeet float64
	AltitudeMinFeet float64
	Steps           int
	Calories        int

	AvgHeartrate *int // bpm
	MaxHeartrate *int // bpm

	AvgSpeedMph    float64
	MaxSpeedMph    float64
	PaceSecPerMile float64

	AvgTemperature *float64 // celsius
	MaxTemperature float64  // celsius
	MinTemperature float64  // celsius

	PeakTrainingEffect *float64
	RecoveryTime       *float64
	EPOC               *float64
	Feeling            *int
}

// Zone is one band of the five-zone heart-rate histogram.
type Zone struct {
	Zone          int
	LowerLimitBPM int
	Duration      time.Duration
	Percent       float64
}

// MetricSample is one entry of the down-sampled multi-metric overlay
// series used during fusion.
type MetricSample struct {
	Time        time.Time
	Speed       *float64 // m/s
	Cadence     *int     // spm, converted from Hz
	Altitude    *float64 // meters
	Temperature *float64 // celsius
}

// HRSample is one entry of the down-sampled heart-rate overlay series.
type HRSample struct {
	Time time.Time
	BPM  int
}

// Activity is the decoder's full output: display stats plus the three
// asynchronous raw series that feed stream fusion.
type Activity struct {
	Stats   Stats
	Zones   []Zone
	Laps    []activity.Lap
	Track   []activity.TrackPoint
	Metrics []MetricSample
	HR      []HRSample
}
