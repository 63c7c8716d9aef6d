package fusion

import (
	"errors"
	"math"
	"time"

	"trailplay/internal/activity"
	"trailplay/internal/geo"
	"trailplay/internal/suunto"
)

// ErrNoPosition is returned when a source yields no positioned points to
// build the fused stream's spine from.
var ErrNoPosition = errors.New("fusion: no positioned points")

// Options carry the fusion tuning parameters. The defaults mirror the
// values the journal has always used; they are parameters rather than
// constants because the two overlay tolerances are sensor-specific.
type Options struct {
	// MetricWindow is the maximum offset, tried in increasing absolute
	// order, when matching a multi-metric overlay sample to a GPS point.
	MetricWindow time.Duration
	// HRTolerance is the wider acceptance window for heart-rate matches.
	// HR sampling is coarser and phase-independent of GPS, so it gets
	// its own tolerance.
	HRTolerance time.Duration
	// MovingThreshold is the speed in m/s below which a defined GPS
	// speed is treated as stopped. Below this floor GPS speed is noise.
	MovingThreshold float64
	// SmoothWindow is the elevation moving-average width.
	SmoothWindow int
	// EstimatedWalkSpeed, in m/s, synthesizes timestamps for track files
	// that carry none. Playback timing only, never presented as pace.
	EstimatedWalkSpeed float64
}

// DefaultOptions returns the standard fusion parameters.
func DefaultOptions() Options {
	return Options{
		MetricWindow:       5 * time.Second,
		HRTolerance:        60 * time.Second,
		MovingThreshold:    0.3,
		SmoothWindow:       5,
		EstimatedWalkSpeed: 1.34, // ~3 mph
	}
}

// FromSuunto fuses a vendor decoder output into one playback-ready
// activity. The GPS track is the spine; the two overlay series are
// matched onto it by nearest timestamp, each with its own tolerance.
func FromSuunto(src *suunto.Activity, opts Options) (*activity.Activity, error) {
	// The spine needs at least one timed fix to anchor offsets to.
	var start time.Time
	anchored := false
	for _, tp := range src.Track {
		if tp.Time != nil {
			start = *tp.Time
			anchored = true
			break
		}
	}
	if !anchored {
		return nil, ErrNoPosition
	}

	metricIndex := indexMetrics(src.Metrics, start)

	points := make([]activity.Point, 0, len(src.Track))
	for _, tp := range src.Track {
		if tp.Time == nil {
			continue
		}
		p := activity.Point{
			OffsetMs:  tp.Time.Sub(start).Milliseconds(),
			Lat:       tp.Lat,
			Lon:       tp.Lon,
			Elevation: tp.Elevation,
		}

		if m := nearestMetric(metricIndex, p.OffsetMs, opts.MetricWindow); m != nil {
			if m.Speed != nil {
				v := *m.Speed
				p.Speed = &v
			}
			if m.Cadence != nil {
				v := *m.Cadence
				p.Cadence = &v
			}
			if m.Altitude != nil {
				v := *m.Altitude
				p.Elevation = &v
			}
			if m.Temperature != nil {
				v := *m.Temperature
				p.Temperature = &v
			}
		}

		if bpm, ok := nearestHR(src.HR, *tp.Time, opts.HRTolerance); ok {
			p.Heartrate = &bpm
		}

		points = append(points, p)
	}

	if len(points) == 0 {
		return nil, ErrNoPosition
	}

	accumulateDistance(points)
	deriveSpeed(points)
	SmoothElevation(points, opts.SmoothWindow)
	deriveGrade(points)
	markMoving(points, opts.MovingThreshold)

	act := &activity.Activity{
		Source:    "suunto",
		StartTime: start,
		Points:    points,
		Summary:   Summarize(points),
		Bounds:    BoundsOf(points),
		Laps:      src.Laps,
	}
	cal := src.Stats.Calories
	act.Summary.Calories = &cal
	return act, nil
}

// FromTrack fuses a plain track-point series (GPX, FIT). When no point
// carries a timestamp, offsets are synthesized from cumulative distance
// at a constant walking speed so playback still advances.
func FromTrack(track []activity.TrackPoint, opts Options) (*activity.Activity, error) {
	if len(track) == 0 {
		return nil, ErrNoPosition
	}

	timed := true
	for _, tp := range track {
		if tp.Time == nil {
			timed = false
			break
		}
	}

	points := make([]activity.Point, 0, len(track))
	for _, tp := range track {
		points = append(points, activity.Point{
			Lat:       tp.Lat,
			Lon:       tp.Lon,
			Elevation: tp.Elevation,
		})
	}

	accumulateDistance(points)

	var start time.Time
	if timed {
		start = *track[0].Time
		for i, tp := range track {
			points[i].OffsetMs = tp.Time.Sub(start).Milliseconds()
		}
		deriveSpeed(points)
	} else if opts.EstimatedWalkSpeed > 0 {
		for i := range points {
			points[i].OffsetMs = int64(*points[i].Distance / opts.EstimatedWalkSpeed * 1000)
		}
	}

	SmoothElevation(points, opts.SmoothWindow)
	deriveGrade(points)
	markMoving(points, opts.MovingThreshold)

	return &activity.Activity{
		Source:    "track",
		StartTime: start,
		Points:    points,
		Summary:   Summarize(points),
		Bounds:    BoundsOf(points),
	}, nil
}

// indexMetrics keys the overlay series by whole seconds of offset from
// the spine's start.
func indexMetrics(series []suunto.MetricSample, start time.Time) map[int64]*suunto.MetricSample {
	idx := make(map[int64]*suunto.MetricSample, len(series))
	for i := range series {
		sec := int64(math.Round(series[i].Time.Sub(start).Seconds()))
		if _, taken := idx[sec]; !taken {
			idx[sec] = &series[i]
		}
	}
	return idx
}

// nearestMetric probes the overlay index at increasing absolute offsets
// (0, +1, -1, ...) until the window is exhausted.
func nearestMetric(idx map[int64]*suunto.MetricSample, offsetMs int64, window time.Duration) *suunto.MetricSample {
	sec := int64(math.Round(float64(offsetMs) / 1000))
	maxOff := int64(window / time.Second)
	for d := int64(0); d <= maxOff; d++ {
		if m, ok := idx[sec+d]; ok {
			return m
		}
		if d > 0 {
			if m, ok := idx[sec-d]; ok {
				return m
			}
		}
	}
	return nil
}

// nearestHR binary-searches the heart-rate series for the sample closest
// to t, accepting it only within the tolerance.
func nearestHR(series []suunto.HRSample, t time.Time, tolerance time.Duration) (int, bool) {
	if len(series) == 0 {
		return 0, false
	}

	lo, hi := 0, len(series)
	for lo < hi {
		mid := (lo + hi) / 2
		if series[mid].Time.Before(t) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	best := -1
	var bestDiff time.Duration
	for _, i := range []int{lo - 1, lo} {
		if i < 0 || i >= len(series) {
			continue
		}
		diff := series[i].Time.Sub(t)
		if diff < 0 {
			diff = -diff
		}
		if best == -1 || diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}

	if best == -1 || bestDiff > tolerance {
		return 0, false
	}
	return series[best].BPM, true
}

// accumulateDistance recomputes cumulative distance over consecutive
// positions. Raw distance fields are never trusted; the incremental
// haversine sum is monotone by construction.
func accumulateDistance(points []activity.Point) {
	var total float64
	for i := range points {
		if i > 0 {
			total += geo.HaversineDistance(
				points[i-1].Lat, points[i-1].Lon,
				points[i].Lat, points[i].Lon,
			)
		}
		d := total
		points[i].Distance = &d
	}
}

// deriveSpeed fills absent speeds from cumulative-distance deltas over
// elapsed-time deltas. A non-positive elapsed time leaves speed absent.
func deriveSpeed(points []activity.Point) {
	for i := 1; i < len(points); i++ {
		if points[i].Speed != nil {
			continue
		}
		elapsed := float64(points[i].OffsetMs-points[i-1].OffsetMs) / 1000
		if elapsed <= 0 {
			continue
		}
		v := (*points[i].Distance - *points[i-1].Distance) / elapsed
		points[i].Speed = &v
	}
}

// deriveGrade computes percent slope from smoothed elevation over the
// horizontal distance between consecutive points.
func deriveGrade(points []activity.Point) {
	for i := 1; i < len(points); i++ {
		if points[i].Elevation == nil || points[i-1].Elevation == nil {
			continue
		}
		run := *points[i].Distance - *points[i-1].Distance
		if run <= 0 {
			continue
		}
		g := (*points[i].Elevation - *points[i-1].Elevation) / run * 100
		points[i].Grade = &g
	}
}

// markMoving flags each point as moving unless its speed is defined and
// below the threshold.
func markMoving(points []activity.Point, threshold float64) {
	for i := range points {
		points[i].Moving = points[i].Speed == nil || *points[i].Speed >= threshold
	}
}
