package suunto

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"trailplay/internal/activity"
	"trailplay/internal/units"
)

// ErrMissingHeader is returned when the export lacks the DeviceLog header.
var ErrMissingHeader = errors.New("suunto: export has no header")

// ErrNoSamples is returned when the export has no sample list.
var ErrNoSamples = errors.New("suunto: export has no samples")

// Options tune the decoder's down-sampling. The overlay intervals control
// how sparse the two fusion overlay series are kept; they match the
// sampling the journal's original uploads carried.
type Options struct {
	MetricInterval time.Duration // min spacing of the multi-metric series
	HRInterval     time.Duration // min spacing of the heart-rate series
	TrackCap       int           // max GPS points retained
}

// DefaultOptions returns the decoder defaults.
func DefaultOptions() Options {
	return Options{
		MetricInterval: 10 * time.Second,
		HRInterval:     30 * time.Second,
		TrackCap:       4000,
	}
}

// Decode parses a watch JSON export with default options.
func Decode(data []byte) (*Activity, error) {
	return DecodeWithOptions(data, DefaultOptions())
}

// DecodeWithOptions parses a watch JSON export. It fails on malformed
// JSON or a missing header/sample list; there is no partial recovery.
func DecodeWithOptions(data []byte, opts Options) (*Activity, error) {
	var exp export
	if err := json.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("parsing watch export: %w", err)
	}

	if exp.DeviceLog == nil || exp.DeviceLog.Header == nil {
		return nil, ErrMissingHeader
	}
	if len(exp.DeviceLog.Samples) == 0 {
		return nil, ErrNoSamples
	}

	samples := flatten(exp.DeviceLog.Samples)

	act := &Activity{
		Stats: buildStats(exp.DeviceLog.Header, samples),
		Zones: buildZones(exp.DeviceLog.Header.HrZones),
		Laps:  buildLaps(samples),
		Track: buildTrack(samples, opts.TrackCap),
	}
	act.Metrics = buildMetricSeries(samples, opts.MetricInterval)
	act.HR = buildHRSeries(samples, opts.HRInterval)

	return act, nil
}

// tick is one flattened sample with its resolved timestamp.
type tick struct {
	time    time.Time
	hasTime bool
	fields  *sampleFields
	isLap   bool
}

func flatten(wraps []sampleWrap) []tick {
	ticks := make([]tick, 0, len(wraps))
	for _, w := range wraps {
		if w.Attributes == nil || w.Attributes.Sample == nil {
			continue
		}
		raw := w.Attributes.Sample

		t := tick{fields: raw.Sample}
		for _, ev := range raw.Events {
			if ev.Lap != nil && ev.Lap.Type == "Lap" {
				t.isLap = true
			}
		}

		ts := w.TimeISO
		if raw.Sample != nil && raw.Sample.UTC != "" {
			ts = raw.Sample.UTC
		}
		if ts != "" {
			if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
				t.time = parsed
				t.hasTime = true
			}
		}

		ticks = append(ticks, t)
	}
	return ticks
}

func buildStats(h *header, ticks []tick) Stats {
	s := Stats{
		ActivityType:       h.ActivityType,
		DistanceMiles:      units.MilesFromMeters(h.Distance),
		Duration:           time.Duration(h.Duration * float64(time.Second)),
		AscentFeet:         units.MetersToFeet(h.Ascent),
		DescentFeet:        units.MetersToFeet(h.Descent),
		AscentTime:         time.Duration(h.AscentTime * float64(time.Second)),
		DescentTime:        time.Duration(h.DescentTime * float64(time.Second)),
		AltitudeMaxFeet:    units.MetersToFeet(h.AltitudeMax),
		AltitudeMinFeet:    units.MetersToFeet(h.AltitudeMin),
		Steps:              h.StepCount,
		Calories:           units.CaloriesFromJoules(h.Energy),
		MaxTemperature:     units.CelsiusFromKelvin(h.TemperatureMax),
		MinTemperature:     units.CelsiusFromKelvin(h.TemperatureMin),
		PeakTrainingEffect: h.PeakTrainingEffect,
		RecoveryTime:       h.RecoveryTime,
		EPOC:               h.EPOC,
		Feeling:            h.Feeling,
	}

	if start, err := time.Parse(time.RFC3339, h.DateTime); err == nil {
		s.StartTime = start
	}

	if h.HR != nil {
		if h.HR.Avg != nil {
			bpm := units.BPMFromHz(*h.HR.Avg)
			s.AvgHeartrate = &bpm
		}
		if h.HR.Max != nil {
			bpm := units.BPMFromHz(*h.HR.Max)
			s.MaxHeartrate = &bpm
		}
	}

	// Speed and pace come from the samples, filtered to strictly
	// positive readings; the header carries no reliable max.
	var sum, maxSpeed float64
	var n int
	for _, t := range ticks {
		if t.fields == nil || t.fields.Speed == nil || *t.fields.Speed <= 0 {
			continue
		}
		sum += *t.fields.Speed
		n++
		if *t.fields.Speed > maxSpeed {
			maxSpeed = *t.fields.Speed
		}
	}
	if n > 0 {
		avg := sum / float64(n)
		s.AvgSpeedMph = units.MphFromMps(avg)
		s.MaxSpeedMph = units.MphFromMps(maxSpeed)
		if avg > 0 {
			s.PaceSecPerMile = units.MetersPerMile / avg
		}
	}

	// Temperature stats prefer per-sample readings and fall back to the
	// header min/max when the watch logged none.
	var tempSum, tempMax, tempMin float64
	var tempN int
	for _, t := range ticks {
		if t.fields == nil || t.fields.Temperature == nil {
			continue
		}
		c := units.CelsiusFromKelvin(*t.fields.Temperature)
		if tempN == 0 {
			tempMax, tempMin = c, c
		} else {
			tempMax = math.Max(tempMax, c)
			tempMin = math.Min(tempMin, c)
		}
		tempSum += c
		tempN++
	}
	if tempN > 0 {
		avg := tempSum / float64(tempN)
		s.AvgTemperature = &avg
		s.MaxTemperature = tempMax
		s.MinTemperature = tempMin
	}

	return s
}

func buildZones(z *hrZones) []Zone {
	if z == nil {
		return nil
	}

	durations := []float64{
		z.Zone1Duration, z.Zone2Duration, z.Zone3Duration,
		z.Zone4Duration, z.Zone5Duration,
	}
	limits := []float64{
		z.Zone1LowerLimit, z.Zone2LowerLimit, z.Zone3LowerLimit,
		z.Zone4LowerLimit, z.Zone5LowerLimit,
	}

	var total float64
	for _, d := range durations {
		total += d
	}

	zones := make([]Zone, len(durations))
	for i, d := range durations {
		pct := 0.0
		if total > 0 {
			pct = d / total * 100
		}
		zones[i] = Zone{
			Zone:          i + 1,
			LowerLimitBPM: int(math.Round(limits[i])),
			Duration:      time.Duration(d * float64(time.Second)),
			Percent:       pct,
		}
	}
	return zones
}

// lapAccum tracks running totals between lap markers.
type lapAccum struct {
	start        time.Time
	hasStart     bool
	startDist    *float64
	startEnergy  *float64
	lastAltitude *float64
	ascent       float64
	descent      float64
	hrSum        float64
	hrN          int
	hrMax        int
	speedSum     float64
	speedN       int
	tempSum      float64
	tempN        int
}

func buildLaps(ticks []tick) []activity.Lap {
	var laps []activity.Lap
	var acc lapAccum
	var lastDist, lastEnergy *float64

	for _, t := range ticks {
		if t.fields != nil {
			if !acc.hasStart && t.hasTime {
				acc.start = t.time
				acc.hasStart = true
			}
			if t.fields.Distance != nil {
				if acc.startDist == nil {
					acc.startDist = t.fields.Distance
				}
				lastDist = t.fields.Distance
			}
			if t.fields.EnergyConsumption != nil {
				if acc.startEnergy == nil {
					acc.startEnergy = t.fields.EnergyConsumption
				}
				lastEnergy = t.fields.EnergyConsumption
			}
			if alt := t.fields.Altitude; alt != nil {
				if acc.lastAltitude != nil {
					delta := *alt - *acc.lastAltitude
					if delta > 0 {
						acc.ascent += delta
					} else {
						acc.descent += -delta
					}
				}
				acc.lastAltitude = alt
			}
			if t.fields.HR != nil {
				bpm := units.BPMFromHz(*t.fields.HR)
				acc.hrSum += float64(bpm)
				acc.hrN++
				if bpm > acc.hrMax {
					acc.hrMax = bpm
				}
			}
			if t.fields.Speed != nil && *t.fields.Speed > 0 {
				acc.speedSum += *t.fields.Speed
				acc.speedN++
			}
			if t.fields.Temperature != nil {
				acc.tempSum += units.CelsiusFromKelvin(*t.fields.Temperature)
				acc.tempN++
			}
		}

		if !t.isLap {
			continue
		}

		lap := activity.Lap{Number: len(laps) + 1}

		if acc.hasStart && t.hasTime {
			lap.Duration = t.time.Sub(acc.start)
		}
		if acc.startDist != nil && lastDist != nil {
			lap.Distance = *lastDist - *acc.startDist
		}
		lap.PaceSecPerMile = units.PaceSecPerMile(lap.Distance, lap.Duration.Seconds())
		lap.Ascent = acc.ascent
		lap.Descent = acc.descent
		if acc.hrN > 0 {
			avg := acc.hrSum / float64(acc.hrN)
			lap.AvgHeartrate = &avg
			maxHR := acc.hrMax
			lap.MaxHeartrate = &maxHR
		}
		if acc.speedN > 0 {
			avg := acc.speedSum / float64(acc.speedN)
			lap.AvgSpeed = &avg
		}
		if acc.tempN > 0 {
			avg := acc.tempSum / float64(acc.tempN)
			lap.AvgTemperature = &avg
		}
		if acc.startEnergy != nil && lastEnergy != nil {
			cal := units.CaloriesFromJoules(*lastEnergy - *acc.startEnergy)
			lap.Calories = &cal
		}

		laps = append(laps, lap)

		// Reset for the next split, carrying the boundary values forward.
		acc = lapAccum{
			start:        t.time,
			hasStart:     t.hasTime,
			startDist:    lastDist,
			startEnergy:  lastEnergy,
			lastAltitude: acc.lastAltitude,
		}
	}

	return laps
}

func buildTrack(ticks []tick, limit int) []activity.TrackPoint {
	var track []activity.TrackPoint
	for _, t := range ticks {
		f := t.fields
		if f == nil || f.Latitude == nil || f.Longitude == nil || !t.hasTime {
			continue
		}
		p := activity.TrackPoint{
			Lat: units.DegreesFromRadians(*f.Latitude),
			Lon: units.DegreesFromRadians(*f.Longitude),
		}
		ts := t.time
		p.Time = &ts
		if f.GPSAltitude != nil {
			alt := *f.GPSAltitude
			p.Elevation = &alt
		}
		track = append(track, p)
	}

	// Subsample by stride when the track exceeds the cap, always keeping
	// the final point.
	if limit > 0 && len(track) > limit {
		stride := (len(track) + limit - 1) / limit
		kept := make([]activity.TrackPoint, 0, limit)
		for i := 0; i < len(track); i += stride {
			kept = append(kept, track[i])
		}
		if last := track[len(track)-1]; len(kept) == 0 || kept[len(kept)-1] != last {
			kept = append(kept, last)
		}
		track = kept
	}

	return track
}

func buildMetricSeries(ticks []tick, interval time.Duration) []MetricSample {
	var series []MetricSample
	var lastKept time.Time
	for _, t := range ticks {
		f := t.fields
		if f == nil || !t.hasTime {
			continue
		}
		if f.Speed == nil && f.Cadence == nil && f.Altitude == nil && f.Temperature == nil {
			continue
		}
		if len(series) > 0 && t.time.Sub(lastKept) < interval {
			continue
		}

		m := MetricSample{Time: t.time}
		if f.Speed != nil {
			v := *f.Speed
			m.Speed = &v
		}
		if f.Cadence != nil {
			spm := units.BPMFromHz(*f.Cadence)
			m.Cadence = &spm
		}
		if f.Altitude != nil {
			v := *f.Altitude
			m.Altitude = &v
		}
		if f.Temperature != nil {
			c := units.CelsiusFromKelvin(*f.Temperature)
			m.Temperature = &c
		}

		series = append(series, m)
		lastKept = t.time
	}
	return series
}

func buildHRSeries(ticks []tick, interval time.Duration) []HRSample {
	var series []HRSample
	var lastKept time.Time
	for _, t := range ticks {
		f := t.fields
		if f == nil || f.HR == nil || !t.hasTime {
			continue
		}
		if len(series) > 0 && t.time.Sub(lastKept) < interval {
			continue
		}
		series = append(series, HRSample{Time: t.time, BPM: units.BPMFromHz(*f.HR)})
		lastKept = t.time
	}
	return series
}
