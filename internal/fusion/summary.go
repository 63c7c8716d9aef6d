package fusion

import (
	"time"

	"trailplay/internal/activity"
)

// Summarize computes the aggregate figures for a fused point sequence in
// a single pass. Optional metrics that never appear stay nil rather than
// zero so the display layer can tell "no sensor" from "no effort".
func Summarize(points []activity.Point) activity.Summary {
	var s activity.Summary
	if len(points) == 0 {
		return s
	}

	s.Duration = time.Duration(points[len(points)-1].OffsetMs) * time.Millisecond
	if d := points[len(points)-1].Distance; d != nil {
		s.Distance = *d
	}

	var speedSum, maxSpeed float64
	var speedN int
	var hrSum, hrN int
	var cadenceSum, cadenceN int
	var prevElev *float64

	for i := range points {
		p := &points[i]

		if p.Elevation != nil {
			if prevElev != nil {
				delta := *p.Elevation - *prevElev
				if delta > 0 {
					s.ElevationGain += delta
				} else {
					s.ElevationLoss += -delta
				}
			}
			prevElev = p.Elevation
		}

		if p.Speed != nil {
			speedSum += *p.Speed
			speedN++
			if *p.Speed > maxSpeed {
				maxSpeed = *p.Speed
			}
		}

		if p.Heartrate != nil {
			hrSum += *p.Heartrate
			hrN++
			if s.MaxHeartrate == nil || *p.Heartrate > *s.MaxHeartrate {
				v := *p.Heartrate
				s.MaxHeartrate = &v
			}
			if s.MinHeartrate == nil || *p.Heartrate < *s.MinHeartrate {
				v := *p.Heartrate
				s.MinHeartrate = &v
			}
		}

		if p.Cadence != nil {
			cadenceSum += *p.Cadence
			cadenceN++
		}
	}

	if speedN > 0 {
		avg := speedSum / float64(speedN)
		s.AverageSpeed = &avg
		s.MaxSpeed = &maxSpeed
	}
	if hrN > 0 {
		avg := float64(hrSum) / float64(hrN)
		s.AverageHeartrate = &avg
	}
	if cadenceN > 0 {
		avg := float64(cadenceSum) / float64(cadenceN)
		s.AverageCadence = &avg
	}
	return s
}

// BoundsOf returns the bounding box of the sequence's positions.
func BoundsOf(points []activity.Point) activity.Bounds {
	if len(points) == 0 {
		return activity.Bounds{}
	}
	b := activity.Bounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLon: points[0].Lon, MaxLon: points[0].Lon,
	}
	for _, p := range points[1:] {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lon < b.MinLon {
			b.MinLon = p.Lon
		}
		if p.Lon > b.MaxLon {
			b.MaxLon = p.Lon
		}
	}
	return b
}
