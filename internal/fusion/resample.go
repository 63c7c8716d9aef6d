package fusion

import (
	"math"
	"time"

	"trailplay/internal/activity"
)

// DefaultResampleInterval is the playback tick spacing activities are
// normalized to before persisting.
const DefaultResampleInterval = 5 * time.Second

// Resample projects a fused point sequence onto a uniform time grid
// running from the first offset to the last, inclusive, interpolating
// linearly between bracketing source points. A grid time that lands
// exactly on a source point copies it, which makes resampling an
// already-uniform sequence a no-op.
func Resample(points []activity.Point, interval time.Duration) []activity.Point {
	if len(points) < 2 || interval <= 0 {
		out := make([]activity.Point, len(points))
		copy(out, points)
		return out
	}

	step := interval.Milliseconds()
	first := points[0].OffsetMs
	last := points[len(points)-1].OffsetMs

	out := make([]activity.Point, 0, (last-first)/step+2)
	j := 0
	for t := first; t <= last; t += step {
		for j < len(points)-2 && points[j+1].OffsetMs <= t {
			j++
		}
		out = append(out, interpolate(points[j], points[j+1], t))
	}
	// When the span is not a multiple of the interval the grid stops
	// short of the final point; keep it so no time or distance is lost.
	if out[len(out)-1].OffsetMs != last {
		out = append(out, points[len(points)-1])
	}
	return out
}

// interpolate produces the point at offset t between a and b, where
// a.OffsetMs <= t <= b.OffsetMs.
func interpolate(a, b activity.Point, t int64) activity.Point {
	if t <= a.OffsetMs {
		return a
	}
	if t >= b.OffsetMs {
		return b
	}
	ratio := float64(t-a.OffsetMs) / float64(b.OffsetMs-a.OffsetMs)

	p := activity.Point{
		OffsetMs: t,
		Lat:      lerp(a.Lat, b.Lat, ratio),
		Lon:      lerp(a.Lon, b.Lon, ratio),
		// Flags do not interpolate; the left bracket owns the interval.
		Moving: a.Moving,
	}
	p.Elevation = lerpOpt(a.Elevation, b.Elevation, ratio)
	p.Speed = lerpOpt(a.Speed, b.Speed, ratio)
	p.Grade = lerpOpt(a.Grade, b.Grade, ratio)
	p.Distance = lerpOpt(a.Distance, b.Distance, ratio)
	p.Temperature = lerpOpt(a.Temperature, b.Temperature, ratio)
	p.Heartrate = lerpOptInt(a.Heartrate, b.Heartrate, ratio)
	p.Cadence = lerpOptInt(a.Cadence, b.Cadence, ratio)
	return p
}

func lerp(a, b, ratio float64) float64 {
	return a + (b-a)*ratio
}

// lerpOpt interpolates two optional values. With only one side defined
// that side carries across the interval; with neither, the result stays
// absent.
func lerpOpt(a, b *float64, ratio float64) *float64 {
	switch {
	case a != nil && b != nil:
		v := lerp(*a, *b, ratio)
		return &v
	case a != nil:
		v := *a
		return &v
	case b != nil:
		v := *b
		return &v
	}
	return nil
}

func lerpOptInt(a, b *int, ratio float64) *int {
	switch {
	case a != nil && b != nil:
		v := int(math.Round(lerp(float64(*a), float64(*b), ratio)))
		return &v
	case a != nil:
		v := *a
		return &v
	case b != nil:
		v := *b
		return &v
	}
	return nil
}
