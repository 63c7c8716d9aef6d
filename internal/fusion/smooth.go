package fusion

import "trailplay/internal/activity"

// SmoothElevation replaces each defined elevation with the mean of the
// defined elevations in a centered window around it. The window is
// truncated at both ends of the sequence rather than padded, so the
// first and last points average over fewer neighbors. Sequences shorter
// than the window are left untouched.
func SmoothElevation(points []activity.Point, window int) {
	if window < 2 || len(points) < window {
		return
	}
	half := window / 2

	smoothed := make([]*float64, len(points))
	for i := range points {
		if points[i].Elevation == nil {
			continue
		}
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(points)-1 {
			hi = len(points) - 1
		}

		var sum float64
		var n int
		for j := lo; j <= hi; j++ {
			if points[j].Elevation == nil {
				continue
			}
			sum += *points[j].Elevation
			n++
		}
		if n > 0 {
			v := sum / float64(n)
			smoothed[i] = &v
		}
	}

	for i := range points {
		if smoothed[i] != nil {
			points[i].Elevation = smoothed[i]
		}
	}
}
