package analysis

import "trailplay/internal/activity"

// BestEffort represents the fastest segment of a given distance within an activity
type BestEffort struct {
	DistanceMeters float64
	DurationMs     int64
	StartOffsetMs  int64   // offset where the effort starts
	EndOffsetMs    int64   // offset where the effort ends
	AvgHeartrate   float64 // 0 when the segment has no HR samples
}

// Standard effort distances in meters
const (
	Distance400m  = 400
	Distance1K    = 1000
	Distance1Mile = 1609.34
	Distance5K    = 5000
	Distance10K   = 10000

	// MinPointsForEffort is the minimum number of points an activity
	// needs before efforts are meaningful.
	MinPointsForEffort = 10
)

// EffortDistances defines the standard best effort distances to track
var EffortDistances = []float64{
	Distance400m,
	Distance1K,
	Distance1Mile,
	Distance5K,
	Distance10K,
}

// EffortName returns the display label for a standard effort distance.
func EffortName(meters float64) string {
	switch meters {
	case Distance400m:
		return "400m"
	case Distance1K:
		return "1k"
	case Distance1Mile:
		return "1mi"
	case Distance5K:
		return "5k"
	case Distance10K:
		return "10k"
	}
	return ""
}

// FindBestEffort finds the fastest segment of targetDistance meters in a
// fused point sequence, using a two-pointer sliding window. Returns nil
// when the activity is shorter than the target or carries too little
// distance data.
func FindBestEffort(points []activity.Point, targetDistance float64) *BestEffort {
	if len(points) < MinPointsForEffort {
		return nil
	}

	// Filter to points with valid distance data
	type distPoint struct {
		distance  float64
		offsetMs  int64
		heartrate *int
	}
	var filtered []distPoint
	for i := range points {
		if points[i].Distance != nil {
			filtered = append(filtered, distPoint{
				distance:  *points[i].Distance,
				offsetMs:  points[i].OffsetMs,
				heartrate: points[i].Heartrate,
			})
		}
	}
	if len(filtered) < MinPointsForEffort {
		return nil
	}

	totalDistance := filtered[len(filtered)-1].distance - filtered[0].distance
	if totalDistance < targetDistance {
		return nil
	}

	var best *BestEffort
	right := 1
	for left := 0; left < len(filtered); left++ {
		if right <= left {
			right = left + 1
		}
		// Advance the right edge until the window covers the target.
		for right < len(filtered) && filtered[right].distance-filtered[left].distance < targetDistance {
			right++
		}
		if right >= len(filtered) {
			break
		}

		duration := filtered[right].offsetMs - filtered[left].offsetMs
		if duration <= 0 {
			continue
		}
		if best != nil && duration >= best.DurationMs {
			continue
		}

		// Average HR over the window, counting only present samples.
		var hrSum, hrN int
		for i := left; i <= right; i++ {
			if filtered[i].heartrate != nil {
				hrSum += *filtered[i].heartrate
				hrN++
			}
		}
		var avgHR float64
		if hrN > 0 {
			avgHR = float64(hrSum) / float64(hrN)
		}

		best = &BestEffort{
			DistanceMeters: filtered[right].distance - filtered[left].distance,
			DurationMs:     duration,
			StartOffsetMs:  filtered[left].offsetMs,
			EndOffsetMs:    filtered[right].offsetMs,
			AvgHeartrate:   avgHR,
		}
	}
	return best
}

// FindBestEfforts computes every standard effort the activity is long
// enough for, keyed by target distance.
func FindBestEfforts(points []activity.Point) map[float64]*BestEffort {
	efforts := make(map[float64]*BestEffort)
	for _, d := range EffortDistances {
		if e := FindBestEffort(points, d); e != nil {
			efforts[d] = e
		}
	}
	return efforts
}
