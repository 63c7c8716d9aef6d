package analysis

import (
	"testing"

	"trailplay/internal/activity"
)

// points builds a sequence at 5 s spacing from cumulative distances.
func points(dists ...float64) []activity.Point {
	out := make([]activity.Point, len(dists))
	for i := range dists {
		d := dists[i]
		out[i] = activity.Point{
			OffsetMs: int64(i) * 5000,
			Distance: &d,
		}
	}
	return out
}

func TestFindBestEffort_FastMiddleSegment(t *testing.T) {
	// 2000 m over 600 s: slow 200 m, fast 1000 m at 3.7 m/s, slow rest.
	var dists []float64
	for i := 0; i <= 120; i++ {
		sec := float64(i * 5)
		var d float64
		switch {
		case sec <= 60:
			d = sec * 3.33
		case sec <= 360:
			d = 200 + (sec-60)*3.7
		default:
			d = 1310 + (sec-360)*2.5
		}
		dists = append(dists, d)
	}

	effort := FindBestEffort(points(dists...), 1000)
	if effort == nil {
		t.Fatal("expected a best effort, got nil")
	}

	// 1000 m at 3.7 m/s is ~270 s.
	if effort.DurationMs < 200_000 || effort.DurationMs > 350_000 {
		t.Errorf("duration = %dms, want around 270s", effort.DurationMs)
	}
	if effort.DistanceMeters < 1000 {
		t.Errorf("distance = %.2f, want >= 1000", effort.DistanceMeters)
	}
	// The effort should start inside the fast section.
	if effort.StartOffsetMs < 30_000 || effort.StartOffsetMs > 120_000 {
		t.Errorf("start offset = %dms, want inside the fast section", effort.StartOffsetMs)
	}
}

func TestFindBestEffort_TooShort(t *testing.T) {
	// 300 m total can never cover 1 km.
	var dists []float64
	for i := 0; i <= 60; i++ {
		dists = append(dists, float64(i)*5)
	}
	if effort := FindBestEffort(points(dists...), 1000); effort != nil {
		t.Errorf("expected nil for a too-short activity, got %+v", effort)
	}
}

func TestFindBestEffort_TooFewPoints(t *testing.T) {
	if effort := FindBestEffort(points(0, 500, 1000, 1500), 1000); effort != nil {
		t.Errorf("expected nil below the point minimum, got %+v", effort)
	}
}

func TestFindBestEffort_AverageHR(t *testing.T) {
	pts := points(0, 100, 200, 300, 400, 500, 600, 700, 800, 900, 1000, 1100)
	for i := range pts {
		hr := 120 + i
		pts[i].Heartrate = &hr
	}

	effort := FindBestEffort(pts, 400)
	if effort == nil {
		t.Fatal("expected a best effort")
	}
	if effort.AvgHeartrate < 120 || effort.AvgHeartrate > 131 {
		t.Errorf("avg HR = %v, want within the sample range", effort.AvgHeartrate)
	}
}

func TestFindBestEfforts(t *testing.T) {
	// 2 km steady: long enough for 400m, 1k and 1mi but not 5k.
	var dists []float64
	for i := 0; i <= 100; i++ {
		dists = append(dists, float64(i)*20)
	}

	efforts := FindBestEfforts(points(dists...))
	for _, want := range []float64{Distance400m, Distance1K, Distance1Mile} {
		if efforts[want] == nil {
			t.Errorf("missing %s effort", EffortName(want))
		}
	}
	if efforts[Distance5K] != nil {
		t.Error("unexpected 5k effort on a 2 km activity")
	}
}
