package fusion

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"trailplay/internal/activity"
	"trailplay/internal/suunto"
)

var fuseStart = time.Date(2016, 8, 20, 13, 0, 0, 0, time.UTC)

func at(offset time.Duration) *time.Time {
	t := fuseStart.Add(offset)
	return &t
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

// Two GPS fixes 9 seconds apart, each with an HR sample at the same
// instant. One thousandth of a degree of latitude is about 111.19 m.
func twoSampleActivity() *suunto.Activity {
	return &suunto.Activity{
		Track: []activity.TrackPoint{
			{Lat: 34.0, Lon: -84.0, Elevation: fptr(300), Time: at(0)},
			{Lat: 34.001, Lon: -84.0, Elevation: fptr(310), Time: at(9 * time.Second)},
		},
		HR: []suunto.HRSample{
			{Time: *at(0), BPM: 72},
			{Time: *at(9 * time.Second), BPM: 78},
		},
	}
}

func TestFromSuunto_TwoSamples(t *testing.T) {
	act, err := FromSuunto(twoSampleActivity(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if len(act.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(act.Points))
	}
	p0, p1 := act.Points[0], act.Points[1]

	if p0.OffsetMs != 0 || p1.OffsetMs != 9000 {
		t.Errorf("offsets = %d, %d, want 0, 9000", p0.OffsetMs, p1.OffsetMs)
	}
	if p0.Heartrate == nil || *p0.Heartrate != 72 {
		t.Errorf("point 0 heartrate = %v, want 72", p0.Heartrate)
	}
	if p1.Heartrate == nil || *p1.Heartrate != 78 {
		t.Errorf("point 1 heartrate = %v, want 78", p1.Heartrate)
	}

	// 0.001 degrees of latitude on a 6371 km sphere.
	wantDist := 0.001 * math.Pi / 180 * 6371000
	if p1.Distance == nil || math.Abs(*p1.Distance-wantDist) > 1 {
		t.Errorf("point 1 distance = %v, want %.2f within 1 m", p1.Distance, wantDist)
	}

	// Speed falls back to distance delta over elapsed time.
	if p1.Speed == nil || math.Abs(*p1.Speed-wantDist/9) > 0.01 {
		t.Errorf("point 1 speed = %v, want %.3f", p1.Speed, wantDist/9)
	}
	if p0.Speed != nil {
		t.Errorf("point 0 speed = %v, want absent", *p0.Speed)
	}

	// 10 m of climb over the same run.
	wantGrade := 10 / wantDist * 100
	if p1.Grade == nil || math.Abs(*p1.Grade-wantGrade) > 0.01 {
		t.Errorf("point 1 grade = %v, want %.3f", p1.Grade, wantGrade)
	}
}

func TestFromSuunto_MetricWindow(t *testing.T) {
	src := twoSampleActivity()
	src.Metrics = []suunto.MetricSample{
		// 3 s after the first fix: inside the window.
		{Time: *at(3 * time.Second), Speed: fptr(2.5), Cadence: iptr(172), Altitude: fptr(305), Temperature: fptr(21)},
		// 7 s after the second fix: outside it.
		{Time: *at(16 * time.Second), Speed: fptr(9.9)},
	}

	act, err := FromSuunto(src, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	p0 := act.Points[0]
	if p0.Speed == nil || *p0.Speed != 2.5 {
		t.Errorf("point 0 speed = %v, want 2.5 from overlay", p0.Speed)
	}
	if p0.Cadence == nil || *p0.Cadence != 172 {
		t.Errorf("point 0 cadence = %v, want 172", p0.Cadence)
	}
	// Barometric altitude from the overlay replaces the GPS elevation.
	if p0.Elevation == nil || *p0.Elevation != 305 {
		t.Errorf("point 0 elevation = %v, want 305", p0.Elevation)
	}
	if p0.Temperature == nil || *p0.Temperature != 21 {
		t.Errorf("point 0 temperature = %v, want 21", p0.Temperature)
	}

	// The second fix at t=9s has no overlay sample within 5 s, so its
	// speed is derived, not the 9.9 from t=2s.
	p1 := act.Points[1]
	if p1.Speed != nil && *p1.Speed == 9.9 {
		t.Error("point 1 matched an overlay sample outside the window")
	}
}

func TestFromSuunto_MetricWindowPrefersNearest(t *testing.T) {
	src := twoSampleActivity()
	src.Metrics = []suunto.MetricSample{
		{Time: *at(-2 * time.Second), Speed: fptr(1.0)},
		{Time: *at(1 * time.Second), Speed: fptr(2.0)},
	}

	act, err := FromSuunto(src, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if s := act.Points[0].Speed; s == nil || *s != 2.0 {
		t.Errorf("point 0 speed = %v, want 2.0 from the nearer sample", s)
	}
}

func TestFromSuunto_HRTolerance(t *testing.T) {
	src := twoSampleActivity()
	src.HR = []suunto.HRSample{
		{Time: *at(59 * time.Second), BPM: 140},
	}

	act, err := FromSuunto(src, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if hr := act.Points[0].Heartrate; hr == nil || *hr != 140 {
		t.Errorf("point 0 heartrate = %v, want 140 within tolerance", hr)
	}

	src.HR = []suunto.HRSample{
		{Time: *at(61 * time.Second), BPM: 140},
	}
	act, err = FromSuunto(src, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if hr := act.Points[0].Heartrate; hr != nil {
		t.Errorf("point 0 heartrate = %d, want absent beyond tolerance", *hr)
	}
}

func TestFromSuunto_NoTrack(t *testing.T) {
	_, err := FromSuunto(&suunto.Activity{}, DefaultOptions())
	if !errors.Is(err, ErrNoPosition) {
		t.Fatalf("expected ErrNoPosition, got %v", err)
	}
}

func TestFromSuunto_UntimedLeadingFix(t *testing.T) {
	// The first fix lacks a timestamp; the spine anchors on the first
	// timed one instead of panicking.
	src := &suunto.Activity{
		Track: []activity.TrackPoint{
			{Lat: 33.999, Lon: -84.0},
			{Lat: 34.0, Lon: -84.0, Time: at(0)},
			{Lat: 34.001, Lon: -84.0, Time: at(9 * time.Second)},
		},
	}

	act, err := FromSuunto(src, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(act.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(act.Points))
	}
	if act.Points[0].OffsetMs != 0 || act.Points[1].OffsetMs != 9000 {
		t.Errorf("offsets = %d, %d, want 0, 9000",
			act.Points[0].OffsetMs, act.Points[1].OffsetMs)
	}
	if !act.StartTime.Equal(fuseStart) {
		t.Errorf("start time = %v, want %v", act.StartTime, fuseStart)
	}
}

func TestFromSuunto_NoTimedFixes(t *testing.T) {
	src := &suunto.Activity{
		Track: []activity.TrackPoint{
			{Lat: 34.0, Lon: -84.0},
			{Lat: 34.001, Lon: -84.0},
		},
	}
	_, err := FromSuunto(src, DefaultOptions())
	if !errors.Is(err, ErrNoPosition) {
		t.Fatalf("expected ErrNoPosition, got %v", err)
	}
}

func TestFromSuunto_StreamInvariants(t *testing.T) {
	// A longer spine with an irregular cadence and sparse overlays:
	// offsets stay non-decreasing and cumulative distance never drops,
	// whatever the overlays contribute.
	var track []activity.TrackPoint
	var offset time.Duration
	for i := 0; i < 40; i++ {
		track = append(track, activity.TrackPoint{
			Lat:  34.0 + float64(i)*0.0002,
			Lon:  -84.0 - float64(i%3)*0.0001,
			Time: at(offset),
		})
		// Irregular GPS cadence, 2 s to 8 s between fixes.
		offset += time.Duration(2+(i*3)%7) * time.Second
	}

	src := &suunto.Activity{
		Track: track,
		Metrics: []suunto.MetricSample{
			{Time: *at(10 * time.Second), Speed: fptr(2.4), Altitude: fptr(301)},
			{Time: *at(70 * time.Second), Speed: fptr(3.1)},
			{Time: *at(150 * time.Second), Altitude: fptr(315)},
		},
		HR: []suunto.HRSample{
			{Time: *at(0), BPM: 110},
			{Time: *at(2 * time.Minute), BPM: 150},
		},
	}

	act, err := FromSuunto(src, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(act.Points) != len(track) {
		t.Fatalf("expected %d points, got %d", len(track), len(act.Points))
	}

	for i := 1; i < len(act.Points); i++ {
		if act.Points[i].OffsetMs < act.Points[i-1].OffsetMs {
			t.Fatalf("offset decreased at %d: %d -> %d",
				i, act.Points[i-1].OffsetMs, act.Points[i].OffsetMs)
		}
		if *act.Points[i].Distance < *act.Points[i-1].Distance {
			t.Fatalf("distance decreased at %d: %v -> %v",
				i, *act.Points[i-1].Distance, *act.Points[i].Distance)
		}
	}

	// The invariants survive resampling too.
	resampled := Resample(act.Points, 5*time.Second)
	for i := 1; i < len(resampled); i++ {
		if resampled[i].OffsetMs < resampled[i-1].OffsetMs {
			t.Fatalf("resampled offset decreased at %d", i)
		}
		if *resampled[i].Distance < *resampled[i-1].Distance {
			t.Fatalf("resampled distance decreased at %d", i)
		}
	}
}

func TestMovingFlag(t *testing.T) {
	src := twoSampleActivity()
	src.Metrics = []suunto.MetricSample{
		{Time: *at(0), Speed: fptr(0.2)},
		{Time: *at(9 * time.Second), Speed: fptr(0.4)},
	}

	act, err := FromSuunto(src, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if act.Points[0].Moving {
		t.Error("point with speed below threshold should not be moving")
	}
	if !act.Points[1].Moving {
		t.Error("point with speed above threshold should be moving")
	}
}

func TestFromTrack_Timed(t *testing.T) {
	track := []activity.TrackPoint{
		{Lat: 34.0, Lon: -84.0, Elevation: fptr(300), Time: at(0)},
		{Lat: 34.001, Lon: -84.0, Elevation: fptr(305), Time: at(10 * time.Second)},
	}

	act, err := FromTrack(track, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(act.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(act.Points))
	}
	if act.Points[1].OffsetMs != 10000 {
		t.Errorf("offset = %d, want 10000", act.Points[1].OffsetMs)
	}
	if act.Points[1].Speed == nil {
		t.Error("expected derived speed on a timed track")
	}
	if !act.StartTime.Equal(fuseStart) {
		t.Errorf("start time = %v, want %v", act.StartTime, fuseStart)
	}
}

func TestFromTrack_SynthesizedOffsets(t *testing.T) {
	track := []activity.TrackPoint{
		{Lat: 34.0, Lon: -84.0},
		{Lat: 34.001, Lon: -84.0},
	}

	act, err := FromTrack(track, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	dist := *act.Points[1].Distance
	want := int64(dist / 1.34 * 1000)
	if act.Points[0].OffsetMs != 0 {
		t.Errorf("first offset = %d, want 0", act.Points[0].OffsetMs)
	}
	if act.Points[1].OffsetMs != want {
		t.Errorf("second offset = %d, want %d", act.Points[1].OffsetMs, want)
	}
	// Estimated timing never turns into a reported pace.
	if act.Points[1].Speed != nil {
		t.Errorf("speed = %v, want absent on a timeless track", *act.Points[1].Speed)
	}
	if !act.Points[1].Moving {
		t.Error("points without speed should default to moving")
	}
}

func TestFromTrack_Empty(t *testing.T) {
	_, err := FromTrack(nil, DefaultOptions())
	if !errors.Is(err, ErrNoPosition) {
		t.Fatalf("expected ErrNoPosition, got %v", err)
	}
}

func TestSmoothElevation(t *testing.T) {
	mk := func(elevs ...float64) []activity.Point {
		points := make([]activity.Point, len(elevs))
		for i, e := range elevs {
			v := e
			points[i].Elevation = &v
		}
		return points
	}

	// A flat profile is a fixed point of the smoother.
	flat := mk(100, 100, 100, 100, 100, 100)
	SmoothElevation(flat, 5)
	for i, p := range flat {
		if *p.Elevation != 100 {
			t.Errorf("flat[%d] = %v, want 100", i, *p.Elevation)
		}
	}

	// A single spike is attenuated but length is preserved.
	spiky := mk(100, 100, 150, 100, 100)
	SmoothElevation(spiky, 5)
	if len(spiky) != 5 {
		t.Fatalf("length changed to %d", len(spiky))
	}
	if *spiky[2].Elevation >= 150 {
		t.Errorf("spike not attenuated: %v", *spiky[2].Elevation)
	}
	if *spiky[2].Elevation != 110 {
		t.Errorf("center = %v, want 110", *spiky[2].Elevation)
	}
	// Truncated edge window: mean of the first three.
	if got := *spiky[0].Elevation; math.Abs(got-350.0/3) > 1e-9 {
		t.Errorf("edge = %v, want %v", got, 350.0/3)
	}

	// Shorter than the window: untouched.
	short := mk(100, 200, 300)
	SmoothElevation(short, 5)
	if *short[1].Elevation != 200 {
		t.Errorf("short sequence modified: %v", *short[1].Elevation)
	}

	// Gaps stay gaps.
	gappy := mk(100, 100, 100, 100, 100)
	gappy[2].Elevation = nil
	SmoothElevation(gappy, 5)
	if gappy[2].Elevation != nil {
		t.Error("absent elevation was filled in")
	}
}

func TestResample(t *testing.T) {
	points := []activity.Point{
		{OffsetMs: 0, Lat: 34.0, Lon: -84.0, Elevation: fptr(300), Heartrate: iptr(60), Distance: fptr(0), Moving: true},
		{OffsetMs: 10000, Lat: 34.001, Lon: -84.001, Elevation: fptr(310), Heartrate: iptr(80), Distance: fptr(140), Moving: false},
	}

	out := Resample(points, 5*time.Second)
	if len(out) != 3 {
		t.Fatalf("expected 3 points, got %d", len(out))
	}

	mid := out[1]
	if mid.OffsetMs != 5000 {
		t.Errorf("middle offset = %d, want 5000", mid.OffsetMs)
	}
	if math.Abs(mid.Lat-34.0005) > 1e-9 || math.Abs(mid.Lon-(-84.0005)) > 1e-9 {
		t.Errorf("middle position = (%v, %v), want (34.0005, -84.0005)", mid.Lat, mid.Lon)
	}
	if *mid.Elevation != 305 {
		t.Errorf("middle elevation = %v, want 305", *mid.Elevation)
	}
	if *mid.Heartrate != 70 {
		t.Errorf("middle heartrate = %d, want 70", *mid.Heartrate)
	}
	if *mid.Distance != 70 {
		t.Errorf("middle distance = %v, want 70", *mid.Distance)
	}
	// The left bracket owns the interval's flags.
	if !mid.Moving {
		t.Error("middle point should inherit moving from the left bracket")
	}

	// Endpoints are the source points.
	if out[0].OffsetMs != 0 || out[2].OffsetMs != 10000 {
		t.Errorf("endpoint offsets = %d, %d", out[0].OffsetMs, out[2].OffsetMs)
	}
	if *out[2].Heartrate != 80 {
		t.Errorf("last heartrate = %d, want 80", *out[2].Heartrate)
	}
}

func TestResample_KeepsFinalPoint(t *testing.T) {
	// A span that is not a multiple of the interval must still end on
	// the source's final point, not the last grid time before it.
	points := []activity.Point{
		{OffsetMs: 0, Lat: 34.0, Lon: -84.0, Distance: fptr(0), Moving: true},
		{OffsetMs: 16100, Lat: 34.001, Lon: -84.0, Distance: fptr(281), Moving: true},
	}

	out := Resample(points, 5*time.Second)
	if len(out) != 5 {
		t.Fatalf("expected 5 points, got %d", len(out))
	}
	lastPt := out[len(out)-1]
	if lastPt.OffsetMs != 16100 {
		t.Errorf("final offset = %d, want 16100", lastPt.OffsetMs)
	}
	if lastPt.Distance == nil || *lastPt.Distance != 281 {
		t.Errorf("final distance = %v, want 281", lastPt.Distance)
	}

	// The summary of the resampled sequence keeps the full span.
	s := Summarize(out)
	if s.Duration != 16100*time.Millisecond {
		t.Errorf("duration = %v, want 16.1s", s.Duration)
	}
	if s.Distance != 281 {
		t.Errorf("distance = %v, want 281", s.Distance)
	}
}

func TestResample_Idempotent(t *testing.T) {
	points := []activity.Point{
		{OffsetMs: 0, Lat: 34.0, Lon: -84.0, Elevation: fptr(300), Distance: fptr(0), Moving: true},
		{OffsetMs: 7300, Lat: 34.001, Lon: -84.001, Elevation: fptr(305), Distance: fptr(140), Moving: true},
		{OffsetMs: 16100, Lat: 34.002, Lon: -84.002, Elevation: fptr(320), Distance: fptr(281), Moving: true},
	}

	once := Resample(points, 5*time.Second)
	twice := Resample(once, 5*time.Second)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("resampling is not idempotent (-once +twice):\n%s", diff)
	}
}

func TestResample_PartialOptionals(t *testing.T) {
	points := []activity.Point{
		{OffsetMs: 0, Lat: 34.0, Lon: -84.0, Elevation: fptr(300)},
		{OffsetMs: 10000, Lat: 34.001, Lon: -84.001},
	}

	out := Resample(points, 5*time.Second)
	// Only the left side defines elevation; it carries across.
	if out[1].Elevation == nil || *out[1].Elevation != 300 {
		t.Errorf("middle elevation = %v, want 300 carried from the left", out[1].Elevation)
	}
	if out[1].Heartrate != nil {
		t.Error("heartrate absent on both sides should stay absent")
	}
}

func TestSummarize(t *testing.T) {
	points := []activity.Point{
		{OffsetMs: 0, Elevation: fptr(300), Speed: fptr(2.0), Heartrate: iptr(120), Cadence: iptr(160), Distance: fptr(0)},
		{OffsetMs: 5000, Elevation: fptr(310), Speed: fptr(4.0), Heartrate: iptr(140), Cadence: iptr(170), Distance: fptr(15)},
		{OffsetMs: 10000, Elevation: fptr(305), Speed: fptr(3.0), Heartrate: iptr(130), Distance: fptr(30)},
	}

	s := Summarize(points)
	if s.Duration != 10*time.Second {
		t.Errorf("duration = %v, want 10s", s.Duration)
	}
	if s.Distance != 30 {
		t.Errorf("distance = %v, want 30", s.Distance)
	}
	if s.ElevationGain != 10 || s.ElevationLoss != 5 {
		t.Errorf("gain/loss = %v/%v, want 10/5", s.ElevationGain, s.ElevationLoss)
	}
	if s.AverageSpeed == nil || *s.AverageSpeed != 3.0 {
		t.Errorf("avg speed = %v, want 3.0", s.AverageSpeed)
	}
	if s.MaxSpeed == nil || *s.MaxSpeed != 4.0 {
		t.Errorf("max speed = %v, want 4.0", s.MaxSpeed)
	}
	if s.AverageHeartrate == nil || *s.AverageHeartrate != 130 {
		t.Errorf("avg heartrate = %v, want 130", s.AverageHeartrate)
	}
	if s.MaxHeartrate == nil || *s.MaxHeartrate != 140 {
		t.Errorf("max heartrate = %v, want 140", s.MaxHeartrate)
	}
	if s.MinHeartrate == nil || *s.MinHeartrate != 120 {
		t.Errorf("min heartrate = %v, want 120", s.MinHeartrate)
	}
	if s.AverageCadence == nil || *s.AverageCadence != 165 {
		t.Errorf("avg cadence = %v, want 165", s.AverageCadence)
	}
	if s.Calories != nil {
		t.Error("calories should stay absent without a source total")
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Duration != 0 || s.Distance != 0 || s.AverageSpeed != nil {
		t.Errorf("empty summary not zero-valued: %+v", s)
	}
}

func TestBoundsOf(t *testing.T) {
	points := []activity.Point{
		{Lat: 34.0, Lon: -84.0},
		{Lat: 34.002, Lon: -84.005},
		{Lat: 33.999, Lon: -83.998},
	}
	b := BoundsOf(points)
	want := activity.Bounds{MinLat: 33.999, MaxLat: 34.002, MinLon: -84.005, MaxLon: -83.998}
	if b != want {
		t.Errorf("bounds = %+v, want %+v", b, want)
	}
}
