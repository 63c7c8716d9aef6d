package suunto

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"
)

const headerJSON = `{
	"ActivityType": 3,
	"DateTime": "2016-08-20T13:00:00Z",
	"Distance": 10000,
	"Duration": 3600,
	"Ascent": 120,
	"Descent": 110,
	"AscentTime": 900,
	"DescentTime": 800,
	"AltitudeMax": 350,
	"AltitudeMin": 230,
	"StepCount": 9000,
	"Energy": 2092000,
	"HR": {"Avg": 2.0, "Max": 2.9},
	"HrZones": {
		"Zone1Duration": 600, "Zone2Duration": 1200, "Zone3Duration": 900,
		"Zone4Duration": 300, "Zone5Duration": 0,
		"Zone1LowerLimit": 93, "Zone2LowerLimit": 111, "Zone3LowerLimit": 130,
		"Zone4LowerLimit": 148, "Zone5LowerLimit": 167
	},
	"TemperatureMax": 298.15,
	"TemperatureMin": 288.15
}`

// sampleJSON builds one wrapped sample entry from inner Sample fields.
func sampleJSON(fields string) string {
	return fmt.Sprintf(`{"Attributes": {"suunto/sml": {"Sample": {%s}}}}`, fields)
}

func lapJSON(utc string) string {
	return fmt.Sprintf(`{"Attributes": {"suunto/sml": {"Sample": {"UTC": %q}, "Events": [{"Lap": {"Type": "Lap"}}]}}}`, utc)
}

func exportJSON(samples ...string) []byte {
	return []byte(fmt.Sprintf(`{"DeviceLog": {"Header": %s, "Samples": [%s]}}`,
		headerJSON, strings.Join(samples, ",")))
}

func TestDecode_MalformedJSON(t *testing.T) {
	if _, err := Decode([]byte(`{"DeviceLog": `)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestDecode_MissingHeader(t *testing.T) {
	_, err := Decode([]byte(`{"DeviceLog": {"Samples": [{}]}}`))
	if !errors.Is(err, ErrMissingHeader) {
		t.Fatalf("expected ErrMissingHeader, got %v", err)
	}
}

func TestDecode_NoSamples(t *testing.T) {
	data := []byte(fmt.Sprintf(`{"DeviceLog": {"Header": %s, "Samples": []}}`, headerJSON))
	_, err := Decode(data)
	if !errors.Is(err, ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
}

func TestDecode_HeaderStats(t *testing.T) {
	data := exportJSON(sampleJSON(`"UTC": "2016-08-20T13:00:00Z", "Speed": 2.5`))
	act, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}

	s := act.Stats
	if math.Abs(s.DistanceMiles-6.21371) > 1e-4 {
		t.Errorf("DistanceMiles = %v, want ~6.21", s.DistanceMiles)
	}
	if s.Duration != time.Hour {
		t.Errorf("Duration = %v, want 1h", s.Duration)
	}
	if s.Calories != 500 {
		t.Errorf("Calories = %d, want 500", s.Calories)
	}
	if s.AvgHeartrate == nil || *s.AvgHeartrate != 120 {
		t.Errorf("AvgHeartrate = %v, want 120", s.AvgHeartrate)
	}
	if s.MaxHeartrate == nil || *s.MaxHeartrate != 174 {
		t.Errorf("MaxHeartrate = %v, want 174", s.MaxHeartrate)
	}
	if math.Abs(s.AscentFeet-120*3.28084) > 1e-6 {
		t.Errorf("AscentFeet = %v", s.AscentFeet)
	}
	// No per-sample temperature: falls back to header Kelvin values.
	if math.Abs(s.MaxTemperature-25) > 1e-9 || math.Abs(s.MinTemperature-15) > 1e-9 {
		t.Errorf("temperature fallback = %v/%v, want 25/15", s.MaxTemperature, s.MinTemperature)
	}
	if s.AvgTemperature != nil {
		t.Error("expected nil AvgTemperature without sample readings")
	}
}

func TestDecode_SpeedAndPace(t *testing.T) {
	data := exportJSON(
		sampleJSON(`"UTC": "2016-08-20T13:00:00Z", "Speed": 2.0`),
		sampleJSON(`"UTC": "2016-08-20T13:00:20Z", "Speed": 0`),
		sampleJSON(`"UTC": "2016-08-20T13:00:40Z", "Speed": 4.0`),
	)
	act, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}

	// Zero speeds are filtered: avg of 2.0 and 4.0 is 3.0 m/s.
	wantAvg := 3.0 * 2.23694
	if math.Abs(act.Stats.AvgSpeedMph-wantAvg) > 1e-6 {
		t.Errorf("AvgSpeedMph = %v, want %v", act.Stats.AvgSpeedMph, wantAvg)
	}
	wantMax := 4.0 * 2.23694
	if math.Abs(act.Stats.MaxSpeedMph-wantMax) > 1e-6 {
		t.Errorf("MaxSpeedMph = %v, want %v", act.Stats.MaxSpeedMph, wantMax)
	}
	wantPace := 1609.34 / 3.0
	if math.Abs(act.Stats.PaceSecPerMile-wantPace) > 1e-6 {
		t.Errorf("PaceSecPerMile = %v, want %v", act.Stats.PaceSecPerMile, wantPace)
	}
}

func TestDecode_Zones(t *testing.T) {
	data := exportJSON(sampleJSON(`"UTC": "2016-08-20T13:00:00Z"`))
	act, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}

	if len(act.Zones) != 5 {
		t.Fatalf("expected 5 zones, got %d", len(act.Zones))
	}
	// Total zoned time is 3000s; zone 2 holds 1200s = 40%.
	if math.Abs(act.Zones[1].Percent-40) > 1e-9 {
		t.Errorf("zone 2 percent = %v, want 40", act.Zones[1].Percent)
	}
	if act.Zones[4].Percent != 0 {
		t.Errorf("zone 5 percent = %v, want 0", act.Zones[4].Percent)
	}
	if act.Zones[0].LowerLimitBPM != 93 {
		t.Errorf("zone 1 lower limit = %d, want 93", act.Zones[0].LowerLimitBPM)
	}
	if act.Zones[2].Duration != 15*time.Minute {
		t.Errorf("zone 3 duration = %v, want 15m", act.Zones[2].Duration)
	}
}

func TestDecode_ZonesAllZero(t *testing.T) {
	hdr := strings.Replace(headerJSON, `"Zone1Duration": 600, "Zone2Duration": 1200, "Zone3Duration": 900,
		"Zone4Duration": 300, "Zone5Duration": 0,`,
		`"Zone1Duration": 0, "Zone2Duration": 0, "Zone3Duration": 0,
		"Zone4Duration": 0, "Zone5Duration": 0,`, 1)
	data := []byte(fmt.Sprintf(`{"DeviceLog": {"Header": %s, "Samples": [%s]}}`,
		hdr, sampleJSON(`"UTC": "2016-08-20T13:00:00Z"`)))

	act, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	for _, z := range act.Zones {
		if z.Percent != 0 {
			t.Errorf("zone %d percent = %v, want 0 with no zoned time", z.Zone, z.Percent)
		}
	}
}

func TestDecode_TrackConvertsRadians(t *testing.T) {
	// 34 degrees north, 84 west, in radians.
	lat := 34.0 * math.Pi / 180
	lon := -84.0 * math.Pi / 180
	data := exportJSON(
		sampleJSON(fmt.Sprintf(`"UTC": "2016-08-20T13:00:00Z", "Latitude": %v, "Longitude": %v, "GPSAltitude": 300`, lat, lon)),
		sampleJSON(`"UTC": "2016-08-20T13:00:05Z", "HR": 1.2`),
	)

	act, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}

	if len(act.Track) != 1 {
		t.Fatalf("expected 1 track point (position-less samples dropped), got %d", len(act.Track))
	}
	p := act.Track[0]
	if math.Abs(p.Lat-34.0) > 1e-9 || math.Abs(p.Lon+84.0) > 1e-9 {
		t.Errorf("track point = (%v, %v), want (34, -84)", p.Lat, p.Lon)
	}
	if p.Elevation == nil || *p.Elevation != 300 {
		t.Errorf("elevation = %v, want 300", p.Elevation)
	}
}

func TestDecode_TrackCap(t *testing.T) {
	var samples []string
	base := time.Date(2016, 8, 20, 13, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		ts := base.Add(time.Duration(i) * time.Second).Format(time.RFC3339)
		samples = append(samples, sampleJSON(fmt.Sprintf(
			`"UTC": %q, "Latitude": 0.59, "Longitude": -1.46`, ts)))
	}

	opts := DefaultOptions()
	opts.TrackCap = 10
	act, err := DecodeWithOptions(exportJSON(samples...), opts)
	if err != nil {
		t.Fatal(err)
	}

	if len(act.Track) > 11 {
		t.Errorf("track not capped: got %d points", len(act.Track))
	}
}

func TestDecode_OverlaySpacing(t *testing.T) {
	base := time.Date(2016, 8, 20, 13, 0, 0, 0, time.UTC)
	var samples []string
	// Metric samples every 5s for 60s, HR every 10s.
	for i := 0; i <= 12; i++ {
		ts := base.Add(time.Duration(i*5) * time.Second).Format(time.RFC3339)
		samples = append(samples, sampleJSON(fmt.Sprintf(`"UTC": %q, "Speed": 2.5`, ts)))
	}
	for i := 0; i <= 6; i++ {
		ts := base.Add(time.Duration(i*10) * time.Second).Format(time.RFC3339)
		samples = append(samples, sampleJSON(fmt.Sprintf(`"UTC": %q, "HR": 2.0`, ts)))
	}

	act, err := Decode(exportJSON(samples...))
	if err != nil {
		t.Fatal(err)
	}

	// 13 metric samples 5s apart pass a 10s gate as 7 (0,10,...,60).
	if len(act.Metrics) != 7 {
		t.Errorf("metric series length = %d, want 7", len(act.Metrics))
	}
	for i := 1; i < len(act.Metrics); i++ {
		if gap := act.Metrics[i].Time.Sub(act.Metrics[i-1].Time); gap < 10*time.Second {
			t.Errorf("metric samples %d,%d only %v apart", i-1, i, gap)
		}
	}

	// 7 HR samples 10s apart pass a 30s gate as 3 (0,30,60).
	if len(act.HR) != 3 {
		t.Errorf("HR series length = %d, want 3", len(act.HR))
	}
	if len(act.HR) > 0 && act.HR[0].BPM != 120 {
		t.Errorf("HR bpm = %d, want 120", act.HR[0].BPM)
	}
}

func TestDecode_Laps(t *testing.T) {
	base := time.Date(2016, 8, 20, 13, 0, 0, 0, time.UTC)
	fmtTime := func(sec int) string {
		return base.Add(time.Duration(sec) * time.Second).Format(time.RFC3339)
	}

	data := exportJSON(
		sampleJSON(fmt.Sprintf(`"UTC": %q, "Distance": 0, "HR": 2.0, "Speed": 3.0`, fmtTime(0))),
		sampleJSON(fmt.Sprintf(`"UTC": %q, "Distance": 500, "HR": 2.2, "Speed": 3.2`, fmtTime(150))),
		lapJSON(fmtTime(300)),
		sampleJSON(fmt.Sprintf(`"UTC": %q, "Distance": 1000, "HR": 2.4, "Speed": 3.4`, fmtTime(450))),
		lapJSON(fmtTime(600)),
	)

	act, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}

	if len(act.Laps) != 2 {
		t.Fatalf("expected 2 laps, got %d", len(act.Laps))
	}
	if act.Laps[0].Number != 1 || act.Laps[1].Number != 2 {
		t.Errorf("lap numbers = %d, %d; want 1, 2", act.Laps[0].Number, act.Laps[1].Number)
	}
	if act.Laps[0].Duration != 5*time.Minute {
		t.Errorf("lap 1 duration = %v, want 5m", act.Laps[0].Duration)
	}
	if act.Laps[0].Distance != 500 {
		t.Errorf("lap 1 distance = %v, want 500", act.Laps[0].Distance)
	}
	if act.Laps[0].AvgHeartrate == nil || math.Abs(*act.Laps[0].AvgHeartrate-126) > 1e-9 {
		t.Errorf("lap 1 avg HR = %v, want 126", act.Laps[0].AvgHeartrate)
	}
	if act.Laps[1].Distance != 500 {
		t.Errorf("lap 2 distance = %v, want 500", act.Laps[1].Distance)
	}
}
