package geo

import (
	"math"
	"testing"
)

func TestHaversineDistance_ZeroForSamePoint(t *testing.T) {
	if d := HaversineDistance(34.0, -84.0, 34.0, -84.0); d != 0 {
		t.Errorf("expected 0 for identical points, got %v", d)
	}
}

func TestHaversineDistance_KnownValue(t *testing.T) {
	// 0.001 degrees of latitude and longitude near 34N. Closed-form
	// haversine with R=6371000 gives ~144.4 m.
	d := HaversineDistance(34.0, -84.0, 34.001, -84.001)
	want := closedFormHaversine(34.0, -84.0, 34.001, -84.001)
	if math.Abs(d-want) > 1.0 {
		t.Errorf("distance = %v, want %v within 1 m", d, want)
	}
	if math.Abs(want-144.4) > 1.0 {
		t.Errorf("closed-form sanity check: got %v, want ~144.4", want)
	}
}

func TestHaversineDistance_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude is about 111.19 km on a 6371 km sphere.
	d := HaversineDistance(0, 0, 1, 0)
	if math.Abs(d-111195) > 10 {
		t.Errorf("distance = %v, want ~111195 within 10 m", d)
	}
}

// closedFormHaversine is an independent implementation used to check the
// s2-backed one.
func closedFormHaversine(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := math.Pi / 180.0
	dLat := (lat2 - lat1) * toRad
	dLon := (lon2 - lon1) * toRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*toRad)*math.Cos(lat2*toRad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

func TestHaversineDistance_Symmetric(t *testing.T) {
	a := HaversineDistance(47.6, -122.3, 47.7, -122.4)
	b := HaversineDistance(47.7, -122.4, 47.6, -122.3)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("haversine not symmetric: %v vs %v", a, b)
	}
}
