package units

import (
	"fmt"
	"math"
)

const (
	MetersPerMile = 1609.34
	MetersPerKm   = 1000.0
	FeetPerMeter  = 3.28084

	// MetersToMiles is the multiplicative form used by watch exports.
	MetersToMiles = 0.000621371
	// MpsToMph converts meters/second to miles/hour.
	MpsToMph = 2.23694
	// JoulesPerCalorie converts device energy readings to kilocalories.
	JoulesPerCalorie = 4184.0
	// KelvinOffset converts Kelvin to Celsius.
	KelvinOffset = 273.15
)

// MetersToFeet converts meters to feet.
func MetersToFeet(m float64) float64 {
	return m * FeetPerMeter
}

// MilesFromMeters converts meters to miles.
func MilesFromMeters(m float64) float64 {
	return m * MetersToMiles
}

// MphFromMps converts meters/second to miles/hour.
func MphFromMps(mps float64) float64 {
	return mps * MpsToMph
}

// CelsiusFromKelvin converts a Kelvin reading to Celsius.
func CelsiusFromKelvin(k float64) float64 {
	return k - KelvinOffset
}

// FahrenheitFromCelsius converts Celsius to Fahrenheit.
func FahrenheitFromCelsius(c float64) float64 {
	return c*9.0/5.0 + 32.0
}

// DegreesFromRadians converts radians to degrees. Watch exports store
// GPS coordinates in radians.
func DegreesFromRadians(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// RadiansFromDegrees converts degrees to radians.
func RadiansFromDegrees(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// BPMFromHz converts a heart-rate reading in Hz (beats per second) to
// whole beats per minute.
func BPMFromHz(hz float64) int {
	return int(math.Round(hz * 60.0))
}

// CaloriesFromJoules converts device energy in joules to whole kilocalories.
func CaloriesFromJoules(j float64) int {
	return int(math.Round(j / JoulesPerCalorie))
}

// FormatDuration formats seconds as "H:MM:SS" or "M:SS".
func FormatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// PaceSecPerMile returns pace in seconds per mile, or 0 for non-positive
// inputs.
func PaceSecPerMile(meters float64, seconds float64) float64 {
	if meters <= 0 || seconds <= 0 {
		return 0
	}
	return seconds / (meters / MetersPerMile)
}

// FormatPace formats a pace in seconds-per-unit as "M:SS". Zero pace
// renders as "-".
func FormatPace(paceSeconds float64) string {
	if paceSeconds <= 0 {
		return "-"
	}
	mins := int(paceSeconds) / 60
	secs := int(paceSeconds) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}
