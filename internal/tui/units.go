package tui

import (
	"fmt"
	"time"

	"trailplay/internal/config"
	"trailplay/internal/units"
)

// formatClock renders a duration as H:MM:SS or M:SS.
func formatClock(d time.Duration) string {
	return units.FormatDuration(int(d.Seconds()))
}

// Units provides unit conversion and formatting based on user preferences
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a new Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// FormatDistance formats a distance in meters to the user's preferred unit
func (u Units) FormatDistance(meters float64) string {
	if u.cfg.DistanceUnit == "km" {
		return fmt.Sprintf("%.2f km", meters/1000)
	}
	return fmt.Sprintf("%.2f mi", units.MilesFromMeters(meters))
}

// FormatSpeed formats a speed in m/s to the user's preferred unit
func (u Units) FormatSpeed(mps float64) string {
	if u.cfg.DistanceUnit == "km" {
		return fmt.Sprintf("%.1f km/h", mps*3.6)
	}
	return fmt.Sprintf("%.1f mph", units.MphFromMps(mps))
}

// FormatElevation formats an elevation in meters
func (u Units) FormatElevation(meters float64) string {
	if u.cfg.DistanceUnit == "km" {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.0f ft", units.MetersToFeet(meters))
}

// FormatTemperature formats a temperature in celsius
func (u Units) FormatTemperature(celsius float64) string {
	if u.cfg.TemperatureUnit == "c" {
		return fmt.Sprintf("%.0f°C", celsius)
	}
	return fmt.Sprintf("%.0f°F", units.FahrenheitFromCelsius(celsius))
}

// FormatPace formats a pace from meters and elapsed seconds
func (u Units) FormatPace(meters, seconds float64) string {
	if meters <= 0 || seconds <= 0 {
		return "-"
	}
	if u.cfg.DistanceUnit == "km" {
		perKm := seconds / (meters / 1000)
		return fmt.Sprintf("%s /km", units.FormatPace(perKm))
	}
	return fmt.Sprintf("%s /mi", units.FormatPace(units.PaceSecPerMile(meters, seconds)))
}

// elevationForChart returns the chart-space value for an elevation in
// meters, matching the unit used for labels.
func (u Units) elevationForChart(meters float64) float64 {
	if u.cfg.DistanceUnit == "km" {
		return meters
	}
	return units.MetersToFeet(meters)
}
