package colorscale

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Metric selects which gradient a value is mapped through.
type Metric int

const (
	Speed Metric = iota
	Elevation
	Heartrate
)

// neutral is the fallback for values that cannot be placed on a scale.
var neutral = mustHex("#9CA3AF")

// Each scale is four evenly spaced stops blended in RGB space.
var (
	speedScale = scale{
		mustHex("#3B82F6"), // blue, slow
		mustHex("#22C55E"), // green
		mustHex("#EAB308"), // yellow
		mustHex("#EF4444"), // red, fast
	}
	elevationScale = scale{
		mustHex("#16A34A"), // valley green
		mustHex("#D9C68A"), // khaki
		mustHex("#8B5E3C"), // brown
		mustHex("#F8FAFC"), // snow white
	}
	heartrateScale = scale{
		mustHex("#9CA3AF"), // resting gray
		mustHex("#22C55E"), // green
		mustHex("#F97316"), // orange
		mustHex("#EF4444"), // red, max effort
	}
)

type scale [4]colorful.Color

// at blends the scale at ratio in [0, 1].
func (s scale) at(ratio float64) colorful.Color {
	segments := float64(len(s) - 1)
	pos := ratio * segments
	i := int(pos)
	if i >= len(s)-1 {
		return s[len(s)-1]
	}
	return s[i].BlendRgb(s[i+1], pos-float64(i))
}

// ColorFor maps a value onto the metric's gradient, normalized against
// the activity's own min and max. A degenerate range pins the ratio to
// the midpoint, and a value that is not a finite number gets the neutral
// gray so bad samples never flash a hot color.
func ColorFor(value, min, max float64, metric Metric) colorful.Color {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return neutral
	}

	var ratio float64
	if min == max {
		ratio = 0.5
	} else {
		ratio = (value - min) / (max - min)
		if ratio < 0 {
			ratio = 0
		}
		if ratio > 1 {
			ratio = 1
		}
	}

	switch metric {
	case Speed:
		return speedScale.at(ratio)
	case Elevation:
		return elevationScale.at(ratio)
	case Heartrate:
		return heartrateScale.at(ratio)
	}
	return neutral
}

// HexFor is ColorFor rendered as a "#RRGGBB" string for terminal styles.
func HexFor(value, min, max float64, metric Metric) string {
	return ColorFor(value, min, max, metric).Hex()
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
