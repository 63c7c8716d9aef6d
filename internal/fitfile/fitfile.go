package fitfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/tormoder/fit"

	"trailplay/internal/activity"
)

// semicirclesToDeg converts FIT's 2^31-per-180-degrees coordinates.
const semicirclesToDeg = 180.0 / 2147483648.0

// ErrNoRecords is returned when a FIT activity carries no positioned
// record messages.
var ErrNoRecords = errors.New("fitfile: no positioned records found")

// Parse decodes a FIT activity file into ordered track points, so FIT
// exports flow through the same fusion path as GPX files. Records
// without a valid position are dropped.
func Parse(r io.Reader) ([]activity.TrackPoint, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding fit file: %w", err)
	}

	af, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity fit file expected: %w", err)
	}

	var points []activity.TrackPoint
	for _, rec := range af.Records {
		if rec.PositionLat.Semicircles() == 0 && rec.PositionLong.Semicircles() == 0 {
			continue
		}
		lat := float64(rec.PositionLat.Semicircles()) * semicirclesToDeg
		lon := float64(rec.PositionLong.Semicircles()) * semicirclesToDeg
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			continue
		}

		p := activity.TrackPoint{Lat: lat, Lon: lon}
		if !rec.Timestamp.IsZero() {
			ts := rec.Timestamp
			p.Time = &ts
		}
		// Altitude is stored at scale 5 with a 500 m offset.
		if rec.Altitude != 0 && rec.Altitude != 0xFFFF {
			elev := float64(rec.Altitude)/5.0 - 500.0
			p.Elevation = &elev
		}

		points = append(points, p)
	}

	if len(points) == 0 {
		return nil, ErrNoRecords
	}
	return points, nil
}
