package gpx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"time"

	"trailplay/internal/activity"
)

// ErrNoTrackPoints is returned when a file parses but contains no points.
var ErrNoTrackPoints = errors.New("gpx: no track points found")

type document struct {
	XMLName xml.Name `xml:"gpx"`
	Tracks  []track  `xml:"trk"`
}

type track struct {
	Name     string    `xml:"name"`
	Segments []segment `xml:"trkseg"`
}

type segment struct {
	Points []trackPoint `xml:"trkpt"`
}

type trackPoint struct {
	Lat  float64  `xml:"lat,attr"`
	Lon  float64  `xml:"lon,attr"`
	Ele  *float64 `xml:"ele"`
	Time string   `xml:"time"`
}

// Parse reads a GPX document and returns its track points in document
// order across all tracks and segments. Elevation and time are optional
// per point; position is not.
func Parse(r io.Reader) ([]activity.TrackPoint, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing gpx: %w", err)
	}

	var points []activity.TrackPoint
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, pt := range seg.Points {
				p := activity.TrackPoint{
					Lat:       pt.Lat,
					Lon:       pt.Lon,
					Elevation: pt.Ele,
				}
				if pt.Time != "" {
					if ts, err := time.Parse(time.RFC3339, pt.Time); err == nil {
						p.Time = &ts
					}
				}
				points = append(points, p)
			}
		}
	}

	if len(points) == 0 {
		return nil, ErrNoTrackPoints
	}
	return points, nil
}

// Name returns the first track's name, or "" when the document has none.
func Name(r io.Reader) string {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return ""
	}
	if len(doc.Tracks) == 0 {
		return ""
	}
	return doc.Tracks[0].Name
}
