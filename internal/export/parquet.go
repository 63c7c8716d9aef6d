package export

import (
	"fmt"
	"math"
	"os"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"trailplay/internal/activity"
)

// pointRow is the columnar layout of one playback point. Absent optional
// metrics are written as NaN with a validity flag, so analysis tools can
// tell a missing sensor from a zero reading.
type pointRow struct {
	OffsetMs     int64   `parquet:"name=offset_ms, type=INT64"`
	Lat          float64 `parquet:"name=lat, type=DOUBLE"`
	Lon          float64 `parquet:"name=lon, type=DOUBLE"`
	ElevationM   float64 `parquet:"name=elevation_m, type=DOUBLE"`
	SpeedMPS     float64 `parquet:"name=speed_mps, type=DOUBLE"`
	HRBPM        float64 `parquet:"name=hr_bpm, type=DOUBLE"`
	CadenceSPM   float64 `parquet:"name=cadence_spm, type=DOUBLE"`
	GradePct     float64 `parquet:"name=grade_pct, type=DOUBLE"`
	DistanceM    float64 `parquet:"name=distance_m, type=DOUBLE"`
	TemperatureC float64 `parquet:"name=temperature_c, type=DOUBLE"`
	Moving       bool    `parquet:"name=moving, type=BOOLEAN"`
	ValidHR      bool    `parquet:"name=valid_hr, type=BOOLEAN"`
	ValidSpeed   bool    `parquet:"name=valid_speed, type=BOOLEAN"`
	ValidCadence bool    `parquet:"name=valid_cadence, type=BOOLEAN"`
}

// WriteParquet writes an activity's point series as a Snappy-compressed
// parquet file.
func WriteParquet(act *activity.Activity, path string) error {
	data, err := marshalParquet(act.Points)
	if err != nil {
		return fmt.Errorf("encoding parquet: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func marshalParquet(points []activity.Point) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(pointRow), 4)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := range points {
		p := &points[i]
		row := pointRow{
			OffsetMs:     p.OffsetMs,
			Lat:          p.Lat,
			Lon:          p.Lon,
			ElevationM:   valueOrNaN(p.Elevation),
			SpeedMPS:     valueOrNaN(p.Speed),
			HRBPM:        intOrNaN(p.Heartrate),
			CadenceSPM:   intOrNaN(p.Cadence),
			GradePct:     valueOrNaN(p.Grade),
			DistanceM:    valueOrNaN(p.Distance),
			TemperatureC: valueOrNaN(p.Temperature),
			Moving:       p.Moving,
			ValidHR:      p.Heartrate != nil,
			ValidSpeed:   p.Speed != nil,
			ValidCadence: p.Cadence != nil,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return nil, err
		}
	}

	if err := pw.WriteStop(); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func intOrNaN(v *int) float64 {
	if v == nil {
		return math.NaN()
	}
	return float64(*v)
}
