package service

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"trailplay/internal/activity"
	"trailplay/internal/config"
	"trailplay/internal/fitfile"
	"trailplay/internal/fusion"
	"trailplay/internal/gpx"
	"trailplay/internal/store"
	"trailplay/internal/suunto"
)

// ErrUnsupportedFormat is returned for file types no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// IngestService orchestrates decoding, fusing and persisting activity
// files.
type IngestService struct {
	store *store.Store
	cfg   *config.Config
}

// NewIngestService creates an ingest service.
func NewIngestService(st *store.Store, cfg *config.Config) *IngestService {
	return &IngestService{store: st, cfg: cfg}
}

// IngestResult summarizes one ingested file.
type IngestResult struct {
	ActivityID int64
	Name       string
	Source     string
	Points     int
	Duration   time.Duration
	Distance   float64 // meters
}

// Ingest decodes an activity file, fuses its streams onto a uniform
// playback grid and stores the result. The decoder is chosen by file
// extension: .json for watch exports, .gpx and .fit for plain tracks.
func (s *IngestService) Ingest(path string) (*IngestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var act *activity.Activity
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		act, err = s.ingestSuunto(data)
	case ".gpx":
		act, err = s.ingestGPX(data)
	case ".fit":
		act, err = s.ingestFIT(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", filepath.Base(path), err)
	}

	if act.Name == "" {
		act.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	act.Points = fusion.Resample(act.Points, s.cfg.ResampleInterval())
	// Resampling shifts the aggregate inputs, so summarize afterwards.
	calories := act.Summary.Calories
	act.Summary = fusion.Summarize(act.Points)
	act.Summary.Calories = calories
	act.Bounds = fusion.BoundsOf(act.Points)

	id, err := s.store.SaveActivity(act)
	if err != nil {
		return nil, fmt.Errorf("saving activity: %w", err)
	}

	return &IngestResult{
		ActivityID: id,
		Name:       act.Name,
		Source:     act.Source,
		Points:     len(act.Points),
		Duration:   act.Summary.Duration,
		Distance:   act.Summary.Distance,
	}, nil
}

func (s *IngestService) fusionOptions() fusion.Options {
	opts := fusion.DefaultOptions()
	opts.MetricWindow = s.cfg.MetricWindow()
	opts.HRTolerance = s.cfg.HRTolerance()
	opts.MovingThreshold = s.cfg.Fusion.MovingThreshold
	opts.SmoothWindow = s.cfg.Fusion.SmoothWindow
	return opts
}

func (s *IngestService) ingestSuunto(data []byte) (*activity.Activity, error) {
	decoded, err := suunto.DecodeWithOptions(data, suunto.Options{
		MetricInterval: s.cfg.MetricInterval(),
		HRInterval:     s.cfg.HRInterval(),
		TrackCap:       s.cfg.Fusion.TrackCap,
	})
	if err != nil {
		return nil, err
	}
	return fusion.FromSuunto(decoded, s.fusionOptions())
}

func (s *IngestService) ingestGPX(data []byte) (*activity.Activity, error) {
	track, err := gpx.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	act, err := fusion.FromTrack(track, s.fusionOptions())
	if err != nil {
		return nil, err
	}
	act.Source = "gpx"
	act.Name = gpx.Name(bytes.NewReader(data))
	return act, nil
}

func (s *IngestService) ingestFIT(data []byte) (*activity.Activity, error) {
	track, err := fitfile.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	act, err := fusion.FromTrack(track, s.fusionOptions())
	if err != nil {
		return nil, err
	}
	act.Source = "fit"
	return act, nil
}
