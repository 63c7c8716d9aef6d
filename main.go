package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"trailplay/internal/config"
	"trailplay/internal/service"
	"trailplay/internal/store"
	"trailplay/internal/tui"
	"trailplay/internal/units"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	exportPath := flag.String("export", "", "export an activity by id to a .json or .parquet file")
	exportID := flag.Int64("id", 0, "activity id for -export")
	flag.Usage = usage
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Open database
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ingest := service.NewIngestService(db, cfg)

	// Export mode: write one stored activity and exit.
	if *exportPath != "" {
		if *exportID == 0 {
			return fmt.Errorf("-export requires -id")
		}
		if err := ingest.Export(*exportID, *exportPath); err != nil {
			return err
		}
		fmt.Printf("Exported activity %d to %s\n", *exportID, *exportPath)
		return nil
	}

	// Ingest any files given as arguments before opening the library.
	for _, path := range flag.Args() {
		result, err := ingest.Ingest(path)
		if err != nil {
			return err
		}
		fmt.Printf("Ingested %q (%s): %d points, %s, %.2f mi\n",
			result.Name, result.Source, result.Points,
			result.Duration.Round(time.Second), units.MilesFromMeters(result.Distance))
	}

	// Launch TUI
	app := tui.NewApp(db, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func usage() {
	fmt.Println(`trailplay - local activity player

Usage:
  trailplay [files...]              ingest activity files, then open the library
  trailplay                         open the library
  trailplay -export out.parquet -id 3
                                    export a stored activity

Supported files: watch JSON exports (.json), GPX tracks (.gpx), FIT files (.fit)`)
	flag.PrintDefaults()
}
