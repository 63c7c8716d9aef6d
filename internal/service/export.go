package service

import (
	"fmt"
	"path/filepath"
	"strings"

	"trailplay/internal/export"
)

// Export writes a stored activity to path. The format follows the
// extension: .parquet for columnar analysis output, .json for a portable
// document.
func (s *IngestService) Export(id int64, path string) error {
	act, err := s.store.GetActivity(id)
	if err != nil {
		return fmt.Errorf("loading activity %d: %w", id, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return export.WriteParquet(act, path)
	case ".json":
		return export.WriteJSON(act, path)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}
