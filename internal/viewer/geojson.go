package viewer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"
)

// Footprints builds a GeoJSON FeatureCollection with one polygon per
// layer footprint. Layers without bounds are skipped. The collection is
// handy for QA in GIS tools and keeps the layer discovery order.
func Footprints(cfg *Config) ([]byte, error) {
	fc := geojson.NewFeatureCollection()

	for _, l := range cfg.Layers {
		if l.Bounds == nil {
			continue
		}

		f := geojson.NewFeature(l.Bounds.Bound().ToPolygon())
		f.Properties["name"] = l.Name
		f.Properties["url"] = l.URL
		fc.Append(f)
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding layer footprints: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFootprints writes the footprint collection to path.
func WriteFootprints(path string, cfg *Config) error {
	data, err := Footprints(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating footprints directory: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
