// Package viewer aggregates per-layer results into a single Leaflet
// viewer configuration and renders the generated artifacts.
package viewer

import (
	"errors"
	"fmt"

	"github.com/orthoweb/orthoweb/internal/batch"
	"github.com/orthoweb/orthoweb/pkg/geo"
)

// ErrNoUsableLayers means no layer produced bounds, so there is nothing
// to center a map on. Callers should warn and skip artifact generation;
// it is not a fatal condition.
var ErrNoUsableLayers = errors.New("no layer produced usable bounds")

// DefaultZoomRange is used when no layer produced a zoom range.
var DefaultZoomRange = geo.ZoomRange{Min: 5, Max: 18}

// Layer is one tile overlay entry in the viewer configuration. Bounds is
// nil for layers whose metadata extraction failed; they still get an
// entry so the failure is visible in the output.
type Layer struct {
	Name   string
	URL    string
	Bounds *geo.Bounds
}

// Config is the fully aggregated viewer configuration.
type Config struct {
	CenterLat float64
	CenterLng float64
	Zoom      int
	ZoomRange geo.ZoomRange
	Layers    []Layer
}

// Aggregate computes the overall view from a batch of layer results:
// union bounds, their midpoint as center, a fit-to-extent initial zoom,
// and the union of per-layer zoom ranges. Layer order follows the input.
// Returns ErrNoUsableLayers when no result carries bounds.
func Aggregate(results []batch.LayerResult) (*Config, error) {
	var overall *geo.Bounds
	var zoom *geo.ZoomRange

	for _, r := range results {
		if r.Bounds != nil {
			if overall == nil {
				b := *r.Bounds
				overall = &b
			} else {
				b := overall.Union(*r.Bounds)
				overall = &b
			}
		}
		if r.ZoomRange != nil {
			if zoom == nil {
				z := *r.ZoomRange
				zoom = &z
			} else {
				z := zoom.Union(*r.ZoomRange)
				zoom = &z
			}
		}
	}

	if overall == nil {
		return nil, ErrNoUsableLayers
	}
	if zoom == nil {
		z := DefaultZoomRange
		zoom = &z
	}

	lat, lng := overall.Center()

	cfg := &Config{
		CenterLat: lat,
		CenterLng: lng,
		Zoom:      geo.InitialZoom(*overall),
		ZoomRange: *zoom,
		Layers:    make([]Layer, 0, len(results)),
	}

	for _, r := range results {
		cfg.Layers = append(cfg.Layers, Layer{
			Name:   r.Name,
			URL:    TileURLTemplate(r.Name),
			Bounds: r.Bounds,
		})
	}

	return cfg, nil
}

// TileURLTemplate returns the slippy-map URL template for a layer,
// relative to the web/ directory of the generated site.
func TileURLTemplate(name string) string {
	return fmt.Sprintf("../tiles/%s/{z}/{x}/{y}.png", name)
}
