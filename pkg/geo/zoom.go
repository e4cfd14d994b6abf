package geo

import (
	"fmt"
	"math"
)

// MetersPerPixelZoom0 is the ground resolution of the web mercator
// tiling scheme at zoom level 0 with 256px tiles, measured at the equator.
const MetersPerPixelZoom0 = 156543.03392804097

// Zoom level limits used when deriving ranges from raster resolution.
const (
	MinZoom = 1
	MaxZoom = 22
)

// Resolution returns the ground resolution in meters per pixel at the
// given zoom level.
// http://wiki.openstreetmap.org/wiki/Slippy_map_tilenames
func Resolution(zoom int) float64 {
	return MetersPerPixelZoom0 / float64(uint64(1)<<uint(zoom))
}

// EstimateZoomRange derives a (min, max) zoom pair from a raster's ground
// sample distance. The optimal zoom is where one tile pixel roughly matches
// one source pixel; the range allows zooming out 8 levels and in 4 levels
// from there, clamped to [MinZoom, MaxZoom]. Very high resolution input
// (min landing above 18) falls back to the fixed range 10-22.
//
// A zero or non-finite pixel size is an input error, not a degenerate range.
func EstimateZoomRange(pixelSize float64) (ZoomRange, error) {
	if pixelSize == 0 || math.IsNaN(pixelSize) || math.IsInf(pixelSize, 0) {
		return ZoomRange{}, fmt.Errorf("invalid pixel size %v", pixelSize)
	}

	optimal := math.Log2(MetersPerPixelZoom0 / math.Abs(pixelSize))

	calcMin := clampZoom(int(math.Floor(optimal)) - 8)
	calcMax := clampZoom(int(math.Floor(optimal)) + 4)

	zr := ZoomRange{Min: calcMin, Max: calcMax}
	if zr.Min > zr.Max {
		zr.Min, zr.Max = zr.Max, zr.Min
	}

	if zr.Min > 18 {
		zr = ZoomRange{Min: 10, Max: 22}
	}

	return zr, nil
}

// InitialZoom picks a starting zoom that roughly frames the given extent.
// It is a fit-to-extent heuristic, not an exact calculation.
func InitialZoom(b Bounds) int {
	r := b.MaxRange()
	if r <= 0 {
		return MinZoom
	}

	zoom := int(math.Floor(10 - math.Log2(r*10)))
	if zoom < MinZoom {
		return MinZoom
	}
	return zoom
}

func clampZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
