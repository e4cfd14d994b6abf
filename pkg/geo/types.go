package geo

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Bounds represents a geographic bounding box in WGS84 degrees.
type Bounds struct {
	West  float64
	South float64
	East  float64
	North float64
}

// FromBound converts an orb.Bound back into Bounds.
func FromBound(b orb.Bound) Bounds {
	return Bounds{
		West:  b.Min[0],
		South: b.Min[1],
		East:  b.Max[0],
		North: b.Max[1],
	}
}

// Bound converts to an orb.Bound (min = south-west, max = north-east).
func (b Bounds) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.West, b.South},
		Max: orb.Point{b.East, b.North},
	}
}

// Union returns the smallest bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return FromBound(b.Bound().Union(o.Bound()))
}

// Center returns the midpoint of the bounds as lat, lng.
func (b Bounds) Center() (lat, lng float64) {
	return (b.South + b.North) / 2, (b.West + b.East) / 2
}

// MaxRange returns the larger of the latitude and longitude extents.
func (b Bounds) MaxRange() float64 {
	latRange := b.North - b.South
	lngRange := b.East - b.West
	if latRange > lngRange {
		return latRange
	}
	return lngRange
}

// Valid reports whether the bounds describe a non-degenerate box.
func (b Bounds) Valid() bool {
	return b.West <= b.East && b.South <= b.North
}

// ZoomRange is an inclusive web map zoom interval. Min is never
// greater than Max.
type ZoomRange struct {
	Min int
	Max int
}

// String formats the range the way gdal2tiles expects it, e.g. "12-22".
func (z ZoomRange) String() string {
	return fmt.Sprintf("%d-%d", z.Min, z.Max)
}

// Union returns the zoom range spanning both z and o.
func (z ZoomRange) Union(o ZoomRange) ZoomRange {
	u := z
	if o.Min < u.Min {
		u.Min = o.Min
	}
	if o.Max > u.Max {
		u.Max = o.Max
	}
	return u
}

// RasterInfo holds the metadata extracted from a georeferenced raster.
type RasterInfo struct {
	Bounds Bounds
	Width  int
	Height int
	// PixelSize is the ground sample distance in map units per pixel.
	PixelSize float64
}
