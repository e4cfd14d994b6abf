package gdal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/orthoweb/orthoweb/pkg/geo"
)

// gdalInfo models the subset of `gdalinfo -json` output we consume.
type gdalInfo struct {
	Size              []int     `json:"size"`
	GeoTransform      []float64 `json:"geoTransform"`
	CornerCoordinates struct {
		LowerLeft  []float64 `json:"lowerLeft"`
		UpperRight []float64 `json:"upperRight"`
	} `json:"cornerCoordinates"`
}

// ExtractMetadata runs `gdalinfo -json` on the raster and parses bounds,
// pixel dimensions and ground sample distance out of the report.
func (c *CLI) ExtractMetadata(ctx context.Context, path string) (*geo.RasterInfo, error) {
	out, err := run(ctx, infoTool, "-json", path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}

	info, err := parseInfo(out)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	return info, nil
}

// parseInfo converts a gdalinfo JSON document into a RasterInfo. The
// lower-left and upper-right corners give the bounds; geoTransform[1] is
// the pixel width in map units.
func parseInfo(data []byte) (*geo.RasterInfo, error) {
	var doc gdalInfo
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing gdalinfo output: %w", err)
	}

	if len(doc.CornerCoordinates.LowerLeft) < 2 || len(doc.CornerCoordinates.UpperRight) < 2 {
		return nil, fmt.Errorf("gdalinfo output missing corner coordinates")
	}
	if len(doc.Size) < 2 {
		return nil, fmt.Errorf("gdalinfo output missing raster size")
	}
	if len(doc.GeoTransform) < 2 {
		return nil, fmt.Errorf("gdalinfo output missing geotransform")
	}

	return &geo.RasterInfo{
		Bounds: geo.Bounds{
			West:  doc.CornerCoordinates.LowerLeft[0],
			South: doc.CornerCoordinates.LowerLeft[1],
			East:  doc.CornerCoordinates.UpperRight[0],
			North: doc.CornerCoordinates.UpperRight[1],
		},
		Width:     doc.Size[0],
		Height:    doc.Size[1],
		PixelSize: doc.GeoTransform[1],
	}, nil
}
