package gdal

import (
	"errors"
	"reflect"
	"testing"

	"github.com/orthoweb/orthoweb/pkg/geo"
)

// sampleInfo is a trimmed gdalinfo -json report for a WGS84 orthophoto.
const sampleInfo = `{
	"description": "orthos/siteA.tif",
	"driverShortName": "GTiff",
	"size": [12000, 9000],
	"geoTransform": [-122.51734, 0.0000009, 0.0, 37.81234, 0.0, -0.0000009],
	"cornerCoordinates": {
		"upperLeft": [-122.51734, 37.81234],
		"lowerLeft": [-122.51734, 37.80424],
		"lowerRight": [-122.50654, 37.80424],
		"upperRight": [-122.50654, 37.81234],
		"center": [-122.51194, 37.80829]
	}
}`

func TestParseInfo(t *testing.T) {
	info, err := parseInfo([]byte(sampleInfo))
	if err != nil {
		t.Fatalf("parseInfo returned error: %v", err)
	}

	expected := &geo.RasterInfo{
		Bounds: geo.Bounds{
			West:  -122.51734,
			South: 37.80424,
			East:  -122.50654,
			North: 37.81234,
		},
		Width:     12000,
		Height:    9000,
		PixelSize: 0.0000009,
	}

	if !reflect.DeepEqual(info, expected) {
		t.Errorf("parseInfo = %+v, expected %+v", info, expected)
	}
}

func TestParseInfoMalformed(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"not json", "ERROR 4: siteA.tif: No such file or directory"},
		{"missing corners", `{"size": [100, 100], "geoTransform": [0, 1, 0, 0, 0, -1]}`},
		{"missing size", `{"geoTransform": [0, 1, 0, 0, 0, -1], "cornerCoordinates": {"lowerLeft": [0, 0], "upperRight": [1, 1]}}`},
		{"missing geotransform", `{"size": [100, 100], "cornerCoordinates": {"lowerLeft": [0, 0], "upperRight": [1, 1]}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseInfo([]byte(tc.data)); err == nil {
				t.Error("expected parse error, got nil")
			}
		})
	}
}

func TestTilesArgs(t *testing.T) {
	args := tilesArgs("orthos/siteA.tif", "tiles/siteA", geo.ZoomRange{Min: 12, Max: 22}, 4)

	expected := []string{
		"-z", "12-22",
		"-w", "none",
		"--processes=4",
		"orthos/siteA.tif",
		"tiles/siteA",
	}

	if !reflect.DeepEqual(args, expected) {
		t.Errorf("tilesArgs = %v, expected %v", args, expected)
	}
}

func TestTilesArgsDefaultProcesses(t *testing.T) {
	args := tilesArgs("a.tif", "out", geo.ZoomRange{Min: 1, Max: 4}, 0)

	found := false
	for _, a := range args {
		if a == "--processes=4" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected default --processes=4 in %v", args)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("exit status 1")

	var err error = &ExtractionError{Path: "a.tif", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("ExtractionError should unwrap to its cause")
	}

	err = &TilingError{Path: "a.tif", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("TilingError should unwrap to its cause")
	}
}
