package gdal

import "fmt"

// ExtractionError reports that raster metadata could not be read, either
// because gdalinfo failed or because its output was not the expected JSON.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting metadata from %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// TilingError reports that the tile pyramid could not be generated for a
// raster. It is recoverable per layer; the batch continues.
type TilingError struct {
	Path string
	Err  error
}

func (e *TilingError) Error() string {
	return fmt.Sprintf("generating tiles for %s: %v", e.Path, e.Err)
}

func (e *TilingError) Unwrap() error { return e.Err }
