package gdal

import (
	"context"
	"fmt"
	"os"

	"github.com/orthoweb/orthoweb/pkg/geo"
)

// GenerateTiles runs gdal2tiles.py for a single raster, writing the tile
// pyramid into outDir. The directory is created first; gdal2tiles refuses
// to run against a missing target. The call blocks until the subprocess
// finishes; gdal2tiles parallelizes internally via its --processes pool.
func (c *CLI) GenerateTiles(ctx context.Context, path, outDir string, zr geo.ZoomRange) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return &TilingError{Path: path, Err: err}
	}

	if _, err := run(ctx, tilesTool, tilesArgs(path, outDir, zr, c.Processes)...); err != nil {
		return &TilingError{Path: path, Err: err}
	}
	return nil
}

// tilesArgs builds the gdal2tiles.py argument list: the zoom range in
// "min-max" form, no embedded viewer page, and a bounded worker pool.
func tilesArgs(path, outDir string, zr geo.ZoomRange, processes int) []string {
	if processes <= 0 {
		processes = DefaultProcesses
	}
	return []string{
		"-z", zr.String(),
		"-w", "none",
		fmt.Sprintf("--processes=%d", processes),
		path,
		outDir,
	}
}
