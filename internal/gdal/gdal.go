// Package gdal shells out to the GDAL command line tools. Raster metadata
// comes from gdalinfo, tile pyramids from gdal2tiles.py; neither is
// reimplemented here, only their invocation and output contracts.
package gdal

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/orthoweb/orthoweb/pkg/geo"
)

// Tool names as they appear on PATH.
const (
	infoTool  = "gdalinfo"
	tilesTool = "gdal2tiles.py"
)

// DefaultProcesses is the worker count hint passed to gdal2tiles.
const DefaultProcesses = 4

// Toolchain is the external process capability used by the batch runner.
// It is an interface so tests can substitute a fake without invoking
// real GDAL binaries.
type Toolchain interface {
	// Preflight verifies the external tools are available.
	Preflight(ctx context.Context) error

	// ExtractMetadata reads bounds, pixel dimensions and ground sample
	// distance from the raster at path.
	ExtractMetadata(ctx context.Context, path string) (*geo.RasterInfo, error)

	// GenerateTiles renders the tile pyramid for the raster at path into
	// outDir for the given zoom range.
	GenerateTiles(ctx context.Context, path, outDir string, zr geo.ZoomRange) error
}

// CLI runs the GDAL tools as subprocesses.
type CLI struct {
	// Processes is the parallelism hint forwarded to gdal2tiles.
	// Zero means DefaultProcesses.
	Processes int
}

// NewCLI creates a CLI toolchain with the given gdal2tiles worker count.
func NewCLI(processes int) *CLI {
	if processes <= 0 {
		processes = DefaultProcesses
	}
	return &CLI{Processes: processes}
}

// Preflight checks that gdalinfo and gdal2tiles.py are installed and
// runnable. A missing tool aborts the whole batch before any processing.
func (c *CLI) Preflight(ctx context.Context) error {
	for _, tool := range []string{infoTool, tilesTool} {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("%s not found on PATH: install GDAL (apt install gdal-bin / brew install gdal)", tool)
		}
	}

	if err := exec.CommandContext(ctx, infoTool, "--version").Run(); err != nil {
		return fmt.Errorf("%s is not runnable: %w", infoTool, err)
	}
	if err := exec.CommandContext(ctx, tilesTool, "--help").Run(); err != nil {
		return fmt.Errorf("%s is not runnable: %w", tilesTool, err)
	}

	return nil
}

// run executes a tool, returning stdout. On failure the returned error
// carries the tail of stderr for diagnostics.
func run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, tail(errBuf.Bytes(), 512))
	}
	return out.Bytes(), nil
}

// tail returns at most n trailing bytes of b as a string.
func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(bytes.TrimSpace(b))
}
