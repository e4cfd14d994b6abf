package batch

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/orthoweb/orthoweb/internal/gdal"
	"github.com/orthoweb/orthoweb/pkg/geo"
)

// LayerResult records the outcome for one input raster. Nil Bounds means
// metadata extraction failed; nil ZoomRange means no tiles were produced.
// Failed layers stay in the result set so the failure is visible, but
// they contribute nothing to the aggregated viewer configuration.
type LayerResult struct {
	Name       string
	SourceFile string
	Bounds     *geo.Bounds
	ZoomRange  *geo.ZoomRange
}

// Failed reports whether any stage failed for this layer.
func (r LayerResult) Failed() bool {
	return r.Bounds == nil || r.ZoomRange == nil
}

// Runner processes every raster in the input directory, one at a time.
type Runner struct {
	Config Config
	Tools  gdal.Toolchain
	Log    *log.Logger
}

// Run performs the whole batch: pre-flight, discovery, then the
// extract → estimate → tile pipeline per raster. Per-layer failures are
// logged and recorded as absent fields; only a ConfigurationError (missing
// tools, unusable input directory) aborts the run.
func (r *Runner) Run(ctx context.Context) ([]LayerResult, error) {
	if err := r.Tools.Preflight(ctx); err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}

	sources, err := Discover(r.Config.InputPath())
	if err != nil {
		return nil, err
	}

	r.Log.Info("discovered rasters", "count", len(sources), "dir", r.Config.InputPath())

	results := make([]LayerResult, 0, len(sources))
	for _, src := range sources {
		results = append(results, r.processLayer(ctx, src))
	}

	return results, nil
}

// processLayer runs one raster through the pipeline. It never returns an
// error; failures show up as absent fields on the result.
func (r *Runner) processLayer(ctx context.Context, src Source) LayerResult {
	result := LayerResult{Name: src.Name, SourceFile: src.File}

	r.Log.Info("processing layer", "layer", src.Name, "file", src.File)

	info, err := r.Tools.ExtractMetadata(ctx, src.Path)
	if err != nil {
		r.Log.Error("metadata extraction failed", "layer", src.Name, "err", err)
		return result
	}
	result.Bounds = &info.Bounds

	zr, err := geo.EstimateZoomRange(info.PixelSize)
	if err != nil {
		r.Log.Error("unusable ground sample distance", "layer", src.Name, "err", err)
		return result
	}

	r.Log.Debug("estimated zoom range",
		"layer", src.Name,
		"zoom", zr.String(),
		"pixelSize", info.PixelSize,
		"size", info.Width*info.Height)

	outDir := filepath.Join(r.Config.OutputPath(), src.Name)
	if err := r.Tools.GenerateTiles(ctx, src.Path, outDir, zr); err != nil {
		r.Log.Error("tile generation failed", "layer", src.Name, "err", err)
		return result
	}
	result.ZoomRange = &zr

	r.Log.Info("tiles generated", "layer", src.Name, "zoom", zr.String(), "out", outDir)

	return result
}
