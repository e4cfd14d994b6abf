package batch

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/orthoweb/orthoweb/internal/gdal"
	"github.com/orthoweb/orthoweb/pkg/geo"
)

// fakeToolchain substitutes GDAL in tests. Behavior is keyed by raster
// filename so individual layers can fail independently.
type fakeToolchain struct {
	preflightErr error
	extractErr   map[string]error
	tilingErr    map[string]error
	pixelSize    map[string]float64
	tiled        []string
}

func (f *fakeToolchain) Preflight(ctx context.Context) error { return f.preflightErr }

func (f *fakeToolchain) ExtractMetadata(ctx context.Context, path string) (*geo.RasterInfo, error) {
	name := filepath.Base(path)
	if err := f.extractErr[name]; err != nil {
		return nil, &gdal.ExtractionError{Path: path, Err: err}
	}

	pixelSize := 0.1
	if ps, ok := f.pixelSize[name]; ok {
		pixelSize = ps
	}

	return &geo.RasterInfo{
		Bounds:    geo.Bounds{West: -1, South: 0, East: 1, North: 2},
		Width:     1000,
		Height:    800,
		PixelSize: pixelSize,
	}, nil
}

func (f *fakeToolchain) GenerateTiles(ctx context.Context, path, outDir string, zr geo.ZoomRange) error {
	name := filepath.Base(path)
	if err := f.tilingErr[name]; err != nil {
		return &gdal.TilingError{Path: path, Err: err}
	}
	f.tiled = append(f.tiled, name)
	return nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func writeRaster(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("not a real tiff"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeRaster(t, dir, "siteB.tiff")
	writeRaster(t, dir, "siteA.tif")
	writeRaster(t, dir, "SITEC.TIF")
	writeRaster(t, dir, "readme.txt")
	if err := os.Mkdir(filepath.Join(dir, "nested.tif"), 0o755); err != nil {
		t.Fatal(err)
	}

	sources, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}

	if len(sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(sources))
	}

	// Sorted by filename, names are stems.
	expected := []struct{ name, file string }{
		{"SITEC", "SITEC.TIF"},
		{"siteA", "siteA.tif"},
		{"siteB", "siteB.tiff"},
	}
	for i, e := range expected {
		if sources[i].Name != e.name || sources[i].File != e.file {
			t.Errorf("sources[%d] = %+v, expected %s/%s", i, sources[i], e.name, e.file)
		}
	}
}

func TestDiscoverEmptyDir(t *testing.T) {
	dir := t.TempDir()
	writeRaster(t, dir, "notes.md")

	_, err := Discover(dir)

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestDiscoverStemCollision(t *testing.T) {
	dir := t.TempDir()
	writeRaster(t, dir, "siteA.tif")
	writeRaster(t, dir, "siteA.tiff")

	_, err := Discover(dir)

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError for colliding stems, got %v", err)
	}
}

func TestRunHappyPath(t *testing.T) {
	project := t.TempDir()
	inputDir := filepath.Join(project, DefaultInputDir)
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeRaster(t, inputDir, "siteA.tif")
	writeRaster(t, inputDir, "siteB.tif")

	tools := &fakeToolchain{}
	runner := &Runner{Config: NewConfig(project), Tools: tools, Log: quietLogger()}

	results, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Failed() {
			t.Errorf("layer %s unexpectedly failed: %+v", r.Name, r)
		}
		if r.ZoomRange != nil && *r.ZoomRange != (geo.ZoomRange{Min: 12, Max: 22}) {
			t.Errorf("layer %s zoom = %v, expected 12-22", r.Name, r.ZoomRange)
		}
	}

	if len(tools.tiled) != 2 {
		t.Errorf("expected 2 tiling invocations, got %v", tools.tiled)
	}
}

func TestRunExtractionFailureDoesNotAbort(t *testing.T) {
	project := t.TempDir()
	inputDir := filepath.Join(project, DefaultInputDir)
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeRaster(t, inputDir, "bad.tif")
	writeRaster(t, inputDir, "good.tif")

	tools := &fakeToolchain{
		extractErr: map[string]error{"bad.tif": errors.New("exit status 1")},
	}
	runner := &Runner{Config: NewConfig(project), Tools: tools, Log: quietLogger()}

	results, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	bad, good := results[0], results[1]
	if bad.Name != "bad" || good.Name != "good" {
		t.Fatalf("unexpected ordering: %+v", results)
	}

	if bad.Bounds != nil || bad.ZoomRange != nil {
		t.Errorf("failed layer should have absent bounds and zoom: %+v", bad)
	}
	if good.Failed() {
		t.Errorf("good layer should have succeeded: %+v", good)
	}

	// The failed layer must not have reached the tiler.
	if len(tools.tiled) != 1 || tools.tiled[0] != "good.tif" {
		t.Errorf("expected only good.tif to be tiled, got %v", tools.tiled)
	}
}

func TestRunTilingFailureKeepsBounds(t *testing.T) {
	project := t.TempDir()
	inputDir := filepath.Join(project, DefaultInputDir)
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeRaster(t, inputDir, "siteA.tif")

	tools := &fakeToolchain{
		tilingErr: map[string]error{"siteA.tif": errors.New("exit status 2")},
	}
	runner := &Runner{Config: NewConfig(project), Tools: tools, Log: quietLogger()}

	results, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	r := results[0]
	if r.Bounds == nil {
		t.Error("bounds were extracted and should survive a tiling failure")
	}
	if r.ZoomRange != nil {
		t.Error("zoom range should be absent after a tiling failure")
	}
}

func TestRunInvalidPixelSize(t *testing.T) {
	project := t.TempDir()
	inputDir := filepath.Join(project, DefaultInputDir)
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeRaster(t, inputDir, "flat.tif")

	tools := &fakeToolchain{
		pixelSize: map[string]float64{"flat.tif": 0},
	}
	runner := &Runner{Config: NewConfig(project), Tools: tools, Log: quietLogger()}

	results, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	r := results[0]
	if r.ZoomRange != nil {
		t.Errorf("zero pixel size must not produce a zoom range: %+v", r)
	}
	if len(tools.tiled) != 0 {
		t.Errorf("layer with invalid pixel size must not be tiled: %v", tools.tiled)
	}
}

func TestRunPreflightFailure(t *testing.T) {
	project := t.TempDir()

	tools := &fakeToolchain{preflightErr: errors.New("gdalinfo not found on PATH")}
	runner := &Runner{Config: NewConfig(project), Tools: tools, Log: quietLogger()}

	_, err := runner.Run(context.Background())

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestConfigPaths(t *testing.T) {
	cfg := NewConfig("/data/project")

	if got := cfg.InputPath(); got != "/data/project/orthos" {
		t.Errorf("InputPath = %s", got)
	}
	if got := cfg.OutputPath(); got != "/data/project/tiles" {
		t.Errorf("OutputPath = %s", got)
	}
	if got := cfg.WebArtifactPath(); got != "/data/project/web/js/map.js" {
		t.Errorf("WebArtifactPath = %s", got)
	}

	cfg.OutputDir = "/abs/tiles"
	if got := cfg.OutputPath(); got != "/abs/tiles" {
		t.Errorf("absolute OutputDir should be kept as-is, got %s", got)
	}
}
