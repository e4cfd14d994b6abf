package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source is one raster input slated for processing.
type Source struct {
	// Name is the layer name, the filename without its extension. It also
	// names the tile output subdirectory.
	Name string
	// File is the raster filename within the input directory.
	File string
	// Path is the full path to the raster.
	Path string
}

// rasterExt reports whether name carries a recognized raster extension.
// Matching is case-insensitive so SITEA.TIF is picked up too.
func rasterExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tif", ".tiff":
		return true
	}
	return false
}

// Discover lists the rasters in inputDir in deterministic (sorted) order.
// An empty directory is a ConfigurationError, as are two files that would
// collapse to the same layer name (siteA.tif next to siteA.tiff): a silent
// last-wins overwrite would hide one of the layers, so the run is rejected
// up front.
func Discover(inputDir string) ([]Source, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("reading input directory %s: %v", inputDir, err)}
	}

	var sources []Source
	seen := map[string]string{}

	for _, entry := range entries {
		if entry.IsDir() || !rasterExt(entry.Name()) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if prev, ok := seen[name]; ok {
			return nil, &ConfigurationError{
				Reason: fmt.Sprintf("layer name %q is ambiguous: %s and %s share a filename stem", name, prev, entry.Name()),
			}
		}
		seen[name] = entry.Name()

		sources = append(sources, Source{
			Name: name,
			File: entry.Name(),
			Path: filepath.Join(inputDir, entry.Name()),
		})
	}

	if len(sources) == 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("no .tif or .tiff files found in %s", inputDir)}
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].File < sources[j].File })

	return sources, nil
}
