// Package batch discovers input rasters and drives the per-layer
// extract → estimate → tile pipeline, collecting one result per input.
package batch

import "path/filepath"

// Default locations, relative to the project directory. They mirror the
// static site layout: source rasters in orthos/, pyramids in tiles/, and
// the generated viewer configuration under web/.
const (
	DefaultInputDir    = "orthos"
	DefaultOutputDir   = "tiles"
	DefaultWebArtifact = "web/js/map.js"
)

// Config anchors all paths explicitly instead of relying on the process
// working directory. Relative members are resolved against ProjectDir.
type Config struct {
	ProjectDir  string
	InputDir    string
	OutputDir   string
	WebArtifact string
	Processes   int
}

// NewConfig builds a Config rooted at projectDir with default locations.
func NewConfig(projectDir string) Config {
	return Config{
		ProjectDir:  projectDir,
		InputDir:    DefaultInputDir,
		OutputDir:   DefaultOutputDir,
		WebArtifact: DefaultWebArtifact,
	}
}

// InputPath returns the absolute-ish input directory.
func (c Config) InputPath() string { return c.resolve(c.InputDir) }

// OutputPath returns the tile output root.
func (c Config) OutputPath() string { return c.resolve(c.OutputDir) }

// WebArtifactPath returns the location of the generated map.js.
func (c Config) WebArtifactPath() string { return c.resolve(c.WebArtifact) }

func (c Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectDir, p)
}

// ConfigurationError is fatal: it aborts the run before any layer is
// processed and maps to a non-zero exit code.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return e.Reason }
