package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orthoweb/orthoweb/internal/batch"
	"github.com/orthoweb/orthoweb/internal/gdal"
	"github.com/orthoweb/orthoweb/internal/viewer"
)

const version = "1.0.0"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "orthoweb",
	Short: "Turn GeoTIFF orthophotos into a static, CDN-hostable web map",
	Long: `orthoweb processes every GeoTIFF in a project's orthos/ directory into a
web map tile pyramid and generates the Leaflet viewer configuration that
places each layer on the globe.

Tiling itself is delegated to GDAL: gdalinfo extracts bounds and ground
sample distance, gdal2tiles.py renders the pyramids. Both must be on PATH
(apt install gdal-bin / brew install gdal).

The project directory layout is:

  orthos/         input GeoTIFFs (.tif/.tiff), one layer per file
  tiles/          generated tile pyramids, one subdirectory per layer
  web/js/map.js   generated viewer configuration

Examples:
  # Process ./orthos into ./tiles and write ./web/js/map.js
  orthoweb

  # Process a project somewhere else with 8 gdal2tiles workers
  orthoweb --project /data/survey2024 --processes 8

  # Preview the generated site locally
  orthoweb serve --port 8080

A failing layer is recorded and skipped, never fatal; the exit code is
non-zero only for configuration problems (missing GDAL, empty input
directory, ambiguous layer names).`,
	SilenceUsage: true,
	RunE:         runBuild,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.orthoweb.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	// Project layout
	rootCmd.Flags().StringP("project", "p", ".", "project directory anchoring all relative paths")
	rootCmd.Flags().String("input", batch.DefaultInputDir, "directory with input GeoTIFFs")
	rootCmd.Flags().String("output", batch.DefaultOutputDir, "tile output directory")
	rootCmd.Flags().String("web", batch.DefaultWebArtifact, "path of the generated viewer configuration")

	// Tiling options
	rootCmd.Flags().Int("processes", gdal.DefaultProcesses, "gdal2tiles worker count")

	// Bind flags to viper
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("project", rootCmd.Flags().Lookup("project"))
	viper.BindPFlag("input", rootCmd.Flags().Lookup("input"))
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	viper.BindPFlag("web", rootCmd.Flags().Lookup("web"))
	viper.BindPFlag("processes", rootCmd.Flags().Lookup("processes"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".orthoweb" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".orthoweb")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger creates a timestamped logger writing to w. Verbose mode
// lowers the threshold to debug.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func runBuild(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr(), viper.GetBool("verbose"))

	cfg := batch.Config{
		ProjectDir:  viper.GetString("project"),
		InputDir:    viper.GetString("input"),
		OutputDir:   viper.GetString("output"),
		WebArtifact: viper.GetString("web"),
		Processes:   viper.GetInt("processes"),
	}

	runner := &batch.Runner{
		Config: cfg,
		Tools:  gdal.NewCLI(cfg.Processes),
		Log:    logger,
	}

	results, err := runner.Run(cmd.Context())
	if err != nil {
		// Configuration problems abort before any processing and are the
		// only non-zero exits.
		return err
	}

	succeeded := 0
	for _, r := range results {
		if !r.Failed() {
			succeeded++
		}
	}
	logger.Info("batch finished", "layers", len(results), "succeeded", succeeded, "failed", len(results)-succeeded)

	vcfg, err := viewer.Aggregate(results)
	if errors.Is(err, viewer.ErrNoUsableLayers) {
		logger.Warn("no layer produced usable bounds, skipping viewer configuration")
		return nil
	}
	if err != nil {
		logger.Error("aggregating viewer configuration", "err", err)
		return nil
	}

	artifact := cfg.WebArtifactPath()
	if err := viewer.Write(artifact, vcfg); err != nil {
		logger.Error("writing viewer configuration", "err", err)
		return nil
	}

	// Layer footprint index next to the viewer data, for QA in GIS tools.
	footprints := filepath.Join(filepath.Dir(filepath.Dir(artifact)), "data", "layers.geojson")
	if err := viewer.WriteFootprints(footprints, vcfg); err != nil {
		logger.Error("writing layer footprints", "err", err)
		return nil
	}

	logger.Info("viewer configuration written",
		"path", artifact,
		"center", fmt.Sprintf("%.6f, %.6f", vcfg.CenterLat, vcfg.CenterLng),
		"zoom", vcfg.Zoom,
		"zoomRange", vcfg.ZoomRange.String())

	return nil
}
