package viewer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// mapJS is the generated viewer artifact: a CONFIG block computed from the
// batch results followed by fixed Leaflet initialization logic. The static
// web page loads this file; everything dynamic lives in CONFIG.
const mapJS = `// Configuration - generated by orthoweb, do not edit
const CONFIG = {
    initialView: {
        lat: {{f6 .CenterLat}},
        lng: {{f6 .CenterLng}},
        zoom: {{.Zoom}}
    },

    zoomLevels: {
        min: {{.ZoomRange.Min}},
        max: {{.ZoomRange.Max}}
    },

    orthoLayers: [
{{- range .Layers}}
        {
            name: '{{.Name}}',
            url: '{{.URL}}',
{{- if .Bounds}}
            bounds: [[{{f6 .Bounds.South}}, {{f6 .Bounds.West}}], [{{f6 .Bounds.North}}, {{f6 .Bounds.East}}]]
{{- else}}
            bounds: null
{{- end}}
        },
{{- end}}
    ]
};

// Initialize the map
const map = L.map('map').setView([CONFIG.initialView.lat, CONFIG.initialView.lng], CONFIG.initialView.zoom);

// Add OpenStreetMap base layer with 50% transparency
const osmLayer = L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
    attribution: '&copy; OpenStreetMap contributors',
    opacity: 0.5,
    maxZoom: 19
});
osmLayer.addTo(map);

// Add each ortho tile layer
CONFIG.orthoLayers.forEach(layerConfig => {
    const layer = L.tileLayer(layerConfig.url, {
        attribution: layerConfig.name,
        maxZoom: CONFIG.zoomLevels.max,
        tms: false,
        bounds: layerConfig.bounds
    });
    layer.addTo(map);
});

// Clamp zoom to the generated tile pyramids
map.options.minZoom = CONFIG.zoomLevels.min;
map.options.maxZoom = CONFIG.zoomLevels.max;
`

var mapJSTemplate = template.Must(template.New("map.js").Funcs(template.FuncMap{
	"f6": func(v float64) string { return fmt.Sprintf("%.6f", v) },
}).Parse(mapJS))

// Render produces the map.js artifact for cfg. Output is byte-for-byte
// deterministic for identical configurations.
func Render(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := mapJSTemplate.Execute(&buf, cfg); err != nil {
		return nil, fmt.Errorf("rendering viewer config: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders cfg and writes the artifact to path, creating parent
// directories as needed. The artifact is rendered fully in memory first
// so a template failure never leaves a truncated file behind.
func Write(path string, cfg *Config) error {
	data, err := Render(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
