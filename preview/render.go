package preview

import (
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Renderer draws accumulated route and stop features onto a Leaflet map.
type Renderer struct {
	// CenterLat/CenterLon and Zoom set the initial viewport.
	CenterLat float64
	CenterLon float64
	Zoom      int
	// LonShift is applied to every drawn coordinate to compensate the tile
	// layer's visual registration.
	LonShift float64
	// MaxStops caps the number of stop features considered.
	MaxStops int
}

// NewRenderer returns a renderer with the defaults used for Wenzhou.
func NewRenderer() *Renderer {
	return &Renderer{
		CenterLat: 27.98,
		CenterLon: 120.70,
		Zoom:      12,
		LonShift:  -0.00075,
		MaxStops:  2000,
	}
}

type lineData struct {
	Name    string       `json:"name"`
	Color   string       `json:"color"`
	LatLngs [][2]float64 `json:"latlngs"` // [lat, lon]
}

type stopData struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Color string  `json:"color"`
	Popup string  `json:"popup"`
}

// Render writes a self-contained HTML map of all routes and stops to path.
func (r *Renderer) Render(routeFeats, stopFeats []*geojson.Feature, path string) error {
	lines, routeColor := r.buildLines(routeFeats)
	stops := r.buildStops(stopFeats, routeColor)

	linesJSON, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal lines: %w", err)
	}
	stopsJSON, err := json.Marshal(stops)
	if err != nil {
		return fmt.Errorf("marshal stops: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = out.Close() }()

	data := struct {
		CenterLat float64
		CenterLon float64
		Zoom      int
		Lines     template.JS
		Stops     template.JS
	}{r.CenterLat, r.CenterLon, r.Zoom, template.JS(linesJSON), template.JS(stopsJSON)}

	if err := pageTemplate.Execute(out, data); err != nil {
		return fmt.Errorf("render template: %w", err)
	}
	return nil
}

// buildLines assigns colors and lateral offsets round-robin and returns the
// drawable polylines plus the route_id -> color map used for stop borders.
func (r *Renderer) buildLines(routeFeats []*geojson.Feature) ([]lineData, map[string]string) {
	lines := make([]lineData, 0, len(routeFeats))
	routeColor := make(map[string]string)

	for i, f := range routeFeats {
		name := f.Properties.MustString("name", "")
		routeID := f.Properties.MustString("route_id", "")
		// Every route consumes a palette slot and claims its stop color,
		// even when its geometry turns out to be undrawable.
		color := Colors[i%len(Colors)]
		offset := Offsets[i%len(Offsets)]
		if routeID != "" {
			routeColor[routeID] = color
		}

		ls, ok := f.Geometry.(orb.LineString)
		if !ok || len(ls) == 0 {
			continue
		}

		shifted := make(orb.LineString, len(ls))
		for j, p := range ls {
			shifted[j] = orb.Point{p[0] + r.LonShift, p[1]}
		}

		drawn := shifted
		if off, err := ParallelOffset(shifted, offset); err == nil {
			drawn = off
		}
		// On degenerate geometry the unmodified (shifted) path is drawn.

		latlngs := make([][2]float64, len(drawn))
		for j, p := range drawn {
			latlngs[j] = [2]float64{p[1], p[0]}
		}
		lines = append(lines, lineData{Name: name, Color: color, LatLngs: latlngs})
	}
	return lines, routeColor
}

type stopKey struct {
	lonE6 int64
	latE6 int64
	name  string
}

// buildStops merges stops shared by several routes into one marker per
// rounded coordinate and name, listing every serving route.
func (r *Renderer) buildStops(stopFeats []*geojson.Feature, routeColor map[string]string) []stopData {
	feats := stopFeats
	if len(feats) > r.MaxStops {
		feats = feats[:r.MaxStops]
	}

	order := make([]stopKey, 0, len(feats))
	routeNames := make(map[stopKey]map[string]bool)
	firstColor := make(map[stopKey]string)

	for _, f := range feats {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		name := f.Properties.MustString("stop_name", "")
		route := f.Properties.MustString("route_name", "")
		color, ok := routeColor[f.Properties.MustString("route_id", "")]
		if !ok {
			color = "black"
		}

		key := stopKey{
			lonE6: int64(math.Round(pt[0] * 1e6)),
			latE6: int64(math.Round(pt[1] * 1e6)),
			name:  name,
		}
		if _, seen := routeNames[key]; !seen {
			order = append(order, key)
			routeNames[key] = make(map[string]bool)
			firstColor[key] = color
		}
		routeNames[key][route] = true
	}

	stops := make([]stopData, 0, len(order))
	for _, key := range order {
		names := make([]string, 0, len(routeNames[key]))
		for n := range routeNames[key] {
			names = append(names, n)
		}
		sort.Strings(names)
		stops = append(stops, stopData{
			Lat:   float64(key.latE6) / 1e6,
			Lon:   float64(key.lonE6)/1e6 + r.LonShift,
			Color: firstColor[key],
			Popup: fmt.Sprintf("<b>Stop:</b> %s<br><b>Routes:</b> %s", key.name, strings.Join(names, ", ")),
		})
	}
	return stops
}

var pageTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>bus line preview</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
    maxZoom: 19,
    attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
var lines = {{.Lines}};
lines.forEach(function (l) {
    L.polyline(l.latlngs, {color: l.color, weight: 5})
        .bindPopup(l.name)
        .bindTooltip(l.name)
        .addTo(map);
});
var stops = {{.Stops}};
stops.forEach(function (s) {
    L.circleMarker([s.lat, s.lon], {
        radius: 4,
        color: s.color,
        weight: 3,
        fill: true,
        fillColor: 'white',
        fillOpacity: 1
    }).bindPopup(s.popup, {maxWidth: 250}).addTo(map);
});
</script>
</body>
</html>
`))
