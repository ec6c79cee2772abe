package buslinegeo

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/schollz/progressbar/v3"

	"github.com/urbanmapworks/buslinegeo/amap"
	"github.com/urbanmapworks/buslinegeo/gcj02"
	"github.com/urbanmapworks/buslinegeo/preview"
)

// Exporter runs the batch: one search + one detail call per keyword, GCJ-02
// to WGS-84 conversion, two GeoJSON files per route, optional HTML preview.
// Keywords are processed strictly in order; a failure on one keyword is
// logged and never affects the others.
type Exporter struct {
	cfg    AppConfig
	client *amap.Client

	routeFeats []*geojson.Feature
	stopFeats  []*geojson.Feature
}

// NewExporter creates an exporter over the given client.
func NewExporter(cfg AppConfig, client *amap.Client) *Exporter {
	return &Exporter{cfg: cfg, client: client}
}

// RouteFeatures returns the route features accumulated so far (written plus
// loaded from pre-existing outputs).
func (e *Exporter) RouteFeatures() []*geojson.Feature { return e.routeFeats }

// StopFeatures returns the stop features accumulated so far.
func (e *Exporter) StopFeatures() []*geojson.Feature { return e.stopFeats }

// Run processes every keyword and, when enabled, renders the preview.
// Only preparation failures (output directory) are returned as errors.
func (e *Exporter) Run(keywords []string) error {
	if err := os.MkdirAll(e.cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	kws := DedupKeywords(keywords)
	if len(kws) == 0 {
		kws = DefaultKeywords
	}

	bar := progressbar.Default(int64(len(kws)), "routes")
	for _, kw := range kws {
		e.processKeyword(kw)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if e.cfg.Output.Preview {
		out := filepath.Join(e.cfg.Output.Dir, e.cfg.Output.PreviewName)
		if err := preview.NewRenderer().Render(e.routeFeats, e.stopFeats, out); err != nil {
			log.Printf("[skip] preview generation failed: %v", err)
		} else {
			log.Printf("[ok] preview: %s", out)
		}
	}
	return nil
}

func (e *Exporter) processKeyword(keyword string) {
	base := BaseName(keyword)
	routePath := filepath.Join(e.cfg.Output.Dir, "route_"+base+".geojson")
	stopsPath := filepath.Join(e.cfg.Output.Dir, "stop_"+base+".geojson")

	if !e.cfg.Output.Overwrite && fileExists(routePath) && fileExists(stopsPath) {
		log.Printf("[skip] already exists: %s, %s", filepath.Base(routePath), filepath.Base(stopsPath))
		if err := e.accumulateExisting(routePath, stopsPath); err != nil {
			log.Printf("[warn] failed to load existing outputs for preview: %v", err)
		}
		return
	}

	log.Printf("[linename] querying: %s", keyword)
	search, err := e.client.SearchLine(e.cfg.Fetch.City, keyword)
	if err != nil {
		log.Printf("  ! linename failed: %v", err)
		return
	}
	if search.Status != amap.StatusOK {
		log.Printf("  ! linename failed: info=%s", search.Info)
		return
	}

	best := amap.PickBusline(search.Buslines)
	if best == nil {
		log.Printf("  ! no candidate after selection")
		return
	}
	log.Printf("  -> pick id=%s, name=%s, company=%s", best.ID, best.Name, best.Company)

	// Gentle rate limit between the two calls.
	time.Sleep(e.cfg.Fetch.Pause())

	detail, err := e.client.LineDetail(e.cfg.Fetch.City, best.ID)
	if err != nil {
		log.Printf("  ! lineid failed: %v", err)
		return
	}
	if detail.Status != amap.StatusOK || len(detail.Buslines) == 0 {
		log.Printf("  ! lineid failed: info=%s", detail.Info)
		return
	}

	line := &detail.Buslines[0]
	path, err := amap.ParsePolyline(line.Polyline)
	if err != nil {
		log.Printf("  ! bad polyline: %v", err)
		return
	}
	for i, p := range path {
		lon, lat := gcj02.ToWGS84(p[0], p[1])
		path[i] = orb.Point{lon, lat}
	}

	routeFC := geojson.NewFeatureCollection()
	routeFC.Append(RouteFeature(line, path))

	stopsFC := geojson.NewFeatureCollection()
	for _, stop := range line.Busstops {
		pt, err := amap.ParseLocation(stop.Location)
		if err != nil {
			log.Printf("  ! bad stop location for %q: %v", stop.Name, err)
			return
		}
		lon, lat := gcj02.ToWGS84(pt[0], pt[1])
		stopsFC.Append(StopFeature(line, stop, orb.Point{lon, lat}))
	}

	if err := writeFeatureCollection(routePath, routeFC); err != nil {
		log.Printf("  ! %v", err)
		return
	}
	if err := writeFeatureCollection(stopsPath, stopsFC); err != nil {
		log.Printf("  ! %v", err)
		return
	}
	log.Printf("  wrote %s, %s", filepath.Base(routePath), filepath.Base(stopsPath))

	e.routeFeats = append(e.routeFeats, routeFC.Features...)
	e.stopFeats = append(e.stopFeats, stopsFC.Features...)
}

// accumulateExisting feeds previously written outputs into the preview.
func (e *Exporter) accumulateExisting(routePath, stopsPath string) error {
	routeFC, err := loadFeatureCollection(routePath)
	if err != nil {
		return err
	}
	stopsFC, err := loadFeatureCollection(stopsPath)
	if err != nil {
		return err
	}
	e.routeFeats = append(e.routeFeats, routeFC.Features...)
	e.stopFeats = append(e.stopFeats, stopsFC.Features...)
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
