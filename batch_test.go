package buslinegeo_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	lib "github.com/urbanmapworks/buslinegeo"
	"github.com/urbanmapworks/buslinegeo/amap"
)

// fakeAMap serves canned linename/lineid responses and counts upstream hits.
type fakeAMap struct {
	srv        *httptest.Server
	searchHits int
	detailHits int
}

func newFakeAMap(t *testing.T) *fakeAMap {
	t.Helper()
	f := &fakeAMap{}
	mux := http.NewServeMux()
	mux.HandleFunc("/bus/linename", func(w http.ResponseWriter, r *http.Request) {
		f.searchHits++
		switch r.URL.Query().Get("keywords") {
		case "24路":
			fmt.Fprint(w, `{"status":"1","info":"OK","buslines":[
				{"id":"1023","name":"24路(南浦--火车站)","company":"温州公交集团"},
				{"id":"88","name":"24路(火车站--南浦)","company":"温州公交集团"}]}`)
		case "B1路":
			fmt.Fprint(w, `{"status":"1","info":"OK","buslines":[
				{"id":"501","name":"B1路(动车南站--机场)","company":"温州交运集团"}]}`)
		default:
			fmt.Fprint(w, `{"status":"0","info":"KEYWORD_NOT_FOUND","buslines":[]}`)
		}
	})
	mux.HandleFunc("/bus/lineid", func(w http.ResponseWriter, r *http.Request) {
		f.detailHits++
		id := r.URL.Query().Get("id")
		fmt.Fprintf(w, `{"status":"1","info":"OK","buslines":[
			{"id":"%s","name":"24路(火车站--南浦)","type":"普通公交","company":"温州公交集团",
			 "start_stop":"火车站","end_stop":"南浦",
			 "polyline":"120.60,28.00;120.65,28.02;120.70,28.05",
			 "busstops":[
				{"name":"火车站","sequence":"1","location":"120.60,28.00"},
				{"name":"中山公园","sequence":"2","location":"120.65,28.02"},
				{"name":"南浦","sequence":"3","location":"120.70,28.05"}]}]}`, id)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func testConfig(dir string) lib.AppConfig {
	return lib.AppConfig{
		Fetch:  lib.FetchConfig{City: "温州", TimeoutMS: 1000, PauseMS: 0},
		Output: lib.OutputConfig{Dir: dir, Preview: false, PreviewName: "preview.html"},
		Key:    "test-key",
	}
}

func newTestExporter(cfg lib.AppConfig, baseURL string) *lib.Exporter {
	client := amap.NewClient(cfg.Key, cfg.Fetch.Timeout())
	client.BaseURL = baseURL
	return lib.NewExporter(cfg, client)
}

func TestRunWritesOutputs(t *testing.T) {
	fake := newFakeAMap(t)
	dir := t.TempDir()

	exp := newTestExporter(testConfig(dir), fake.srv.URL)
	if err := exp.Run([]string{"24路"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	routePath := filepath.Join(dir, "route_24.geojson")
	stopsPath := filepath.Join(dir, "stop_24.geojson")

	routeData, err := os.ReadFile(routePath)
	if err != nil {
		t.Fatalf("route file: %v", err)
	}
	routeFC, err := geojson.UnmarshalFeatureCollection(routeData)
	if err != nil {
		t.Fatalf("route file not valid GeoJSON: %v", err)
	}
	if len(routeFC.Features) != 1 {
		t.Fatalf("expected 1 route feature, got %d", len(routeFC.Features))
	}

	f := routeFC.Features[0]
	ls, ok := f.Geometry.(orb.LineString)
	if !ok {
		t.Fatalf("expected LineString geometry, got %T", f.Geometry)
	}
	if len(ls) != 3 {
		t.Errorf("expected 3 path points, got %d", len(ls))
	}
	// The selector must have picked the smaller numeric id.
	if got := f.Properties.MustString("route_id", ""); got != "88" {
		t.Errorf("expected route_id 88, got %q", got)
	}
	if got := f.Properties.MustString("origin", ""); got != "火车站" {
		t.Errorf("expected origin 火车站, got %q", got)
	}
	// Coordinates must be converted out of the provider frame.
	if ls[0][0] == 120.60 && ls[0][1] == 28.00 {
		t.Error("route coordinates were not converted to WGS-84")
	}

	stopsData, err := os.ReadFile(stopsPath)
	if err != nil {
		t.Fatalf("stops file: %v", err)
	}
	stopsFC, err := geojson.UnmarshalFeatureCollection(stopsData)
	if err != nil {
		t.Fatalf("stops file not valid GeoJSON: %v", err)
	}
	if len(stopsFC.Features) != 3 {
		t.Fatalf("expected 3 stop features, got %d", len(stopsFC.Features))
	}
	pt, ok := stopsFC.Features[0].Geometry.(orb.Point)
	if !ok {
		t.Fatalf("expected Point geometry, got %T", stopsFC.Features[0].Geometry)
	}
	if pt[0] == 120.60 && pt[1] == 28.00 {
		t.Error("stop coordinates were not converted to WGS-84")
	}

	if fake.searchHits != 1 || fake.detailHits != 1 {
		t.Errorf("expected exactly one search and one detail call, got %d/%d",
			fake.searchHits, fake.detailHits)
	}
	if len(exp.RouteFeatures()) != 1 || len(exp.StopFeatures()) != 3 {
		t.Errorf("accumulation mismatch: %d routes, %d stops",
			len(exp.RouteFeatures()), len(exp.StopFeatures()))
	}
}

func TestRunSkipsExistingOutputs(t *testing.T) {
	fake := newFakeAMap(t)
	dir := t.TempDir()
	cfg := testConfig(dir)

	if err := newTestExporter(cfg, fake.srv.URL).Run([]string{"24路"}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	routePath := filepath.Join(dir, "route_24.geojson")
	stopsPath := filepath.Join(dir, "stop_24.geojson")
	routeBefore, _ := os.ReadFile(routePath)
	stopsBefore, _ := os.ReadFile(stopsPath)
	routeStat, _ := os.Stat(routePath)

	// A fresh exporter and client: the second run must not refetch.
	time.Sleep(10 * time.Millisecond)
	exp := newTestExporter(cfg, fake.srv.URL)
	if err := exp.Run([]string{"24路"}); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if fake.searchHits != 1 || fake.detailHits != 1 {
		t.Errorf("second run refetched: %d search, %d detail hits", fake.searchHits, fake.detailHits)
	}
	routeAfter, _ := os.ReadFile(routePath)
	stopsAfter, _ := os.ReadFile(stopsPath)
	if string(routeBefore) != string(routeAfter) || string(stopsBefore) != string(stopsAfter) {
		t.Error("outputs changed on a read-only second run")
	}
	if stat, _ := os.Stat(routePath); !stat.ModTime().Equal(routeStat.ModTime()) {
		t.Error("route file was rewritten on the second run")
	}
	// Existing outputs still feed the preview accumulation.
	if len(exp.RouteFeatures()) != 1 || len(exp.StopFeatures()) != 3 {
		t.Errorf("expected loaded features on skip, got %d routes, %d stops",
			len(exp.RouteFeatures()), len(exp.StopFeatures()))
	}
}

func TestRunOverwriteRefetches(t *testing.T) {
	fake := newFakeAMap(t)
	dir := t.TempDir()
	cfg := testConfig(dir)

	if err := newTestExporter(cfg, fake.srv.URL).Run([]string{"24路"}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	cfg.Output.Overwrite = true
	if err := newTestExporter(cfg, fake.srv.URL).Run([]string{"24路"}); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if fake.searchHits != 2 || fake.detailHits != 2 {
		t.Errorf("overwrite run should refetch: %d search, %d detail hits",
			fake.searchHits, fake.detailHits)
	}
}

func TestRunFailedKeywordDoesNotStopOthers(t *testing.T) {
	fake := newFakeAMap(t)
	dir := t.TempDir()

	exp := newTestExporter(testConfig(dir), fake.srv.URL)
	if err := exp.Run([]string{"不存在路", "24路"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The failed keyword produced no files.
	if _, err := os.Stat(filepath.Join(dir, "route_不存在.geojson")); !os.IsNotExist(err) {
		t.Error("failed keyword should not produce a route file")
	}
	if _, err := os.Stat(filepath.Join(dir, "stop_不存在.geojson")); !os.IsNotExist(err) {
		t.Error("failed keyword should not produce a stops file")
	}
	// The later keyword was still processed.
	if _, err := os.Stat(filepath.Join(dir, "route_24.geojson")); err != nil {
		t.Errorf("subsequent keyword not processed: %v", err)
	}
	if fake.detailHits != 1 {
		t.Errorf("expected 1 detail call, got %d", fake.detailHits)
	}
}

func TestRunDeduplicatesKeywords(t *testing.T) {
	fake := newFakeAMap(t)
	dir := t.TempDir()

	exp := newTestExporter(testConfig(dir), fake.srv.URL)
	if err := exp.Run([]string{"24路", " 24路 ", "24路"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.searchHits != 1 {
		t.Errorf("expected 1 search for deduplicated keywords, got %d", fake.searchHits)
	}
}

func TestRunRendersPreview(t *testing.T) {
	fake := newFakeAMap(t)
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Output.Preview = true

	exp := newTestExporter(cfg, fake.srv.URL)
	if err := exp.Run([]string{"24路", "B1路"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "preview.html")); err != nil {
		t.Errorf("expected preview artifact: %v", err)
	}
}
