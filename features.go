package buslinegeo

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/urbanmapworks/buslinegeo/amap"
)

// RouteFeature builds the LineString feature for one bus line. The path must
// already be in WGS-84.
func RouteFeature(line *amap.Busline, path orb.LineString) *geojson.Feature {
	f := geojson.NewFeature(path)
	f.Properties = geojson.Properties{
		"route_id":    line.ID,
		"name":        line.Name,
		"type":        line.Type,
		"company":     line.Company,
		"origin":      line.StartStop,
		"destination": line.EndStop,
	}
	// Extended metadata from extensions=all, carried through when present.
	for k, v := range map[string]string{
		"distance":    line.Distance,
		"basic_price": line.BasicPrice,
		"total_price": line.TotalPrice,
		"start_time":  line.StartTime,
		"end_time":    line.EndTime,
	} {
		if v != "" {
			f.Properties[k] = v
		}
	}
	return f
}

// StopFeature builds the Point feature for one stop, WGS-84.
func StopFeature(line *amap.Busline, stop amap.Busstop, pt orb.Point) *geojson.Feature {
	f := geojson.NewFeature(pt)
	f.Properties = geojson.Properties{
		"route_id":   line.ID,
		"route_name": line.Name,
		"stop_name":  stop.Name,
	}
	return f
}

func writeFeatureCollection(path string, fc *geojson.FeatureCollection) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func loadFeatureCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}
