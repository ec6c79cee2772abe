package amap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// ParsePolyline parses AMap's polyline encoding: semicolon-separated
// "lon,lat" pairs. Blank segments are skipped; order is preserved.
func ParsePolyline(s string) (orb.LineString, error) {
	var line orb.LineString
	for _, seg := range strings.Split(s, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		pt, err := ParseLocation(seg)
		if err != nil {
			return nil, fmt.Errorf("polyline segment %q: %w", seg, err)
		}
		line = append(line, pt)
	}
	return line, nil
}

// ParseLocation parses a single "lon,lat" coordinate string.
func ParseLocation(s string) (orb.Point, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return orb.Point{}, fmt.Errorf("expected \"lon,lat\", got %q", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("longitude %q: %w", parts[0], err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("latitude %q: %w", parts[1], err)
	}
	return orb.Point{lon, lat}, nil
}
