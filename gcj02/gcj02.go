package gcj02

import "math"

// Krasovsky 1940 ellipsoid, as used by the GCJ-02 correction.
const (
	semiMajorAxis       = 6378245.0
	eccentricitySquared = 0.00669342162296594323
)

// The correction formulas are parameterized by the offset from this origin.
const (
	originLon = 105.0
	originLat = 35.0
)

// outOfChina reports whether the point lies outside the bounding envelope of
// the obfuscated region. GCJ-02 is the identity outside it.
func outOfChina(lon, lat float64) bool {
	return !(lon >= 72.004 && lon <= 137.8347 && lat >= 0.8293 && lat <= 55.8271)
}

func transformLat(x, y float64) float64 {
	ret := -100.0 + 2.0*x + 3.0*y + 0.2*y*y + 0.1*x*y + 0.2*math.Sqrt(math.Abs(x))
	ret += (20.0*math.Sin(6.0*x*math.Pi) + 20.0*math.Sin(2.0*x*math.Pi)) * 2.0 / 3.0
	ret += (20.0*math.Sin(y*math.Pi) + 40.0*math.Sin(y/3.0*math.Pi)) * 2.0 / 3.0
	ret += (160.0*math.Sin(y/12.0*math.Pi) + 320*math.Sin(y*math.Pi/30.0)) * 2.0 / 3.0
	return ret
}

func transformLon(x, y float64) float64 {
	ret := 300.0 + x + 2.0*y + 0.1*x*x + 0.1*x*y + 0.1*math.Sqrt(math.Abs(x))
	ret += (20.0*math.Sin(6.0*x*math.Pi) + 20.0*math.Sin(x*math.Pi)) * 2.0 / 3.0
	ret += (40.0*math.Sin(x/3.0*math.Pi) + 150.0*math.Sin(x/12.0*math.Pi) + 300.0*math.Sin(x/30.0*math.Pi)) * 2.0 / 3.0
	return ret
}

// ToWGS84 converts a GCJ-02 longitude/latitude pair to WGS-84.
// Points outside the obfuscated region are returned unchanged.
func ToWGS84(lon, lat float64) (float64, float64) {
	if outOfChina(lon, lat) {
		return lon, lat
	}
	dLon := transformLon(lon-originLon, lat-originLat)
	dLat := transformLat(lon-originLon, lat-originLat)
	radLat := lat / 180.0 * math.Pi
	magic := math.Sin(radLat)
	magic = 1 - eccentricitySquared*magic*magic
	sqrtMagic := math.Sqrt(magic)
	dLon = (dLon * 180.0) / (semiMajorAxis / math.Cos(radLat) * sqrtMagic * math.Pi)
	dLat = (dLat * 180.0) / ((semiMajorAxis * (1 - eccentricitySquared)) / (magic * sqrtMagic) * math.Pi)
	return lon - dLon, lat - dLat
}
