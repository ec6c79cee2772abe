package preview

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// maxMiterRatio bounds the joint extension at sharp corners.
const maxMiterRatio = 4.0

// ParallelOffset shifts a WGS-84 line sideways by dist metres. Positive
// distances move the line to the right of the direction of travel. The line
// is projected to spherical mercator, offset on the plane, and projected
// back; the distance is pre-scaled by the mercator scale factor at the line's
// first point so the configured metres survive the projection.
//
// An error is returned for degenerate input (fewer than two distinct
// points); callers are expected to fall back to the original line.
func ParallelOffset(line orb.LineString, dist float64) (orb.LineString, error) {
	if len(line) < 2 {
		return nil, errors.New("need at least two points")
	}

	planar := make(orb.LineString, len(line))
	copy(planar, line)
	planar = project.LineString(planar, project.WGS84.ToMercator)

	off, err := offsetPlanar(planar, dist*project.MercatorScaleFactor(line[0]))
	if err != nil {
		return nil, err
	}
	return project.LineString(off, project.Mercator.ToWGS84), nil
}

// offsetPlanar computes a parallel offset of a planar line with miter joins.
func offsetPlanar(line orb.LineString, dist float64) (orb.LineString, error) {
	// Collapse consecutive duplicate points; they have no direction.
	pts := make(orb.LineString, 0, len(line))
	for i, p := range line {
		if i == 0 || p != pts[len(pts)-1] {
			pts = append(pts, p)
		}
	}
	if len(pts) < 2 {
		return nil, errors.New("degenerate line")
	}

	// Right-hand unit normal of each segment.
	normals := make([]orb.Point, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		dx := pts[i+1][0] - pts[i][0]
		dy := pts[i+1][1] - pts[i][1]
		l := math.Hypot(dx, dy)
		normals[i] = orb.Point{dy / l, -dx / l}
	}

	out := make(orb.LineString, len(pts))
	for i := range pts {
		var nx, ny, scale float64
		switch {
		case i == 0:
			nx, ny, scale = normals[0][0], normals[0][1], 1
		case i == len(pts)-1:
			last := normals[len(normals)-1]
			nx, ny, scale = last[0], last[1], 1
		default:
			// Miter join: average the adjacent normals and extend so
			// the joint keeps the offset distance, capped at sharp turns.
			a, b := normals[i-1], normals[i]
			nx, ny = a[0]+b[0], a[1]+b[1]
			l := math.Hypot(nx, ny)
			if l < 1e-12 {
				// 180 degree turnback, no usable miter direction.
				nx, ny, scale = b[0], b[1], 1
				break
			}
			nx, ny = nx/l, ny/l
			dot := nx*a[0] + ny*a[1]
			scale = 1 / math.Max(dot, 1/maxMiterRatio)
		}
		out[i] = orb.Point{pts[i][0] + nx*dist*scale, pts[i][1] + ny*dist*scale}
	}
	return out, nil
}
