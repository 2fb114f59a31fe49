package geo

import (
	"math"

	"github.com/lintang-b-s/lanemap/pkg/util"
)

// Bearing. initial great-circle bearing from a to b in degrees, clockwise from north, in [0, 360).
func Bearing(a, b Coordinate) float64 {
	latA, latB := util.DegreeToRadians(a.Lat), util.DegreeToRadians(b.Lat)
	dLon := util.DegreeToRadians(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(latB)
	x := math.Cos(latA)*math.Sin(latB) - math.Sin(latA)*math.Cos(latB)*math.Cos(dLon)
	return math.Mod(util.RadiansToDegree(math.Atan2(y, x))+360, 360)
}

// HeadingFromBearing converts a compass bearing (degrees, clockwise from north) into a planar
// heading (radians, counter-clockwise from east) in (-pi, pi].
func HeadingFromBearing(bearing float64) float64 {
	return normalizeAngle(util.DegreeToRadians(90 - bearing))
}

func normalizeAngle(h float64) float64 {
	for h <= -math.Pi {
		h += 2 * math.Pi
	}
	for h > math.Pi {
		h -= 2 * math.Pi
	}
	return h
}
