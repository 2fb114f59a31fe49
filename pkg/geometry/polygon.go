package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// CloseRing. ring with the first vertex repeated at the end (if it isn't already).
func CloseRing(pts []orb.Point) orb.Ring {
	ring := make(orb.Ring, len(pts), len(pts)+1)
	copy(ring, pts)
	if len(ring) > 0 && !PointsEqual(ring[0], ring[len(ring)-1]) {
		ring = append(ring, ring[0])
	}
	return ring
}

// DistanceToRing. distance from p to the ring boundary, regardless of p being inside or outside.
func DistanceToRing(p orb.Point, ring orb.Ring) float64 {
	return DistanceToLineString(p, orb.LineString(ring))
}

func RingContains(ring orb.Ring, p orb.Point) bool {
	return planar.RingContains(ring, p)
}

// RingArea. unsigned area.
func RingArea(ring orb.Ring) float64 {
	return math.Abs(planar.Area(ring))
}
