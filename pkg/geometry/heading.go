// Package geometry holds the planar primitives shared by the lane map: headings, cardinal
// direction tests, frame transforms and segment/linestring distance queries.
//
// Angles are radians measured counter-clockwise from the +x axis and normalized to (-pi, pi].
// A positive cardinal direction means "to the left of the ray", a magnitude above pi/2 means
// "behind the ray origin".
package geometry

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	EPS = 1e-6
)

// Heading. bearing of the vector p1->p2 in (-pi, pi]. -pi is reported as pi.
func Heading(p1, p2 orb.Point) float64 {
	h := math.Atan2(p2[1]-p1[1], p2[0]-p1[0])
	if h == -math.Pi {
		h = math.Pi
	}
	return h
}

// NormalizeAngle. wraps a into (-pi, pi].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// CardinalDirection. signed angle of target relative to the ray starting at origin with the given
// heading. positive = left, negative = right, |card| > pi/2 = behind. 0 when target == origin.
func CardinalDirection(origin orb.Point, heading float64, target orb.Point) float64 {
	if PointsEqual(origin, target) {
		return 0
	}
	return NormalizeAngle(Heading(origin, target) - heading)
}

// IsAboveLine. +1 if target is strictly above the line through origin with slope tan(heading),
// -1 if below and 0 if it lies on the line within EPS. the slope form is undefined for vertical
// headings; callers must avoid heading = +-pi/2.
func IsAboveLine(origin orb.Point, heading float64, target orb.Point) int {
	slope := math.Tan(heading)
	lineY := origin[1] + slope*(target[0]-origin[0])
	diff := target[1] - lineY
	if math.Abs(diff) <= EPS {
		return 0
	}
	if diff > 0 {
		return 1
	}
	return -1
}

// PointsEqual. coordinate-wise equality within EPS.
func PointsEqual(a, b orb.Point) bool {
	return math.Abs(a[0]-b[0]) <= EPS && math.Abs(a[1]-b[1]) <= EPS
}

func MidPoint(a, b orb.Point) orb.Point {
	return orb.Point{(a[0] + b[0]) / 2.0, (a[1] + b[1]) / 2.0}
}
