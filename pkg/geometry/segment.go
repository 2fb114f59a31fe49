package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

func sub(a, b orb.Point) orb.Point {
	return orb.Point{a[0] - b[0], a[1] - b[1]}
}

func dot(a, b orb.Point) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

// cross product of two vectors a and b
func cross(a, b orb.Point) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// Distance. euclidean distance between two points.
func Distance(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}

// ClosestPointOnSegment. closest point to p on the finite segment ab and its fraction t in [0,1]
// along ab. the perpendicular foot is clamped to the segment endpoints.
func ClosestPointOnSegment(p, a, b orb.Point) (orb.Point, float64) {
	ab := sub(b, a)
	abLen2 := dot(ab, ab)
	if abLen2 < EPS*EPS {
		return a, 0
	}
	t := dot(sub(p, a), ab) / abLen2
	t = math.Max(0, math.Min(1, t))
	return orb.Point{a[0] + ab[0]*t, a[1] + ab[1]*t}, t
}

func DistanceToSegment(p, a, b orb.Point) float64 {
	c, _ := ClosestPointOnSegment(p, a, b)
	return Distance(p, c)
}

// orientation of r relative to the directed line pq: 1 = left (ccw), -1 = right, 0 = collinear.
func orientation(p, q, r orb.Point) int {
	x := cross(sub(q, p), sub(r, p))
	if math.Abs(x) < EPS {
		return 0
	}
	if x > 0 {
		return 1
	}
	return -1
}

// r is collinear with pq, so it's on the segment iff it's inside its bounding box.
func onSegment(p, q, r orb.Point) bool {
	return r[0] <= math.Max(p[0], q[0])+EPS && r[0] >= math.Min(p[0], q[0])-EPS &&
		r[1] <= math.Max(p[1], q[1])+EPS && r[1] >= math.Min(p[1], q[1])-EPS
}

// SegmentsIntersect. true when segments ab and pq share at least one point, touching endpoints
// and collinear overlaps included.
func SegmentsIntersect(a, b, p, q orb.Point) bool {
	o1 := orientation(a, b, p)
	o2 := orientation(a, b, q)
	o3 := orientation(p, q, a)
	o4 := orientation(p, q, b)

	if o1 != o2 && o3 != o4 {
		return true
	}

	if o1 == 0 && onSegment(a, b, p) {
		return true
	}
	if o2 == 0 && onSegment(a, b, q) {
		return true
	}
	if o3 == 0 && onSegment(p, q, a) {
		return true
	}
	if o4 == 0 && onSegment(p, q, b) {
		return true
	}
	return false
}
