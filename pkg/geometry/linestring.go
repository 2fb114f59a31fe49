package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

func Length(ls orb.LineString) float64 {
	return planar.Length(ls)
}

// LineStringsIntersect. true when the two polylines share at least one point.
func LineStringsIntersect(a, b orb.LineString) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	if !a.Bound().Pad(EPS).Intersects(b.Bound().Pad(EPS)) {
		return false
	}

	segs := func(ls orb.LineString) [][2]orb.Point {
		if len(ls) == 1 {
			return [][2]orb.Point{{ls[0], ls[0]}}
		}
		out := make([][2]orb.Point, 0, len(ls)-1)
		for i := 1; i < len(ls); i++ {
			out = append(out, [2]orb.Point{ls[i-1], ls[i]})
		}
		return out
	}

	sb := segs(b)
	for _, s1 := range segs(a) {
		for _, s2 := range sb {
			if SegmentsIntersect(s1[0], s1[1], s2[0], s2[1]) {
				return true
			}
		}
	}
	return false
}

// LineStringProjection is the closest point of a polyline to a query point.
type LineStringProjection struct {
	Point    orb.Point
	Segment  int     // index i of the segment (ls[i], ls[i+1])
	Along    float64 // arc length from the polyline start to Point
	Distance float64
}

// ClosestPointOnLineString. orthogonal projection of p onto ls, clamped to its endpoints. ties are
// resolved in favour of the earliest segment.
func ClosestPointOnLineString(p orb.Point, ls orb.LineString) LineStringProjection {
	best := LineStringProjection{Distance: math.Inf(1)}
	if len(ls) == 0 {
		return best
	}
	if len(ls) == 1 {
		return LineStringProjection{Point: ls[0], Distance: Distance(p, ls[0])}
	}

	walked := 0.0
	for i := 0; i+1 < len(ls); i++ {
		segLen := Distance(ls[i], ls[i+1])
		c, t := ClosestPointOnSegment(p, ls[i], ls[i+1])
		d := Distance(p, c)
		if d < best.Distance {
			best = LineStringProjection{Point: c, Segment: i, Along: walked + t*segLen, Distance: d}
		}
		walked += segLen
	}
	return best
}

func DistanceToLineString(p orb.Point, ls orb.LineString) float64 {
	return ClosestPointOnLineString(p, ls).Distance
}

// Interpolate. point at arc length d along ls, clamped to [0, length].
func Interpolate(ls orb.LineString, d float64) orb.Point {
	if len(ls) == 0 {
		return orb.Point{}
	}
	if d <= 0 || len(ls) == 1 {
		return ls[0]
	}
	walked := 0.0
	for i := 1; i < len(ls); i++ {
		segLen := Distance(ls[i-1], ls[i])
		if walked+segLen >= d {
			if segLen == 0 {
				return ls[i]
			}
			frac := (d - walked) / segLen
			return orb.Point{
				ls[i-1][0] + (ls[i][0]-ls[i-1][0])*frac,
				ls[i-1][1] + (ls[i][1]-ls[i-1][1])*frac,
			}
		}
		walked += segLen
	}
	return ls[len(ls)-1]
}

// Project. arc length along ls of the point of ls nearest to p.
func Project(ls orb.LineString, p orb.Point) float64 {
	return ClosestPointOnLineString(p, ls).Along
}

func Reverse(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, len(ls))
	for i := range ls {
		out[len(ls)-1-i] = ls[i]
	}
	return out
}

// Concat. joins polylines in order, dropping the junction point when one ends where the next
// starts.
func Concat(parts ...orb.LineString) orb.LineString {
	out := make(orb.LineString, 0)
	for _, part := range parts {
		for i, p := range part {
			if i == 0 && len(out) > 0 && PointsEqual(out[len(out)-1], p) {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// HasDuplicateConsecutive. true when two consecutive vertices coincide.
func HasDuplicateConsecutive(ls orb.LineString) bool {
	for i := 1; i < len(ls); i++ {
		if PointsEqual(ls[i-1], ls[i]) {
			return true
		}
	}
	return false
}
