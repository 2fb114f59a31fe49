// Package frenet expresses world-frame points in the (s, d) frame of a reference polyline: s is
// the arc length of the closest point on the polyline, d the signed lateral offset (positive to the
// left of the travel direction).
package frenet

import (
	"errors"
	"math"
	"sort"

	"github.com/lintang-b-s/lanemap/pkg/geometry"
	"github.com/lintang-b-s/lanemap/pkg/util"
	"github.com/paulmach/orb"
)

var ErrDegeneratePath = errors.New("frenet: reference path needs two distinct points")

// Path is an immutable reference polyline with its cumulative arc length and per-segment heading.
type Path struct {
	points   orb.LineString
	cumDist  []float64 // cumDist[i] = arc length at points[i]
	headings []float64 // headings[i] = heading of segment (points[i], points[i+1])
}

// NewPath. consecutive duplicate points are dropped.
func NewPath(points orb.LineString) (*Path, error) {
	pts := make(orb.LineString, 0, len(points))
	for _, p := range points {
		if len(pts) > 0 && geometry.PointsEqual(pts[len(pts)-1], p) {
			continue
		}
		pts = append(pts, p)
	}
	if len(pts) < 2 {
		return nil, ErrDegeneratePath
	}

	cumDist := make([]float64, len(pts))
	headings := make([]float64, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		cumDist[i] = cumDist[i-1] + geometry.Distance(pts[i-1], pts[i])
		headings[i-1] = geometry.Heading(pts[i-1], pts[i])
	}

	return &Path{points: pts, cumDist: cumDist, headings: headings}, nil
}

func (p *Path) Points() orb.LineString {
	return p.points
}

func (p *Path) Length() float64 {
	return p.cumDist[len(p.cumDist)-1]
}

// Position is a point expressed in the path's Frenet frame.
type Position struct {
	S       float64   // arc length of the closest point
	D       float64   // signed lateral offset, left positive
	Heading float64   // tangent heading at S
	Point   orb.Point // closest point on the path
	Segment int
}

// Project. closest point of the path to (x, y) by orthogonal projection clamped to the path ends.
// the sign of D follows geometry.CardinalDirection measured from the start of the closest segment.
func (p *Path) Project(x, y float64) Position {
	q := orb.Point{x, y}
	proj := geometry.ClosestPointOnLineString(q, p.points)
	heading := p.headings[proj.Segment]
	card := geometry.CardinalDirection(p.points[proj.Segment], heading, q)

	return Position{
		S:       proj.Along,
		D:       util.Sign(card) * proj.Distance,
		Heading: heading,
		Point:   proj.Point,
		Segment: proj.Segment,
	}
}

// PointAt. point and tangent heading at arc length s. ok is false outside [0, Length()].
func (p *Path) PointAt(s float64) (orb.Point, float64, bool) {
	if s < -geometry.EPS || s > p.Length()+geometry.EPS {
		return orb.Point{}, 0, false
	}
	s = math.Max(0, math.Min(s, p.Length()))

	// first vertex with cumDist >= s closes the segment containing s.
	i := sort.SearchFloat64s(p.cumDist, s)
	if i == 0 {
		return p.points[0], p.headings[0], true
	}
	seg := i - 1
	segLen := p.cumDist[i] - p.cumDist[seg]
	frac := 0.0
	if segLen > 0 {
		frac = (s - p.cumDist[seg]) / segLen
	}
	a, b := p.points[seg], p.points[i]
	pt := orb.Point{a[0] + (b[0]-a[0])*frac, a[1] + (b[1]-a[1])*frac}
	return pt, p.headings[seg], true
}

// Waypoint is a lookahead point on the path. Valid is false (and the rest zero) when the lookahead
// falls past the path end.
type Waypoint struct {
	X, Y    float64
	Heading float64
	Valid   bool
}

// Waypoints. points at s + delta for each delta. entries past the end of the path are left unset.
func (p *Path) Waypoints(s float64, deltas []float64) []Waypoint {
	wps := make([]Waypoint, len(deltas))
	for i, delta := range deltas {
		pt, heading, ok := p.PointAt(s + delta)
		if !ok {
			continue
		}
		wps[i] = Waypoint{X: pt[0], Y: pt[1], Heading: heading, Valid: true}
	}
	return wps
}
