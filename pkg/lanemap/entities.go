package lanemap

import (
	"sync"

	"github.com/lintang-b-s/lanemap/pkg/curve"
	"github.com/lintang-b-s/lanemap/pkg/geo"
	"github.com/lintang-b-s/lanemap/pkg/geometry"
	"github.com/paulmach/orb"
)

// Point is a map node in the local metric frame.
type Point struct {
	id        int64
	coord     orb.Point
	geo       geo.Coordinate
	ele       float64
	pointType string
	subtype   string
}

func (p *Point) GetID() int64 {
	return p.id
}

func (p *Point) Coord() orb.Point {
	return p.coord
}

func (p *Point) Geo() geo.Coordinate {
	return p.geo
}

func (p *Point) Ele() float64 {
	return p.ele
}

func (p *Point) Type() string {
	return p.pointType
}

func (p *Point) Subtype() string {
	return p.subtype
}

// LineString is an ordered polyline. its resampled spline is computed at most once.
type LineString struct {
	id       int64
	coords   orb.LineString
	lineType string
	subtype  string

	laneletRefs []int64

	splineStep float64
	splineOnce sync.Once
	spline     *curve.Curve
	splineErr  error
}

func newLineString(id int64, coords orb.LineString, lineType, subtype string, splineStep float64) *LineString {
	return &LineString{
		id:         id,
		coords:     coords,
		lineType:   lineType,
		subtype:    subtype,
		splineStep: splineStep,
	}
}

func (l *LineString) GetID() int64 {
	return l.id
}

func (l *LineString) Coords() orb.LineString {
	return l.coords
}

func (l *LineString) Type() string {
	return l.lineType
}

func (l *LineString) Subtype() string {
	return l.subtype
}

// LaneletRefs. ids of the lanelets using this linestring as a member, in document order.
func (l *LineString) LaneletRefs() []int64 {
	return l.laneletRefs
}

func (l *LineString) Length() float64 {
	return geometry.Length(l.coords)
}

// Spline. cubic spline of the linestring resampled every splineStep meters along x.
func (l *LineString) Spline() (*curve.Curve, error) {
	l.splineOnce.Do(func() {
		l.spline, l.splineErr = curve.Fit(l.coords, l.splineStep)
	})
	return l.spline, l.splineErr
}

// reversed. copy of l running the other way, for per-lanelet alignment.
func (l *LineString) reversed() *LineString {
	return newLineString(l.id, geometry.Reverse(l.coords), l.lineType, l.subtype, l.splineStep)
}

func (l *LineString) clone() *LineString {
	coords := make(orb.LineString, len(l.coords))
	copy(coords, l.coords)
	return newLineString(l.id, coords, l.lineType, l.subtype, l.splineStep)
}

// Polygon is an area way.
type Polygon struct {
	id          int64
	ring        orb.Ring
	polygonType string
	subtype     string
}

func (p *Polygon) GetID() int64 {
	return p.id
}

func (p *Polygon) Ring() orb.Ring {
	return p.ring
}

func (p *Polygon) Type() string {
	return p.polygonType
}

func (p *Polygon) Subtype() string {
	return p.subtype
}

func (p *Polygon) Area() float64 {
	return geometry.RingArea(p.ring)
}
