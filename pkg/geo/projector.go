package geo

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

// Projector maps WGS84 coordinates to a planar metric frame and back.
type Projector interface {
	Forward(c Coordinate) (x, y float64)
	Inverse(x, y float64) Coordinate
	Origin() Coordinate
}

// Distortion of a projected coordinate, measured along the great circle from the projector origin.
type Distortion struct {
	Scale   float64 // |planar - great-circle distance| / great-circle distance
	Heading float64 // radians between the planar heading and the initial bearing
}

// MeasureDistortion. zero at the origin itself.
func MeasureDistortion(p Projector, c Coordinate) Distortion {
	origin := p.Origin()
	d := HaversineDistance(origin, c)
	if d == 0 {
		return Distortion{}
	}
	x, y := p.Forward(c)
	return Distortion{
		Scale:   math.Abs(math.Hypot(x, y)-d) / d,
		Heading: math.Abs(normalizeAngle(math.Atan2(y, x) - HeadingFromBearing(Bearing(origin, c)))),
	}
}

// LocalTangentPlane is an orthographic projection onto the plane tangent to the sphere at origin.
// x grows east and y grows north, both in meters. distortion stays below a millimeter within a few
// kilometers of the origin, which covers a lanelet map.
type LocalTangentPlane struct {
	origin Coordinate
	o      r3.Vector
	east   r3.Vector
	north  r3.Vector
}

func NewLocalTangentPlane(origin Coordinate) *LocalTangentPlane {
	o := s2.PointFromLatLng(s2.LatLngFromDegrees(origin.Lat, origin.Lon)).Vector
	east := r3.Vector{X: 0, Y: 0, Z: 1}.Cross(o)
	if east.Norm() < 1e-12 {
		// at the poles any horizontal axis works.
		east = r3.Vector{X: 0, Y: 1, Z: 0}
	}
	east = east.Normalize()
	north := o.Cross(east)

	return &LocalTangentPlane{origin: origin, o: o, east: east, north: north}
}

func (p *LocalTangentPlane) Origin() Coordinate {
	return p.origin
}

func (p *LocalTangentPlane) Forward(c Coordinate) (float64, float64) {
	v := s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon)).Vector
	return earthRadiusM * v.Dot(p.east), earthRadiusM * v.Dot(p.north)
}

func (p *LocalTangentPlane) Inverse(x, y float64) Coordinate {
	ex, ny := x/earthRadiusM, y/earthRadiusM
	up := math.Sqrt(math.Max(0, 1-ex*ex-ny*ny))
	v := p.east.Mul(ex).Add(p.north.Mul(ny)).Add(p.o.Mul(up))

	ll := s2.LatLngFromPoint(s2.Point{Vector: v})
	return NewCoordinate(ll.Lat.Degrees(), ll.Lng.Degrees())
}
