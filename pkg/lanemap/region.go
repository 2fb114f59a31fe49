package lanemap

import (
	"errors"
	"fmt"
	"math"

	"github.com/lintang-b-s/lanemap/pkg/geometry"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/planar"
	"github.com/peterstace/simplefeatures/geom"
)

// discSides. sides of the polygon that stands in for the disc swept around each ring vertex.
const discSides = 16

var (
	ErrZeroAreaRing  = errors.New("ring has zero area")
	ErrNonSimpleRing = errors.New("ring is not a simple polygon")
)

// Region is a polygonal area: the overlay union of rings, each grown by margin. Contains and
// MultiPolygon both work on the merged polygons.
type Region struct {
	polygons orb.MultiPolygon
	margin   float64
	bound    orb.Bound
}

// NewRegion. rings that fail CheckRing are left out.
func NewRegion(margin float64, rings ...orb.Ring) (*Region, error) {
	parts := make([]geom.Geometry, 0, len(rings))
	for _, ring := range rings {
		poly, err := ringPolygon(ring)
		if err != nil {
			continue
		}
		parts = append(parts, poly.AsGeometry())
		if margin > 0 {
			parts = append(parts, bufferParts(ring, margin)...)
		}
	}
	return regionFromParts(margin, parts)
}

// MergeRegions. union of already grown regions. the result keeps the largest margin.
func MergeRegions(regions ...*Region) (*Region, error) {
	margin := 0.0
	parts := make([]geom.Geometry, 0, len(regions))
	for _, r := range regions {
		margin = math.Max(margin, r.margin)
		for _, poly := range r.polygons {
			parts = append(parts, polygonGeometry(poly))
		}
	}
	return regionFromParts(margin, parts)
}

func emptyRegion(margin float64) *Region {
	return &Region{polygons: orb.MultiPolygon{}, margin: margin}
}

func regionFromParts(margin float64, parts []geom.Geometry) (*Region, error) {
	merged, err := unionAll(parts)
	if err != nil {
		return nil, fmt.Errorf("region union: %w", err)
	}
	polygons, err := toMultiPolygon(merged)
	if err != nil {
		return nil, err
	}
	r := &Region{polygons: polygons, margin: margin}
	if len(polygons) > 0 {
		r.bound = polygons.Bound()
	}
	return r, nil
}

// CheckRing. nil when ring is a valid simple polygon with positive area.
func CheckRing(ring orb.Ring) error {
	_, err := ringPolygon(ring)
	return err
}

func ringPolygon(ring orb.Ring) (geom.Polygon, error) {
	if geometry.RingArea(ring) == 0 {
		return geom.Polygon{}, ErrZeroAreaRing
	}
	poly := geom.NewPolygon([]geom.LineString{lineString(ring)})
	if err := poly.Validate(); err != nil {
		return geom.Polygon{}, fmt.Errorf("%w: %v", ErrNonSimpleRing, err)
	}
	return poly, nil
}

// lineString. closed simplefeatures ring with consecutive duplicate points dropped.
func lineString(ring orb.Ring) geom.LineString {
	coords := make([]float64, 0, 2*len(ring)+2)
	for i, p := range ring {
		if i > 0 && geometry.PointsEqual(p, ring[i-1]) {
			continue
		}
		coords = append(coords, p[0], p[1])
	}
	if n := len(coords); n >= 2 && (coords[0] != coords[n-2] || coords[1] != coords[n-1]) {
		coords = append(coords, coords[0], coords[1])
	}
	return geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
}

func polygonGeometry(poly orb.Polygon) geom.Geometry {
	rings := make([]geom.LineString, len(poly))
	for i, ring := range poly {
		rings[i] = lineString(ring)
	}
	return geom.NewPolygon(rings).AsGeometry()
}

// bufferParts. the margin band around ring as a rectangle per edge and a disc per vertex. their
// union with the ring polygon is the ring grown by margin, corners rounded by a discSides-gon.
func bufferParts(ring orb.Ring, margin float64) []geom.Geometry {
	parts := make([]geom.Geometry, 0, 2*len(ring))
	for i := 0; i+1 < len(ring); i++ {
		a, b := ring[i], ring[i+1]
		parts = append(parts, polygonGeometry(orb.Polygon{disc(a, margin)}))

		l := geometry.Distance(a, b)
		if l <= geometry.EPS {
			continue
		}
		nx, ny := -(b[1]-a[1])/l*margin, (b[0]-a[0])/l*margin
		parts = append(parts, polygonGeometry(orb.Polygon{{
			{a[0] + nx, a[1] + ny},
			{b[0] + nx, b[1] + ny},
			{b[0] - nx, b[1] - ny},
			{a[0] - nx, a[1] - ny},
			{a[0] + nx, a[1] + ny},
		}}))
	}
	return parts
}

// disc. regular polygon around c whose sides lie at distance r from c, with a side facing each
// axis direction.
func disc(c orb.Point, r float64) orb.Ring {
	circum := r / math.Cos(math.Pi/discSides)
	ring := make(orb.Ring, discSides+1)
	for k := 0; k < discSides; k++ {
		theta := 2 * math.Pi * (float64(k) + 0.5) / discSides
		ring[k] = orb.Point{c[0] + circum*math.Cos(theta), c[1] + circum*math.Sin(theta)}
	}
	ring[discSides] = ring[0]
	return ring
}

// unionAll. pairwise overlay in a balanced tree.
func unionAll(parts []geom.Geometry) (geom.Geometry, error) {
	switch len(parts) {
	case 0:
		return geom.Geometry{}, nil
	case 1:
		return parts[0], nil
	}
	mid := len(parts) / 2
	left, err := unionAll(parts[:mid])
	if err != nil {
		return geom.Geometry{}, err
	}
	right, err := unionAll(parts[mid:])
	if err != nil {
		return geom.Geometry{}, err
	}
	return geom.Union(left, right)
}

// toMultiPolygon. polygonal parts of g as orb geometry. lower dimensional leftovers are dropped.
func toMultiPolygon(g geom.Geometry) (orb.MultiPolygon, error) {
	decoded, err := wkb.Unmarshal(g.AsBinary())
	if err != nil {
		return nil, fmt.Errorf("decode region: %w", err)
	}
	mp := orb.MultiPolygon{}
	var collect func(orb.Geometry)
	collect = func(o orb.Geometry) {
		switch v := o.(type) {
		case orb.Polygon:
			mp = append(mp, v)
		case orb.MultiPolygon:
			mp = append(mp, v...)
		case orb.Collection:
			for _, c := range v {
				collect(c)
			}
		}
	}
	collect(decoded)
	return mp, nil
}

func (r *Region) Margin() float64 {
	return r.margin
}

// Bound. zero bound for an empty region.
func (r *Region) Bound() orb.Bound {
	return r.bound
}

func (r *Region) IsEmpty() bool {
	return len(r.polygons) == 0
}

// Contains. boundary points are inside.
func (r *Region) Contains(p orb.Point) bool {
	if r.IsEmpty() || !r.bound.Contains(p) {
		return false
	}
	return planar.MultiPolygonContains(r.polygons, p)
}

// MultiPolygon. the merged polygons, holes included.
func (r *Region) MultiPolygon() orb.MultiPolygon {
	return r.polygons
}
