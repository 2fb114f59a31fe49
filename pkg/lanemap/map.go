package lanemap

import (
	"context"
	"sync"

	"github.com/lintang-b-s/lanemap/pkg/datastructure"
	"github.com/lintang-b-s/lanemap/pkg/geo"
	"github.com/lintang-b-s/lanemap/pkg/geometry"
	"github.com/lintang-b-s/lanemap/pkg/osmparser"
	"github.com/lintang-b-s/lanemap/pkg/spatialindex"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Map owns every entity of a parsed lanelet map. it is read-only after Build; memoized fields are
// computed once, either lazily or by Warm.
type Map struct {
	cfg       Config
	projector geo.Projector
	log       *zap.Logger

	points         []*Point
	pointByID      map[int64]*Point
	linestrings    []*LineString
	linestringByID map[int64]*LineString
	polygons       []*Polygon
	lanelets       []*Lanelet
	crosswalks     []*Lanelet
	lanes          []*Lane

	laneIndex *spatialindex.Rtree

	drivableOnce sync.Once
	drivable     *Region
	drivableErr  error
	cellsOnce    sync.Once
	cells        []*Cell
	waysOnce     sync.Once
	ways         []WayInfo
}

func newMap(cfg Config, projector geo.Projector, log *zap.Logger) *Map {
	return &Map{
		cfg:            cfg,
		projector:      projector,
		log:            log,
		pointByID:      make(map[int64]*Point),
		linestringByID: make(map[int64]*LineString),
		laneIndex:      spatialindex.NewRtree(geometry.EPS),
	}
}

// LoadFile. parses an OSM-XML (or .osm.bz2) lanelet map and builds it with a local tangent plane
// projector anchored at cfg.Origin.
func LoadFile(ctx context.Context, path string, cfg Config, log *zap.Logger) (*Map, error) {
	doc, err := osmparser.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewBuilder(cfg, geo.NewLocalTangentPlane(cfg.Origin), log).Build(doc)
}

func (m *Map) Config() Config {
	return m.cfg
}

func (m *Map) Projector() geo.Projector {
	return m.projector
}

// Points. in document order.
func (m *Map) Points() []*Point {
	return m.points
}

func (m *Map) Point(id int64) (*Point, bool) {
	p, ok := m.pointByID[id]
	return p, ok
}

func (m *Map) LineStrings() []*LineString {
	return m.linestrings
}

func (m *Map) LineString(id int64) (*LineString, bool) {
	ls, ok := m.linestringByID[id]
	return ls, ok
}

func (m *Map) Polygons() []*Polygon {
	return m.polygons
}

// Lanelets. non-crosswalk lanelets in document order.
func (m *Map) Lanelets() []*Lanelet {
	return m.lanelets
}

func (m *Map) Crosswalks() []*Lanelet {
	return m.crosswalks
}

func (m *Map) Lanes() []*Lane {
	return m.lanes
}

func (m *Map) Lane(id int) (*Lane, bool) {
	if id < 0 || id >= len(m.lanes) {
		return nil, false
	}
	return m.lanes[id], true
}

// Bound. planar extent of all lanes with a non-empty polygon.
func (m *Map) Bound() orb.Bound {
	var b orb.Bound
	first := true
	for _, lane := range m.lanes {
		if lane.Polygon().IsEmpty() {
			continue
		}
		if first {
			b, first = lane.Polygon().Bound(), false
			continue
		}
		b = b.Union(lane.Polygon().Bound())
	}
	return b
}

// GeoBound. Bound inverse-projected to lon/lat. nil for a map without lanes.
func (m *Map) GeoBound() *datastructure.BoundingBox {
	if len(m.lanes) == 0 {
		return nil
	}
	b := m.Bound()
	corners := []orb.Point{b.Min, {b.Max[0], b.Min[1]}, b.Max, {b.Min[0], b.Max[1]}}
	lats := make([]float64, len(corners))
	lons := make([]float64, len(corners))
	for i, c := range corners {
		coord := m.projector.Inverse(c[0], c[1])
		lats[i], lons[i] = coord.Lat, coord.Lon
	}
	return datastructure.BoundingBoxOf(lats, lons)
}

// Summary holds entity counts and the planar extent of a map.
type Summary struct {
	Points      int
	LineStrings int
	Polygons    int
	Lanelets    int
	Crosswalks  int
	Lanes       int
	Bound       orb.Bound
}

func (m *Map) Summary() Summary {
	return Summary{
		Points:      len(m.points),
		LineStrings: len(m.linestrings),
		Polygons:    len(m.polygons),
		Lanelets:    len(m.lanelets),
		Crosswalks:  len(m.crosswalks),
		Lanes:       len(m.lanes),
		Bound:       m.Bound(),
	}
}

// DrivablePolygon. union of all non-crosswalk lanelet polygons, merged lane by lane. computed
// once; a failed union is returned on every call.
func (m *Map) DrivablePolygon() (*Region, error) {
	m.drivableOnce.Do(func() {
		polygons := make([]*Region, len(m.lanes))
		for i, lane := range m.lanes {
			polygons[i] = lane.Polygon()
		}
		m.drivable, m.drivableErr = MergeRegions(polygons...)
	})
	return m.drivable, m.drivableErr
}

// Cells. every lanelet cell, lanelets in document order.
func (m *Map) Cells() []*Cell {
	m.cellsOnce.Do(func() {
		for _, ll := range m.lanelets {
			m.cells = append(m.cells, ll.Cells()...)
		}
	})
	return m.cells
}

// Warm. computes every memoized field up front so the map can be shared between goroutines
// without first-use contention. spline fit failures are logged, not returned.
func (m *Map) Warm(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	if m.cfg.WarmWorkers > 0 {
		g.SetLimit(m.cfg.WarmWorkers)
	}

	for _, ll := range m.lanelets {
		ll := ll
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ll.Cells()
			return nil
		})
	}
	for _, lane := range m.lanes {
		lane := lane
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			lane.Cells()
			for _, ls := range []*LineString{lane.left, lane.right, lane.centerline} {
				if _, err := ls.Spline(); err != nil {
					m.log.Warn("lane spline fit failed", zap.Int("lane_id", lane.id), zap.Error(err))
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if _, err := m.DrivablePolygon(); err != nil {
		return err
	}
	m.Cells()
	m.WayInfos()
	return nil
}
