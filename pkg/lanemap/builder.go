package lanemap

import (
	"errors"

	"github.com/lintang-b-s/lanemap/pkg/datastructure"
	"github.com/lintang-b-s/lanemap/pkg/geo"
	"github.com/lintang-b-s/lanemap/pkg/geometry"
	"github.com/lintang-b-s/lanemap/pkg/osmparser"
	"github.com/lintang-b-s/lanemap/pkg/spatialindex"
	"github.com/lintang-b-s/lanemap/pkg/util"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

const (
	roleLeft              = "left"
	roleRight             = "right"
	roleCenterline        = "centerline"
	roleRegulatoryElement = "regulatory_element"

	relationLanelet = "lanelet"

	// about 150 km from the origin on the tangent plane.
	maxProjectionScaleError = 1e-4
)

// Builder turns raw OSM records into a Map.
type Builder struct {
	cfg       Config
	projector geo.Projector
	log       *zap.Logger

	m *Map
}

func NewBuilder(cfg Config, projector geo.Projector, log *zap.Logger) *Builder {
	return &Builder{
		cfg:       cfg,
		projector: projector,
		log:       log,
	}
}

// Build. points, then ways, then lanelet relations, then lanes. structural errors abort the build
// and name the offending way or relation; geometric degeneracies are logged.
func (b *Builder) Build(doc *osmparser.Document) (*Map, error) {
	if err := b.cfg.validate(); err != nil {
		return nil, err
	}

	b.m = newMap(b.cfg, b.projector, b.log)

	b.extractPoints(doc.Nodes)
	if err := b.extractWays(doc.Ways); err != nil {
		return nil, err
	}
	if err := b.extractLanelets(doc.Relations); err != nil {
		return nil, err
	}
	if err := b.extractLanes(); err != nil {
		return nil, err
	}

	b.log.Info("lanelet map built",
		zap.Int("points", len(b.m.points)),
		zap.Int("linestrings", len(b.m.linestrings)),
		zap.Int("polygons", len(b.m.polygons)),
		zap.Int("lanelets", len(b.m.lanelets)),
		zap.Int("crosswalks", len(b.m.crosswalks)),
		zap.Int("lanes", len(b.m.lanes)))

	m := b.m
	b.m = nil
	return m, nil
}

func (b *Builder) extractPoints(nodes []osmparser.Node) {
	var worst geo.Distortion
	var worstID int64
	for _, n := range nodes {
		var coord orb.Point
		if b.cfg.UseLocalCoordinates && n.HasLocal {
			coord = orb.Point{n.LocalX, n.LocalY}
		} else {
			c := geo.NewCoordinate(n.Lat, n.Lon)
			x, y := b.projector.Forward(c)
			coord = orb.Point{x, y}
			if d := geo.MeasureDistortion(b.projector, c); d.Scale > worst.Scale {
				worst, worstID = d, n.ID
			}
		}

		p := &Point{
			id:        n.ID,
			coord:     coord,
			geo:       geo.NewCoordinate(n.Lat, n.Lon),
			ele:       n.Ele,
			pointType: n.Type,
			subtype:   n.Subtype,
		}
		if _, ok := b.m.pointByID[n.ID]; ok {
			b.log.Warn("duplicate node id, keeping the last one", zap.Int64("node_id", n.ID))
		} else {
			b.m.points = append(b.m.points, p)
		}
		b.m.pointByID[n.ID] = p
	}

	if worst.Scale > maxProjectionScaleError {
		b.log.Warn("map extends too far from the projection origin",
			zap.Int64("node_id", worstID),
			zap.Float64("scale_error", worst.Scale),
			zap.Float64("heading_error", worst.Heading))
	}
}

func (b *Builder) extractWays(ways []osmparser.Way) error {
	for _, w := range ways {
		coords := make([]orb.Point, len(w.NodeIDs))
		for i, nid := range w.NodeIDs {
			p, ok := b.m.pointByID[nid]
			if !ok {
				return util.WrapErrorf(ErrUnresolvedPoint, util.ErrBadParamInput, "way %d node %d", w.ID, nid)
			}
			coords[i] = p.coord
		}

		if w.Area {
			poly := &Polygon{id: w.ID, ring: geometry.CloseRing(coords), polygonType: w.Type, subtype: w.Subtype}
			if poly.Area() == 0 {
				b.log.Warn("zero-area polygon", zap.Int64("way_id", w.ID))
			}
			b.m.polygons = append(b.m.polygons, poly)
			continue
		}

		ls := newLineString(w.ID, coords, w.Type, w.Subtype, b.cfg.SplineStep)
		if geometry.HasDuplicateConsecutive(ls.coords) {
			b.log.Warn("linestring has duplicate consecutive points", zap.Int64("way_id", w.ID))
		}
		if len(ls.coords) >= 2 && ls.Length() == 0 {
			b.log.Warn("zero-length linestring", zap.Int64("way_id", w.ID))
		}
		b.m.linestrings = append(b.m.linestrings, ls)
		b.m.linestringByID[w.ID] = ls
	}
	return nil
}

func (b *Builder) extractLanelets(relations []osmparser.Relation) error {
	for _, rel := range relations {
		if rel.Type != relationLanelet {
			continue
		}
		ll, err := b.extractLanelet(rel)
		if err != nil {
			return err
		}

		if ll.IsCrosswalk() {
			ll.index = datastructure.Index(len(b.m.crosswalks))
			b.m.crosswalks = append(b.m.crosswalks, ll)
		} else {
			ll.index = datastructure.Index(len(b.m.lanelets))
			b.m.lanelets = append(b.m.lanelets, ll)
		}
	}
	return nil
}

func (b *Builder) extractLanelet(rel osmparser.Relation) (*Lanelet, error) {
	members := make(map[string]*LineString, 3)
	for _, mem := range rel.Members {
		switch mem.Role {
		case roleRegulatoryElement:
			continue
		case roleLeft, roleRight, roleCenterline:
		default:
			return nil, util.WrapErrorf(ErrUnknownRole, util.ErrBadParamInput, "lanelet %d role %q", rel.ID, mem.Role)
		}

		if _, dup := members[mem.Role]; dup {
			return nil, util.WrapErrorf(ErrDuplicateRole, util.ErrBadParamInput, "lanelet %d role %q", rel.ID, mem.Role)
		}
		ls, ok := b.m.linestringByID[mem.Ref]
		if !ok {
			return nil, util.WrapErrorf(ErrUnresolvedWay, util.ErrBadParamInput, "lanelet %d way %d", rel.ID, mem.Ref)
		}
		ls.laneletRefs = append(ls.laneletRefs, rel.ID)
		members[mem.Role] = ls
	}

	left, right := members[roleLeft], members[roleRight]
	if left == nil || right == nil {
		return nil, util.WrapErrorf(ErrMissingBound, util.ErrBadParamInput, "lanelet %d", rel.ID)
	}
	if len(left.coords) < 2 || len(right.coords) < 2 {
		return nil, util.WrapErrorf(ErrDegenerateBound, util.ErrBadParamInput, "lanelet %d", rel.ID)
	}

	ll := &Lanelet{
		id:            rel.ID,
		subtype:       rel.Subtype,
		region:        rel.Region,
		location:      rel.Location,
		turnDirection: rel.TurnDirection,
		fallback:      rel.Fallback,
		oneWay:        rel.OneWay,
		participants:  rel.Participants,
		laneID:        -1,
		cellLen:       b.cfg.CellLen,
		buffer:        b.cfg.Buffer,
	}
	ll.left, ll.right = alignBounds(left, right)

	if ll.left.Length() == 0 || ll.right.Length() == 0 {
		b.log.Warn("lanelet has a zero-length bound", zap.Int64("lanelet_id", rel.ID))
	}
	ring := ll.ring()
	if err := CheckRing(ring); err != nil {
		b.log.Warn("lanelet polygon is degenerate", zap.Int64("lanelet_id", rel.ID), zap.Error(err))
	}
	polygon, err := NewRegion(b.cfg.Buffer, ring)
	if err != nil {
		b.log.Warn("lanelet polygon union failed", zap.Int64("lanelet_id", rel.ID), zap.Error(err))
		polygon = emptyRegion(b.cfg.Buffer)
	}
	ll.polygon = polygon

	if c := members[roleCenterline]; c != nil && len(c.coords) >= 2 {
		ll.centerline = alignCenterline(c, ll.left)
	} else {
		ll.centerline = newLineString(rel.ID, mergeCenterLines(ll.Cells()), "", "", b.cfg.SplineStep)
		if len(ll.centerline.coords) < 2 {
			// no cells: the bounds are too short to slice.
			ll.centerline = newLineString(rel.ID, orb.LineString{
				geometry.MidPoint(ll.left.coords[0], ll.right.coords[0]),
				geometry.MidPoint(ll.left.coords[len(ll.left.coords)-1], ll.right.coords[len(ll.right.coords)-1]),
			}, "", "", b.cfg.SplineStep)
		}
	}
	return ll, nil
}

// alignCenterline. copy of c running in the direction of the aligned left bound.
func alignCenterline(c, left *LineString) *LineString {
	start := left.coords[0]
	if geometry.Distance(c.coords[0], start) > geometry.Distance(c.coords[len(c.coords)-1], start) {
		return c.reversed()
	}
	return c.clone()
}

func (b *Builder) extractLanes() error {
	lanelets := b.m.lanelets
	n := len(lanelets)

	rt := spatialindex.NewRtree(geometry.EPS)
	bounds := make([]orb.Bound, n)
	for i, ll := range lanelets {
		bounds[i] = ll.bound()
	}
	rt.Build(bounds, b.log)

	connectivity := datastructure.NewGraph(n)
	order := datastructure.NewGraph(n)
	for i, ll := range lanelets {
		for _, j := range rt.Search(bounds[i]) {
			if int(j) <= i {
				continue
			}
			other := lanelets[j]
			if !ll.connectedTo(other) {
				continue
			}
			connectivity.AddUndirectedEdge(datastructure.Index(i), j)
			if ll.precedes(other) {
				order.AddEdge(datastructure.Index(i), j)
			}
			if other.precedes(ll) {
				order.AddEdge(j, datastructure.Index(i))
			}
		}
	}

	groups := make([][]*Lanelet, 0, n)
	for ci, component := range connectivity.ConnectedComponents() {
		sorted, err := order.TopologicalOrder(component)
		if err != nil {
			terr := &TopologyError{Component: ci, LaneletIDs: laneletIDs(lanelets, component), Err: err}
			if b.cfg.StrictTopology {
				return terr
			}
			b.log.Warn("lanelet component has no unique order, splitting it into single-lanelet lanes",
				zap.Error(terr))
			for _, idx := range component {
				groups = append(groups, []*Lanelet{lanelets[idx]})
			}
			continue
		}

		group := make([]*Lanelet, len(sorted))
		for k, idx := range sorted {
			group[k] = lanelets[idx]
		}
		groups = append(groups, group)
	}

	for id, group := range groups {
		lane := newLane(id, group, b.cfg.CellLen, b.cfg.Buffer, b.cfg.SplineStep)
		if lane.path == nil {
			b.log.Warn("lane centerline is degenerate, frenet matching disabled", zap.Int("lane_id", id))
		}
		polygons := make([]*Region, len(group))
		for k, ll := range group {
			ll.laneID = id
			polygons[k] = ll.polygon
		}
		polygon, err := MergeRegions(polygons...)
		if err != nil {
			b.log.Warn("lane polygon union failed", zap.Int("lane_id", id), zap.Error(err))
			polygon = emptyRegion(b.cfg.Buffer)
		}
		lane.polygon = polygon
		b.m.lanes = append(b.m.lanes, lane)
	}

	b.linkAdjacentLanes()

	laneBounds := make([]orb.Bound, len(b.m.lanes))
	for i, lane := range b.m.lanes {
		laneBounds[i] = lane.Polygon().Bound()
	}
	b.m.laneIndex.Build(laneBounds, b.log)
	return nil
}

// linkAdjacentLanes. lane i's left bound touching lane j's right bound makes j the left neighbour
// of i; otherwise i's right bound touching j's left bound makes j the right neighbour of i.
func (b *Builder) linkAdjacentLanes() {
	lanes := b.m.lanes
	for i := 0; i < len(lanes); i++ {
		for j := i + 1; j < len(lanes); j++ {
			li, lj := lanes[i], lanes[j]
			switch {
			case geometry.LineStringsIntersect(li.left.coords, lj.right.coords):
				li.leftAdjacent = append(li.leftAdjacent, lj.id)
				lj.rightAdjacent = append(lj.rightAdjacent, li.id)
			case geometry.LineStringsIntersect(li.right.coords, lj.left.coords):
				li.rightAdjacent = append(li.rightAdjacent, lj.id)
				lj.leftAdjacent = append(lj.leftAdjacent, li.id)
			}
		}
	}
}

func laneletIDs(lanelets []*Lanelet, idx []datastructure.Index) []int64 {
	ids := make([]int64, len(idx))
	for i, j := range idx {
		ids[i] = lanelets[j].id
	}
	return ids
}

// IsTopologyError. true when err carries a *TopologyError.
func IsTopologyError(err error) bool {
	var terr *TopologyError
	return errors.As(err, &terr)
}
