package usecases

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/lanemap/pkg/datastructure"
	"github.com/lintang-b-s/lanemap/pkg/lanemap"
	"github.com/lintang-b-s/lanemap/pkg/util"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

const polylineCacheSize = 1 << 12

// LanePolylines are the encoded polylines (lat/lon) of one lane.
type LanePolylines struct {
	LeftBound  string
	RightBound string
	Centerline string
}

type LaneMapService struct {
	log    *zap.Logger
	engine LaneMapEngine

	polylines *lru.Cache[int, LanePolylines] // keyed by lane id
}

func NewLaneMapService(log *zap.Logger, engine LaneMapEngine) *LaneMapService {
	polylines, err := lru.New[int, LanePolylines](polylineCacheSize)
	if err != nil {
		// only returned for a non-positive size.
		panic(err)
	}
	return &LaneMapService{
		log:       log,
		engine:    engine,
		polylines: polylines,
	}
}

func (ls *LaneMapService) Summary() lanemap.Summary {
	return ls.engine.Summary()
}

func (ls *LaneMapService) GeoBound() *datastructure.BoundingBox {
	return ls.engine.GeoBound()
}

func (ls *LaneMapService) Lanes() []*lanemap.Lane {
	return ls.engine.Lanes()
}

func (ls *LaneMapService) Lane(id int) (*lanemap.Lane, error) {
	lane, ok := ls.engine.Lane(id)
	if !ok {
		return nil, util.WrapErrorf(lanemap.ErrUnknownLane, util.ErrNotFound, "lane %d", id)
	}
	return lane, nil
}

func (ls *LaneMapService) Ways() []lanemap.WayInfo {
	return ls.engine.WayInfos()
}

// toLonLat. inverse projects planar coordinates to orb's (lon, lat) order.
func (ls *LaneMapService) toLonLat(pts []orb.Point) []orb.Point {
	proj := ls.engine.Projector()
	out := make([]orb.Point, len(pts))
	for i, p := range pts {
		c := proj.Inverse(p[0], p[1])
		out[i] = orb.Point{c.Lon, c.Lat}
	}
	return out
}

// DrivableArea. one polygon feature per merged polygon of the drivable region, holes kept.
func (ls *LaneMapService) DrivableArea() (*geojson.FeatureCollection, error) {
	region, err := ls.engine.DrivablePolygon()
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "drivable area")
	}
	fc := geojson.NewFeatureCollection()
	for i, poly := range region.MultiPolygon() {
		lonLat := make(orb.Polygon, len(poly))
		for k, ring := range poly {
			lonLat[k] = orb.Ring(ls.toLonLat(ring))
		}
		f := geojson.NewFeature(lonLat)
		f.Properties["index"] = i
		f.Properties["margin"] = region.Margin()
		fc.Append(f)
	}
	return fc, nil
}

// EncodePolyline. google encoded polyline of ls in lat/lon.
func (ls *LaneMapService) EncodePolyline(line orb.LineString) string {
	coords := make([][]float64, 0, len(line))
	for _, p := range ls.toLonLat(line) {
		coords = append(coords, []float64{p.Lat(), p.Lon()})
	}
	return string(polyline.EncodeCoords(coords))
}

// LanePolylines. encoded bounds and centerline of lane, cached per lane id.
func (ls *LaneMapService) LanePolylines(lane *lanemap.Lane) LanePolylines {
	if p, ok := ls.polylines.Get(lane.GetID()); ok {
		return p
	}
	p := LanePolylines{
		LeftBound:  ls.EncodePolyline(lane.LeftBound().Coords()),
		RightBound: ls.EncodePolyline(lane.RightBound().Coords()),
		Centerline: ls.EncodePolyline(lane.Centerline().Coords()),
	}
	ls.polylines.Add(lane.GetID(), p)
	return p
}

func matchOptions(targetLane *int, maxCells int) []lanemap.MatchOption {
	opts := make([]lanemap.MatchOption, 0, 2)
	if targetLane != nil {
		opts = append(opts, lanemap.WithTargetLane(*targetLane))
	}
	if maxCells != 0 {
		opts = append(opts, lanemap.WithMaxCells(maxCells))
	}
	return opts
}

func (ls *LaneMapService) Match(x, y float64, targetLane *int, maxCells int) (lanemap.MatchResult, error) {
	res, err := ls.engine.Match(x, y, matchOptions(targetLane, maxCells)...)
	if err != nil {
		ls.log.Debug("match failed", zap.Float64("x", x), zap.Float64("y", y), zap.Error(err))
	}
	return res, err
}

func (ls *LaneMapService) MatchFrenet(x, y float64, targetLane *int, maxCells int) (lanemap.FrenetResult, error) {
	res, err := ls.engine.MatchFrenet(x, y, matchOptions(targetLane, maxCells)...)
	if err != nil {
		ls.log.Debug("frenet match failed", zap.Float64("x", x), zap.Float64("y", y), zap.Error(err))
	}
	return res, err
}
