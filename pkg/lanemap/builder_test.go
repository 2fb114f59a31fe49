package lanemap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lintang-b-s/lanemap/pkg/datastructure"
	"github.com/lintang-b-s/lanemap/pkg/geo"
	"github.com/lintang-b-s/lanemap/pkg/osmparser"
	"github.com/lintang-b-s/lanemap/pkg/util"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildTwoLaneRoad(t *testing.T) {
	m, err := buildFixture(t, DefaultConfig(), twoLaneRoad())
	require.NoError(t, err)

	assert.Len(t, m.Points(), 16)
	assert.Len(t, m.LineStrings(), 10)
	assert.Len(t, m.Polygons(), 1)
	assert.Len(t, m.Lanelets(), 4)
	require.Len(t, m.Crosswalks(), 1)
	assert.Equal(t, int64(1005), m.Crosswalks()[0].GetID())
	assert.Equal(t, -1, m.Crosswalks()[0].LaneID())

	require.Len(t, m.Lanes(), 3)
	assert.Equal(t, []int64{1001, 1002}, m.Lanes()[0].LaneletIDs())
	assert.Equal(t, []int64{1003}, m.Lanes()[1].LaneletIDs())
	assert.Equal(t, []int64{1004}, m.Lanes()[2].LaneletIDs())

	assert.Equal(t, []int{1}, m.Lanes()[0].LeftAdjacent())
	assert.Empty(t, m.Lanes()[0].RightAdjacent())
	assert.Equal(t, []int{0}, m.Lanes()[1].RightAdjacent())
	assert.Empty(t, m.Lanes()[2].LeftAdjacent())

	for _, ll := range m.Lanelets() {
		assert.Equal(t, ll.LaneID(), laneOf(m, ll.GetID()))
	}

	ls, ok := m.LineString(106)
	require.True(t, ok)
	assert.Equal(t, []int64{1003}, ls.LaneletRefs())
}

func laneOf(m *Map, laneletID int64) int {
	for _, lane := range m.Lanes() {
		for _, id := range lane.LaneletIDs() {
			if id == laneletID {
				return lane.GetID()
			}
		}
	}
	return -1
}

func TestBuildMergesBounds(t *testing.T) {
	m, err := buildFixture(t, DefaultConfig(), twoLaneRoad())
	require.NoError(t, err)

	lane := m.Lanes()[0]
	assert.Equal(t, orb.LineString{{0, 4}, {20, 4}, {40, 4}}, lane.LeftBound().Coords())
	// way 104 is stored backwards and gets aligned before merging.
	assert.Equal(t, orb.LineString{{0, 0}, {20, 0}, {40, 0}}, lane.RightBound().Coords())
	assert.Equal(t, orb.LineString{{0, 2}, {10, 2}, {20, 2}, {30, 2}, {40, 2}}, lane.Centerline().Coords())
	assert.InDelta(t, 40.0, lane.Length(), 1e-9)

	// the shared way keeps its document direction.
	raw, ok := m.LineString(104)
	require.True(t, ok)
	assert.Equal(t, orb.LineString{{40, 0}, {20, 0}}, raw.Coords())

	spline, err := lane.CenterlineSpline()
	require.NoError(t, err)
	assert.InDelta(t, 40.0, spline.Length(), 1e-6)
}

func TestBuildSeparatesUnconnectedLanelets(t *testing.T) {
	m, err := buildFixture(t, DefaultConfig(), twoLaneRoad())
	require.NoError(t, err)

	assert.NotEqual(t, laneOf(m, 1001), laneOf(m, 1004))
	assert.NotEqual(t, laneOf(m, 1001), laneOf(m, 1003))
	assert.Equal(t, laneOf(m, 1001), laneOf(m, 1002))
}

func TestDrivablePolygonExcludesCrosswalks(t *testing.T) {
	m, err := buildFixture(t, DefaultConfig(), twoLaneRoad())
	require.NoError(t, err)

	drivable, err := m.DrivablePolygon()
	require.NoError(t, err)
	// lanes 0 and 1 share y=4 and merge, lane 2 stands apart.
	mp := drivable.MultiPolygon()
	assert.Len(t, mp, 2)
	assert.InDelta(t, 40*8+20*4, planar.Area(mp), 1e-6)
	assert.True(t, drivable.Contains(orb.Point{15, 1}))
	assert.True(t, drivable.Contains(orb.Point{30, 6}))
	assert.False(t, drivable.Contains(orb.Point{46, 4}))

	again, err := m.DrivablePolygon()
	require.NoError(t, err)
	assert.Same(t, drivable, again)
}

func TestDrivablePolygonBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Buffer = 1
	m, err := buildFixture(t, cfg, twoLaneRoad())
	require.NoError(t, err)

	drivable, err := m.DrivablePolygon()
	require.NoError(t, err)
	mp := drivable.MultiPolygon()
	require.Len(t, mp, 2)
	assert.InDelta(t, -1, drivable.Bound().Min[0], 1e-6)
	assert.InDelta(t, 9, drivable.Bound().Max[1], 1e-6)

	testCases := []struct {
		name string
		p    orb.Point
		want bool
	}{
		{name: "lane interior", p: orb.Point{10, 2}, want: true},
		{name: "margin below lane 0", p: orb.Point{10, -0.5}, want: true},
		{name: "margin above lane 1", p: orb.Point{10, 8.5}, want: true},
		{name: "margin right of lane 2", p: orb.Point{120.5, 2}, want: true},
		{name: "past the margin", p: orb.Point{10, -1.5}, want: false},
		{name: "crosswalk", p: orb.Point{46, 4}, want: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, drivable.Contains(tt.p))
			assert.Equal(t, tt.want, planar.MultiPolygonContains(mp, tt.p))
		})
	}

	res, err := m.Match(10, -0.5)
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, laneOf(m, 1001), res.LaneID)
}

func TestBuildDegenerateLanelets(t *testing.T) {
	testCases := []struct {
		name       string
		fixture    *osmFixture
		wantWarn   error
		frenetOK   bool
		queryPoint orb.Point
	}{
		{
			name: "collapsed bounds",
			fixture: newFixture().
				node(1, 5, 5).node(2, 5, 5).node(3, 5, 5).node(4, 5, 5).
				way(101, "", "", 1, 2).way(102, "", "", 3, 4).
				lanelet(10, "road", member{"left", 101}, member{"right", 102}),
			wantWarn:   ErrZeroAreaRing,
			queryPoint: orb.Point{5, 5},
		},
		{
			name: "crossing bounds",
			fixture: newFixture().
				node(1, 0, 0).node(2, 10, 6).node(3, 0, 4).node(4, 10, 0).
				way(101, "", "", 1, 2).way(102, "", "", 3, 4).
				lanelet(10, "road", member{"left", 101}, member{"right", 102}),
			wantWarn:   ErrNonSimpleRing,
			frenetOK:   true,
			queryPoint: orb.Point{8, 3},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			doc, err := osmparser.Parse(context.Background(), strings.NewReader(tt.fixture.String()))
			require.NoError(t, err)
			cfg := DefaultConfig()
			m, err := NewBuilder(cfg, geo.NewLocalTangentPlane(cfg.Origin), zap.New(core)).Build(doc)
			require.NoError(t, err)
			require.Len(t, m.Lanes(), 1)

			warnings := logs.FilterMessage("lanelet polygon is degenerate").All()
			require.Len(t, warnings, 1)
			assert.Equal(t, int64(10), warnings[0].ContextMap()["lanelet_id"])
			assert.Contains(t, warnings[0].ContextMap()["error"], tt.wantWarn.Error())

			require.NoError(t, m.Warm(context.Background()))
			assert.True(t, m.Lanes()[0].Polygon().IsEmpty())

			res, err := m.Match(tt.queryPoint[0], tt.queryPoint[1])
			require.NoError(t, err)
			assert.False(t, res.Matched)

			fres, err := m.MatchFrenet(tt.queryPoint[0], tt.queryPoint[1], WithTargetLane(0))
			require.NoError(t, err)
			assert.Equal(t, tt.frenetOK, fres.Matched)
		})
	}
}

func TestBuildWarnsFarFromOrigin(t *testing.T) {
	testCases := []struct {
		name     string
		lat, lon float64
		wantWarn bool
	}{
		{name: "next to the origin", lat: 49.01, lon: 8.41},
		{name: "a city away", lat: 49.3, lon: 8.9},
		{name: "two degrees north", lat: 51, lon: 8.4, wantWarn: true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Origin = geo.NewCoordinate(49, 8.4)
			cfg.UseLocalCoordinates = false
			doc, err := osmparser.Parse(context.Background(),
				strings.NewReader(newFixture().geoNode(1, 49, 8.4).geoNode(2, tt.lat, tt.lon).String()))
			require.NoError(t, err)

			core, logs := observer.New(zap.WarnLevel)
			m, err := NewBuilder(cfg, geo.NewLocalTangentPlane(cfg.Origin), zap.New(core)).Build(doc)
			require.NoError(t, err)
			assert.Len(t, m.Points(), 2)

			warnings := logs.FilterMessage("map extends too far from the projection origin").All()
			if !tt.wantWarn {
				assert.Empty(t, warnings)
				return
			}
			require.Len(t, warnings, 1)
			assert.Equal(t, int64(2), warnings[0].ContextMap()["node_id"])
			assert.Greater(t, warnings[0].ContextMap()["scale_error"], maxProjectionScaleError)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	base := func() *osmFixture {
		return newFixture().
			node(1, 0, 4).node(2, 20, 4).node(4, 0, 0).node(5, 20, 0).
			way(101, "", "", 1, 2).
			way(103, "", "", 4, 5)
	}

	testCases := []struct {
		name    string
		fixture *osmFixture
		wantErr error
		wantMsg string
	}{
		{
			name:    "missing right bound",
			fixture: base().lanelet(7, "road", member{"left", 101}),
			wantErr: ErrMissingBound,
			wantMsg: "lanelet 7",
		},
		{
			name:    "unknown role",
			fixture: base().lanelet(8, "road", member{"left", 101}, member{"right", 103}, member{"middle", 101}),
			wantErr: ErrUnknownRole,
			wantMsg: "lanelet 8",
		},
		{
			name:    "repeated role",
			fixture: base().lanelet(9, "road", member{"left", 101}, member{"left", 103}),
			wantErr: ErrDuplicateRole,
			wantMsg: "lanelet 9",
		},
		{
			name:    "unknown way",
			fixture: base().lanelet(10, "road", member{"left", 101}, member{"right", 999}),
			wantErr: ErrUnresolvedWay,
			wantMsg: "way 999",
		},
		{
			name:    "unknown node",
			fixture: base().way(102, "", "", 2, 42),
			wantErr: ErrUnresolvedPoint,
			wantMsg: "way 102 node 42",
		},
		{
			name:    "single point bound",
			fixture: base().way(104, "", "", 5).lanelet(11, "road", member{"left", 101}, member{"right", 104}),
			wantErr: ErrDegenerateBound,
			wantMsg: "lanelet 11",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildFixture(t, DefaultConfig(), tt.fixture)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, util.ErrBadParamInput)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

// fork: 1 continues into both 2 and 3.
func forkFixture() *osmFixture {
	return newFixture().
		node(1, 0, 4).node(2, 20, 4).node(3, 40, 4).node(4, 40, 10).
		node(5, 0, 0).node(6, 20, 0).node(7, 40, 0).node(8, 40, 6).
		way(101, "", "", 1, 2).way(102, "", "", 2, 3).way(103, "", "", 2, 4).
		way(104, "", "", 5, 6).way(105, "", "", 6, 7).way(106, "", "", 6, 8).
		lanelet(1, "road", member{"left", 101}, member{"right", 104}).
		lanelet(2, "road", member{"left", 102}, member{"right", 105}).
		lanelet(3, "road", member{"left", 103}, member{"right", 106})
}

// loop: two lanelets forming a ring, each one ends where the other starts.
func loopFixture() *osmFixture {
	return newFixture().
		node(1, 10, 0).node(2, 0, 10).node(3, -10, 0).node(4, 0, -10).
		node(5, 20, 0).node(6, 0, 20).node(7, -20, 0).node(8, 0, -20).
		way(101, "", "", 1, 2, 3).way(102, "", "", 5, 6, 7).
		way(103, "", "", 3, 4, 1).way(104, "", "", 7, 8, 5).
		lanelet(1, "road", member{"left", 101}, member{"right", 102}).
		lanelet(2, "road", member{"left", 103}, member{"right", 104})
}

func TestBuildTopologyConflicts(t *testing.T) {
	testCases := []struct {
		name    string
		fixture *osmFixture
		wantErr error
		wantIDs []int64
	}{
		{name: "fork", fixture: forkFixture(), wantErr: datastructure.ErrAmbiguousOrder, wantIDs: []int64{1, 2, 3}},
		{name: "loop", fixture: loopFixture(), wantErr: datastructure.ErrCycle, wantIDs: []int64{1, 2}},
	}

	for _, tt := range testCases {
		t.Run(tt.name+" strict", func(t *testing.T) {
			_, err := buildFixture(t, DefaultConfig(), tt.fixture)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsTopologyError(err))

			var terr *TopologyError
			require.True(t, errors.As(err, &terr))
			assert.Equal(t, tt.wantIDs, terr.LaneletIDs)
		})

		t.Run(tt.name+" lenient", func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.StrictTopology = false
			m, err := buildFixture(t, cfg, tt.fixture)
			require.NoError(t, err)
			require.Len(t, m.Lanes(), len(tt.wantIDs))
			for i, lane := range m.Lanes() {
				assert.Equal(t, []int64{tt.wantIDs[i]}, lane.LaneletIDs())
			}
		})
	}
}

func TestBuildBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CellLen = 0
	_, err := buildFixture(t, cfg, twoLaneRoad())
	assert.ErrorIs(t, err, ErrBadConfig)
}

func TestSummaryAndGeoBound(t *testing.T) {
	m, err := buildFixture(t, DefaultConfig(), twoLaneRoad())
	require.NoError(t, err)

	s := m.Summary()
	assert.Equal(t, 16, s.Points)
	assert.Equal(t, 10, s.LineStrings)
	assert.Equal(t, 1, s.Polygons)
	assert.Equal(t, 4, s.Lanelets)
	assert.Equal(t, 1, s.Crosswalks)
	assert.Equal(t, 3, s.Lanes)
	assert.InDelta(t, 0, s.Bound.Min[0], 1e-9)
	assert.InDelta(t, 120, s.Bound.Max[0], 1e-9)
	assert.InDelta(t, 8, s.Bound.Max[1], 1e-9)

	bb := m.GeoBound()
	require.NotNil(t, bb)
	assert.InDelta(t, 0, bb.GetMinLat(), 1e-9)
	assert.InDelta(t, 0, bb.GetMinLon(), 1e-9)
	assert.Greater(t, bb.GetMaxLat(), bb.GetMinLat())
	assert.Greater(t, bb.GetMaxLon(), bb.GetMinLon())
	// 120 m east of the equator origin is about 0.00108 degrees.
	assert.InDelta(t, 0.00108, bb.GetMaxLon(), 1e-5)
}
