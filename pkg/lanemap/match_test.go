package lanemap

import (
	"context"
	"testing"

	"github.com/lintang-b-s/lanemap/pkg/frenet"
	"github.com/lintang-b-s/lanemap/pkg/util"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchInsideLane(t *testing.T) {
	m, err := buildFixture(t, DefaultConfig(), twoLaneRoad())
	require.NoError(t, err)

	res, err := m.Match(15, 1)
	require.NoError(t, err)
	require.True(t, res.Matched)
	assert.Equal(t, 0, res.LaneID)
	assert.Equal(t, 1, res.CellID)

	cell := m.Lanes()[0].Cells()[res.CellID]
	assert.True(t, cell.Contains(orb.Point{15, 1}))

	assert.InDelta(t, 3.0, res.LeftBoundDist, 1e-9)
	assert.InDelta(t, 1.0, res.RightBoundDist, 1e-9)
	assert.InDelta(t, -1.0, res.CenterlineDist, 1e-9)

	require.Len(t, res.CellHeadings, 5)
	for k := 0; k < 3; k++ {
		assert.True(t, res.CellHeadings[k].Valid)
		assert.InDelta(t, 0.0, res.CellHeadings[k].Center, 1e-9)
	}
	assert.Equal(t, CellHeading{}, res.CellHeadings[3])
	assert.Equal(t, CellHeading{}, res.CellHeadings[4])
}

func TestMatchEveryCellOfLane(t *testing.T) {
	m, err := buildFixture(t, DefaultConfig(), twoLaneRoad())
	require.NoError(t, err)

	testCases := []struct {
		name   string
		x, y   float64
		lane   int
		cellID int
	}{
		{name: "first cell of lane 0", x: 2, y: 3, lane: 0, cellID: 0},
		{name: "last cell of lane 0", x: 39, y: 2, lane: 0, cellID: 3},
		{name: "lane 1", x: 25, y: 6, lane: 1, cellID: 2},
		{name: "lane 2", x: 112, y: 2, lane: 2, cellID: 1},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			res, err := m.Match(tt.x, tt.y)
			require.NoError(t, err)
			require.True(t, res.Matched)
			assert.Equal(t, tt.lane, res.LaneID)
			assert.Equal(t, tt.cellID, res.CellID)
			cell := m.Lanes()[tt.lane].Cells()[res.CellID]
			assert.True(t, cell.Contains(orb.Point{tt.x, tt.y}))
		})
	}
}

func TestMatchNoMatch(t *testing.T) {
	m, err := buildFixture(t, DefaultConfig(), twoLaneRoad())
	require.NoError(t, err)

	res, err := m.Match(200, 200, WithMaxCells(3))
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Equal(t, -1, res.LaneID)
	assert.Equal(t, -1, res.CellID)
	assert.Equal(t, make([]CellHeading, 3), res.CellHeadings)

	fres, err := m.MatchFrenet(46, 4)
	require.NoError(t, err)
	assert.False(t, fres.Matched)
	assert.Equal(t, -1, fres.LaneID)
	assert.Len(t, fres.Waypoints, 5)
}

func TestMatchTargetLane(t *testing.T) {
	m, err := buildFixture(t, DefaultConfig(), twoLaneRoad())
	require.NoError(t, err)

	res, err := m.Match(15, 1, WithTargetLane(1))
	require.NoError(t, err)
	require.True(t, res.Matched)
	assert.Equal(t, 1, res.LaneID)
	// nearest cell of lane 1 by exterior distance.
	assert.Equal(t, 1, res.CellID)
	assert.InDelta(t, -3.0, res.RightBoundDist, 1e-9)

	_, err = m.Match(15, 1, WithTargetLane(7))
	assert.ErrorIs(t, err, ErrUnknownLane)
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = m.Match(15, 1, WithMaxCells(0))
	assert.ErrorIs(t, err, ErrBadMaxCells)
}

func TestMatchFrenet(t *testing.T) {
	m, err := buildFixture(t, DefaultConfig(), twoLaneRoad())
	require.NoError(t, err)

	res, err := m.MatchFrenet(15, 1)
	require.NoError(t, err)
	require.True(t, res.Matched)
	assert.Equal(t, 0, res.LaneID)
	assert.InDelta(t, 15.0, res.S, 1e-9)
	assert.InDelta(t, -1.0, res.CenterlineDist, 1e-9)
	assert.InDelta(t, 0.0, res.Heading, 1e-9)
	assert.InDelta(t, 3.0, res.LeftBoundDist, 1e-9)
	assert.InDelta(t, 1.0, res.RightBoundDist, 1e-9)
	assert.InDelta(t, 15.0, res.TangentPoint[0], 1e-9)
	assert.InDelta(t, 2.0, res.TangentPoint[1], 1e-9)

	require.Len(t, res.Waypoints, 5)
	assert.Equal(t, frenet.Waypoint{X: 25, Y: 2, Heading: 0, Valid: true}, roundWaypoint(res.Waypoints[0]))
	assert.Equal(t, frenet.Waypoint{X: 35, Y: 2, Heading: 0, Valid: true}, roundWaypoint(res.Waypoints[1]))
	for _, wp := range res.Waypoints[2:] {
		assert.False(t, wp.Valid)
	}
}

func roundWaypoint(wp frenet.Waypoint) frenet.Waypoint {
	round := func(v float64) float64 { return float64(int64(v*1e6+0.5)) / 1e6 }
	return frenet.Waypoint{X: round(wp.X), Y: round(wp.Y), Heading: round(wp.Heading), Valid: wp.Valid}
}

func TestMatchFrenetMonotonicAlongLane(t *testing.T) {
	m, err := buildFixture(t, DefaultConfig(), twoLaneRoad())
	require.NoError(t, err)

	last := -1.0
	for x := 0.5; x < 40; x += 0.5 {
		res, err := m.MatchFrenet(x, 1.2)
		require.NoError(t, err)
		require.True(t, res.Matched, "x=%v", x)
		assert.GreaterOrEqual(t, res.S, last)
		last = res.S
	}
}

func TestMatchBatchKeepsOrder(t *testing.T) {
	m, err := buildFixture(t, DefaultConfig(), twoLaneRoad())
	require.NoError(t, err)
	require.NoError(t, m.Warm(context.Background()))

	unknown := 9
	queries := []Query{
		{X: 15, Y: 1},
		{X: 25, Y: 6},
		{X: 500, Y: 500},
		{X: 110, Y: 2, MaxCells: 2},
		{X: 15, Y: 1, TargetLane: &unknown},
	}
	out := m.MatchBatch(queries, 3)
	require.Len(t, out, len(queries))
	assert.Equal(t, 0, out[0].Result.LaneID)
	assert.Equal(t, 1, out[1].Result.LaneID)
	assert.False(t, out[2].Result.Matched)
	assert.Len(t, out[3].Result.CellHeadings, 2)
	assert.ErrorIs(t, out[4].Err, ErrUnknownLane)

	fout := m.MatchFrenetBatch(queries[:2], 2)
	require.Len(t, fout, 2)
	assert.InDelta(t, 15.0, fout[0].Result.S, 1e-9)
	assert.InDelta(t, 25.0, fout[1].Result.S, 1e-9)
}

func TestCellsAndWayInfos(t *testing.T) {
	m, err := buildFixture(t, DefaultConfig(), twoLaneRoad())
	require.NoError(t, err)

	// 2 cells per 20 m lanelet, 4 for the 40 m lanelet.
	assert.Len(t, m.Cells(), 2+2+4+2)

	ways := m.WayInfos()
	require.Len(t, ways, 10)
	assert.Equal(t, int64(101), ways[0].ID)
	assert.Equal(t, []float64{10, 10}, ways[0].Style.Dashes)
	assert.Equal(t, "black", ways[2].Style.Color)
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 4}, Max: orb.Point{20, 4}}, ways[0].Bound)
}
