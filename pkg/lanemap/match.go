package lanemap

import (
	"math"

	"github.com/lintang-b-s/lanemap/pkg/frenet"
	"github.com/lintang-b-s/lanemap/pkg/geometry"
	"github.com/lintang-b-s/lanemap/pkg/util"
	"github.com/paulmach/orb"
)

type matchOptions struct {
	targetLane    int
	hasTargetLane bool
	maxCells      int
}

type MatchOption func(*matchOptions)

// WithTargetLane restricts matching to one lane. the lane is used even when it does not contain
// the query point.
func WithTargetLane(laneID int) MatchOption {
	return func(o *matchOptions) {
		o.targetLane = laneID
		o.hasTargetLane = true
	}
}

func WithMaxCells(n int) MatchOption {
	return func(o *matchOptions) {
		o.maxCells = n
	}
}

func (m *Map) matchOptions(opts []MatchOption) (matchOptions, error) {
	o := matchOptions{maxCells: m.cfg.MaxCells}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxCells < 1 {
		return o, util.WrapErrorf(ErrBadMaxCells, util.ErrBadParamInput, "max cells %d", o.maxCells)
	}
	if o.hasTargetLane {
		if _, ok := m.Lane(o.targetLane); !ok {
			return o, util.WrapErrorf(ErrUnknownLane, util.ErrNotFound, "lane %d", o.targetLane)
		}
	}
	return o, nil
}

// CellHeading holds the headings of one lookahead cell. Valid is false for padding entries.
type CellHeading struct {
	Left   float64
	Right  float64
	Center float64
	Valid  bool
}

// MatchResult is the cell-based position of a point in a lane. distances are signed: the left
// and right bound distances are positive on the lane side of the bound, the centerline distance is
// positive left of the centerline.
type MatchResult struct {
	Matched        bool
	LaneID         int
	CellID         int
	LeftBoundDist  float64
	RightBoundDist float64
	CenterlineDist float64
	CellHeadings   []CellHeading // max cells entries starting at the matched cell
}

func noMatch(maxCells int) MatchResult {
	return MatchResult{LaneID: -1, CellID: -1, CellHeadings: make([]CellHeading, maxCells)}
}

// selectLane. the target lane when given, else the lowest-id lane whose polygon contains p.
func (m *Map) selectLane(p orb.Point, o matchOptions) *Lane {
	if o.hasTargetLane {
		return m.lanes[o.targetLane]
	}
	for _, id := range m.laneIndex.SearchPoint(p) {
		lane := m.lanes[id]
		if lane.Polygon().Contains(p) {
			return lane
		}
	}
	return nil
}

// selectCell. the first cell containing p, else the cell whose ring is nearest to p.
func selectCell(p orb.Point, cells []*Cell) int {
	for i, c := range cells {
		if c.Contains(p) {
			return i
		}
	}
	best, bestDist := -1, math.Inf(1)
	for i, c := range cells {
		if d := c.ExteriorDistance(p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Match. locates (x, y) in a lane and one of its cells. a point outside every lane is not an error:
// the result has Matched false. lanes are scanned in id order, so overlapping lanes resolve to the
// lowest id rather than the nearest.
func (m *Map) Match(x, y float64, opts ...MatchOption) (MatchResult, error) {
	o, err := m.matchOptions(opts)
	if err != nil {
		return MatchResult{}, err
	}

	p := orb.Point{x, y}
	lane := m.selectLane(p, o)
	if lane == nil {
		return noMatch(o.maxCells), nil
	}
	cells := lane.Cells()
	cellID := selectCell(p, cells)
	if cellID < 0 {
		return noMatch(o.maxCells), nil
	}
	cell := cells[cellID]

	leftCard := geometry.CardinalDirection(cell.leftBound[0], cell.heading, p)
	rightCard := geometry.CardinalDirection(cell.rightBound[0], cell.heading, p)
	centerCard := geometry.CardinalDirection(cell.centerLine[0], cell.heading, p)

	res := MatchResult{
		Matched:        true,
		LaneID:         lane.id,
		CellID:         cellID,
		LeftBoundDist:  -util.Sign(leftCard) * geometry.DistanceToLineString(p, cell.leftBound),
		RightBoundDist: util.Sign(rightCard) * geometry.DistanceToLineString(p, cell.rightBound),
		CenterlineDist: util.Sign(centerCard) * geometry.DistanceToLineString(p, cell.centerLine),
		CellHeadings:   make([]CellHeading, o.maxCells),
	}
	for k := 0; k < o.maxCells && cellID+k < len(cells); k++ {
		c := cells[cellID+k]
		res.CellHeadings[k] = CellHeading{Left: c.leftHeading, Right: c.rightHeading, Center: c.centerHeading, Valid: true}
	}
	return res, nil
}

// FrenetResult is the position of a point in the frenet frame of a lane's merged centerline.
type FrenetResult struct {
	Matched        bool
	LaneID         int
	S              float64   // arc length along the centerline
	CenterlineDist float64   // signed lateral offset d, left positive
	Heading        float64   // centerline tangent heading at S
	TangentPoint   orb.Point // closest centerline point
	LeftBoundDist  float64
	RightBoundDist float64
	Waypoints      []frenet.Waypoint // at S + cell_len*k, k = 1..max cells
}

func noFrenetMatch(maxCells int) FrenetResult {
	return FrenetResult{LaneID: -1, Waypoints: make([]frenet.Waypoint, maxCells)}
}

// signedBoundDistance. distance from p to bound, signed by the side of p relative to the closest
// bound segment.
func signedBoundDistance(p orb.Point, bound orb.LineString) float64 {
	proj := geometry.ClosestPointOnLineString(p, bound)
	a, b := bound[proj.Segment], bound[proj.Segment+1]
	card := geometry.CardinalDirection(a, geometry.Heading(a, b), p)
	return util.Sign(card) * proj.Distance
}

// MatchFrenet. same lane selection as Match, then projects (x, y) onto the lane centerline.
func (m *Map) MatchFrenet(x, y float64, opts ...MatchOption) (FrenetResult, error) {
	o, err := m.matchOptions(opts)
	if err != nil {
		return FrenetResult{}, err
	}

	p := orb.Point{x, y}
	lane := m.selectLane(p, o)
	if lane == nil || lane.path == nil || len(lane.left.coords) < 2 || len(lane.right.coords) < 2 {
		return noFrenetMatch(o.maxCells), nil
	}

	pos := lane.path.Project(x, y)
	deltas := make([]float64, o.maxCells)
	for k := range deltas {
		deltas[k] = m.cfg.CellLen * float64(k+1)
	}

	return FrenetResult{
		Matched:        true,
		LaneID:         lane.id,
		S:              pos.S,
		CenterlineDist: pos.D,
		Heading:        pos.Heading,
		TangentPoint:   pos.Point,
		LeftBoundDist:  -signedBoundDistance(p, lane.left.coords),
		RightBoundDist: signedBoundDistance(p, lane.right.coords),
		Waypoints:      lane.path.Waypoints(pos.S, deltas),
	}, nil
}
