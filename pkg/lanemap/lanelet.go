package lanemap

import (
	"sync"

	"github.com/lintang-b-s/lanemap/pkg/datastructure"
	"github.com/lintang-b-s/lanemap/pkg/geometry"
	"github.com/lintang-b-s/lanemap/pkg/osmparser"
	"github.com/paulmach/orb"
)

const subtypeCrosswalk = "crosswalk"

// Lanelet is one directed lane segment. its bounds are private aligned copies of the member
// linestrings, both running front to back.
type Lanelet struct {
	id    int64
	index datastructure.Index // position in Map.Lanelets(), or in Map.Crosswalks() for crosswalks

	subtype       string
	region        string
	location      string
	turnDirection string
	fallback      string
	oneWay        bool
	participants  osmparser.Participants

	left       *LineString
	right      *LineString
	centerline *LineString

	laneID int

	cellLen float64
	buffer  float64

	cellsOnce sync.Once
	cells     []*Cell
	polygon   *Region // set by the builder
}

func (l *Lanelet) GetID() int64 {
	return l.id
}

func (l *Lanelet) Index() datastructure.Index {
	return l.index
}

func (l *Lanelet) Subtype() string {
	return l.subtype
}

func (l *Lanelet) Region() string {
	return l.region
}

func (l *Lanelet) Location() string {
	return l.location
}

func (l *Lanelet) TurnDirection() string {
	return l.turnDirection
}

func (l *Lanelet) Fallback() string {
	return l.fallback
}

func (l *Lanelet) OneWay() bool {
	return l.oneWay
}

func (l *Lanelet) Participants() osmparser.Participants {
	return l.participants
}

func (l *Lanelet) IsCrosswalk() bool {
	return l.subtype == subtypeCrosswalk
}

func (l *Lanelet) LeftBound() *LineString {
	return l.left
}

func (l *Lanelet) RightBound() *LineString {
	return l.right
}

func (l *Lanelet) Centerline() *LineString {
	return l.centerline
}

// LaneID. id of the lane holding this lanelet, -1 for crosswalks.
func (l *Lanelet) LaneID() int {
	return l.laneID
}

func (l *Lanelet) Cells() []*Cell {
	l.cellsOnce.Do(func() {
		l.cells = decomposeCells(l.left.coords, l.right.coords, l.cellLen, l.buffer)
	})
	return l.cells
}

// Polygon. the lanelet ring grown by the buffer.
func (l *Lanelet) Polygon() *Region {
	return l.polygon
}

// ring. the left bound followed by the reversed right bound, closed.
func (l *Lanelet) ring() orb.Ring {
	pts := make([]orb.Point, 0, len(l.left.coords)+len(l.right.coords)+1)
	pts = append(pts, l.left.coords...)
	pts = append(pts, geometry.Reverse(l.right.coords)...)
	return geometry.CloseRing(pts)
}

// hasOpposingBounds. true when the right bound runs against the left one, judged from the left
// bound's end point.
func hasOpposingBounds(left, right orb.LineString) bool {
	leftHead := left[len(left)-1]
	return geometry.Distance(leftHead, right[len(right)-1]) > geometry.Distance(leftHead, right[0])
}

// alignBounds. returns copies of left and right running in the same direction, with the left
// bound's start on the left of the right bound's first segment.
func alignBounds(left, right *LineString) (*LineString, *LineString) {
	alignedLeft := left.clone()
	alignedRight := right.clone()
	if hasOpposingBounds(left.coords, right.coords) {
		alignedRight = right.reversed()
	}

	r := alignedRight.coords
	heading := geometry.Heading(r[0], r[1])
	card := geometry.CardinalDirection(r[0], heading, alignedLeft.coords[0])
	if card < 0 {
		alignedLeft = alignedLeft.reversed()
		alignedRight = alignedRight.reversed()
	}
	return alignedLeft, alignedRight
}

// connectedTo. both left bounds touch and both right bounds touch.
func (l *Lanelet) connectedTo(o *Lanelet) bool {
	return geometry.LineStringsIntersect(l.left.coords, o.left.coords) &&
		geometry.LineStringsIntersect(l.right.coords, o.right.coords)
}

// precedes. l's left bound ends where o's left bound starts.
func (l *Lanelet) precedes(o *Lanelet) bool {
	return geometry.PointsEqual(l.left.coords[len(l.left.coords)-1], o.left.coords[0])
}

func (l *Lanelet) bound() orb.Bound {
	return l.left.coords.Bound().Union(l.right.coords.Bound())
}
