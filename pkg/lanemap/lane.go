package lanemap

import (
	"sync"

	"github.com/lintang-b-s/lanemap/pkg/curve"
	"github.com/lintang-b-s/lanemap/pkg/frenet"
	"github.com/lintang-b-s/lanemap/pkg/geometry"
	"github.com/paulmach/orb"
)

// Lane is a maximal chain of connected lanelets, ordered front to back, with merged bounds.
type Lane struct {
	id       int
	lanelets []*Lanelet

	left       *LineString
	right      *LineString
	centerline *LineString
	path       *frenet.Path // nil when the merged centerline is degenerate

	leftAdjacent  []int
	rightAdjacent []int

	cellLen float64
	buffer  float64

	cellsOnce sync.Once
	cells     []*Cell
	polygon   *Region // set by the builder
}

func newLane(id int, lanelets []*Lanelet, cellLen, buffer, splineStep float64) *Lane {
	lefts := make([]orb.LineString, len(lanelets))
	rights := make([]orb.LineString, len(lanelets))
	centers := make([]orb.LineString, len(lanelets))
	for i, ll := range lanelets {
		lefts[i] = ll.left.coords
		rights[i] = ll.right.coords
		centers[i] = ll.centerline.coords
	}

	lane := &Lane{
		id:            id,
		lanelets:      lanelets,
		left:          newLineString(int64(id), geometry.Concat(lefts...), "", "", splineStep),
		right:         newLineString(int64(id), geometry.Concat(rights...), "", "", splineStep),
		centerline:    newLineString(int64(id), geometry.Concat(centers...), "", "", splineStep),
		leftAdjacent:  make([]int, 0),
		rightAdjacent: make([]int, 0),
		cellLen:       cellLen,
		buffer:        buffer,
	}
	// a degenerate centerline leaves the lane without a frenet frame; the builder logs it.
	lane.path, _ = frenet.NewPath(lane.centerline.coords)
	return lane
}

func (l *Lane) GetID() int {
	return l.id
}

func (l *Lane) Lanelets() []*Lanelet {
	return l.lanelets
}

func (l *Lane) LaneletIDs() []int64 {
	ids := make([]int64, len(l.lanelets))
	for i, ll := range l.lanelets {
		ids[i] = ll.id
	}
	return ids
}

func (l *Lane) LeftBound() *LineString {
	return l.left
}

func (l *Lane) RightBound() *LineString {
	return l.right
}

func (l *Lane) Centerline() *LineString {
	return l.centerline
}

// CenterlineSpline. memoized spline of the merged centerline.
func (l *Lane) CenterlineSpline() (*curve.Curve, error) {
	return l.centerline.Spline()
}

// FrenetPath. nil when the centerline has fewer than two distinct points.
func (l *Lane) FrenetPath() *frenet.Path {
	return l.path
}

func (l *Lane) LeftAdjacent() []int {
	return l.leftAdjacent
}

func (l *Lane) RightAdjacent() []int {
	return l.rightAdjacent
}

func (l *Lane) Length() float64 {
	return l.centerline.Length()
}

func (l *Lane) Cells() []*Cell {
	l.cellsOnce.Do(func() {
		l.cells = decomposeCells(l.left.coords, l.right.coords, l.cellLen, l.buffer)
	})
	return l.cells
}

// Polygon. union of the lanelet polygons.
func (l *Lane) Polygon() *Region {
	return l.polygon
}
