package lanemap

import (
	"math"

	"github.com/lintang-b-s/lanemap/pkg/geometry"
	"github.com/paulmach/orb"
)

// Cell is a transverse slice of a lanelet or lane: the quadrilateral between two consecutive
// samples of the left and right bound.
type Cell struct {
	polygon orb.Ring
	buffer  float64
	heading float64 // heading of the shorter bound's segment

	leftBound  orb.LineString
	rightBound orb.LineString
	centerLine orb.LineString

	leftHeading   float64
	rightHeading  float64
	centerHeading float64
}

func newCell(polygon orb.Ring, buffer, heading float64, left, right orb.LineString) *Cell {
	center := orb.LineString{
		geometry.MidPoint(left[0], right[0]),
		geometry.MidPoint(left[1], right[1]),
	}
	return &Cell{
		polygon:       polygon,
		buffer:        buffer,
		heading:       heading,
		leftBound:     left,
		rightBound:    right,
		centerLine:    center,
		leftHeading:   geometry.Heading(left[0], left[1]),
		rightHeading:  geometry.Heading(right[0], right[1]),
		centerHeading: geometry.Heading(center[0], center[1]),
	}
}

func (c *Cell) Polygon() orb.Ring {
	return c.polygon
}

func (c *Cell) Heading() float64 {
	return c.heading
}

func (c *Cell) LeftBound() orb.LineString {
	return c.leftBound
}

func (c *Cell) RightBound() orb.LineString {
	return c.rightBound
}

func (c *Cell) CenterLine() orb.LineString {
	return c.centerLine
}

func (c *Cell) LeftHeading() float64 {
	return c.leftHeading
}

func (c *Cell) RightHeading() float64 {
	return c.rightHeading
}

func (c *Cell) CenterHeading() float64 {
	return c.centerHeading
}

func (c *Cell) Contains(p orb.Point) bool {
	if geometry.RingContains(c.polygon, p) {
		return true
	}
	return c.buffer > 0 && geometry.DistanceToRing(p, c.polygon) <= c.buffer
}

// ExteriorDistance. distance from p to the cell's boundary ring.
func (c *Cell) ExteriorDistance(p orb.Point) float64 {
	return geometry.DistanceToRing(p, c.polygon)
}

// decomposeCells. the shorter bound is sampled every cellLen meters from its start, plus its end
// point. each inner sample is projected onto the longer bound; the first and last samples of the
// longer bound are its endpoints. cell i spans samples i and i+1.
func decomposeCells(left, right orb.LineString, cellLen, buffer float64) []*Cell {
	if len(left) < 2 || len(right) < 2 {
		return nil
	}

	rightIsLonger := geometry.Length(right) > geometry.Length(left)
	shorter, longer := right, left
	if rightIsLonger {
		shorter, longer = left, right
	}

	shorterLen := geometry.Length(shorter)
	n := int(math.Ceil(shorterLen / cellLen))
	shorterPts := make([]orb.Point, 0, n+1)
	for i := 0; i < n; i++ {
		shorterPts = append(shorterPts, geometry.Interpolate(shorter, float64(i)*cellLen))
	}
	shorterPts = append(shorterPts, shorter[len(shorter)-1])

	longerPts := make([]orb.Point, len(shorterPts))
	longerPts[0] = longer[0]
	for i := 1; i < len(shorterPts)-1; i++ {
		longerPts[i] = geometry.Interpolate(longer, geometry.Project(longer, shorterPts[i]))
	}
	longerPts[len(longerPts)-1] = longer[len(longer)-1]

	cells := make([]*Cell, 0, len(shorterPts)-1)
	for i := 0; i+1 < len(shorterPts); i++ {
		ring := geometry.CloseRing([]orb.Point{shorterPts[i], shorterPts[i+1], longerPts[i+1], longerPts[i]})
		heading := geometry.Heading(shorterPts[i], shorterPts[i+1])

		shortSeg := orb.LineString{shorterPts[i], shorterPts[i+1]}
		longSeg := orb.LineString{longerPts[i], longerPts[i+1]}
		if rightIsLonger {
			cells = append(cells, newCell(ring, buffer, heading, shortSeg, longSeg))
		} else {
			cells = append(cells, newCell(ring, buffer, heading, longSeg, shortSeg))
		}
	}
	return cells
}

// mergeCenterLines. the chain of cell center lines as one polyline.
func mergeCenterLines(cells []*Cell) orb.LineString {
	parts := make([]orb.LineString, len(cells))
	for i, c := range cells {
		parts[i] = c.centerLine
	}
	return geometry.Concat(parts...)
}
