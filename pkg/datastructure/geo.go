package datastructure

import "math"

// BoundingBox is a geographic extent in degrees.
type BoundingBox struct {
	minLat, minLon float64
	maxLat, maxLon float64
}

func NewBoundingBox(minLat, minLon, maxLat, maxLon float64) *BoundingBox {
	return &BoundingBox{minLat: minLat,
		minLon: minLon,
		maxLat: maxLat,
		maxLon: maxLon}
}

// BoundingBoxOf. smallest box holding every (lat, lon) pair. nil for no coordinates.
func BoundingBoxOf(lats, lons []float64) *BoundingBox {
	if len(lats) == 0 || len(lats) != len(lons) {
		return nil
	}
	bb := &BoundingBox{minLat: math.Inf(1), minLon: math.Inf(1), maxLat: math.Inf(-1), maxLon: math.Inf(-1)}
	for i := range lats {
		bb.minLat = math.Min(bb.minLat, lats[i])
		bb.maxLat = math.Max(bb.maxLat, lats[i])
		bb.minLon = math.Min(bb.minLon, lons[i])
		bb.maxLon = math.Max(bb.maxLon, lons[i])
	}
	return bb
}

func (b *BoundingBox) GetMinCoord() (float64, float64) {
	return b.minLat, b.minLon
}

func (b *BoundingBox) GetMaxCoord() (float64, float64) {
	return b.maxLat, b.maxLon
}

func (b *BoundingBox) GetMinLat() float64 {
	return b.minLat
}

func (b *BoundingBox) GetMinLon() float64 {
	return b.minLon
}

func (b *BoundingBox) GetMaxLat() float64 {
	return b.maxLat
}

func (b *BoundingBox) GetMaxLon() float64 {
	return b.maxLon
}

func (b *BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.minLat && lat <= b.maxLat && lon >= b.minLon && lon <= b.maxLon
}
