package spatialindex

import (
	"sort"

	"github.com/lintang-b-s/lanemap/pkg/datastructure"
	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// Rtree indexes entities (lanelets or lanes) by the planar bounding box of their geometry.
type Rtree struct {
	tr  *rtree.RTreeG[datastructure.Index]
	pad float64
}

// NewRtree. every inserted box is grown by pad meters on each side.
func NewRtree(pad float64) *Rtree {
	var tr rtree.RTreeG[datastructure.Index]
	return &Rtree{
		tr:  &tr,
		pad: pad,
	}
}

// Build. inserts bounds[i] under id i.
func (rt *Rtree) Build(bounds []orb.Bound, log *zap.Logger) {
	log.Debug("Building R-tree spatial index...", zap.Int("items", len(bounds)))
	for i, b := range bounds {
		rt.Insert(datastructure.Index(i), b)
	}
	log.Debug("R-tree spatial index built.")
}

func (rt *Rtree) Insert(id datastructure.Index, b orb.Bound) {
	b = b.Pad(rt.pad)
	rt.tr.Insert([2]float64{b.Min[0], b.Min[1]}, [2]float64{b.Max[0], b.Max[1]}, id)
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// Search. ids whose box intersects b, ascending.
func (rt *Rtree) Search(b orb.Bound) []datastructure.Index {
	results := make([]datastructure.Index, 0, 8)
	rt.tr.Search([2]float64{b.Min[0], b.Min[1]}, [2]float64{b.Max[0], b.Max[1]},
		func(min, max [2]float64, data datastructure.Index) bool {
			results = append(results, data)
			return true
		})
	sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
	return results
}

// SearchPoint. ids whose box contains p, ascending.
func (rt *Rtree) SearchPoint(p orb.Point) []datastructure.Index {
	return rt.Search(orb.Bound{Min: p, Max: p})
}
