package spatialindex

import (
	"testing"

	"github.com/lintang-b-s/lanemap/pkg/datastructure"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRtreeSearch(t *testing.T) {
	rt := NewRtree(0.5)
	rt.Build([]orb.Bound{
		{Min: orb.Point{0, 0}, Max: orb.Point{10, 4}},
		{Min: orb.Point{10, 0}, Max: orb.Point{20, 4}},
		{Min: orb.Point{0, 4}, Max: orb.Point{10, 8}},
	}, zap.NewNop())

	assert.Equal(t, 3, rt.Len())

	testCases := []struct {
		name string
		p    orb.Point
		want []datastructure.Index
	}{
		{name: "inside one box", p: orb.Point{15, 2}, want: []datastructure.Index{1}},
		{name: "shared edge", p: orb.Point{10, 2}, want: []datastructure.Index{0, 1}},
		{name: "within padding", p: orb.Point{5, 8.3}, want: []datastructure.Index{2}},
		{name: "outside", p: orb.Point{30, 30}, want: []datastructure.Index{}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rt.SearchPoint(tt.p))
		})
	}
}
