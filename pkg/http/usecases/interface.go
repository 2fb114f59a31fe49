package usecases

import (
	"github.com/lintang-b-s/lanemap/pkg/datastructure"
	"github.com/lintang-b-s/lanemap/pkg/geo"
	"github.com/lintang-b-s/lanemap/pkg/lanemap"
)

type LaneMapEngine interface {
	Summary() lanemap.Summary
	GeoBound() *datastructure.BoundingBox
	Lanes() []*lanemap.Lane
	Lane(id int) (*lanemap.Lane, bool)
	WayInfos() []lanemap.WayInfo
	DrivablePolygon() (*lanemap.Region, error)
	Projector() geo.Projector
	Match(x, y float64, opts ...lanemap.MatchOption) (lanemap.MatchResult, error)
	MatchFrenet(x, y float64, opts ...lanemap.MatchOption) (lanemap.FrenetResult, error)
}
