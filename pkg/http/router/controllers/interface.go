package controllers

import (
	"github.com/lintang-b-s/lanemap/pkg/datastructure"
	"github.com/lintang-b-s/lanemap/pkg/http/usecases"
	"github.com/lintang-b-s/lanemap/pkg/lanemap"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type LaneMapService interface {
	Summary() lanemap.Summary
	GeoBound() *datastructure.BoundingBox
	Lanes() []*lanemap.Lane
	Lane(id int) (*lanemap.Lane, error)
	Ways() []lanemap.WayInfo
	DrivableArea() (*geojson.FeatureCollection, error)
	EncodePolyline(ls orb.LineString) string
	LanePolylines(lane *lanemap.Lane) usecases.LanePolylines
	Match(x, y float64, targetLane *int, maxCells int) (lanemap.MatchResult, error)
	MatchFrenet(x, y float64, targetLane *int, maxCells int) (lanemap.FrenetResult, error)
}
