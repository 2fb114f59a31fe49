package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/lanemap/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type laneMapAPI struct {
	service   LaneMapService
	validator *requestValidator
	log       *zap.Logger
}

func New(service LaneMapService, log *zap.Logger) *laneMapAPI {
	return &laneMapAPI{
		service:   service,
		validator: newRequestValidator(),
		log:       log,
	}
}

func (api *laneMapAPI) Routes(group *helper.RouteGroup) {
	group.GET("/map", api.mapSummary)
	group.GET("/lanes", api.lanes)
	group.GET("/lanes/:id", api.lane)
	group.GET("/ways", api.ways)
	group.GET("/drivable", api.drivable)
	group.POST("/match", api.match)
	group.POST("/matchFrenet", api.matchFrenet)
}

func (api *laneMapAPI) mapSummary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	resp := NewMapSummaryResponse(api.service.Summary(), api.service.GeoBound())
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *laneMapAPI) lanes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	lanes := api.service.Lanes()
	resp := make([]laneSummaryResponse, len(lanes))
	for i, lane := range lanes {
		resp[i] = NewLaneSummaryResponse(lane)
	}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *laneMapAPI) lane(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	id, err := strconv.Atoi(p.ByName("id"))
	if err != nil || id < 0 {
		api.BadRequestResponse(w, r, fmt.Errorf("lane id must be a non-negative integer, got %q", p.ByName("id")))
		return
	}

	lane, err := api.service.Lane(id)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	resp := NewLaneDetailResponse(lane, api.service.LanePolylines(lane))
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *laneMapAPI) ways(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	resp := NewWaysResponse(api.service.Ways())
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// drivable. the drivable area as a bare GeoJSON FeatureCollection in lon/lat.
func (api *laneMapAPI) drivable(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fc, err := api.service.DrivableArea()
	if err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusOK, fc, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *laneMapAPI) decodeMatchRequest(w http.ResponseWriter, r *http.Request) (matchRequest, bool) {
	var request matchRequest
	if err := readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return request, false
	}
	if err := api.validator.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return request, false
	}
	return request, true
}

func (api *laneMapAPI) match(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	request, ok := api.decodeMatchRequest(w, r)
	if !ok {
		return
	}

	res, err := api.service.Match(request.X, request.Y, request.TargetLaneID, request.MaxCells)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewMatchResponse(res)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *laneMapAPI) matchFrenet(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	request, ok := api.decodeMatchRequest(w, r)
	if !ok {
		return
	}

	res, err := api.service.MatchFrenet(request.X, request.Y, request.TargetLaneID, request.MaxCells)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewFrenetResponse(res)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
