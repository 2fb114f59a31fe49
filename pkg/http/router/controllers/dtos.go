package controllers

import (
	"github.com/lintang-b-s/lanemap/pkg/datastructure"
	"github.com/lintang-b-s/lanemap/pkg/http/usecases"
	"github.com/lintang-b-s/lanemap/pkg/lanemap"
	"github.com/paulmach/orb"
)

type matchRequest struct {
	X            float64 `json:"x" validate:"min=-10000000,max=10000000"`
	Y            float64 `json:"y" validate:"min=-10000000,max=10000000"`
	TargetLaneID *int    `json:"target_lane_id" validate:"omitempty,min=0"`
	MaxCells     int     `json:"max_cells" validate:"omitempty,min=1,max=100"`
}

// agentMatchRequest is one websocket frame: the position of one agent in one simulation step.
type agentMatchRequest struct {
	AgentID string `json:"agent_id" validate:"required"`
	matchRequest
	Frenet bool `json:"frenet"`
}

type cellHeadingResponse struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Center float64 `json:"center"`
	Valid  bool    `json:"valid"`
}

type matchResponse struct {
	Matched        bool                  `json:"matched"`
	LaneID         int                   `json:"lane_id"`
	CellID         int                   `json:"cell_id"`
	LeftBoundDist  float64               `json:"left_bound_dist"`
	RightBoundDist float64               `json:"right_bound_dist"`
	CenterlineDist float64               `json:"centerline_dist"`
	CellHeadings   []cellHeadingResponse `json:"cell_headings"`
}

func NewMatchResponse(res lanemap.MatchResult) matchResponse {
	headings := make([]cellHeadingResponse, len(res.CellHeadings))
	for i, h := range res.CellHeadings {
		headings[i] = cellHeadingResponse{Left: h.Left, Right: h.Right, Center: h.Center, Valid: h.Valid}
	}
	return matchResponse{
		Matched:        res.Matched,
		LaneID:         res.LaneID,
		CellID:         res.CellID,
		LeftBoundDist:  res.LeftBoundDist,
		RightBoundDist: res.RightBoundDist,
		CenterlineDist: res.CenterlineDist,
		CellHeadings:   headings,
	}
}

type waypointResponse struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
	Valid   bool    `json:"valid"`
}

type frenetResponse struct {
	Matched        bool               `json:"matched"`
	LaneID         int                `json:"lane_id"`
	S              float64            `json:"s"`
	CenterlineDist float64            `json:"centerline_dist"`
	Heading        float64            `json:"heading"`
	TangentPoint   [2]float64         `json:"tangent_point"`
	LeftBoundDist  float64            `json:"left_bound_dist"`
	RightBoundDist float64            `json:"right_bound_dist"`
	Waypoints      []waypointResponse `json:"waypoints"`
}

func NewFrenetResponse(res lanemap.FrenetResult) frenetResponse {
	waypoints := make([]waypointResponse, len(res.Waypoints))
	for i, wp := range res.Waypoints {
		waypoints[i] = waypointResponse{X: wp.X, Y: wp.Y, Heading: wp.Heading, Valid: wp.Valid}
	}
	return frenetResponse{
		Matched:        res.Matched,
		LaneID:         res.LaneID,
		S:              res.S,
		CenterlineDist: res.CenterlineDist,
		Heading:        res.Heading,
		TangentPoint:   res.TangentPoint,
		LeftBoundDist:  res.LeftBoundDist,
		RightBoundDist: res.RightBoundDist,
		Waypoints:      waypoints,
	}
}

type agentMatchResponse struct {
	AgentID string          `json:"agent_id"`
	Match   *matchResponse  `json:"match,omitempty"`
	Frenet  *frenetResponse `json:"frenet,omitempty"`
}

type geoBoundResponse struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

type mapSummaryResponse struct {
	Points      int               `json:"points"`
	LineStrings int               `json:"linestrings"`
	Polygons    int               `json:"polygons"`
	Lanelets    int               `json:"lanelets"`
	Crosswalks  int               `json:"crosswalks"`
	Lanes       int               `json:"lanes"`
	Bound       [4]float64        `json:"bound"` // min x, min y, max x, max y
	GeoBound    *geoBoundResponse `json:"geo_bound,omitempty"`
}

func boundArray(b orb.Bound) [4]float64 {
	return [4]float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]}
}

func NewMapSummaryResponse(s lanemap.Summary, bb *datastructure.BoundingBox) mapSummaryResponse {
	resp := mapSummaryResponse{
		Points:      s.Points,
		LineStrings: s.LineStrings,
		Polygons:    s.Polygons,
		Lanelets:    s.Lanelets,
		Crosswalks:  s.Crosswalks,
		Lanes:       s.Lanes,
		Bound:       boundArray(s.Bound),
	}
	if bb != nil {
		resp.GeoBound = &geoBoundResponse{
			MinLat: bb.GetMinLat(),
			MinLon: bb.GetMinLon(),
			MaxLat: bb.GetMaxLat(),
			MaxLon: bb.GetMaxLon(),
		}
	}
	return resp
}

type laneSummaryResponse struct {
	ID            int     `json:"id"`
	LaneletIDs    []int64 `json:"lanelet_ids"`
	LeftAdjacent  []int   `json:"left_adjacent"`
	RightAdjacent []int   `json:"right_adjacent"`
	Length        float64 `json:"length"`
	NumCells      int     `json:"num_cells"`
}

func NewLaneSummaryResponse(lane *lanemap.Lane) laneSummaryResponse {
	return laneSummaryResponse{
		ID:            lane.GetID(),
		LaneletIDs:    lane.LaneletIDs(),
		LeftAdjacent:  nonNil(lane.LeftAdjacent()),
		RightAdjacent: nonNil(lane.RightAdjacent()),
		Length:        lane.Length(),
		NumCells:      len(lane.Cells()),
	}
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}

type laneDetailResponse struct {
	laneSummaryResponse
	LeftBound  string `json:"left_bound"`  // encoded polyline, lat/lon
	RightBound string `json:"right_bound"` // encoded polyline, lat/lon
	Centerline string `json:"centerline"`  // encoded polyline, lat/lon
}

func NewLaneDetailResponse(lane *lanemap.Lane, polylines usecases.LanePolylines) laneDetailResponse {
	return laneDetailResponse{
		laneSummaryResponse: NewLaneSummaryResponse(lane),
		LeftBound:           polylines.LeftBound,
		RightBound:          polylines.RightBound,
		Centerline:          polylines.Centerline,
	}
}

type wayStyleResponse struct {
	Color  string    `json:"color,omitempty"`
	Width  float64   `json:"width,omitempty"`
	Dashes []float64 `json:"dashes,omitempty"`
	Hidden bool      `json:"hidden"`
}

type wayResponse struct {
	ID      int64            `json:"id"`
	Type    string           `json:"type"`
	Subtype string           `json:"subtype"`
	Coords  [][2]float64     `json:"coords"`
	Bound   [4]float64       `json:"bound"`
	Style   wayStyleResponse `json:"style"`
}

func NewWaysResponse(ways []lanemap.WayInfo) []wayResponse {
	resp := make([]wayResponse, len(ways))
	for i, w := range ways {
		coords := make([][2]float64, len(w.Coords))
		for j, p := range w.Coords {
			coords[j] = p
		}
		resp[i] = wayResponse{
			ID:      w.ID,
			Type:    w.Type,
			Subtype: w.Subtype,
			Coords:  coords,
			Bound:   boundArray(w.Bound),
			Style: wayStyleResponse{
				Color:  w.Style.Color,
				Width:  w.Style.Width,
				Dashes: w.Style.Dashes,
				Hidden: w.Style.Hidden,
			},
		}
	}
	return resp
}
