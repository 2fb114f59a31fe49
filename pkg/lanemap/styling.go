package lanemap

import (
	"github.com/paulmach/orb"
)

// WayStyle is how a linestring is drawn in debug views.
type WayStyle struct {
	Color  string
	Width  float64
	Dashes []float64 // nil for a solid line
	Hidden bool
}

// WayInfo is one linestring with its extent and drawing style.
type WayInfo struct {
	ID      int64
	Type    string
	Subtype string
	Coords  orb.LineString
	Bound   orb.Bound
	Style   WayStyle
}

// StyleFor. lanelet2 line types: markings are white, borders black, virtual lines blue.
func StyleFor(wayType, subtype string) WayStyle {
	switch wayType {
	case "curbstone", "road_border", "guard_rail", "wall", "fence":
		return WayStyle{Color: "black", Width: 1}
	case "line_thin":
		if subtype == "dashed" {
			return WayStyle{Color: "white", Width: 1, Dashes: []float64{10, 10}}
		}
		return WayStyle{Color: "white", Width: 1}
	case "line_thick":
		if subtype == "dashed" {
			return WayStyle{Color: "white", Width: 2, Dashes: []float64{10, 10}}
		}
		return WayStyle{Color: "white", Width: 2}
	case "pedestrian_marking", "bike_marking":
		return WayStyle{Color: "white", Width: 1, Dashes: []float64{5, 10}}
	case "stop_line":
		return WayStyle{Color: "white", Width: 3}
	case "virtual":
		return WayStyle{Color: "blue", Width: 1, Dashes: []float64{2, 5}}
	case "traffic_sign", "traffic_light":
		return WayStyle{Hidden: true}
	}
	return WayStyle{Color: "gray", Width: 1}
}

// WayInfos. every linestring with its style, in document order.
func (m *Map) WayInfos() []WayInfo {
	m.waysOnce.Do(func() {
		m.ways = make([]WayInfo, 0, len(m.linestrings))
		for _, ls := range m.linestrings {
			m.ways = append(m.ways, WayInfo{
				ID:      ls.id,
				Type:    ls.lineType,
				Subtype: ls.subtype,
				Coords:  ls.coords,
				Bound:   ls.coords.Bound(),
				Style:   StyleFor(ls.lineType, ls.subtype),
			})
		}
	})
	return m.ways
}
