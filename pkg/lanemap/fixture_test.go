package lanemap

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/lintang-b-s/lanemap/pkg/geo"
	"github.com/lintang-b-s/lanemap/pkg/osmparser"
	"go.uber.org/zap/zaptest"
)

type osmFixture struct {
	sb strings.Builder
}

func newFixture() *osmFixture {
	f := &osmFixture{}
	f.sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n" + `<osm version="0.6">` + "\n")
	return f
}

// node with local metric coordinates.
func (f *osmFixture) node(id int64, x, y float64) *osmFixture {
	fmt.Fprintf(&f.sb, `<node id="%d" lat="0" lon="0"><tag k="local_x" v="%g"/><tag k="local_y" v="%g"/></node>`+"\n", id, x, y)
	return f
}

// geoNode without local tags, placed by the projector.
func (f *osmFixture) geoNode(id int64, lat, lon float64) *osmFixture {
	fmt.Fprintf(&f.sb, `<node id="%d" lat="%g" lon="%g"/>`+"\n", id, lat, lon)
	return f
}

func (f *osmFixture) way(id int64, wayType, subtype string, refs ...int64) *osmFixture {
	fmt.Fprintf(&f.sb, `<way id="%d">`, id)
	for _, r := range refs {
		fmt.Fprintf(&f.sb, `<nd ref="%d"/>`, r)
	}
	if wayType != "" {
		fmt.Fprintf(&f.sb, `<tag k="type" v="%s"/>`, wayType)
	}
	if subtype != "" {
		fmt.Fprintf(&f.sb, `<tag k="subtype" v="%s"/>`, subtype)
	}
	f.sb.WriteString("</way>\n")
	return f
}

func (f *osmFixture) area(id int64, refs ...int64) *osmFixture {
	fmt.Fprintf(&f.sb, `<way id="%d">`, id)
	for _, r := range refs {
		fmt.Fprintf(&f.sb, `<nd ref="%d"/>`, r)
	}
	f.sb.WriteString(`<tag k="area" v="yes"/></way>` + "\n")
	return f
}

type member struct {
	role string
	ref  int64
}

func (f *osmFixture) lanelet(id int64, subtype string, members ...member) *osmFixture {
	fmt.Fprintf(&f.sb, `<relation id="%d">`, id)
	for _, m := range members {
		memberType := "way"
		if m.role == roleRegulatoryElement {
			memberType = "relation"
		}
		fmt.Fprintf(&f.sb, `<member type="%s" ref="%d" role="%s"/>`, memberType, m.ref, m.role)
	}
	fmt.Fprintf(&f.sb, `<tag k="type" v="lanelet"/><tag k="subtype" v="%s"/>`, subtype)
	f.sb.WriteString("</relation>\n")
	return f
}

func (f *osmFixture) String() string {
	return f.sb.String() + "</osm>\n"
}

func buildFixture(t *testing.T, cfg Config, f *osmFixture) (*Map, error) {
	t.Helper()
	doc, err := osmparser.Parse(context.Background(), strings.NewReader(f.String()))
	if err != nil {
		return nil, err
	}
	return NewBuilder(cfg, geo.NewLocalTangentPlane(cfg.Origin), zaptest.NewLogger(t)).Build(doc)
}

// twoLaneRoad. lanes run towards +x:
//
//	lane 1: lanelet 1003, y in [4, 8], x in [0, 40]
//	lane 0: lanelets 1001 (x in [0, 20]) then 1002 (x in [20, 40]), y in [0, 4]
//	lane 2: lanelet 1004, x in [100, 120], y in [0, 4]
//
// plus crosswalk 1005 at x in [44, 48] and area way 111. way 104 is stored backwards.
func twoLaneRoad() *osmFixture {
	return newFixture().
		node(1, 0, 4).node(2, 20, 4).node(3, 40, 4).
		node(4, 0, 0).node(5, 20, 0).node(6, 40, 0).
		node(7, 0, 8).node(8, 40, 8).
		node(20, 100, 4).node(21, 120, 4).node(22, 100, 0).node(23, 120, 0).
		node(30, 44, 0).node(31, 44, 8).node(32, 48, 0).node(33, 48, 8).
		way(101, "line_thin", "dashed", 1, 2).
		way(102, "line_thin", "dashed", 2, 3).
		way(103, "curbstone", "", 4, 5).
		way(104, "curbstone", "", 6, 5).
		way(105, "curbstone", "", 7, 8).
		way(106, "line_thin", "dashed", 1, 2, 3).
		way(107, "line_thin", "solid", 20, 21).
		way(108, "line_thin", "solid", 22, 23).
		way(109, "pedestrian_marking", "", 30, 31).
		way(110, "pedestrian_marking", "", 32, 33).
		area(111, 1, 4, 5, 2).
		lanelet(1001, "road", member{"left", 101}, member{"right", 103}, member{roleRegulatoryElement, 9000}).
		lanelet(1002, "road", member{"left", 102}, member{"right", 104}).
		lanelet(1003, "road", member{"left", 105}, member{"right", 106}).
		lanelet(1004, "road", member{"left", 107}, member{"right", 108}).
		lanelet(1005, subtypeCrosswalk, member{"left", 110}, member{"right", 109})
}
