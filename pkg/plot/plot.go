// Package plot renders debug views of a lanelet map with gonum/plot.
package plot

import (
	"fmt"
	"image/color"

	"github.com/lintang-b-s/lanemap/pkg/lanemap"
	"github.com/paulmach/orb"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Mode selects what Render draws.
type Mode int

const (
	ModeWays Mode = iota
	ModeLanelets
	ModeCells
	ModeLanes
)

var modeNames = map[Mode]string{
	ModeWays:     "ways",
	ModeLanelets: "lanelets",
	ModeCells:    "cells",
	ModeLanes:    "lanes",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown plot mode %q, want one of ways, lanelets, cells, lanes", s)
}

type Options struct {
	Mode     Mode
	Annotate bool
	Width    vg.Length
	Height   vg.Length
}

func DefaultOptions() Options {
	return Options{Mode: ModeWays, Width: 15 * vg.Inch, Height: 6 * vg.Inch}
}

var namedColors = map[string]color.Color{
	"black": color.Black,
	"white": color.White,
	"blue":  color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	"gray":  color.Gray{Y: 0x80},
}

const fillAlpha = 0x66

func translucent(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: fillAlpha}
}

func xys(ls []orb.Point) plotter.XYs {
	pts := make(plotter.XYs, len(ls))
	for i, p := range ls {
		pts[i] = plotter.XY{X: p[0], Y: p[1]}
	}
	return pts
}

// Render. builds the plot for opts.Mode.
func Render(m *lanemap.Map, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("lanelet map: %s", opts.Mode)
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	var err error
	switch opts.Mode {
	case ModeWays:
		p.BackgroundColor = color.Gray{Y: 0xb0}
		err = plotWays(p, m, opts.Annotate)
	case ModeLanelets:
		err = plotLanelets(p, m, opts.Annotate)
	case ModeCells:
		err = plotLanes(p, m, true, opts.Annotate)
	case ModeLanes:
		err = plotLanes(p, m, false, opts.Annotate)
	default:
		err = fmt.Errorf("unknown plot mode %v", opts.Mode)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Save. renders the map and writes it to path; the image format follows the file extension.
func Save(m *lanemap.Map, opts Options, path string) error {
	p, err := Render(m, opts)
	if err != nil {
		return err
	}
	if opts.Width == 0 || opts.Height == 0 {
		def := DefaultOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}

func plotWays(p *plot.Plot, m *lanemap.Map, annot bool) error {
	labels := plotter.XYLabels{}
	for _, way := range m.WayInfos() {
		if way.Style.Hidden || len(way.Coords) < 2 {
			continue
		}
		line, err := plotter.NewLine(xys(way.Coords))
		if err != nil {
			return err
		}
		c, ok := namedColors[way.Style.Color]
		if !ok {
			c = namedColors["gray"]
		}
		line.Color = c
		line.Width = vg.Points(way.Style.Width)
		for _, d := range way.Style.Dashes {
			line.Dashes = append(line.Dashes, vg.Points(d))
		}
		p.Add(line)

		if annot {
			mid := way.Bound.Center()
			labels.XYs = append(labels.XYs, plotter.XY{X: mid[0], Y: mid[1]})
			labels.Labels = append(labels.Labels, fmt.Sprint(way.ID))
		}
	}
	return addLabels(p, labels)
}

func plotLanelets(p *plot.Plot, m *lanemap.Map, annot bool) error {
	labels := plotter.XYLabels{}
	for i, ll := range m.Lanelets() {
		if err := addRegion(p, ll.Polygon(), plotutil.Color(i)); err != nil {
			return err
		}
		if annot {
			c := ll.Polygon().Bound().Center()
			labels.XYs = append(labels.XYs, plotter.XY{X: c[0], Y: c[1]})
			labels.Labels = append(labels.Labels, fmt.Sprint(ll.GetID()))
		}
	}
	return addLabels(p, labels)
}

func plotLanes(p *plot.Plot, m *lanemap.Map, cells, annot bool) error {
	labels := plotter.XYLabels{}
	for _, lane := range m.Lanes() {
		c := plotutil.Color(lane.GetID())
		if err := addRegion(p, lane.Polygon(), c); err != nil {
			return err
		}

		if cells {
			for ci, cell := range lane.Cells() {
				poly, err := plotter.NewPolygon(xys(cell.Polygon()))
				if err != nil {
					return err
				}
				poly.Color = nil
				poly.LineStyle.Color = color.Black
				poly.LineStyle.Width = vg.Points(0.5)
				p.Add(poly)
				if annot {
					mid := cell.CenterLine()[0]
					labels.XYs = append(labels.XYs, plotter.XY{X: mid[0], Y: mid[1]})
					labels.Labels = append(labels.Labels, fmt.Sprint(ci))
				}
			}
		}

		centerline, err := plotter.NewLine(xys(lane.Centerline().Coords()))
		if err != nil {
			return err
		}
		centerline.Color = c
		centerline.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(centerline)

		if annot && !cells {
			mid := lane.Polygon().Bound().Center()
			labels.XYs = append(labels.XYs, plotter.XY{X: mid[0], Y: mid[1]})
			labels.Labels = append(labels.Labels, fmt.Sprintf("lane %d", lane.GetID()))
		}
	}
	return addLabels(p, labels)
}

func addRegion(p *plot.Plot, r *lanemap.Region, c color.Color) error {
	for _, polygon := range r.MultiPolygon() {
		rings := make([]plotter.XYer, len(polygon))
		for i, ring := range polygon {
			rings[i] = xys(ring)
		}
		poly, err := plotter.NewPolygon(rings...)
		if err != nil {
			return err
		}
		poly.Color = translucent(c)
		poly.LineStyle.Color = c
		p.Add(poly)
	}
	return nil
}

func addLabels(p *plot.Plot, labels plotter.XYLabels) error {
	if len(labels.Labels) == 0 {
		return nil
	}
	l, err := plotter.NewLabels(labels)
	if err != nil {
		return err
	}
	p.Add(l)
	return nil
}
