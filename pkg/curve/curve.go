// Package curve fits a smooth interpolant through an ordered 2-D point sequence and resamples it
// into a dense polyline with per-sample heading and cumulative arc length.
//
// The interpolant is y = f(x): the input must be monotonic in x. Inputs that double back in x (or
// repeat an x value) have no such function; Fit reports ErrNotMonotonic for repeated x values and
// otherwise fits the points sorted by x, which for a curve that doubles back is a degenerate fit.
// This is a known limitation of the x-parameterised spline, not something Fit tries to repair.
package curve

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/lintang-b-s/lanemap/pkg/geometry"
	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

var (
	ErrTooFewPoints = errors.New("curve: at least two points are required")
	ErrNotMonotonic = errors.New("curve: x coordinates are not strictly monotonic")
	ErrBadStep      = errors.New("curve: step must be positive")
)

// Curve is a resampled spline. Samples, Headings and CumDist have the same length.
type Curve struct {
	samples  orb.LineString
	headings []float64
	cumDist  []float64
}

func (c *Curve) Samples() orb.LineString {
	return c.samples
}

func (c *Curve) Headings() []float64 {
	return c.headings
}

// CumDist. cumulative arc length from the first sample; CumDist()[0] == 0.
func (c *Curve) CumDist() []float64 {
	return c.cumDist
}

func (c *Curve) Length() float64 {
	if len(c.cumDist) == 0 {
		return 0
	}
	return c.cumDist[len(c.cumDist)-1]
}

func (c *Curve) Len() int {
	return len(c.samples)
}

// Fit. fits a cubic spline (not-a-knot when it has four or more points) over x and resamples it at roughly
// step metres in x between the first and last input points. two points fit a line, three a natural
// cubic.
func Fit(points orb.LineString, step float64) (*Curve, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}
	if step <= 0 {
		return nil, ErrBadStep
	}

	sorted := make(orb.LineString, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i][0] < sorted[j][0]
	})

	xs := make([]float64, len(sorted))
	ys := make([]float64, len(sorted))
	for i, p := range sorted {
		xs[i] = p[0]
		ys[i] = p[1]
		if i > 0 && xs[i]-xs[i-1] <= 0 {
			return nil, fmt.Errorf("%w: x=%f repeats", ErrNotMonotonic, xs[i])
		}
	}

	predictor, err := fitPredictor(xs, ys)
	if err != nil {
		return nil, err
	}

	x0 := points[0][0]
	xn := points[len(points)-1][0]
	numGrids := int(math.Abs((xn - x0) / step))
	if numGrids < 2 {
		numGrids = 2
	}

	xGrid := floats.Span(make([]float64, numGrids), x0, xn)
	samples := make(orb.LineString, numGrids)
	for i, x := range xGrid {
		samples[i] = orb.Point{x, predictor.Predict(x)}
	}
	// pin the endpoints to the input so round-off in Predict never moves them.
	samples[0] = points[0]
	samples[numGrids-1] = points[len(points)-1]

	headings := make([]float64, numGrids)
	segLens := make([]float64, numGrids)
	for i := 0; i+1 < numGrids; i++ {
		headings[i] = geometry.Heading(samples[i], samples[i+1])
		segLens[i+1] = geometry.Distance(samples[i], samples[i+1])
	}
	headings[numGrids-1] = headings[numGrids-2]

	cumDist := floats.CumSum(make([]float64, numGrids), segLens)

	return &Curve{
		samples:  samples,
		headings: headings,
		cumDist:  cumDist,
	}, nil
}

func fitPredictor(xs, ys []float64) (interp.Predictor, error) {
	var candidates []interp.FittablePredictor
	switch {
	case len(xs) >= 4:
		candidates = []interp.FittablePredictor{&interp.NotAKnotCubic{}, &interp.NaturalCubic{}, &interp.PiecewiseLinear{}}
	case len(xs) == 3:
		candidates = []interp.FittablePredictor{&interp.NaturalCubic{}, &interp.PiecewiseLinear{}}
	default:
		candidates = []interp.FittablePredictor{&interp.PiecewiseLinear{}}
	}

	var err error
	for _, fp := range candidates {
		if err = fp.Fit(xs, ys); err == nil {
			return fp, nil
		}
	}
	return nil, fmt.Errorf("curve: fit failed: %w", err)
}
