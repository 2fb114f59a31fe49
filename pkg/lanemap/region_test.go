package lanemap

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x0, y0, x1, y1 float64) orb.Ring {
	return orb.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
}

func TestNewRegion(t *testing.T) {
	// a 16-gon with apothem r has area 16 r^2 tan(pi/16).
	roundedUnitSquare := 1 + 4*0.5 + 16*0.25*math.Tan(math.Pi/16)

	testCases := []struct {
		name         string
		margin       float64
		rings        []orb.Ring
		wantPolygons int
		wantArea     float64
	}{
		{
			name:         "shared edge merges",
			rings:        []orb.Ring{square(0, 0, 1, 1), square(1, 0, 2, 1)},
			wantPolygons: 1,
			wantArea:     2,
		},
		{
			name:         "overlap counted once",
			rings:        []orb.Ring{square(0, 0, 2, 1), square(1, 0, 3, 1)},
			wantPolygons: 1,
			wantArea:     3,
		},
		{
			name:         "disjoint rings stay apart",
			rings:        []orb.Ring{square(0, 0, 1, 1), square(3, 0, 4, 1)},
			wantPolygons: 2,
			wantArea:     2,
		},
		{
			name:         "degenerate ring left out",
			rings:        []orb.Ring{square(0, 0, 1, 1), {{5, 5}, {6, 5}, {7, 5}, {5, 5}}},
			wantPolygons: 1,
			wantArea:     1,
		},
		{
			name:         "margin grows the ring",
			margin:       0.5,
			rings:        []orb.Ring{square(0, 0, 1, 1)},
			wantPolygons: 1,
			wantArea:     roundedUnitSquare,
		},
		{
			name:         "margin bridges a narrow gap",
			margin:       0.5,
			rings:        []orb.Ring{square(0, 0, 1, 1), square(1.5, 0, 2.5, 1)},
			wantPolygons: 1,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegion(tt.margin, tt.rings...)
			require.NoError(t, err)

			mp := r.MultiPolygon()
			assert.Len(t, mp, tt.wantPolygons)
			if tt.wantArea > 0 {
				assert.InDelta(t, tt.wantArea, planar.Area(mp), 1e-6)
			}
			assert.Equal(t, tt.margin, r.Margin())
		})
	}
}

func TestRegionContainsMatchesExport(t *testing.T) {
	r, err := NewRegion(1, square(0, 0, 10, 4))
	require.NoError(t, err)

	testCases := []struct {
		name string
		p    orb.Point
		want bool
	}{
		{name: "inside", p: orb.Point{5, 2}, want: true},
		{name: "inside the margin below", p: orb.Point{5, -0.5}, want: true},
		{name: "inside the margin right", p: orb.Point{10.9, 2}, want: true},
		{name: "near a corner", p: orb.Point{-0.5, -0.5}, want: true},
		{name: "past the margin", p: orb.Point{5, -1.5}, want: false},
		{name: "past a corner", p: orb.Point{-0.9, -0.9}, want: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Contains(tt.p))
			assert.Equal(t, tt.want, planar.MultiPolygonContains(r.MultiPolygon(), tt.p))
		})
	}
}

func TestMergeRegions(t *testing.T) {
	a, err := NewRegion(0, square(0, 0, 1, 1))
	require.NoError(t, err)
	b, err := NewRegion(0, square(1, 0, 2, 1))
	require.NoError(t, err)
	empty, err := NewRegion(0)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.Contains(orb.Point{0, 0}))

	merged, err := MergeRegions(a, b, empty)
	require.NoError(t, err)
	require.Len(t, merged.MultiPolygon(), 1)
	assert.InDelta(t, 2, planar.Area(merged.MultiPolygon()), 1e-9)
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 1}}, merged.Bound())
}

func TestCheckRing(t *testing.T) {
	testCases := []struct {
		name    string
		ring    orb.Ring
		wantErr error
	}{
		{name: "simple", ring: square(0, 0, 2, 2)},
		{name: "repeated vertex", ring: orb.Ring{{0, 0}, {2, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}},
		{name: "collinear", ring: orb.Ring{{0, 0}, {1, 0}, {2, 0}, {0, 0}}, wantErr: ErrZeroAreaRing},
		{name: "collapsed", ring: orb.Ring{{5, 5}, {5, 5}, {5, 5}, {5, 5}}, wantErr: ErrZeroAreaRing},
		{name: "bow tie", ring: orb.Ring{{0, 0}, {10, 6}, {10, 0}, {0, 4}, {0, 0}}, wantErr: ErrNonSimpleRing},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRing(tt.ring)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
