package plot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/lanemap/pkg/lanemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// two parallel 20m lanelets sharing the middle dashed line.
const twoLanes = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6">
<node id="1" lat="0" lon="0"><tag k="local_x" v="0"/><tag k="local_y" v="0"/></node>
<node id="2" lat="0" lon="0"><tag k="local_x" v="20"/><tag k="local_y" v="0"/></node>
<node id="3" lat="0" lon="0"><tag k="local_x" v="0"/><tag k="local_y" v="4"/></node>
<node id="4" lat="0" lon="0"><tag k="local_x" v="20"/><tag k="local_y" v="4"/></node>
<node id="5" lat="0" lon="0"><tag k="local_x" v="0"/><tag k="local_y" v="8"/></node>
<node id="6" lat="0" lon="0"><tag k="local_x" v="20"/><tag k="local_y" v="8"/></node>
<way id="10"><nd ref="1"/><nd ref="2"/><tag k="type" v="curbstone"/></way>
<way id="11"><nd ref="3"/><nd ref="4"/><tag k="type" v="line_thin"/><tag k="subtype" v="dashed"/></way>
<way id="12"><nd ref="5"/><nd ref="6"/><tag k="type" v="road_border"/></way>
<relation id="100"><member type="way" ref="11" role="left"/><member type="way" ref="10" role="right"/><tag k="type" v="lanelet"/><tag k="subtype" v="road"/></relation>
<relation id="101"><member type="way" ref="12" role="left"/><member type="way" ref="11" role="right"/><tag k="type" v="lanelet"/><tag k="subtype" v="road"/></relation>
</osm>
`

func loadTwoLanes(t *testing.T) *lanemap.Map {
	t.Helper()
	path := filepath.Join(t.TempDir(), "two_lanes.osm")
	require.NoError(t, os.WriteFile(path, []byte(twoLanes), 0o644))

	m, err := lanemap.LoadFile(context.Background(), path, lanemap.DefaultConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)
	return m
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "ways", want: ModeWays},
		{in: "lanelets", want: ModeLanelets},
		{in: "cells", want: ModeCells},
		{in: "lanes", want: ModeLanes},
		{in: "roads", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestSave(t *testing.T) {
	m := loadTwoLanes(t)
	dir := t.TempDir()

	for _, mode := range []Mode{ModeWays, ModeLanelets, ModeCells, ModeLanes} {
		t.Run(mode.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Mode = mode
			opts.Annotate = true

			out := filepath.Join(dir, mode.String()+".png")
			require.NoError(t, Save(m, opts, out))

			info, err := os.Stat(out)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		})
	}
}

func TestRenderUnknownMode(t *testing.T) {
	m := loadTwoLanes(t)
	_, err := Render(m, Options{Mode: Mode(42)})
	assert.Error(t, err)
}
