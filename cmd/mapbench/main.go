package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"time"

	"github.com/lintang-b-s/lanemap/pkg/datastructure"
	"github.com/lintang-b-s/lanemap/pkg/geo"
	"github.com/lintang-b-s/lanemap/pkg/lanemap"
	"github.com/lintang-b-s/lanemap/pkg/logger"
	"github.com/lintang-b-s/lanemap/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

// mapUsage. map.strict_topology defaults to true.
const mapUsage = "lanelet2 osm xml map (.osm or .osm.bz2). a fork or merge aborts startup " +
	"unless map.strict_topology is false, which splits them into separate lanes"

var (
	mapFile   = flag.String("map", "./data/map.osm", mapUsage)
	configDir = flag.String("config", "./data/", "directory holding config.{yaml,json,toml}")
	n         = flag.Int("n", 10000, "number of random query points")
	workers   = flag.Int("workers", 8, "goroutines for the batch run")
	seed      = flag.Uint64("seed", 0, "random seed, 0 seeds from the clock")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := util.ReadConfig(*configDir); err != nil {
		logger.Warn("no config file, using defaults", zap.Error(err))
	}

	ctx := context.Background()
	m, err := lanemap.LoadFile(ctx, *mapFile, lanemap.ConfigFromViper(), logger)
	if err != nil {
		logger.Fatal("load lanelet map", zap.String("path", *mapFile), zap.Error(err))
	}

	start := time.Now()
	if err := m.Warm(ctx); err != nil {
		logger.Fatal("warm lanelet map", zap.Error(err))
	}
	logger.Info("map warmed", zap.Duration("took", time.Since(start)))

	bb := m.GeoBound()
	if bb == nil {
		logger.Fatal("map has no lanes")
	}
	sw, ne := geo.NewCoordinate(bb.GetMinLat(), bb.GetMinLon()), geo.NewCoordinate(bb.GetMaxLat(), bb.GetMaxLon())
	logger.Info("query extent",
		zap.Float64("diagonal_m", geo.HaversineDistance(sw, ne)),
		zap.Float64("max_scale_error", math.Max(
			geo.MeasureDistortion(m.Projector(), sw).Scale,
			geo.MeasureDistortion(m.Projector(), ne).Scale)))

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(*seed))
	queries := make([]lanemap.Query, *n)
	for i := range queries {
		x, y := m.Projector().Forward(RandomCoordinate(rng, bb))
		queries[i] = lanemap.Query{X: x, Y: y}
	}

	bench("match", queries, func(q lanemap.Query) (bool, error) {
		res, err := m.Match(q.X, q.Y)
		return res.Matched, err
	})
	bench("matchFrenet", queries, func(q lanemap.Query) (bool, error) {
		res, err := m.MatchFrenet(q.X, q.Y)
		return res.Matched, err
	})

	start = time.Now()
	batch := m.MatchBatch(queries, *workers)
	matched := 0
	for _, b := range batch {
		if b.Err == nil && b.Result.Matched {
			matched++
		}
	}
	report("matchBatch", len(queries), matched, 0, time.Since(start))
}

func RandomCoordinate(rng *rand.Rand, bb *datastructure.BoundingBox) geo.Coordinate {
	lat := bb.GetMinLat() + rng.Float64()*(bb.GetMaxLat()-bb.GetMinLat())
	lon := bb.GetMinLon() + rng.Float64()*(bb.GetMaxLon()-bb.GetMinLon())
	return geo.NewCoordinate(lat, lon)
}

func bench(name string, queries []lanemap.Query, match func(lanemap.Query) (bool, error)) {
	matched, failed := 0, 0
	start := time.Now()
	for _, q := range queries {
		ok, err := match(q)
		switch {
		case err != nil:
			failed++
		case ok:
			matched++
		}
	}
	report(name, len(queries), matched, failed, time.Since(start))
}

func report(name string, total, matched, failed int, took time.Duration) {
	mean := time.Duration(0)
	if total > 0 {
		mean = took / time.Duration(total)
	}
	fmt.Printf("%-12s queries=%d matched=%d unmatched=%d errors=%d total=%s mean=%s\n",
		name, total, matched, total-matched-failed, failed, took, mean)
}
