package main

import (
	"context"
	"errors"
	"flag"

	"github.com/lintang-b-s/lanemap/pkg/http"
	"github.com/lintang-b-s/lanemap/pkg/http/usecases"
	"github.com/lintang-b-s/lanemap/pkg/lanemap"
	"github.com/lintang-b-s/lanemap/pkg/logger"
	"github.com/lintang-b-s/lanemap/pkg/util"
	"go.uber.org/zap"
)

// mapUsage. map.strict_topology defaults to true.
const mapUsage = "lanelet2 osm xml map (.osm or .osm.bz2). a fork or merge aborts startup " +
	"unless map.strict_topology is false, which splits them into separate lanes"

var (
	mapFile      = flag.String("map", "./data/map.osm", mapUsage)
	configDir    = flag.String("config", "./data/", "directory holding config.{yaml,json,toml}")
	useRateLimit = flag.Bool("rate_limit", false, "enable the api rate limiter")
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

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	cfg := lanemap.ConfigFromViper()
	m, err := lanemap.LoadFile(ctx, *mapFile, cfg, logger)
	var topoErr *lanemap.TopologyError
	if errors.As(err, &topoErr) {
		logger.Fatal("lanelet map has forks or merges, set map.strict_topology: false to load it",
			zap.String("path", *mapFile), zap.Error(err))
	}
	if err != nil {
		logger.Fatal("load lanelet map", zap.String("path", *mapFile), zap.Error(err))
	}
	if err := m.Warm(ctx); err != nil {
		logger.Fatal("warm lanelet map", zap.Error(err))
	}
	summary := m.Summary()
	logger.Info("lanelet map ready",
		zap.Int("lanelets", summary.Lanelets),
		zap.Int("crosswalks", summary.Crosswalks),
		zap.Int("lanes", summary.Lanes))

	api := http.NewServer(logger)
	laneMapService := usecases.NewLaneMapService(logger, m)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- api.Use(ctx, *useRateLimit, laneMapService)
	}()

	go func() {
		signal := http.GracefulShutdown()
		logger.Info("shutting down", zap.String("signal", signal.String()))
		cleanup()
	}()

	if err := <-serveErr; err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("lane map server failed", zap.Error(err))
	}
	logger.Info("Lane Map Server Stopped")
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
