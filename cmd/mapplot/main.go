package main

import (
	"context"
	"flag"

	"github.com/lintang-b-s/lanemap/pkg/lanemap"
	"github.com/lintang-b-s/lanemap/pkg/logger"
	"github.com/lintang-b-s/lanemap/pkg/plot"
	"github.com/lintang-b-s/lanemap/pkg/util"
	"go.uber.org/zap"
)

var (
	mapFile   = flag.String("map", "./data/map.osm", "lanelet2 osm xml map (.osm or .osm.bz2)")
	configDir = flag.String("config", "./data/", "directory holding config.{yaml,json,toml}")
	mode      = flag.String("mode", "ways", "what to draw: ways, lanelets, cells or lanes")
	out       = flag.String("out", "./data/map.png", "output image; the format follows the extension")
	annot     = flag.Bool("annot", false, "label entities with their ids")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	plotMode, err := plot.ParseMode(*mode)
	if err != nil {
		logger.Fatal("bad -mode", zap.Error(err))
	}

	if err := util.ReadConfig(*configDir); err != nil {
		logger.Warn("no config file, using defaults", zap.Error(err))
	}

	m, err := lanemap.LoadFile(context.Background(), *mapFile, lanemap.ConfigFromViper(), logger)
	if err != nil {
		logger.Fatal("load lanelet map", zap.String("path", *mapFile), zap.Error(err))
	}

	opts := plot.DefaultOptions()
	opts.Mode = plotMode
	opts.Annotate = *annot
	if err := plot.Save(m, opts, *out); err != nil {
		logger.Fatal("render map", zap.Error(err))
	}
	logger.Info("map rendered", zap.String("mode", plotMode.String()), zap.String("out", *out))
}
