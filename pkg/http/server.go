package http

import (
	"context"

	http_router "github.com/lintang-b-s/lanemap/pkg/http/router"
	"github.com/lintang-b-s/lanemap/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/lanemap/pkg/http/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use. serves the lane map api until ctx is done; the returned error is the first server failure,
// or ctx.Err() after a clean shutdown.
func (s *Server) Use(
	ctx context.Context,
	useRateLimit bool,
	laneMapService controllers.LaneMapService,
) error {
	config := http_server.ConfigFromViper(useRateLimit)
	server := http_router.NewAPI(s.Log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx, config, laneMapService)
	})

	return g.Wait()
}
