package router

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/lintang-b-s/lanemap/pkg/concurrent"
	"github.com/lintang-b-s/lanemap/pkg/http/router/controllers"
	router_helper "github.com/lintang-b-s/lanemap/pkg/http/router/routerhelper"
	http_server "github.com/lintang-b-s/lanemap/pkg/http/server"
	"github.com/mailru/easygo/netpoll"
	"github.com/rs/cors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	_ "net/http/pprof"
)

type API struct {
	log    *zap.Logger
	hub    *controllers.Hub
	poller netpoll.Poller
	pool   *concurrent.Pool
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

func newCors() *cors.Cors {
	return cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore
	})
}

// Handler. REST routes under /api behind the middleware chain.
func (api *API) Handler(config http_server.Config, laneMapService controllers.LaneMapService) http.Handler {
	router := httprouter.New()
	router.Handler(http.MethodGet, "/debug/pprof/*item", http.DefaultServeMux)

	group := router_helper.NewRouteGroup(router, "/api")
	laneMapRoutes := controllers.New(laneMapService, api.log)
	laneMapRoutes.Routes(group)

	mwChain := []alice.Constructor{newCors().Handler, EnforceJSONHandler, api.recoverPanic,
		RealIP, Heartbeat("healthz"), Logger(api.log)}
	if config.UseRateLimit {
		mwChain = append(mwChain, Limit(config.RateLimitRPS, config.RateLimitBurst))
	}
	return alice.New(mwChain...).Then(router)
}

// Run. serves the REST api, the websocket matcher and its http proxy until ctx is done or one of
// them fails.
func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	laneMapService controllers.LaneMapService,
) error {
	api.log.Info("Run httprouter API")

	var (
		errChan      = make(chan error, 1)
		errProxyChan = make(chan error, 1)
	)

	wsCtx, stopWebsocket := context.WithCancel(ctx)
	defer stopWebsocket()
	wsDone := make(chan struct{})
	go func() {
		defer close(wsDone)
		api.handleWebsocket(wsCtx, config, laneMapService, errChan)
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", api.upstream("agent lane matcher", "tcp", "localhost"+":"+strconv.Itoa(config.WebsocketPort)))
	wsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.ProxyPort),
		Handler: mux,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},

		ReadTimeout:       viper.GetDuration("HTTP_SERVER_READ_TIMEOUT"),
		IdleTimeout:       viper.GetDuration("HTTP_SERVER_IDLE_TIMEOUT"),
		ReadHeaderTimeout: viper.GetDuration("HTTP_SERVER_READ_HEADER_TIMEOUT"),
	}
	go func() {
		api.log.Info(fmt.Sprintf("WebSocket proxy running on port %d", config.ProxyPort))
		if err := wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errProxyChan <- err
		}
	}()

	srv := http_server.New(ctx, api.Handler(config, laneMapService), config, false)
	api.log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	shutdown := func() {
		_ = srv.Shutdown(context.Background())
		_ = wsServer.Shutdown(context.Background())
		stopWebsocket()
		<-wsDone
	}

	select {
	case err := <-errChan:
		api.log.Error("Websocket error, shutting down server", zap.Error(err))
		shutdown()
		return err
	case err := <-errProxyChan:
		api.log.Error("Websocket proxy error, shutting down server", zap.Error(err))
		shutdown()
		return err
	case err := <-serverErr:
		api.log.Info("HTTP server stopped", zap.Error(err))
		shutdown()
		return err
	case <-ctx.Done():
		api.log.Info("Context canceled, shutting down server")
		shutdown()
		return ctx.Err()
	}
}
