package router

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/gobwas/ws"
	"github.com/lintang-b-s/lanemap/pkg/concurrent"
	"github.com/lintang-b-s/lanemap/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/lanemap/pkg/http/server"
	"github.com/mailru/easygo/netpoll"
	"go.uber.org/zap"
)

const (
	wsPoolSize    = 128
	wsPoolQueue   = 64
	wsPoolSpawn   = 16
	acceptWait    = time.Second
	acceptBackoff = 5 * time.Millisecond
)

// handleWebsocket. accepts websocket connections on config.WebsocketPort until ctx is done. every
// accepted connection is registered with the hub; its frames are served on the goroutine pool.
func (api *API) handleWebsocket(ctx context.Context, config http_server.Config,
	laneMapService controllers.LaneMapService, errChan chan error,
) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", config.WebsocketPort))
	if err != nil {
		errChan <- err
		return
	}
	api.log.Info(fmt.Sprintf("agent lane matcher websocket API run on port %d", config.WebsocketPort))

	acceptDesc, err := netpoll.HandleListener(ln, netpoll.EventRead|netpoll.EventOneShot)
	if err != nil {
		ln.Close()
		errChan <- err
		return
	}

	api.poller, err = netpoll.New(nil)
	if err != nil {
		ln.Close()
		errChan <- err
		return
	}

	api.pool = concurrent.NewPool(wsPoolSize, wsPoolQueue, wsPoolSpawn)
	api.hub = controllers.NewHub(laneMapService)

	// accept signals the result of the next Accept().
	accept := make(chan error, 1)

	api.poller.Start(acceptDesc, func(ev netpoll.Event) {
		defer api.poller.Resume(acceptDesc)
		err := api.pool.ScheduleTimeout(acceptWait, func() {
			conn, err := ln.Accept()
			if err != nil {
				accept <- err
				return
			}

			accept <- nil
			api.handle(conn)
		})
		if err == nil {
			err = <-accept
		}
		if err != nil {
			var ne net.Error
			switch {
			case errors.Is(err, concurrent.ErrScheduleTimeout):
			case errors.As(err, &ne) && ne.Timeout():
			case errors.Is(err, net.ErrClosed):
				return
			default:
				api.log.Error("accept error", zap.Error(err))
				return
			}
			api.log.Sugar().Infof("accept error: %v; retrying in %s", err, acceptBackoff)
			time.Sleep(acceptBackoff)
		}
	})

	<-ctx.Done()

	api.poller.Stop(acceptDesc)
	ln.Close()
	api.hub.RemoveAllUser()
	api.pool.Close()

	api.log.Info("websocket server stopped")
}

// handle. upgrades conn and serves each readable event on the pool.
func (api *API) handle(conn net.Conn) {
	br := bufio.NewReader(conn)

	rw := struct {
		io.Reader
		io.Writer
	}{br, conn}

	hs, err := ws.Upgrade(rw)
	if err != nil {
		api.log.Info("upgrade error", zap.Error(err), zap.String("connection", nameConn(conn)))
		conn.Close()
		return
	}

	api.log.Info("established websocket connection", zap.String("connection", nameConn(conn)),
		zap.String("protocol", hs.Protocol))

	user := api.hub.Register(conn)

	desc, err := netpoll.HandleRead(conn)
	if err != nil {
		api.log.Error("netpoll handle read", zap.Error(err))
		api.hub.Remove(user)
		return
	}

	api.poller.Start(desc, func(ev netpoll.Event) {
		if ev&(netpoll.EventReadHup|netpoll.EventHup) != 0 {
			api.log.Info("user disconnected from websocket server", zap.String("connection", nameConn(conn)))
			api.poller.Stop(desc)
			api.hub.Remove(user)
			return
		}

		api.pool.Schedule(func() {
			if err := user.Serve(); err != nil {
				api.log.Info("websocket connection closed", zap.Error(err))
				api.poller.Stop(desc)
				api.hub.Remove(user)
			}
		})
	})
}

func nameConn(conn net.Conn) string {
	return conn.LocalAddr().String() + " > " + conn.RemoteAddr().String()
}
