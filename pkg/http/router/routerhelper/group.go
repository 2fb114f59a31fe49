package router_helper

import (
	"net/http"
	"path"

	"github.com/julienschmidt/httprouter"
)

// RouteGroup registers handlers on a router under a common path prefix.
type RouteGroup struct {
	r      *httprouter.Router
	prefix string
}

func NewRouteGroup(r *httprouter.Router, prefix string) *RouteGroup {
	return &RouteGroup{r: r, prefix: prefix}
}

func (g *RouteGroup) Group(prefix string) *RouteGroup {
	return &RouteGroup{r: g.r, prefix: g.path(prefix)}
}

func (g *RouteGroup) path(p string) string {
	joined := path.Join(g.prefix, p)
	// path.Join drops the trailing slash of catch-all routes.
	if len(p) > 0 && p[len(p)-1] == '/' && joined[len(joined)-1] != '/' {
		joined += "/"
	}
	return joined
}

func (g *RouteGroup) Handle(method, p string, h httprouter.Handle) {
	g.r.Handle(method, g.path(p), h)
}

func (g *RouteGroup) GET(p string, h httprouter.Handle) {
	g.Handle(http.MethodGet, p, h)
}

func (g *RouteGroup) POST(p string, h httprouter.Handle) {
	g.Handle(http.MethodPost, p, h)
}

func (g *RouteGroup) PUT(p string, h httprouter.Handle) {
	g.Handle(http.MethodPut, p, h)
}

func (g *RouteGroup) DELETE(p string, h httprouter.Handle) {
	g.Handle(http.MethodDelete, p, h)
}
