// Package router registers the HTTP routes of the terrace service.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/terrace-reservation/internal/handler"
)

// Middleware bundles the request filters shared by the resident routes.
// Unset filters are skipped.
type Middleware struct {
	Device    echo.MiddlewareFunc // device identity cookie
	RateLimit echo.MiddlewareFunc // token bucket on writes
	Cache     echo.MiddlewareFunc // response cache on the public list
	Purge     echo.MiddlewareFunc // cache purge after writes
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// withDefaults replaces unset filters with pass-throughs.
func (mw Middleware) withDefaults() Middleware {
	for _, f := range []*echo.MiddlewareFunc{&mw.Device, &mw.RateLimit, &mw.Cache, &mw.Purge} {
		if *f == nil {
			*f = passThrough
		}
	}
	return mw
}

// RegisterRoutes registers routes that need neither a device nor a token.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterPages registers the server-rendered calendar.  GET routes only
// read; the POST routes book and cancel and are rate limited.
func RegisterPages(e *echo.Echo, h *handler.TerraceHandler, mw Middleware) {
	mw = mw.withDefaults()
	g := e.Group("", mw.Device)
	g.GET("/", h.Index)
	g.GET("/book", h.BookForm)
	g.POST("/book", h.Book, mw.RateLimit, mw.Purge)
	g.GET("/cancel/:id", h.CancelForm)
	g.POST("/cancel/:id", h.Cancel, mw.RateLimit, mw.Purge)
}
