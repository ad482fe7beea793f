package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/terrace-reservation/internal/handler"
	"github.com/iliyamo/terrace-reservation/internal/middleware"
)

// RegisterAdmin registers the administrator endpoints.  Login is public;
// the rest require an access token with the ADMIN role.  purge drops the
// cached reservation list after an override cancellation.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string, purge echo.MiddlewareFunc) {
	if purge == nil {
		purge = passThrough
	}
	e.POST("/v1/admin/login", a.Login)

	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleAdmin),
	)
	g.GET("/reservations", a.ListReservations)
	g.DELETE("/reservations/:id", a.DeleteReservation, purge)
}
