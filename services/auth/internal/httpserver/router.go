package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kinoteka/online_cinema/pkg/auth"
	authmw "github.com/kinoteka/online_cinema/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler *AuthHTTP
	Core        *auth.Core
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := d.AuthHandler.Svc.Sessions.Ping(c.Request().Context()); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	mw := authmw.New(d.Core)

	g := e.Group("/auth")
	g.POST("/register", d.AuthHandler.Register)
	g.POST("/login", d.AuthHandler.Login)

	private := g.Group("")
	private.Use(mw.RequireAuth)
	private.POST("/logout", d.AuthHandler.Logout)
	private.PUT("/make_me_admin", d.AuthHandler.MakeMeAdmin)
	private.GET("/me", d.AuthHandler.Me)
}
