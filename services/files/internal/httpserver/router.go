package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kinoteka/online_cinema/pkg/auth"
	authmw "github.com/kinoteka/online_cinema/pkg/middleware/auth"
)

type Deps struct {
	FilesHandler     *FilesHTTP
	StreamingHandler *StreamingHTTP
	Core             *auth.Core
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := d.Core.Sessions.Ping(ctx); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		if err := d.FilesHandler.Store.Ping(ctx); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	mw := authmw.New(d.Core)

	files := e.Group("/files", mw.RequireAuth)
	files.GET("", d.FilesHandler.List)
	files.POST("", d.FilesHandler.Upload)
	files.GET("/*", d.FilesHandler.Download)
	files.DELETE("/*", d.FilesHandler.Delete, mw.RequireAdmin)

	e.GET("/streaming/:movie_id", d.StreamingHandler.Stream, mw.RequireAuth)
}
