package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kinoteka/online_cinema/pkg/auth"
	authmw "github.com/kinoteka/online_cinema/pkg/middleware/auth"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	Core           *auth.Core
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := d.Core.Sessions.Ping(c.Request().Context()); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	mw := authmw.New(d.Core)

	movies := e.Group("/catalog/movies")
	movies.GET("/search", d.CatalogHandler.SearchMovies)
	movies.GET("", d.CatalogHandler.ListMovies)
	movies.GET("/:id", d.CatalogHandler.GetMovie)
	movies.GET("/:id/similar", d.CatalogHandler.SimilarMovies)
	movies.GET("/:id/cast", d.CatalogHandler.MovieCast)

	adminMovies := movies.Group("", mw.RequireAdmin)
	adminMovies.POST("", d.CatalogHandler.CreateMovie)
	adminMovies.PATCH("/:id", d.CatalogHandler.PatchMovie)
	adminMovies.DELETE("/:id", d.CatalogHandler.DeleteMovie)
	adminMovies.PUT("/:id/cast", d.CatalogHandler.SetCast)
	adminMovies.DELETE("/:id/cast/:actor_id", d.CatalogHandler.RemoveCast)

	genres := e.Group("/catalog/genres")
	genres.GET("", d.CatalogHandler.ListGenres)
	genres.POST("", d.CatalogHandler.CreateGenre, mw.RequireAdmin)

	actors := e.Group("/catalog/actors")
	actors.GET("/:id", d.CatalogHandler.GetActor)
	actors.POST("", d.CatalogHandler.CreateActor, mw.RequireAdmin)
	actors.DELETE("/:id", d.CatalogHandler.DeleteActor, mw.RequireAdmin)

	favorites := e.Group("/catalog/favorites", mw.RequireAuth)
	favorites.GET("", d.CatalogHandler.ListFavorites)
	favorites.POST("/:movie_id", d.CatalogHandler.AddFavorite)
	favorites.DELETE("/:movie_id", d.CatalogHandler.RemoveFavorite)

	watchlist := e.Group("/catalog/watchlist", mw.RequireAuth)
	watchlist.GET("", d.CatalogHandler.ListWatchlist)
	watchlist.POST("/:movie_id", d.CatalogHandler.AddToWatchlist)
	watchlist.DELETE("/:movie_id", d.CatalogHandler.RemoveFromWatchlist)
}
