package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "github.com/kinoteka/online_cinema/pkg/middleware/auth"
	"github.com/kinoteka/online_cinema/pkg/logging"
	"github.com/kinoteka/online_cinema/services/catalog/internal/models"
	"github.com/kinoteka/online_cinema/services/catalog/internal/util"
)

type listOps struct {
	add    func(c echo.Context, userID, movieID uint) error
	remove func(c echo.Context, userID, movieID uint) error
	list   func(c echo.Context, userID uint) ([]models.Movie, error)
	name   string
}

func (h *CatalogHTTP) favoriteOps() listOps {
	return listOps{
		name: "favorites",
		add: func(c echo.Context, userID, movieID uint) error {
			return h.Svc.AddFavorite(c.Request().Context(), userID, movieID)
		},
		remove: func(c echo.Context, userID, movieID uint) error {
			return h.Svc.RemoveFavorite(c.Request().Context(), userID, movieID)
		},
		list: func(c echo.Context, userID uint) ([]models.Movie, error) {
			return h.Svc.ListFavorites(c.Request().Context(), userID)
		},
	}
}

func (h *CatalogHTTP) watchlistOps() listOps {
	return listOps{
		name: "watchlist",
		add: func(c echo.Context, userID, movieID uint) error {
			return h.Svc.AddToWatchlist(c.Request().Context(), userID, movieID)
		},
		remove: func(c echo.Context, userID, movieID uint) error {
			return h.Svc.RemoveFromWatchlist(c.Request().Context(), userID, movieID)
		},
		list: func(c echo.Context, userID uint) ([]models.Movie, error) {
			return h.Svc.ListWatchlist(c.Request().Context(), userID)
		},
	}
}

func (h *CatalogHTTP) AddFavorite(c echo.Context) error    { return h.addToList(c, h.favoriteOps()) }
func (h *CatalogHTTP) RemoveFavorite(c echo.Context) error { return h.removeFromList(c, h.favoriteOps()) }
func (h *CatalogHTTP) ListFavorites(c echo.Context) error  { return h.showList(c, h.favoriteOps()) }

func (h *CatalogHTTP) AddToWatchlist(c echo.Context) error { return h.addToList(c, h.watchlistOps()) }
func (h *CatalogHTTP) RemoveFromWatchlist(c echo.Context) error {
	return h.removeFromList(c, h.watchlistOps())
}
func (h *CatalogHTTP) ListWatchlist(c echo.Context) error { return h.showList(c, h.watchlistOps()) }

func (h *CatalogHTTP) addToList(c echo.Context, ops listOps) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "lists.add_"+ops.name)

	user := authmw.PrincipalFrom(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	movieID, err := util.ParseID(c.Param("movie_id"))
	if err != nil {
		l.Warn("list_add_error", "status", 400, "reason", "movie_id not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "movie_id not an integer")
	}

	if err := ops.add(c, user.ID, movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("list_add_error", "status", 404, "reason", "movie not found")
			return echo.NewHTTPError(http.StatusNotFound, "movie not found")
		}
		l.Error("list_add_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update "+ops.name)
	}

	l.Info("list_add_success", "user_id", user.ID, "movie_id", movieID)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) removeFromList(c echo.Context, ops listOps) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "lists.remove_"+ops.name)

	user := authmw.PrincipalFrom(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	movieID, err := util.ParseID(c.Param("movie_id"))
	if err != nil {
		l.Warn("list_remove_error", "status", 400, "reason", "movie_id not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "movie_id not an integer")
	}

	if err := ops.remove(c, user.ID, movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("list_remove_error", "status", 404, "reason", "not in "+ops.name)
			return echo.NewHTTPError(http.StatusNotFound, "movie not in "+ops.name)
		}
		l.Error("list_remove_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update "+ops.name)
	}

	l.Info("list_remove_success", "user_id", user.ID, "movie_id", movieID)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) showList(c echo.Context, ops listOps) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "lists.show_"+ops.name)

	user := authmw.PrincipalFrom(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	movies, err := ops.list(c, user.ID)
	if err != nil {
		l.Error("list_show_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load "+ops.name)
	}

	return c.JSON(http.StatusOK, map[string]any{"data": movies})
}
