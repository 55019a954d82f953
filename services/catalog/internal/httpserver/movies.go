package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kinoteka/online_cinema/pkg/logging"
	"github.com/kinoteka/online_cinema/services/catalog/internal/repo"
	"github.com/kinoteka/online_cinema/services/catalog/internal/service"
	"github.com/kinoteka/online_cinema/services/catalog/internal/transport"
	"github.com/kinoteka/online_cinema/services/catalog/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetMovie(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "movies.get_movie")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		l.Warn("get_movie_failed", "status", 400, "reason", "id not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not an integer")
	}

	movie, err := h.Svc.GetMovie(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_movie_failed", "status", 404, "reason", "movie not found")
			return echo.NewHTTPError(http.StatusNotFound, "movie not found")
		}
		l.Error("get_movie_failed", "status", 500, "reason", "cannot get movie", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get movie")
	}

	return c.JSON(http.StatusOK, movie)
}

func (h *CatalogHTTP) ListMovies(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "movies.list_movies")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	filter := repo.MovieFilter{
		ID:      uint(util.ParseIntDefault(c.QueryParam("id"), 0)),
		Title:   c.QueryParam("title"),
		GenreID: uint(util.ParseIntDefault(c.QueryParam("genre_id"), 0)),
	}

	total, items, err := h.Svc.ListMovies(ctx, filter, offset, limit)
	if err != nil {
		l.Error("list_movies_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list movies")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *CatalogHTTP) CreateMovie(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "movies.create_movie")

	var req transport.CreateMovieRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("movie_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	movie, err := h.Svc.CreateMovie(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("movie_create_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		l.Error("movie_create_error", "status", 500, "reason", "cannot add movie to db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add movie to db")
	}

	l.Info("create_movie_success", "movie_id", movie.ID)
	return c.JSON(http.StatusCreated, movie)
}

func (h *CatalogHTTP) PatchMovie(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "movies.patch_movie")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		l.Warn("movie_patch_error", "status", 400, "reason", "id not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not an integer")
	}

	var req transport.PatchMovieRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("movie_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	movie, err := h.Svc.PatchMovie(ctx, req, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("movie_patch_error", "status", 404, "reason", "movie not found")
			return echo.NewHTTPError(http.StatusNotFound, "movie not found")
		}
		if errors.Is(err, service.ErrValidation) {
			l.Warn("movie_patch_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		l.Error("movie_patch_error", "status", 500, "reason", "cannot update movie", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update movie")
	}

	l.Info("patch_movie_success", "movie_id", movie.ID)
	return c.JSON(http.StatusOK, movie)
}

func (h *CatalogHTTP) DeleteMovie(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "movies.delete_movie")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		l.Warn("movie_delete_error", "status", 400, "reason", "id not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not an integer")
	}

	if err := h.Svc.DeleteMovie(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("movie_delete_error", "status", 404, "reason", "movie not found")
			return echo.NewHTTPError(http.StatusNotFound, "movie not found")
		}
		l.Error("movie_delete_error", "status", 500, "reason", "cannot delete movie", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete movie")
	}

	l.Info("delete_movie_success", "movie_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) SimilarMovies(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "movies.similar_movies")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		l.Warn("similar_movies_failed", "status", 400, "reason", "id not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not an integer")
	}

	similar, err := h.Svc.SimilarMovies(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("similar_movies_failed", "status", 404, "reason", "movie not found")
			return echo.NewHTTPError(http.StatusNotFound, "movie not found")
		}
		l.Error("similar_movies_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get similar movies")
	}

	return c.JSON(http.StatusOK, map[string]any{"data": similar})
}

func (h *CatalogHTTP) SearchMovies(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "movies.search_movies")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, docs, err := h.Svc.SearchMovies(ctx, q, from, limit)
	if err != nil {
		if errors.Is(err, service.ErrSearchUnavailable) {
			l.Warn("search_movies_failed", "status", 503, "reason", "search not configured")
			return echo.NewHTTPError(http.StatusServiceUnavailable, "search unavailable")
		}
		l.Error("search_movies_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search unavailable")
	}

	return c.JSON(http.StatusOK, map[string]any{"total": total, "movies": docs})
}

func (h *CatalogHTTP) ListGenres(c echo.Context) error {
	ctx := c.Request().Context()

	genres, err := h.Svc.ListGenres(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_genres_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list genres")
	}
	return c.JSON(http.StatusOK, genres)
}

func (h *CatalogHTTP) CreateGenre(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "movies.create_genre")

	var req transport.CreateGenreRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("genre_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	genre, err := h.Svc.CreateGenre(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("genre_create_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		l.Error("genre_create_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create genre")
	}

	l.Info("create_genre_success", "genre_id", genre.ID)
	return c.JSON(http.StatusCreated, genre)
}
