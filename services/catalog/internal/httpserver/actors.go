package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kinoteka/online_cinema/pkg/logging"
	"github.com/kinoteka/online_cinema/services/catalog/internal/service"
	"github.com/kinoteka/online_cinema/services/catalog/internal/transport"
	"github.com/kinoteka/online_cinema/services/catalog/internal/util"
)

func (h *CatalogHTTP) GetActor(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "actors.get_actor")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		l.Warn("get_actor_failed", "status", 400, "reason", "id not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not an integer")
	}

	actor, err := h.Svc.GetActor(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_actor_failed", "status", 404, "reason", "actor not found")
			return echo.NewHTTPError(http.StatusNotFound, "actor not found")
		}
		l.Error("get_actor_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get actor")
	}

	movies, err := h.Svc.Filmography(ctx, id)
	if err != nil {
		l.Error("get_actor_failed", "status", 500, "reason", "cannot load filmography", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get actor")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"actor":  actor,
		"movies": movies,
	})
}

func (h *CatalogHTTP) CreateActor(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "actors.create_actor")

	var req transport.CreateActorRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("actor_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	actor, err := h.Svc.CreateActor(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("actor_create_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		l.Error("actor_create_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create actor")
	}

	l.Info("create_actor_success", "actor_id", actor.ID)
	return c.JSON(http.StatusCreated, actor)
}

func (h *CatalogHTTP) DeleteActor(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "actors.delete_actor")

	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		l.Warn("actor_delete_error", "status", 400, "reason", "id not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not an integer")
	}

	if err := h.Svc.DeleteActor(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("actor_delete_error", "status", 404, "reason", "actor not found")
			return echo.NewHTTPError(http.StatusNotFound, "actor not found")
		}
		l.Error("actor_delete_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete actor")
	}

	l.Info("delete_actor_success", "actor_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) MovieCast(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "actors.movie_cast")

	movieID, err := util.ParseID(c.Param("id"))
	if err != nil {
		l.Warn("movie_cast_failed", "status", 400, "reason", "id not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not an integer")
	}

	cast, err := h.Svc.MovieCast(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("movie_cast_failed", "status", 404, "reason", "movie not found")
			return echo.NewHTTPError(http.StatusNotFound, "movie not found")
		}
		l.Error("movie_cast_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get movie cast")
	}

	return c.JSON(http.StatusOK, map[string]any{"data": cast})
}

func (h *CatalogHTTP) SetCast(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "actors.set_cast")

	movieID, err := util.ParseID(c.Param("id"))
	if err != nil {
		l.Warn("set_cast_error", "status", 400, "reason", "id not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not an integer")
	}

	var req transport.CastEntryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("set_cast_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.SetCast(ctx, movieID, req); err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("set_cast_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("set_cast_error", "status", 404, "reason", "movie or actor not found")
			return echo.NewHTTPError(http.StatusNotFound, "movie or actor not found")
		}
		l.Error("set_cast_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cast")
	}

	l.Info("set_cast_success", "movie_id", movieID, "actor_id", req.ActorID)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) RemoveCast(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "actors.remove_cast")

	movieID, err := util.ParseID(c.Param("id"))
	if err != nil {
		l.Warn("remove_cast_error", "status", 400, "reason", "id not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not an integer")
	}
	actorID, err := util.ParseID(c.Param("actor_id"))
	if err != nil {
		l.Warn("remove_cast_error", "status", 400, "reason", "actor_id not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "actor_id not an integer")
	}

	if err := h.Svc.RemoveCast(ctx, movieID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("remove_cast_error", "status", 404, "reason", "cast entry not found")
			return echo.NewHTTPError(http.StatusNotFound, "cast entry not found")
		}
		l.Error("remove_cast_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cast")
	}

	l.Info("remove_cast_success", "movie_id", movieID, "actor_id", actorID)
	return c.NoContent(http.StatusNoContent)
}
