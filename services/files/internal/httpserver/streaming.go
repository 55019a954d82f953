package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kinoteka/online_cinema/pkg/logging"
	"github.com/kinoteka/online_cinema/services/files/internal/repo"
	"github.com/kinoteka/online_cinema/services/files/internal/storage"
)

type StreamingHTTP struct {
	Repo  *repo.GormRepo
	Store *storage.Store
}

// Stream serves a movie's video file, honoring the Range header so that
// players can seek. The bucket does the actual byte slicing.
func (h *StreamingHTTP) Stream(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "streaming.stream")

	movieID, err := strconv.ParseUint(c.Param("movie_id"), 10, 64)
	if err != nil {
		l.Warn("stream_failed", "status", 400, "reason", "movie_id not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "movie_id not an integer")
	}

	key, err := h.Repo.MovieObjectKey(ctx, uint(movieID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, repo.ErrNoVideo) {
			l.Warn("stream_failed", "status", 404, "movie_id", movieID, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "video not found")
		}
		l.Error("stream_failed", "status", 500, "movie_id", movieID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot stream video")
	}

	rangeHeader := c.Request().Header.Get("Range")

	obj, err := h.Store.DownloadRange(ctx, key, rangeHeader)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			l.Warn("stream_failed", "status", 404, "movie_id", movieID, "key", key)
			return echo.NewHTTPError(http.StatusNotFound, "video not found")
		}
		l.Error("stream_failed", "status", 500, "movie_id", movieID, "key", key, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot stream video")
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = contentTypeByName(key)
	}

	header := c.Response().Header()
	header.Set("Accept-Ranges", "bytes")
	if obj.ContentLength > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(obj.ContentLength, 10))
	}

	status := http.StatusOK
	if obj.ContentRange != "" {
		header.Set("Content-Range", obj.ContentRange)
		status = http.StatusPartialContent
	}

	return c.Stream(status, contentType, obj.Body)
}
