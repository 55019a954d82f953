package httpserver

import (
	"errors"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kinoteka/online_cinema/pkg/logging"
	"github.com/kinoteka/online_cinema/services/files/internal/storage"
)

type FilesHTTP struct {
	Store *storage.Store
}

// Upload stores a multipart file under the key given in the "key" form
// field, falling back to the original file name.
func (h *FilesHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "files.upload")

	fh, err := c.FormFile("file")
	if err != nil {
		l.Warn("upload_failed", "status", 400, "reason", "file field missing", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "file field missing")
	}

	key := c.FormValue("key")
	if key == "" {
		key = fh.Filename
	}
	if key == "" || path.Clean(key) != key || key[0] == '/' {
		l.Warn("upload_failed", "status", 400, "reason", "bad key", "key", key)
		return echo.NewHTTPError(http.StatusBadRequest, "bad key")
	}

	src, err := fh.Open()
	if err != nil {
		l.Error("upload_failed", "status", 500, "reason", "cannot open upload", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read upload")
	}
	defer src.Close()

	contentType := fh.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = contentTypeByName(key)
	}

	if err := h.Store.Upload(ctx, key, src, contentType); err != nil {
		l.Error("upload_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot store file")
	}

	l.Info("upload_success", "key", key, "size", fh.Size)
	return c.JSON(http.StatusCreated, map[string]any{"key": key, "size": fh.Size})
}

func (h *FilesHTTP) Download(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "files.download")

	key := c.Param("*")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "key is required")
	}

	obj, err := h.Store.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			l.Warn("download_failed", "status", 404, "key", key)
			return echo.NewHTTPError(http.StatusNotFound, "file not found")
		}
		l.Error("download_failed", "status", 500, "key", key, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot fetch file")
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = contentTypeByName(key)
	}
	if obj.ContentLength > 0 {
		c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(obj.ContentLength, 10))
	}
	return c.Stream(http.StatusOK, contentType, obj.Body)
}

func (h *FilesHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "files.delete")

	key := c.Param("*")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "key is required")
	}

	if err := h.Store.Delete(ctx, key); err != nil {
		l.Error("delete_failed", "status", 500, "key", key, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete file")
	}

	l.Info("delete_success", "key", key)
	return c.NoContent(http.StatusNoContent)
}

func (h *FilesHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "files.list")

	objects, err := h.Store.List(ctx, c.QueryParam("prefix"))
	if err != nil {
		l.Error("list_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list files")
	}

	return c.JSON(http.StatusOK, map[string]any{"data": objects})
}

func contentTypeByName(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return echo.MIMEOctetStream
}
