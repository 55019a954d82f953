package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kinoteka/online_cinema/pkg/cookies"
	"github.com/kinoteka/online_cinema/pkg/logging"
	authmw "github.com/kinoteka/online_cinema/pkg/middleware/auth"
	"github.com/kinoteka/online_cinema/services/auth/internal/service"
	"github.com/kinoteka/online_cinema/services/auth/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "username, email and password are required")
		case errors.Is(err, service.ErrUserExists):
			return echo.NewHTTPError(http.StatusConflict, "user already exists")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
		}
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
		case errors.Is(err, service.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
		}
	}

	c.SetCookie(cookies.Create(cookies.AccessToken, res.Token, "/", res.Exp))

	return c.JSON(http.StatusOK, transport.LoginResponse{
		AccessToken: res.Token,
		IsAdmin:     res.IsAdmin,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	principal := authmw.PrincipalFrom(c)
	if principal == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	if err := h.Svc.Logout(ctx, principal.ID, authmw.TokenFrom(c)); err != nil {
		c.SetCookie(cookies.Delete(cookies.AccessToken, "/"))
		return echo.NewHTTPError(http.StatusInternalServerError, "logout failed")
	}

	c.SetCookie(cookies.Delete(cookies.AccessToken, "/"))
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "logged out"})
}

func (h *AuthHTTP) MakeMeAdmin(c echo.Context) error {
	ctx := c.Request().Context()

	principal := authmw.PrincipalFrom(c)
	if principal == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	promoted, err := h.Svc.MakeAdmin(ctx, principal.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "promotion failed")
	}

	msg := "user is already an admin"
	if promoted {
		msg = "user promoted to admin"
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: msg})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	principal := authmw.PrincipalFrom(c)
	if principal == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	user, err := h.Svc.Repo.FindByID(c.Request().Context(), principal.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load user")
	}
	return c.JSON(http.StatusOK, user)
}
