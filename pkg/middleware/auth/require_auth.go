package authmw

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kinoteka/online_cinema/pkg/auth"
	"github.com/kinoteka/online_cinema/pkg/cookies"
)

// PrincipalKey is where RequireAuth stores the resolved user on the echo
// context.
const PrincipalKey = "principal"

type Middleware struct {
	Core *auth.Core
}

func New(core *auth.Core) *Middleware {
	return &Middleware{Core: core}
}

type validatorFunc func(p *auth.Principal) error

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(p *auth.Principal) error {
		if !p.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func (m *Middleware) requireAuthWithValidator(next echo.HandlerFunc, validator validatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// An outer middleware may have authenticated this request already.
		// Re-running Authenticate would re-read the request cookie, which on
		// the refresh path is the token the first pass just blacklisted.
		if p := PrincipalFrom(c); p != nil {
			if validator != nil {
				if err := validator(p); err != nil {
					return err
				}
			}
			return next(c)
		}

		cookie, err := c.Cookie(cookies.AccessToken)
		if err != nil || cookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "token not found")
		}

		res, err := m.Core.Authenticate(c.Request().Context(), cookie.Value)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidToken):
				c.SetCookie(cookies.Delete(cookies.AccessToken, "/"))
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			case errors.Is(err, auth.ErrSessionExpired):
				c.SetCookie(cookies.Delete(cookies.AccessToken, "/"))
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			case errors.Is(err, auth.ErrUnauthenticated):
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			default:
				return echo.NewHTTPError(http.StatusInternalServerError, "authentication unavailable")
			}
		}

		if res.NewToken != "" {
			c.SetCookie(cookies.Create(cookies.AccessToken, res.NewToken, "/", res.NewTokenExp))
		}

		if validator != nil {
			if err := validator(res.User); err != nil {
				return err
			}
		}

		c.Set(PrincipalKey, res.User)
		c.Set("user_id", res.User.ID)
		c.Set("role", res.User.Role)

		return next(c)
	}
}

// PrincipalFrom returns the user stored by RequireAuth, or nil outside a
// protected route.
func PrincipalFrom(c echo.Context) *auth.Principal {
	if p, ok := c.Get(PrincipalKey).(*auth.Principal); ok {
		return p
	}
	return nil
}

// TokenFrom returns the raw access token the request carried, if any.
func TokenFrom(c echo.Context) string {
	cookie, err := c.Cookie(cookies.AccessToken)
	if err != nil {
		return ""
	}
	return cookie.Value
}
