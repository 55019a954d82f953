package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kinoteka/online_cinema/pkg/auth"
	"github.com/kinoteka/online_cinema/pkg/cookies"
	"github.com/kinoteka/online_cinema/pkg/session"
	"github.com/kinoteka/online_cinema/pkg/tokens"
	"github.com/kinoteka/online_cinema/services/auth/internal/models"
	"github.com/kinoteka/online_cinema/services/auth/internal/repo"
	"github.com/kinoteka/online_cinema/services/auth/internal/service"
)

type httpEnv struct {
	e     *echo.Echo
	svc   *service.AuthService
	cache *session.Cache
	// expiredCodec shares the signing key but mints already-expired tokens
	expiredCodec *tokens.Codec
}

func newHTTPEnv(t *testing.T) *httpEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	mr, err := miniredis.Run()
	require.NoError(t, err)

	cache, err := session.New("redis://" + mr.Addr())
	require.NoError(t, err)

	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})

	secret := []byte("test-jwt-secret")
	userRepo := &repo.GormRepo{DB: db}
	codec := tokens.NewCodec(secret)

	svc := &service.AuthService{
		Repo:     userRepo,
		Sessions: cache,
		Codec:    codec,
	}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler: &AuthHTTP{Svc: svc},
		Core:        &auth.Core{Users: userRepo, Sessions: cache, Codec: codec},
	})

	return &httpEnv{
		e:            e,
		svc:          svc,
		cache:        cache,
		expiredCodec: &tokens.Codec{Secret: secret, TTL: -time.Minute},
	}
}

func (env *httpEnv) register(t *testing.T, username, password string) *models.User {
	t.Helper()
	user, err := env.svc.Register(context.Background(), username, username+"@example.com", password)
	require.NoError(t, err)
	return user
}

func doJSON(e *echo.Echo, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func tokenCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookies.AccessToken && c.Value != "" {
			return c
		}
	}
	return nil
}

func TestLogin_SetsTokenCookie(t *testing.T) {
	env := newHTTPEnv(t)
	env.register(t, "alice", "pw123")

	rec := doJSON(env.e, http.MethodPost, "/auth/login", map[string]string{
		"username": "alice",
		"password": "pw123",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := tokenCookie(rec)
	require.NotNil(t, cookie, "expected %s cookie", cookies.AccessToken)
	assert.True(t, cookie.HttpOnly)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, cookie.Value, resp["access_token"])
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newHTTPEnv(t)
	env.register(t, "alice", "pw123")

	rec := doJSON(env.e, http.MethodPost, "/auth/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(env.e, http.MethodPost, "/auth/login", map[string]string{
		"username": "nobody",
		"password": "pw123",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedEndpoint_ValidToken(t *testing.T) {
	env := newHTTPEnv(t)
	env.register(t, "alice", "pw123")

	login := doJSON(env.e, http.MethodPost, "/auth/login", map[string]string{
		"username": "alice",
		"password": "pw123",
	}, nil)
	require.Equal(t, http.StatusOK, login.Code)

	rec := doJSON(env.e, http.MethodGet, "/auth/me", nil, tokenCookie(login))
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)
}

func TestProtectedEndpoint_NoToken(t *testing.T) {
	env := newHTTPEnv(t)

	rec := doJSON(env.e, http.MethodGet, "/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedEndpoint_ExpiredTokenWithLiveSession_Refreshes(t *testing.T) {
	env := newHTTPEnv(t)
	user := env.register(t, "alice", "pw123")

	require.NoError(t, env.cache.StartSession(context.Background(), user.ID))

	stale, _, err := env.expiredCodec.Issue("1")
	require.NoError(t, err)

	rec := doJSON(env.e, http.MethodGet, "/auth/me", nil, &http.Cookie{
		Name:  cookies.AccessToken,
		Value: stale,
	})
	require.Equal(t, http.StatusOK, rec.Code, "refresh must be transparent")

	fresh := tokenCookie(rec)
	require.NotNil(t, fresh, "expected a replacement cookie")
	assert.NotEqual(t, stale, fresh.Value)

	// old token is blacklisted now
	replay := doJSON(env.e, http.MethodGet, "/auth/me", nil, &http.Cookie{
		Name:  cookies.AccessToken,
		Value: stale,
	})
	assert.Equal(t, http.StatusUnauthorized, replay.Code)

	// the fresh one works
	again := doJSON(env.e, http.MethodGet, "/auth/me", nil, fresh)
	assert.Equal(t, http.StatusOK, again.Code)
}

func TestProtectedEndpoint_ExpiredTokenWithoutSession_Rejected(t *testing.T) {
	env := newHTTPEnv(t)
	env.register(t, "alice", "pw123")

	stale, _, err := env.expiredCodec.Issue("1")
	require.NoError(t, err)

	rec := doJSON(env.e, http.MethodGet, "/auth/me", nil, &http.Cookie{
		Name:  cookies.AccessToken,
		Value: stale,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_ThenRefreshFails(t *testing.T) {
	env := newHTTPEnv(t)
	user := env.register(t, "alice", "pw123")

	login := doJSON(env.e, http.MethodPost, "/auth/login", map[string]string{
		"username": "alice",
		"password": "pw123",
	}, nil)
	require.Equal(t, http.StatusOK, login.Code)
	cookie := tokenCookie(login)

	out := doJSON(env.e, http.MethodPost, "/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, out.Code)

	alive, err := env.cache.SessionAlive(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, alive)

	// an expired token can no longer be silently refreshed
	stale, _, err := env.expiredCodec.Issue("1")
	require.NoError(t, err)
	rec := doJSON(env.e, http.MethodGet, "/auth/me", nil, &http.Cookie{
		Name:  cookies.AccessToken,
		Value: stale,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMakeMeAdmin_ReportsPromotionDistinctly(t *testing.T) {
	env := newHTTPEnv(t)
	env.register(t, "alice", "pw123")

	login := doJSON(env.e, http.MethodPost, "/auth/login", map[string]string{
		"username": "alice",
		"password": "pw123",
	}, nil)
	cookie := tokenCookie(login)

	first := doJSON(env.e, http.MethodPut, "/auth/make_me_admin", nil, cookie)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), "promoted")

	second := doJSON(env.e, http.MethodPut, "/auth/make_me_admin", nil, cookie)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), "already")
}
