package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wellness-hub/internal/cache"
	"wellness-hub/internal/model"
	"wellness-hub/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newContext(auth string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func existsCache(n int64, err error) *cache.FakeCache {
	return &cache.FakeCache{ExistsFn: func(context.Context, ...string) *redis.IntCmd {
		return redis.NewIntResult(n, err)
	}}
}

func restore() {
	verifyAccessToken = service.VerifyAccessToken
	isTokenRevoked = service.IsTokenRevoked
}

func TestExtractClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	live := existsCache(0, nil)

	for _, header := range []string{"", "BadHeader", "Bearer ", "Basic abc", "Bearer invalid"} {
		ctx, _ := newContext(header)
		_, err := extractClaims(ctx, live)
		require.Equal(t, service.KindUnauthorized, service.KindOf(err), header)
	}

	tok, err := service.IssueAccessToken(model.User{ID: 1, Role: model.RoleAdmin}, time.Minute)
	require.NoError(t, err)
	ctx, _ := newContext("Bearer " + tok)
	claims, err := extractClaims(ctx, live)
	require.NoError(t, err)
	require.Equal(t, 1, claims.UserID)
	require.Equal(t, model.RoleAdmin, claims.Role)

	// 已登出的 token
	ctx, _ = newContext("bearer " + tok)
	_, err = extractClaims(ctx, existsCache(1, nil))
	require.Equal(t, service.KindUnauthorized, service.KindOf(err))

	// Redis 故障不視為未授權
	ctx, _ = newContext("Bearer " + tok)
	_, err = extractClaims(ctx, existsCache(0, errors.New("down")))
	require.Error(t, err)
	require.Equal(t, service.Kind(0), service.KindOf(err))
}

func TestRequireAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	tok, err := service.IssueAccessToken(model.User{ID: 2, Role: model.RoleUser}, time.Minute)
	require.NoError(t, err)
	mw := RequireAuth(existsCache(0, nil))

	ctx, rec := newContext("Bearer " + tok)
	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		require.Equal(t, &service.Identity{UserID: 2, Role: model.RoleUser}, Identity(c))
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(ctx))
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	ctx, _ = newContext("")
	called = false
	err = mw(func(echo.Context) error { called = true; return nil })(ctx)
	require.Equal(t, service.KindUnauthorized, service.KindOf(err))
	require.False(t, called)
}

func TestOptionalAuth(t *testing.T) {
	t.Cleanup(restore)
	t.Setenv("JWT_SECRET", "secret")
	tok, err := service.IssueAccessToken(model.User{ID: 7}, time.Minute)
	require.NoError(t, err)

	var seen *service.Identity
	next := func(c echo.Context) error { seen = Identity(c); return nil }

	for _, header := range []string{"", "Bearer broken", "nonsense"} {
		ctx, _ := newContext(header)
		require.NoError(t, OptionalAuth(existsCache(0, nil))(next)(ctx))
		require.Nil(t, seen, header)
	}

	ctx, _ := newContext("Bearer " + tok)
	require.NoError(t, OptionalAuth(existsCache(0, nil))(next)(ctx))
	require.NotNil(t, seen)
	require.Equal(t, 7, seen.UserID)

	seen = nil
	ctx, _ = newContext("Bearer " + tok)
	require.NoError(t, OptionalAuth(existsCache(0, errors.New("down")))(next)(ctx))
	require.Nil(t, seen)

	isTokenRevoked = func(context.Context, cache.Cache, string) (bool, error) { return true, nil }
	ctx, _ = newContext("Bearer " + tok)
	require.NoError(t, OptionalAuth(nil)(next)(ctx))
	require.Nil(t, seen)
}

func TestRequireAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "adminsecret")
	adminTok, err := service.IssueAccessToken(model.User{ID: 3, Role: model.RoleAdmin}, time.Minute)
	require.NoError(t, err)
	userTok, err := service.IssueAccessToken(model.User{ID: 4, Role: model.RoleUser}, time.Minute)
	require.NoError(t, err)
	chain := func(h echo.HandlerFunc) echo.HandlerFunc { return RequireAuth(existsCache(0, nil))(RequireAdmin(h)) }

	ctx, rec := newContext("Bearer " + adminTok)
	called := false
	err = chain(func(c echo.Context) error { called = true; return c.String(http.StatusOK, "admin") })(ctx)
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	ctx, _ = newContext("Bearer " + userTok)
	called = false
	err = chain(func(c echo.Context) error { called = true; return nil })(ctx)
	require.EqualError(t, err, "User role user is not authorized to access this route")
	require.False(t, called)

	ctx, _ = newContext("")
	err = RequireAdmin(func(echo.Context) error { return nil })(ctx)
	require.Equal(t, service.KindUnauthorized, service.KindOf(err))
}

func TestClaimsAnonymous(t *testing.T) {
	ctx, _ := newContext("")
	require.Nil(t, Claims(ctx))
	require.Nil(t, Identity(ctx))
}
