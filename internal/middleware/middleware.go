package middleware

import (
	"strings"

	"wellness-hub/internal/cache"
	"wellness-hub/internal/model"
	"wellness-hub/internal/service"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user"

const msgNotAuthorized = "Not authorized to access this route"

var (
	verifyAccessToken = service.VerifyAccessToken
	isTokenRevoked    = service.IsTokenRevoked
)

func unauthorized(msg string) error {
	return &service.Error{Kind: service.KindUnauthorized, Message: msg}
}

// bearerToken 取出 Authorization: Bearer <token>，沒有帶 header 時回傳空字串
func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", nil
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", unauthorized(msgNotAuthorized)
	}
	return strings.TrimSpace(parts[1]), nil
}

func extractClaims(c echo.Context, cch cache.Cache) (*service.CustomClaims, error) {
	token, err := bearerToken(c)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, unauthorized(msgNotAuthorized)
	}
	claims, err := verifyAccessToken(token)
	if err != nil {
		return nil, unauthorized(msgNotAuthorized)
	}
	revoked, err := isTokenRevoked(c.Request().Context(), cch, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, unauthorized(msgNotAuthorized)
	}
	return claims, nil
}

// RequireAuth 驗證 token 並確認未被登出撤銷
func RequireAuth(cch cache.Cache) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := extractClaims(c, cch)
			if err != nil {
				return err
			}
			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}

// OptionalAuth 有合法 token 時帶入身分，否則以匿名繼續，不會中斷請求
func OptionalAuth(cch cache.Cache) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := extractClaims(c, cch); err == nil {
				c.Set(ContextUserKey, claims)
			} else if service.KindOf(err) == 0 {
				c.Logger().Warnf("optional auth: %v", err)
			}
			return next(c)
		}
	}
}

// RequireAdmin 必須掛在 RequireAuth 之後
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := Claims(c)
		if claims == nil {
			return unauthorized(msgNotAuthorized)
		}
		if claims.Role != model.RoleAdmin {
			return unauthorized("User role " + claims.Role + " is not authorized to access this route")
		}
		return next(c)
	}
}

// Claims 回傳 middleware 放入的 claims，匿名請求為 nil
func Claims(c echo.Context) *service.CustomClaims {
	claims, _ := c.Get(ContextUserKey).(*service.CustomClaims)
	return claims
}

// Identity 回傳呼叫者身分，匿名請求回傳 nil
func Identity(c echo.Context) *service.Identity {
	claims := Claims(c)
	if claims == nil {
		return nil
	}
	id := claims.Identity()
	return &id
}
