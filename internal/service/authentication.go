// File: internal/service/authentication.go
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"wellness-hub/internal/cache"
	"wellness-hub/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// revokedTokenPrefix 是 Redis 黑名單 key 的前綴，後接 token 的 jti
const revokedTokenPrefix = "revoked_token:"

var (
	timeNow         = time.Now
	newTokenID      = uuid.NewString
	parseWithClaims = jwt.ParseWithClaims
)

// Identity 是通過驗證後的呼叫者
type Identity struct {
	UserID int
	Role   string
}

func (i Identity) IsAdmin() bool { return i.Role == model.RoleAdmin }

// CustomClaims 定義 JWT 負載內容，subject 為使用者 ID，ID (jti) 供登出撤銷
type CustomClaims struct {
	UserID int    `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *CustomClaims) Identity() Identity {
	return Identity{UserID: c.UserID, Role: c.Role}
}

// AuthenticateUser 以 bcrypt 比對使用者密碼
func AuthenticateUser(ctx context.Context, user model.User, password string) error {
	if user.PasswordHash == "" {
		return errors.New("invalid password")
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return errors.New("invalid password")
	}
	return nil
}

// IssueAccessToken 依據使用者資訊與 TTL 產生 JWT
func IssueAccessToken(user model.User, ttl time.Duration) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET not set")
	}

	now := timeNow()
	claims := CustomClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        newTokenID(),
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAccessToken 驗證並解析 JWT 令牌
func VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// RevokeToken 將 token 的 jti 寫入黑名單直到原本的到期時間
func RevokeToken(ctx context.Context, c cache.Cache, claims *CustomClaims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(timeNow())
	if ttl <= 0 {
		return nil
	}
	if err := c.Set(ctx, revokedTokenPrefix+claims.ID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("RevokeToken: %w", err)
	}
	return nil
}

// IsTokenRevoked 查詢 jti 是否在黑名單中
func IsTokenRevoked(ctx context.Context, c cache.Cache, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := c.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("IsTokenRevoked: %w", err)
	}
	return n > 0, nil
}
