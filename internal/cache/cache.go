package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache 是服務用到的 Redis 指令子集，*redis.Client 直接滿足此介面。
// 目前用於登出後的 token 黑名單與健康檢查。
// ttl <= 0 表示不設過期
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// FakeCache 供測試注入行為，未設定的方法會 panic
type FakeCache struct {
	GetFn    func(ctx context.Context, key string) *redis.StringCmd
	SetFn    func(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	ExistsFn func(ctx context.Context, keys ...string) *redis.IntCmd
	CloseFn  func() error
}

func (f *FakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.GetFn != nil {
		return f.GetFn(ctx, key)
	}
	panic("unexpected Get")
}

func (f *FakeCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.SetFn != nil {
		return f.SetFn(ctx, key, value, expiration)
	}
	panic("unexpected Set")
}

func (f *FakeCache) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.ExistsFn != nil {
		return f.ExistsFn(ctx, keys...)
	}
	panic("unexpected Exists")
}

// Close 執行 Fake 設定或 no-op
func (f *FakeCache) Close() error {
	if f.CloseFn != nil {
		return f.CloseFn()
	}
	return nil
}
