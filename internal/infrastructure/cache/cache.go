// Package cache 封装基于 Redis 的 JSON 缓存，未配置 Redis 时所有操作退化为未命中。
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Cache 以 JSON 形式存取值。
type Cache struct {
	client *redis.Client
	prefix string
	log    *log.Helper
}

// New 使用已有 redis.Client 构造 Cache。
func New(client *redis.Client, prefix string, logger log.Logger) *Cache {
	return &Cache{client: client, prefix: prefix, log: log.NewHelper(logger)}
}

// ProvideCache 供 Wire 注入使用。Addr 为空时返回 nil，调用方直接访问数据库。
func ProvideCache(ctx context.Context, cfg configloader.RedisConfig, logger log.Logger) (*Cache, func(), error) {
	helper := log.NewHelper(logger)
	if cfg.Addr == "" {
		helper.Info("redis cache disabled: data.redis.addr not configured")
		return nil, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			helper.Warnf("close redis client: %v", err)
		}
	}
	return New(client, cfg.KeyPrefix, logger), cleanup, nil
}

// Enabled 判断缓存是否可用。
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// GetJSON 读取并解码，未命中返回 false。
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.WithContext(ctx).Warnf("drop undecodable cache entry: key=%s err=%v", key, err)
		_ = c.client.Del(ctx, c.key(key)).Err()
		return false, nil
	}
	return true, nil
}

// SetJSON 编码并写入，ttl<=0 表示不过期。
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value %s: %w", key, err)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, c.key(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete 删除键。
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, c.key(k))
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping 检查 Redis 连通性，未启用时视为可用。
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
