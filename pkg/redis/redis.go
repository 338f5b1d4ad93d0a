package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"manage-rtc/backend/config"
)

// Client Redis 客户端封装
// 用于 Token 黑名单与跨实例的调度器互斥锁
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── Token 黑名单 ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Token 已过期，无需加入黑名单
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 速率限制 ──

// CheckRateLimit 固定窗口计数：窗口内第一次请求时设置过期时间。
// 返回 false 表示窗口内请求数已达上限。
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// ── 调度器互斥锁 ──

const schedulerLockKey = "scheduler:resignation:lock"

// AcquireSchedulerLock 多实例部署时抢占每日扫描的执行权。
// 返回 true 表示当前实例持有锁；锁在 ttl 后自动释放。
func (c *Client) AcquireSchedulerLock(ctx context.Context, instanceID string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, schedulerLockKey, instanceID, ttl).Result()
}

// ReleaseSchedulerLock 释放扫描锁，仅持有者可释放
func (c *Client) ReleaseSchedulerLock(ctx context.Context, instanceID string) error {
	// 先比对持有者再删除，避免释放他人的锁
	val, err := c.rdb.Get(ctx, schedulerLockKey).Result()
	if err == goredis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if val != instanceID {
		return nil
	}
	return c.rdb.Del(ctx, schedulerLockKey).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
