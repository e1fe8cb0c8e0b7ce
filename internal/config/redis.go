package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns nil when rate limiting is disabled, REDIS_ADDR is
// unset, or the server does not answer a ping. Callers treat nil as "no
// rate limiting".
func (c *Config) NewRedisClient() *redis.Client {
	if !c.RateLimitEnabled || c.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("WARN [config.NewRedisClient] redis at %s unreachable, rate limiting disabled: %v", c.RedisAddr, err)
		_ = client.Close()
		return nil
	}
	return client
}
