package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OpenRedis connects to url and waits until the server answers PING.
// The client backs preferences, rate limiting and event fan-out.
func OpenRedis(ctx context.Context, url string, opts ConnectOptions, log *zap.Logger) (*redis.Client, error) {
	ro, err := redisOptions(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(ro)
	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err := waitReady(ctx, "redis", opts, ping, log); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Info("redis ready", zap.String("addr", ro.Addr), zap.Int("db", ro.DB))
	return client, nil
}

func redisOptions(url string) (*redis.Options, error) {
	ro, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if ro.DialTimeout == 0 {
		ro.DialTimeout = 5 * time.Second
	}
	if ro.ClientName == "" {
		ro.ClientName = applicationName
	}
	return ro, nil
}
