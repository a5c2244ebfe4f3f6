package connectors

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"iris_api/pkg/logx"
)

type Redis struct {
	Address            string
	Username           string
	Password           string
	DatabaseNumber     int
	PoolSize           int
	MinIdleConnections int
	MaxIdleConnections int
	PingTimeout        time.Duration

	once  sync.Once
	value *redis.Client
	err   error
}

func (r *Redis) Enabled() bool {
	return r.Address != ""
}

// Connect dials Redis on first use; the asynq producer and worker share the
// returned client.
func (r *Redis) Connect(ctx context.Context) (*redis.Client, error) {
	r.once.Do(func() {
		client := redis.NewClient(&redis.Options{
			//nolint:exhaustruct
			Network:      "tcp",
			Addr:         r.Address,
			Username:     r.Username,
			Password:     r.Password,
			DB:           r.DatabaseNumber,
			PoolSize:     r.PoolSize,
			MinIdleConns: r.MinIdleConnections,
			MaxIdleConns: r.MaxIdleConnections,
		})

		pingCtx, cancel := context.WithTimeout(ctx, cmp.Or(r.PingTimeout, defaultPingTimeout))
		defer cancel()

		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close() //nolint:errcheck

			r.err = fmt.Errorf("redis %s/%d: %w", r.Address, r.DatabaseNumber, err)

			return
		}

		r.value = client

		logger(ctx).Info("redis connected",
			slog.String("address", r.Address),
			slog.Int("database", r.DatabaseNumber),
		)
	})

	return r.value, r.err
}

func (r *Redis) Close(ctx context.Context) {
	if r.value == nil {
		return
	}

	if err := r.value.Close(); err != nil {
		logger(ctx).Error("redisClient.Close", logx.Error(err))
	}

	logger(ctx).Info("redis disconnected", slog.String("address", r.Address))
}
