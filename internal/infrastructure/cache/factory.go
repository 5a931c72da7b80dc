package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/luminform/atelier/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory connects to Redis once and hands out stores built on it, falling
// back to in-memory stores when Redis is disabled or unreachable
type Factory struct {
	cfg                   config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	client                *redis.Client
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis is tolerated.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory connects to Redis when cfg.Host is set
func NewFactory(ctx context.Context, cfg config.RedisConfig, opts ...FactoryOption) (*Factory, error) {
	f := &Factory{
		cfg:                   cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}

	if cfg.Host == "" {
		f.logger.Info("Redis disabled, using in-memory cache and token blacklist")
		return f, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
			"Revoked sessions and cached dashboards are not shared between instances.",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return f, nil
	}

	f.logger.Info("Connected to Redis", zap.String("addr", cfg.Addr()))
	f.client = client
	return f, nil
}

// Client returns the Redis client, or nil when running on in-memory stores
func (f *Factory) Client() *redis.Client {
	return f.client
}

// Store returns a Store for keys under prefix
func (f *Factory) Store(prefix string) Store {
	if f.client == nil {
		return NewMemoryStore()
	}
	return NewRedisStore(f.client, prefix)
}

// Ping checks Redis health; it always succeeds on in-memory stores
func (f *Factory) Ping(ctx context.Context) error {
	if f.client == nil {
		return nil
	}
	return f.client.Ping(ctx).Err()
}

// Close releases the Redis connection pool
func (f *Factory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}
