package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/luminform/atelier/internal/infrastructure/config"
	"github.com/luminform/atelier/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database wraps the shared *gorm.DB handle
type Database struct {
	DB *gorm.DB
}

// Options tune how the connection logs SQL
type Options struct {
	LogLevel      gormlogger.LogLevel
	SlowThreshold time.Duration
}

// NewDatabase connects to PostgreSQL using cfg, sizes the pool and verifies
// the connection with a ping.
func NewDatabase(cfg *config.DatabaseConfig, zapLogger *zap.Logger, opts Options) (*Database, error) {
	db, err := Open(postgres.Open(cfg.DSN()), zapLogger, opts)
	if err != nil {
		return nil, err
	}
	pool, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Open builds a Database over any GORM dialector with the repository
// conventions applied: UTC timestamps, translated constraint errors and the
// zap statement logger.
func Open(dialector gorm.Dialector, zapLogger *zap.Logger, opts Options) (*Database, error) {
	var logOpts []logger.GormLoggerOption
	if opts.SlowThreshold > 0 {
		logOpts = append(logOpts, logger.WithSlowThreshold(opts.SlowThreshold))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(zapLogger, opts.LogLevel, logOpts...),
		SkipDefaultTransaction: true,
		TranslateError:         true,
		PrepareStmt:            dialector.Name() == "postgres",
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Database{DB: db}, nil
}

// Close releases the connection pool
func (d *Database) Close() error {
	pool, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	return pool.Close()
}

// Ping reports whether the database answers; it doubles as the readiness check
func (d *Database) Ping(ctx context.Context) error {
	pool, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	return pool.PingContext(ctx)
}
