package postgres

import (
	"context"
	"fmt"
	"time"

	"lab-quality-monitor/internal/config"
	"lab-quality-monitor/internal/logger"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	maxOpenConnections = 25
	maxIdleConnections = 5
	connectMaxElapsed  = 2 * time.Minute
)

// DB is the storage handle shared by every repository. It is constructed
// once in main and passed down explicitly.
type DB struct {
	*gorm.DB
}

func NewDB(cfg *config.Config) (*DB, error) {
	dsn := cfg.Database.DSN()

	gormLogLevel := gormLogger.Info
	if cfg.Server.Environment == "production" {
		gormLogLevel = gormLogger.Warn
	}

	var db *gorm.DB
	connect := func() error {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:                 NewGormLogger(logger.Named("gorm")).LogMode(gormLogLevel),
			SkipDefaultTransaction: true,
			TranslateError:         true,
		})
		if err != nil {
			logger.Warn("Database not reachable yet, retrying", zap.Error(err))
		}
		return err
	}

	retry := backoff.NewExponentialBackOff()
	retry.MaxElapsedTime = connectMaxElapsed
	if err := backoff.Retry(connect, retry); err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConnections)
	sqlDB.SetMaxIdleConns(maxIdleConnections)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	logger.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
		zap.Int("max_open_connections", maxOpenConnections),
		zap.Int("max_idle_connections", maxIdleConnections),
	)

	return &DB{DB: db}, nil
}

func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *DB) Health(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
