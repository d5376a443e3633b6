package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

type zapGormLogger struct {
	logger                    *zap.Logger
	SlowThreshold             time.Duration
	LogLevel                  gormLogger.LogLevel
	IgnoreRecordNotFoundError bool
}

// NewGormLogger routes gorm's SQL logging through zap.
func NewGormLogger(logger *zap.Logger) gormLogger.Interface {
	return &zapGormLogger{
		logger:                    logger,
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLogger.Warn,
		IgnoreRecordNotFoundError: true,
	}
}

func (z *zapGormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	return &zapGormLogger{
		logger:                    z.logger,
		SlowThreshold:             z.SlowThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: z.IgnoreRecordNotFoundError,
	}
}

func (z *zapGormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if z.LogLevel >= gormLogger.Info {
		z.logger.Sugar().Infof(msg, args...)
	}
}

func (z *zapGormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if z.LogLevel >= gormLogger.Warn {
		z.logger.Sugar().Warnf(msg, args...)
	}
}

func (z *zapGormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if z.LogLevel >= gormLogger.Error {
		z.logger.Sugar().Errorf(msg, args...)
	}
}

func (z *zapGormLogger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if z.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && z.LogLevel >= gormLogger.Error && (!errors.Is(err, gorm.ErrRecordNotFound) || !z.IgnoreRecordNotFoundError):
		sql, rows := fc()
		// Conflicts are an expected branch of the pipeline, keep them out of error logs.
		level := z.logger.Warn
		if IsDuplicateError(err) {
			level = z.logger.Debug
		}
		level(sql,
			zap.String("line_number", utils.FileWithLineNum()),
			zap.Error(err),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
		)
	case elapsed > z.SlowThreshold && z.SlowThreshold != 0 && z.LogLevel >= gormLogger.Warn:
		sql, rows := fc()
		z.logger.Warn(sql,
			zap.String("line_number", utils.FileWithLineNum()),
			zap.String("slow", fmt.Sprintf("SLOW SQL >= %v", z.SlowThreshold)),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
		)
	case z.LogLevel == gormLogger.Info:
		sql, rows := fc()
		z.logger.Debug(sql,
			zap.String("line_number", utils.FileWithLineNum()),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
		)
	}
}
