// Package gormlogger routes gorm's logging through zerolog.
package gormlogger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	glogger "gorm.io/gorm/logger"
)

// defaultSlowThreshold marks queries logged at warn level.
const defaultSlowThreshold = 200 * time.Millisecond

// Logger implements gorm's logger.Interface on top of a zerolog logger.
type Logger struct {
	logger        *zerolog.Logger
	level         glogger.LogLevel
	SlowThreshold time.Duration
}

// New returns a gorm logger writing to the global zerolog logger.
// A nil zl uses log.Logger at call time.
func New(zl *zerolog.Logger) *Logger {
	return &Logger{
		logger:        zl,
		level:         glogger.Warn,
		SlowThreshold: defaultSlowThreshold,
	}
}

func (l *Logger) zl() *zerolog.Logger {
	if l.logger != nil {
		return l.logger
	}

	return &log.Logger
}

// LogMode returns a copy of the logger with the given level.
func (l *Logger) LogMode(level glogger.LogLevel) glogger.Interface {
	clone := *l
	clone.level = level

	return &clone
}

// Info logs at info level.
func (l *Logger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.level >= glogger.Info {
		l.zl().Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Warn logs at warn level.
func (l *Logger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.level >= glogger.Warn {
		l.zl().Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Error logs at error level.
func (l *Logger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.level >= glogger.Error {
		l.zl().Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace logs one executed statement. Record-not-found is not an error here,
// callers translate it into their own sentinel errors.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= glogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= glogger.Error && !errors.Is(err, glogger.ErrRecordNotFound):
		sql, rows := fc()
		l.zl().Error().Err(err).Str("component", "gorm").Dur("elapsed", elapsed).
			Str("sql", sql).Int64("rows", rows).Msg("query failed")
	case l.SlowThreshold != 0 && elapsed > l.SlowThreshold && l.level >= glogger.Warn:
		sql, rows := fc()
		l.zl().Warn().Str("component", "gorm").Dur("elapsed", elapsed).
			Str("sql", sql).Int64("rows", rows).Msg("slow query")
	case l.level >= glogger.Info:
		sql, rows := fc()
		l.zl().Debug().Str("component", "gorm").Dur("elapsed", elapsed).
			Str("sql", sql).Int64("rows", rows).Msg("query")
	}
}
