package models

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

// slowQuery is the duration after which a query is logged as a warning.
const slowQuery = 200 * time.Millisecond

// gormLogger writes the log output of gorm to zerolog. Queries are logged
// at debug level, slow queries as warnings and failed queries as errors.
type gormLogger struct {
	log           zerolog.Logger
	slowThreshold time.Duration
}

func newGormLogger(l zerolog.Logger) *gormLogger {
	return &gormLogger{
		log:           l.With().Str("component", "gorm").Logger(),
		slowThreshold: slowQuery,
	}
}

// LogMode returns a logger that only logs messages of the gorm level and above.
func (l *gormLogger) LogMode(level gorm_logger.LogLevel) gorm_logger.Interface {
	c := *l

	switch level {
	case gorm_logger.Silent:
		c.log = c.log.Level(zerolog.Disabled)
	case gorm_logger.Error:
		c.log = c.log.Level(zerolog.ErrorLevel)
	case gorm_logger.Warn:
		c.log = c.log.Level(zerolog.WarnLevel)
	}

	return &c
}

func (l *gormLogger) Info(_ context.Context, s string, args ...interface{}) {
	l.log.Info().Msgf(s, args...)
}

func (l *gormLogger) Warn(_ context.Context, s string, args ...interface{}) {
	l.log.Warn().Msgf(s, args...)
}

func (l *gormLogger) Error(_ context.Context, s string, args ...interface{}) {
	l.log.Error().Msgf(s, args...)
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)

	var event *zerolog.Event
	switch {
	case err != nil && !expectedError(err):
		event = l.log.Error().Err(err)
	case elapsed > l.slowThreshold:
		event = l.log.Warn().Dur("threshold", l.slowThreshold)
	default:
		event = l.log.Debug()
	}

	if !event.Enabled() {
		return
	}

	sql, rows := fc()
	event.Str("sql", sql).Int64("rows", rows).Dur("duration", elapsed).Msg("query")
}

// expectedError reports whether the error is one that callers handle, such as
// a missing record or a conflicting insert.
func expectedError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, ErrResourceNotFound) ||
		errors.Is(err, ErrConflict)
}
