package gormlogger_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	glogger "gorm.io/gorm/logger"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/logger/adapter/gormlogger"
)

func newBufferLogger(level glogger.LogLevel) (*bytes.Buffer, glogger.Interface) {
	var buf bytes.Buffer

	zl := zerolog.New(&buf).Level(zerolog.TraceLevel)

	return &buf, gormlogger.New(&zl).LogMode(level)
}

func TestTrace(t *testing.T) {
	statement := func() (string, int64) { return "SELECT 1", 1 }

	testCases := []struct {
		name     string
		level    glogger.LogLevel
		err      error
		begin    time.Time
		contains string
	}{
		{
			name:     "error is logged",
			level:    glogger.Error,
			err:      errors.New("boom"),
			begin:    time.Now(),
			contains: "query failed",
		},
		{
			name:  "record not found is ignored",
			level: glogger.Error,
			err:   glogger.ErrRecordNotFound,
			begin: time.Now(),
		},
		{
			name:     "slow query is a warning",
			level:    glogger.Warn,
			begin:    time.Now().Add(-time.Second),
			contains: "slow query",
		},
		{
			name:     "info level logs every statement",
			level:    glogger.Info,
			begin:    time.Now(),
			contains: "SELECT 1",
		},
		{
			name:  "silent logs nothing",
			level: glogger.Silent,
			err:   errors.New("boom"),
			begin: time.Now(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf, l := newBufferLogger(tc.level)

			l.Trace(context.Background(), tc.begin, statement, tc.err)

			if tc.contains == "" {
				assert.Empty(t, buf.String())
				return
			}

			assert.Contains(t, buf.String(), tc.contains)
		})
	}
}

func TestLevels(t *testing.T) {
	buf, l := newBufferLogger(glogger.Warn)

	l.Info(context.Background(), "hidden %d", 1)
	assert.Empty(t, buf.String())

	l.Warn(context.Background(), "shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")

	l.Error(context.Background(), "failed %s", "migration")
	assert.Contains(t, buf.String(), "failed migration")
}
