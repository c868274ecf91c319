package logger

import (
	"time"

	"go.uber.org/zap"
)

// Timer measures an operation and logs its duration when stopped
type Timer struct {
	start time.Time
	log   *zap.Logger
	name  string
}

// NewTimer starts timing operation. A nil logger uses Log.
func NewTimer(log *zap.Logger, operation string) *Timer {
	if log == nil {
		log = Log
	}
	return &Timer{
		start: time.Now(),
		log:   log.With(zap.String("operation", operation)),
		name:  operation,
	}
}

// Stop logs the elapsed time at debug level
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)
	t.log.Debug("Operation timing", zap.Duration("duration", duration))
	return duration
}

// StopWithResult logs completion at info level, or the error at warn level
func (t *Timer) StopWithResult(err error) time.Duration {
	duration := time.Since(t.start)
	if err != nil {
		t.log.Warn(t.name+" failed", zap.Duration("duration", duration), zap.Bool("success", false), zap.Error(err))
		return duration
	}
	t.log.Info(t.name+" completed", zap.Duration("duration", duration), zap.Bool("success", true))
	return duration
}

// LogOperation runs fn under a Timer
func LogOperation(log *zap.Logger, operation string, fn func() error) error {
	timer := NewTimer(log, operation)
	err := fn()
	timer.StopWithResult(err)
	return err
}
