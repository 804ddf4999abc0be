package guest

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the guest package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// SetLogger configures the guest package's logger. It is safe to call while
// other goroutines log; nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
