package plindex

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// log is the package-wide structured logger. It defaults to a no-op so
// that importing this package costs nothing by default; callers that
// want the parse/index trace install one with SetLogger.
var log atomic.Pointer[zap.SugaredLogger]

func init() {
	log.Store(zap.NewNop().Sugar())
}

// SetLogger installs the structured logger used for debug/trace-level
// progress reporting during packing-list parsing and index construction.
// Passing nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		log.Store(zap.NewNop().Sugar())
		return
	}
	log.Store(l.Sugar())
}

func logger() *zap.SugaredLogger {
	return log.Load()
}
