// Package monitoring holds the process-wide diagnostic logger used by the
// transform packages. Libraries log through Logf; commands decide where the
// output goes.
package monitoring

import (
	"fmt"
	"log"

	"go.uber.org/zap"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger or UseZap. Tests can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// UseZap routes Logf through logger at debug level, so diagnostics only
// appear when the command runs verbose. A nil logger mutes Logf.
func UseZap(logger *zap.Logger) {
	if logger == nil {
		SetLogger(nil)
		return
	}
	sugar := logger.WithOptions(zap.AddCallerSkip(1)).Sugar()
	SetLogger(func(format string, v ...interface{}) {
		sugar.Debug(fmt.Sprintf(format, v...))
	})
}
