package common

import (
	"fmt"
	"sync/atomic"

	"github.com/lni/dragonboat/v4/logger"
)

var (
	assertLog    = logger.GetLogger(LoggerAssert)
	debugAsserts atomic.Bool
)

// AssertionError is the panic value of a failed assertion in debug mode
type AssertionError struct {
	Msg string
}

func (e *AssertionError) Error() string {
	return "assertion failed: " + e.Msg
}

// SetDebugAssertions enables or disables panicking on failed assertions.
// Returns the previous setting.
func SetDebugAssertions(enabled bool) bool {
	return debugAsserts.Swap(enabled)
}

// DebugAssertions reports whether failed assertions panic
func DebugAssertions() bool {
	return debugAsserts.Load()
}

// Assertf checks a precondition and returns cond.
// A failed check is logged; with debug assertions enabled it also panics.
// Callers must still handle the false case, it is the release build behavior.
//
// Thread-safety: This function is thread-safe and can be called concurrently.
func Assertf(cond bool, format string, args ...interface{}) bool {
	if cond {
		return true
	}
	msg := fmt.Sprintf(format, args...)
	assertLog.Warningf("assertion failed: %s", msg)
	if debugAsserts.Load() {
		panic(&AssertionError{Msg: msg})
	}
	return false
}
