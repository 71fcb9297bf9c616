//go:build !debug

package pool

// debugLog compiles to nothing without -tags debug.
func debugLog(string, ...interface{}) {}
