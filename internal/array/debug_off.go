//go:build !matarraydebug

package array

// debugChecks is off by default: index preconditions are the caller's
// responsibility. Build with -tags matarraydebug to check them.
const debugChecks = false
