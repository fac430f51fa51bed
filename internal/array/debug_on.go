//go:build matarraydebug

package array

// debugChecks enables index precondition checks.
const debugChecks = true
