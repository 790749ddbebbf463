package bvh

import "github.com/cockroachdb/errors"

// assertf panics with a diagnosable assertion-failure error when cond
// is false. Every precondition the reference engine checks with a
// bare B2Assert(cond) call is a candidate: misuse here is a
// programming error, not a recoverable condition, so it is fatal
// rather than returned as an error value (see SPEC_FULL.md §7).
func assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(errors.AssertionFailedf(format, args...))
	}
}
