package mediator

import "fmt"

// Result is the uniform outcome of every dispatch: either success with an
// optional value, or failure with a reason. Exactly one of the two states
// holds; the unexported fields and the two constructors make a partially
// populated Result unrepresentable.
type Result struct {
	ok    bool
	value any
	err   string
}

// Ok returns a successful Result carrying value. A nil value is a valid
// success (a command with nothing to report).
func Ok(value any) Result {
	return Result{ok: true, value: value}
}

// Fail returns a failed Result carrying reason.
func Fail(reason string) Result {
	return Result{err: reason}
}

// Failf returns a failed Result with a formatted reason.
func Failf(format string, args ...any) Result {
	return Fail(fmt.Sprintf(format, args...))
}

// OK reports whether the Result is a success.
func (r Result) OK() bool { return r.ok }

// Value returns the carried value. It is always nil for a failed Result.
func (r Result) Value() any { return r.value }

// Err returns the failure reason, or the empty string for a success.
func (r Result) Err() string { return r.err }
