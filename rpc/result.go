package rpc

// Result is the outcome reported by the remote procedure: either a success
// value (possibly empty) or a failure message.
type Result struct {
	ok      bool
	value   any
	message string
}

// Success wraps the value returned by the remote procedure.
func Success(value any) Result {
	return Result{ok: true, value: value}
}

// Failure wraps the error message reported by the remote side.
func Failure(message string) Result {
	return Result{message: message}
}

func (r Result) OK() bool { return r.ok }

// Value is the success payload; nil for failures.
func (r Result) Value() any { return r.value }

// Message is the failure message; empty for successes.
func (r Result) Message() string { return r.message }

// MessageOr returns the success value, or fallback when the value is null,
// false, zero or the empty string. Empty arrays and objects are kept.
func (r Result) MessageOr(fallback any) any {
	if isEmpty(r.value) {
		return fallback
	}
	return r.value
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	}
	return false
}
