// pkg/result/result.go
package result

// Result holds either a value or the error that prevented producing it.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful value
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail wraps an error. A nil error is still treated as a failure so callers never
// mistake an empty Result for success.
func Fail[T any](err error) Result[T] {
	if err == nil {
		err = errNilFailure
	}
	return Result[T]{err: err}
}

// Of converts a conventional (value, error) pair.
func Of[T any](value T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(value)
}

func (r Result[T]) IsOk() bool  { return r.err == nil }
func (r Result[T]) IsErr() bool { return r.err != nil }

// Value returns the wrapped value, the zero value on failure.
func (r Result[T]) Value() T {
	return r.value
}

func (r Result[T]) Err() error {
	return r.err
}

// Unwrap returns the pair in the usual Go form.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

type nilFailure struct{}

func (nilFailure) Error() string { return "result: failure without error" }

var errNilFailure error = nilFailure{}
