package errors

import "errors"

// errWithCause pairs a classification error with the error that triggered it.
// errors.Is matches either side, errors.As/Unwrap reach the cause.
type errWithCause struct {
	error
	cause error
}

func (e errWithCause) Error() string {
	if e.cause == nil {
		return e.error.Error()
	}
	return e.error.Error() + ": " + e.cause.Error()
}

// Cause To support errors.Cause().
func (e errWithCause) Cause() error {
	return e.cause
}

// Is To support errors.Is().
func (e errWithCause) Is(err error) bool {
	return errors.Is(e.error, err) || (e.cause != nil && errors.Is(e.cause, err))
}

// Unwrap To support errors.Unwrap().
func (e errWithCause) Unwrap() error {
	return e.cause
}

// Err return the original error
func (e errWithCause) Err() error {
	return e.error
}

// WithCause wrappers err with a error cause. A nil err returns cause unchanged.
func WithCause(err, cause error) error {
	if err == nil {
		return cause
	}
	return errWithCause{
		error: err,
		cause: cause,
	}
}

// ErrorIs is similar to `errors.Is` but receives a function to compare
func ErrorIs(err error, f func(err error) bool) bool {
	for err != nil {
		if f(err) {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
