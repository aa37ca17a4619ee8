package response

import (
	"errors"
	"fmt"
)

// Error is a failure mapped onto exactly one taxonomy entry.
// Cause keeps the driver error for logging; it never reaches the caller.
type Error struct {
	Code  Code
	Cause error
}

// Fail creates an Error for code wrapping cause (which may be nil).
func Fail(code Code, cause error) *Error {
	return &Error{Code: code, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%d %s", e.Code, e.Code.Message())
	}
	return fmt.Sprintf("%d %s: %v", e.Code, e.Code.Message(), e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// CodeOf extracts the taxonomy code carried by err.
// Errors that were never classified map to Internal.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var re *Error
	if errors.As(err, &re) && re.Code.Known() {
		return re.Code
	}
	return Internal
}
