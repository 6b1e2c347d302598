package errs

import "fmt"

// AppError is a typed application error carrying a classification code.
// Validation failures deep in the transform pipeline return one of these
// instead of exiting; only cmd decides process exit behavior.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes per failure class.
const (
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeDataIntegrity = "DATA_INTEGRITY"
	CodeInternalError = "INTERNAL_ERROR"
)

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an error with additional context, preserving an existing code.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{Code: appErr.Code, Message: message, Cause: appErr}
	}
	return &AppError{Code: CodeInternalError, Message: message, Cause: err}
}

// Wrapf wraps an error with formatted additional context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if err is an AppError, otherwise "UNKNOWN".
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// ConfigInvalid reports a ruleset/configuration mismatch (unqualified header
// column, missing worksheet key). Always fatal to the whole run.
func ConfigInvalid(format string, args ...interface{}) *AppError {
	return New(CodeConfigInvalid, fmt.Sprintf(format, args...))
}

// DataIntegrity reports a data problem that must not be silently absorbed
// (unexpected enumerated value with blanks disallowed, missing subject at
// emission time). Always fatal to the whole run.
func DataIntegrity(format string, args ...interface{}) *AppError {
	return New(CodeDataIntegrity, fmt.Sprintf(format, args...))
}
