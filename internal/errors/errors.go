package errors

import "fmt"

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code, message string, cause ...error) *AppError {
	var c error
	if len(cause) > 0 {
		c = cause[0]
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   c,
	}
}

var (
	ErrConfigNotFound = &AppError{Code: "CONFIG_001", Message: "configuration not found"}
	ErrConfigInvalid  = &AppError{Code: "CONFIG_002", Message: "invalid configuration"}

	ErrUnauthorized = &AppError{Code: "AUTH_001", Message: "unauthorized"}

	ErrInvalidField = &AppError{Code: "FLOW_001", Message: "invalid field value"}
	ErrNoSession    = &AppError{Code: "FLOW_002", Message: "no active session"}

	ErrExtractorUnavailable = &AppError{Code: "EXTRACT_001", Message: "receipt extractor unavailable"}
	ErrExtractionFailed     = &AppError{Code: "EXTRACT_002", Message: "receipt extraction failed"}

	ErrSinkUnavailable = &AppError{Code: "SINK_001", Message: "expense sink unavailable"}
	ErrSinkAppend      = &AppError{Code: "SINK_002", Message: "expense append failed"}
)

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}
