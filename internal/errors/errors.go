package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of an
// AppError found anywhere in the chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode wraps err under the given code
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:  code,
		Cause: err,
	}
}

// GetCode returns the code of the first AppError in the chain, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid        = "CONFIG_INVALID"
	CodeNotFound             = "NOT_FOUND"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeEmptySheet           = "EMPTY_SHEET"
	CodeUnrecognizedFileType = "UNRECOGNIZED_FILE_TYPE"
	CodeDecodeFailed         = "DECODE_FAILED"
	CodeUploadTooLarge       = "UPLOAD_TOO_LARGE"
)

// HTTPStatus maps an error code to the response status used by the API
func HTTPStatus(code string) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnrecognizedFileType:
		return http.StatusUnsupportedMediaType
	case CodeDecodeFailed, CodeEmptySheet:
		return http.StatusUnprocessableEntity
	case CodeUploadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func UnrecognizedFileType(filename string) *AppError {
	return New(CodeUnrecognizedFileType, fmt.Sprintf("unsupported file type: %s", filename))
}

func DecodeFailed(filename string, cause error) *AppError {
	return &AppError{
		Code:    CodeDecodeFailed,
		Message: fmt.Sprintf("failed to decode %s", filename),
		Cause:   cause,
	}
}

func UploadTooLarge(limitBytes int64) *AppError {
	return New(CodeUploadTooLarge, fmt.Sprintf("file exceeds the %.0f MB limit", float64(limitBytes)/(1024*1024)))
}
