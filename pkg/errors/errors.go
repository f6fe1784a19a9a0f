// Package errors defines coded errors for the relay HTTP layer.
package errors

type ErrorCode string

const (
	CodeBadRequest          ErrorCode = "BAD_REQUEST"
	CodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	CodeTooManyRequests     ErrorCode = "TOO_MANY_REQUESTS"
	CodeInternalServerError ErrorCode = "INTERNAL_SERVER_ERROR"
)

// SDKError is an error with a stable machine-readable code.
type SDKError struct {
	Code    ErrorCode
	Message string
}

func (e *SDKError) Error() string {
	return e.Message
}

var (
	ErrBadRequest          = &SDKError{Code: CodeBadRequest, Message: "bad request"}
	ErrUnauthorized        = &SDKError{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrTooManyRequests     = &SDKError{Code: CodeTooManyRequests, Message: "too many requests"}
	ErrInternalServerError = &SDKError{Code: CodeInternalServerError, Message: "internal server error"}
)
