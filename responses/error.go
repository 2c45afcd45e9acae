package responses

import "fmt"

// Error codes
const (
	ErrorCodeUnknownRoute = 1
	ErrorCodeBadJSON      = 2
	ErrorCodeAPI          = 3
	ErrorCodeBadHeader    = 4
)

// Error describes an error for humans and machines
type Error struct {
	Status  int    `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	return fmt.Sprintf("status:%d, code:%d, message:%q", e.Status, e.Code, e.Message)
}

// NewError - a brand new error
func NewError(code int, message string) *Error {
	return &Error{
		Status:  500,
		Code:    code,
		Message: message,
	}
}

// NewErrorf - a brand new error using fmt.Sprintf
func NewErrorf(code int, message string, args ...interface{}) *Error {
	return NewError(code, fmt.Sprintf(message, args...))
}
