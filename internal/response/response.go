package response

import (
	"github.com/gin-gonic/gin"
)

// Error codes shared between the service and handler layers
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeStorage       = "STORAGE_ERROR"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// AppError is the error type carried from the service layer to handlers
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Code + ": " + e.Message + " (" + e.Details + ")"
	}
	return e.Code + ": " + e.Message
}

// NewAppError creates a new AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// ErrorBody is the inner error object of an error response
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON envelope for failed requests
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// SuccessResponse is the JSON envelope for successful requests
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// SendError writes an error envelope with the given HTTP status
func SendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
		},
	})
}

// SendSuccess writes a success envelope with the given HTTP status
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{Data: data})
}
