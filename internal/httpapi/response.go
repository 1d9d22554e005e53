package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Stable machine-readable error codes. Clients get exactly one of these
// plus a human-readable message, never internal error detail.
const (
	CodeUnauthorized       = "unauthorized"
	CodeServiceUnavailable = "service_unavailable"
	CodeValidationError    = "validation_error"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeStorageError       = "storage_error"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Error writes a failure envelope with the given status and code.
func Error(c *gin.Context, status int, code string, message string) {
	c.JSON(status, envelope{
		Success: false,
		Error:   &errorBody{Code: code, Message: message},
	})
}

// WriteError is the net/http flavor of Error, for middleware that runs
// below the gin layer.
func WriteError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success: false,
		Error:   &errorBody{Code: code, Message: message},
	})
}
