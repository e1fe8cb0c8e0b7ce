// Package httpx holds the JSON response contract shared by handlers,
// middleware and the API client.
package httpx

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/dom/nonprofit-site/internal/domain"
)

const ContentTypeJSON = "application/json"

// Error categories carried in ErrorResponse.Error.
const (
	CodeBadRequest     = "BadRequest"
	CodeValidation     = "ValidationError"
	CodeAuthentication = "AuthenticationError"
	CodeForbidden      = "ForbiddenError"
	CodeNotFound       = "NotFoundError"
	CodeConflict       = "ConflictError"
	CodeTooLarge       = "PayloadTooLargeError"
	CodeRateLimited    = "RateLimitError"
	CodeStorage        = "StorageError"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// MessageResponse confirms an operation that has no resource to return.
type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR [httpx.WriteJSON] encode failed: %v", err)
	}
}

func WriteError(w http.ResponseWriter, status int, message, code string) {
	WriteJSON(w, status, ErrorResponse{Message: message, Error: code})
}
