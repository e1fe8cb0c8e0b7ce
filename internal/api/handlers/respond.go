package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/dom/nonprofit-site/internal/api/httpx"
	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/dom/nonprofit-site/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// decode reports whether the body was decoded, writing a 413 when it ran
// past the router's size limit and a 400 otherwise.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.WriteError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit), httpx.CodeTooLarge)
			return false
		}
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body", httpx.CodeBadRequest)
		return false
	}
	return true
}

// pathID parses the {id} URL param. A malformed id cannot name a stored
// resource, so it is reported as not found.
func pathID(w http.ResponseWriter, r *http.Request, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, resource+" not found", httpx.CodeNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError maps service and domain errors onto the JSON error contract.
func writeServiceError(w http.ResponseWriter, op string, resource string, err error) {
	var verr *domain.ValidationError
	var serr *domain.StorageError

	switch {
	case errors.As(err, &verr):
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Message: verr.Error(),
			Error:   httpx.CodeValidation,
			Fields:  verr.Fields,
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid credentials", httpx.CodeAuthentication)
	case errors.Is(err, service.ErrEmailExists):
		httpx.WriteError(w, http.StatusConflict, "Email already registered", httpx.CodeConflict)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, service.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, resource+" not found", httpx.CodeNotFound)
	case errors.As(err, &serr):
		log.Printf("ERROR [%s] storage failure: %v", op, err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error", httpx.CodeStorage)
	default:
		log.Printf("ERROR [%s] %v", op, err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error", httpx.CodeStorage)
	}
}
