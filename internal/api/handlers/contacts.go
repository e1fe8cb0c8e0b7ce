package handlers

import (
	"net/http"

	"github.com/dom/nonprofit-site/internal/api/httpx"
	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/dom/nonprofit-site/internal/service"
)

type ContactHandler struct {
	contactService *service.ContactService
}

func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !decode(w, r, &req) {
		return
	}

	contact, err := h.contactService.Submit(r.Context(), &domain.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		writeServiceError(w, "contact.Submit", "Contact", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, contact)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contactService.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, "contact.List", "Contact", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, contacts)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Contact")
	if !ok {
		return
	}

	contact, err := h.contactService.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, "contact.Get", "Contact", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Contact")
	if !ok {
		return
	}

	if err := h.contactService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "contact.Delete", "Contact", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.MessageResponse{Message: "Contact deleted successfully"})
}
