package handlers

import (
	"net/http"

	"github.com/dom/nonprofit-site/internal/api/httpx"
	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/dom/nonprofit-site/internal/service"
)

type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, "event.List", "Event", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Event")
	if !ok {
		return
	}

	event, err := h.eventService.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, "event.Get", "Event", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.Event
	if !decode(w, r, &req) {
		return
	}

	event, err := h.eventService.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, "event.Create", "Event", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Event")
	if !ok {
		return
	}

	var req domain.Event
	if !decode(w, r, &req) {
		return
	}

	event, err := h.eventService.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, "event.Update", "Event", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Event")
	if !ok {
		return
	}

	if err := h.eventService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "event.Delete", "Event", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.MessageResponse{Message: "Event deleted successfully"})
}
