package handlers

import (
	"log"
	"net/http"

	"github.com/dom/nonprofit-site/internal/api/httpx"
	"github.com/dom/nonprofit-site/internal/service"
	"github.com/dom/nonprofit-site/internal/websocket"
	ws "github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub         *websocket.Hub
	authService *service.AuthService
	upgrader    ws.Upgrader
}

// NewWebSocketHandler accepts upgrades from the given origins; an empty list
// or "*" accepts any origin.
func NewWebSocketHandler(hub *websocket.Hub, authService *service.AuthService, allowedOrigins []string) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// Browsers cannot set headers on the upgrade request.
	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "Token required", httpx.CodeAuthentication)
		return
	}

	claims, err := h.authService.ValidateToken(token)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid token", httpx.CodeAuthentication)
		return
	}
	if !claims.Admin {
		httpx.WriteError(w, http.StatusForbidden, "Admin access required", httpx.CodeForbidden)
		return
	}

	userID, err := claims.UserID()
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid user ID", httpx.CodeAuthentication)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ERROR [websocket.Handle] upgrade failed: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, userID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
