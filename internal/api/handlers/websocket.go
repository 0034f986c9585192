package handlers

import (
	"log/slog"
	"net/http"

	"github.com/amine/notehub/internal/api/respond"
	"github.com/amine/notehub/internal/notify"
	"github.com/amine/notehub/internal/service"
	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub         *notify.Hub
	authService *service.AuthService
}

func NewWebSocketHandler(hub *notify.Hub, authService *service.AuthService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
	}
}

// Handle upgrades an authenticated connection that then receives the
// caller's reminder events as they fire.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respond.Error(w, r, http.StatusUnauthorized, "token required")
		return
	}

	userID, err := h.authService.ParseAccessToken(token)
	if err != nil {
		respond.Error(w, r, http.StatusUnauthorized, "invalid token")
		return
	}

	if _, err := h.authService.Validate(r.Context(), userID); err != nil {
		respond.Error(w, r, http.StatusUnauthorized, "invalid token")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	notify.NewClient(h.hub, conn, userID).Register()
}
