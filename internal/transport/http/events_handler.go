package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"salesreg/internal/infrastructure"
	ws "salesreg/internal/websocket"
)

// EventsHandler upgrades GET /api/v1/events to a websocket that streams
// run:started, run:completed and run:failed events
type EventsHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *ws.Hub, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the stream is read-only and carries no credentials
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("handler", "events")),
	}
}

// ServeHTTP handles GET /api/v1/events
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered with an HTTP error
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	traceID := infrastructure.GetTraceID(r.Context())
	ws.NewClient(h.hub, ws.WrapConn(conn), traceID, h.logger).Serve()
}
