package session

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/docshell/internal/events"
	"github.com/ziadkadry99/docshell/internal/experiments"
	"github.com/ziadkadry99/docshell/internal/theme"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler accepts client sessions over websocket.
type Handler struct {
	store       *events.Store
	experiments []experiments.Experiment
	resolver    theme.Resolver
	logger      *slog.Logger
}

// NewHandler creates a Handler. store may be nil, in which case sessions
// run without analytics.
func NewHandler(store *events.Store, exps []experiments.Experiment, resolver theme.Resolver, logger *slog.Logger) *Handler {
	if resolver == nil {
		resolver = theme.CookieResolver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, experiments: exps, resolver: resolver, logger: logger}
}

// RegisterRoutes mounts the session endpoint on r.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/ws/session", h.ServeWS)
}

// ServeWS upgrades the request and serves one session until the client
// disconnects.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	// The cookie seen by the upgrade is the one the page was rendered with.
	sess := New(h.store, h.experiments, h.resolver.Resolve(r), h.logger)
	h.logger.Debug("session opened", "session", sess.ID())

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read", "session", sess.ID(), "error", err)
			}
			return
		}

		var msg Message
		var reply Reply
		if err := json.Unmarshal(data, &msg); err != nil {
			reply = sess.errorf("invalid message format")
		} else {
			reply = sess.Handle(msg)
		}

		if err := conn.WriteJSON(reply); err != nil {
			h.logger.Warn("websocket write", "session", sess.ID(), "error", err)
			return
		}
	}
}
