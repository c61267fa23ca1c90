package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/aide-studio/engine/internal/events"
	"github.com/aide-studio/engine/pkg/logger"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = (pongWait * 9) / 10
)

// Subscriber is the read side of the event bus.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan events.Event, error)
}

// EventsHandler streams entity change events over a websocket. An optional
// ?projectId= query narrows the stream to one project plus the connector.
type EventsHandler struct {
	bus      Subscriber
	upgrader websocket.Upgrader
}

func NewEventsHandler(bus Subscriber) *EventsHandler {
	return &EventsHandler{
		bus: bus,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed, err := h.bus.Subscribe(ctx)
	if err != nil {
		logger.L().Error("event subscribe failed", zap.Error(err))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscribe failed"),
			time.Now().Add(writeWait))
		return
	}

	projectID := r.URL.Query().Get("projectId")
	logger.L().Info("event stream opened", zap.String("remote", r.RemoteAddr), zap.String("project_id", projectID))

	// The read loop only watches for the peer going away.
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.L().Warn("event stream read error", zap.Error(err))
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.L().Info("event stream closed", zap.String("remote", r.RemoteAddr))
			return
		case e, ok := <-feed:
			if !ok {
				return
			}
			if !matchesProject(e, projectID) {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e); err != nil {
				logger.L().Warn("event stream write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func matchesProject(e events.Event, projectID string) bool {
	if projectID == "" || e.Kind == events.KindConnector {
		return true
	}
	if e.Kind == events.KindProject {
		return e.ID == projectID
	}
	return e.ProjectID == projectID
}
