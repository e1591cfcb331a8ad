package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"camrelay/internal/config"
	"camrelay/internal/dto"
	"camrelay/internal/logger"
	"camrelay/internal/service"
	hub "camrelay/internal/service/websocket"

	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// NewUpgrader builds the WebSocket upgrader applying the configured origin policy.
func NewUpgrader(cfg *config.Config) *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return cfg.OriginAllowed(r.Header.Get("Origin")) },
	}
}

// WebsocketHandler upgrades a client connection, registers it in the hub
// and dispatches its inbound events until it disconnects.
func WebsocketHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	upgrader := NewUpgrader(cfg)

	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}
		defer connection.Close()

		if cfg.MaxPayloadBytes > 0 {
			connection.SetReadLimit(cfg.MaxPayloadBytes)
		}
		connection.SetReadDeadline(time.Now().Add(pongWait))
		connection.SetPongHandler(func(string) error {
			return connection.SetReadDeadline(time.Now().Add(pongWait))
		})

		hubService := manager.GetWebsocketService()
		client := hubService.Register(connection)
		defer hubService.Unregister(client)

		stopPing := make(chan struct{})
		defer close(stopPing)
		go keepAlive(connection, stopPing)

		for {
			_, msg, err := connection.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Info("Client %s disconnected normally", client.ID)
				} else {
					logger.Warning("Client %s disconnected: %v", client.ID, err)
				}
				return
			}

			handleEvent(manager, logger, client, msg)
		}
	}
}

// keepAlive pings the peer until stop is closed. WriteControl may run
// concurrently with the hub's data writes.
func keepAlive(connection *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := connection.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}
}

func handleEvent(manager *service.Manager, logger *logger.Logger, client *hub.Client, msg []byte) {
	var ev dto.Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		logger.Warning("Ignoring undecodable frame from %s: %v", client.ID, err)
		return
	}

	switch ev.Event {
	case dto.EventTriggerCapture:
		logger.Info("Received '%s' from %s", ev.Event, client.ID)
		manager.TriggerCapture()

	case dto.EventSendImage:
		logger.Info("Received image from %s via WebSocket", client.ID)
		var payload dto.ImagePayload
		if len(ev.Data) > 0 {
			if err := json.Unmarshal(ev.Data, &payload); err != nil {
				logger.Error("Failed to save device image from %s: %v", client.ID, err)
				return
			}
		}
		manager.HandleDeviceImage(payload.Image)

	default:
		logger.Warning("Ignoring unknown event %q from %s", ev.Event, client.ID)
	}
}
