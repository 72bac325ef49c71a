package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/terra-clan/career-engine/internal/events"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamMessage is one frame on the progress stream
type StreamMessage struct {
	Type string `json:"type"`
	events.Update
}

func (s *Server) handleProgressStream(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	// Subscribe before the snapshot is read so no update falls between them
	updates, unsubscribe := s.hub.Subscribe(id)
	defer unsubscribe()

	profile, err := s.service.Profile(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "open progress stream", err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	s.metrics.ActiveStreams.Inc()
	defer s.metrics.ActiveStreams.Dec()

	slog.Info("progress stream connected", "user_id", id)

	if err := s.sendStreamMessage(conn, StreamMessage{
		Type: "snapshot",
		Update: events.Update{
			GameProgress:         profile.User.GameProgress,
			CareerRecommendation: profile.User.CareerRecommendation,
		},
	}); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Clients only send control frames; the read loop detects disconnects
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Debug("websocket read error", "error", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("progress stream disconnected", "user_id", id)
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := s.sendStreamMessage(conn, StreamMessage{Type: "progress", Update: update}); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Debug("failed to ping progress stream", "error", err)
				return
			}
		}
	}
}

func (s *Server) sendStreamMessage(conn *websocket.Conn, msg StreamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	if err := conn.WriteJSON(msg); err != nil {
		slog.Debug("failed to send progress message", "error", err)
		return err
	}
	return nil
}
