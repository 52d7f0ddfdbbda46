package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/zhouzirui/serenity/backend/internal/metrics"
)

const (
	pingInterval = 30 * time.Second
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
)

// Frame types sent to websocket clients.
const (
	FrameStart = "start"
	FrameDelta = "delta"
	FrameDone  = "done"
	FrameError = "error"
)

type outgoingFrame struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleWebSocket 处理WebSocket连接，每个入站帧是一次完整的对话请求
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log := h.logger.With().Str("conn_id", uuid.NewString()).Logger()
	log.Info().Msg("websocket connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadLimit(h.maxBodyBytes)
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go pingLoop(ctx, conn)

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("websocket read error")
			}
			log.Info().Msg("websocket closed")
			return
		}
		if kind != websocket.TextMessage {
			h.sendFrame(conn, log, outgoingFrame{Type: FrameError, Error: "text frames only"})
			continue
		}

		var payload chatRequest
		if err := json.Unmarshal(data, &payload); err != nil {
			h.sendFrame(conn, log, outgoingFrame{Type: FrameError, Error: "invalid request body"})
			continue
		}

		if !h.streamToSocket(ctx, conn, log, payload) {
			return
		}
		// 流式输出期间不读取，所以这里重新计时
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	}
}

// streamToSocket forwards one completion. It returns false once the socket is unusable.
func (h *Handler) streamToSocket(ctx context.Context, conn *websocket.Conn, log zerolog.Logger, payload chatRequest) bool {
	sr, err := h.gateway.Stream(ctx, payload.Messages)
	if err != nil {
		log.Error().Err(err).Msg("chat stream unavailable")
		return h.sendFrame(conn, log, outgoingFrame{Type: FrameError, Error: err.Error()})
	}
	defer sr.Close()

	if !h.sendFrame(conn, log, outgoingFrame{Type: FrameStart}) {
		return false
	}

	for {
		msg, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			return h.sendFrame(conn, log, outgoingFrame{Type: FrameDone})
		}
		if err != nil {
			metrics.StreamAborts.WithLabelValues("websocket").Inc()
			log.Error().Err(err).Msg("chat stream aborted")
			return h.sendFrame(conn, log, outgoingFrame{Type: FrameError, Error: err.Error()})
		}
		if msg == nil || msg.Content == "" {
			continue
		}
		if !h.sendFrame(conn, log, outgoingFrame{Type: FrameDelta, Content: msg.Content}) {
			return false
		}
		metrics.StreamedChunks.WithLabelValues("websocket").Inc()
	}
}

func (h *Handler) sendFrame(conn *websocket.Conn, log zerolog.Logger, frame outgoingFrame) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(frame); err != nil {
		log.Debug().Err(err).Str("type", frame.Type).Msg("websocket write failed")
		return false
	}
	return true
}

// pingLoop 定期发送ping消息
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
