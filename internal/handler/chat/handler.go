package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/zhouzirui/serenity/backend/internal/metrics"
	"github.com/zhouzirui/serenity/backend/internal/model/chat"
	"github.com/zhouzirui/serenity/backend/pkg/utils"
)

// Streamer opens a completion stream for a conversation.
type Streamer interface {
	Stream(ctx context.Context, conversation []chat.Message) (*schema.StreamReader[*schema.Message], error)
}

// Handler 聊天服务的HTTP处理器
type Handler struct {
	gateway      Streamer
	maxBodyBytes int64
	logger       zerolog.Logger
	upgrader     websocket.Upgrader
}

// New 创建聊天处理器
func New(gateway Streamer, maxBodyBytes int64, logger zerolog.Logger) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &Handler{
		gateway:      gateway,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/ws", h.handleWebSocket)
}

type chatRequest struct {
	Messages []chat.Message `json:"messages"`
}

// handleChat 以纯文本分块的方式转发模型输出
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Warn().Err(err).Msg("chat request decode failed")
		utils.RespondError(w, http.StatusInternalServerError, "invalid request body")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ctx := r.Context()
	sr, err := h.gateway.Stream(ctx, payload.Messages)
	if err != nil {
		h.logger.Error().Err(err).Int("messages", len(payload.Messages)).Msg("chat stream unavailable")
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer sr.Close()

	utils.SetupTextStreamHeaders(w)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	chunks := 0
	for {
		msg, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			h.logger.Debug().Int("chunks", chunks).Msg("chat stream finished")
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				h.logger.Debug().Int("chunks", chunks).Msg("client went away mid-stream")
				return
			}
			metrics.StreamAborts.WithLabelValues("http").Inc()
			h.logger.Error().Err(err).Int("chunks", chunks).Msg("chat stream aborted")
			// 已经写出响应头，只能中断连接让客户端感知到截断
			panic(http.ErrAbortHandler)
		}
		if msg == nil || msg.Content == "" {
			continue
		}

		if err := utils.WriteChunk(w, flusher, msg.Content); err != nil {
			h.logger.Debug().Err(err).Msg("chat client write failed")
			return
		}
		chunks++
		metrics.StreamedChunks.WithLabelValues("http").Inc()
	}
}
