package mood

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	moodanalysis "github.com/zhouzirui/serenity/backend/internal/analysis/mood"
	"github.com/zhouzirui/serenity/backend/internal/metrics"
	"github.com/zhouzirui/serenity/backend/internal/model/mood"
	moodservice "github.com/zhouzirui/serenity/backend/internal/service/mood"
	"github.com/zhouzirui/serenity/backend/pkg/utils"
)

// Store is the persistence the mood endpoints need.
type Store interface {
	Sync(ctx context.Context, entries []mood.Entry) ([]int64, error)
	Get(ctx context.Context, timestamp int64) (mood.Entry, error)
	List(ctx context.Context) ([]mood.Entry, error)
	UpdateNote(ctx context.Context, timestamp int64, note string) (mood.Entry, error)
}

// Handler 情绪日记的HTTP处理器
type Handler struct {
	store        Store
	maxBodyBytes int64
	logger       zerolog.Logger
}

// New 创建情绪日记处理器
func New(store Store, maxBodyBytes int64, logger zerolog.Logger) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &Handler{store: store, maxBodyBytes: maxBodyBytes, logger: logger}
}

// RegisterRoutes 注册情绪日记相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/emotions", h.handleWheel)
	r.Route("/moods", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/sync", h.handleSync)
		r.Post("/suggest", h.handleSuggest)
		r.Get("/{timestamp}", h.handleGet)
		r.Patch("/{timestamp}/note", h.handleUpdateNote)
	})
}

func (h *Handler) handleWheel(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, mood.Wheel())
}

// handleSync 批量写入离线记录，任意一条无效则整批拒绝
func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Entries []mood.Entry `json:"entries"`
	}
	if !h.decode(w, r, &payload) {
		return
	}

	synced, err := h.store.Sync(r.Context(), payload.Entries)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	batchID := uuid.NewString()
	metrics.MoodEntriesSynced.Add(float64(len(synced)))
	h.logger.Info().Str("batch_id", batchID).Int("count", len(synced)).Msg("mood batch synced")

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"synced":  synced,
		"batchId": batchID,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List(r.Context())
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ts, err := moodservice.ParseTimestamp(chi.URLParam(r, "timestamp"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.store.Get(r.Context(), ts)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	ts, err := moodservice.ParseTimestamp(chi.URLParam(r, "timestamp"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var payload struct {
		Note string `json:"note"`
	}
	if !h.decode(w, r, &payload) {
		return
	}

	entry, err := h.store.UpdateNote(r.Context(), ts, payload.Note)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if !h.decode(w, r, &payload) {
		return
	}
	utils.RespondJSON(w, http.StatusOK, moodanalysis.Suggest(payload.Text))
}

// decode 读取受大小限制的JSON请求体，失败时直接写出错误响应
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mood.ErrInvalidEntry):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, moodservice.ErrEntryNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error().Err(err).Msg("mood store failure")
		utils.RespondError(w, http.StatusInternalServerError, "mood store unavailable")
	}
}
