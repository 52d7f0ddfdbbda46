package prompt

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/serenity/backend/internal/model/prompt"
	"github.com/zhouzirui/serenity/backend/pkg/utils"
)

// Handler 日记提示语的HTTP处理器
type Handler struct {
	prompts prompt.Store
	now     func() time.Time
}

// New 创建提示语处理器
func New(prompts prompt.Store) *Handler {
	return &Handler{
		prompts: prompts,
		now:     time.Now,
	}
}

// RegisterRoutes 注册提示语相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/prompts", h.handleListPrompts)
	r.Get("/prompts/daily", h.handleDailyPrompt)
	r.Get("/prompts/{category}", h.handleGetCategory)
}

func (h *Handler) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.prompts.List())
}

// handleDailyPrompt 同一天的所有客户端拿到相同的提示语
func (h *Handler) handleDailyPrompt(w http.ResponseWriter, r *http.Request) {
	day := h.now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
			return
		}
		day = parsed
	}

	daily, ok := h.prompts.ForDay(day)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "no prompts available")
		return
	}
	utils.RespondJSON(w, http.StatusOK, daily)
}

func (h *Handler) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "category"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid category")
		return
	}

	category, ok := h.prompts.FindByName(name)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "category not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, category)
}
