package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/tractor-swipe/backend/internal/model/profile"
	"github.com/zhouzirui/tractor-swipe/backend/internal/service/matches"
	sessionService "github.com/zhouzirui/tractor-swipe/backend/internal/service/session"
	"github.com/zhouzirui/tractor-swipe/backend/internal/service/swipe"
	"github.com/zhouzirui/tractor-swipe/backend/pkg/utils"
)

// Handler 滑动会话的HTTP处理器
type Handler struct {
	sessions *sessionService.Service
	logger   *zap.Logger
}

// New 创建会话处理器
func New(sessions *sessionService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		sessions: sessions,
		logger:   logger,
	}
}

// Snapshot 是返回给前端的会话视图
type Snapshot struct {
	ID         string            `json:"id"`
	ClientID   string            `json:"clientId"`
	Deck       []profile.Profile `json:"deck"`
	Current    *profile.Profile  `json:"current,omitempty"`
	State      swipe.State       `json:"state"`
	MatchCount int               `json:"matchCount"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// NewSnapshot 组装会话视图
func NewSnapshot(entry *sessionService.Entry) Snapshot {
	snap := Snapshot{
		ID:         entry.Swipe.ID(),
		ClientID:   entry.ClientID,
		Deck:       entry.Swipe.Deck().Profiles(),
		State:      entry.Swipe.State(),
		MatchCount: entry.Matches.Count(),
		CreatedAt:  entry.CreatedAt,
	}
	if !snap.State.Exhausted {
		if current, ok := entry.Swipe.Current(); ok {
			snap.Current = &current
		}
	}
	return snap
}

// RegisterRoutes 注册会话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreateSession)
	r.Route("/sessions/{sessionID}", func(sr chi.Router) {
		sr.Get("/", h.handleGetSession)
		sr.Post("/swipe", h.handleSwipe)
		sr.Post("/slide", h.handleSlide)
		sr.Post("/popup/dismiss", h.handleDismissPopup)
		sr.Get("/matches", h.handleListMatches)
		sr.Get("/matches/count", h.handleCountMatches)
		sr.Post("/matches/{matchID}/messages", h.handleSendMessage)
	})
}

// handleCreateSession 创建会话并洗牌
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ClientID string `json:"clientId"`
	}

	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.sessions.Create(r.Context(), payload.ClientID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, NewSnapshot(entry))
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, NewSnapshot(entry))
}

// handleSwipe 处理一次滑动或按钮操作
func (h *Handler) handleSwipe(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var input swipe.Input
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	turn, err := entry.Swipe.Handle(r.Context(), input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"turn":       turn,
		"matchCount": entry.Matches.Count(),
	})
}

func (h *Handler) handleSlide(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var payload struct {
		Index *int `json:"index"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil || payload.Index == nil {
		utils.RespondError(w, http.StatusBadRequest, "index is required")
		return
	}

	utils.RespondJSON(w, http.StatusOK, entry.Swipe.SlideChanged(*payload.Index))
}

func (h *Handler) handleDismissPopup(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, entry.Swipe.DismissPopup())
}

// handleListMatches 列出已匹配的拖拉机
func (h *Handler) handleListMatches(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, entry.Matches.All())
}

func (h *Handler) handleCountMatches(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]int{"count": entry.Matches.Count()})
}

// handleSendMessage 发送聊天消息并获取预设回复
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	matchID := chi.URLParam(r, "matchID")

	updated, err := h.sessions.SendMessage(r.Context(), sessionID, matchID, payload.Text)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, updated)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*sessionService.Entry, bool) {
	entry, err := h.sessions.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return nil, false
	}
	return entry, true
}

// respondServiceError 将服务层错误映射为HTTP状态码
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sessionService.ErrSessionNotFound), errors.Is(err, matches.ErrMatchNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sessionService.ErrClientRequired),
		errors.Is(err, sessionService.ErrEmptyMessage),
		errors.Is(err, swipe.ErrUnknownGesture):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("session request failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
