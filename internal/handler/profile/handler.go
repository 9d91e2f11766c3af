package profile

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/tractor-swipe/backend/internal/model/profile"
	"github.com/zhouzirui/tractor-swipe/backend/pkg/utils"
)

// Handler 拖拉机资料的HTTP处理器
type Handler struct {
	profiles profile.Store
}

// New 创建资料处理器
func New(profiles profile.Store) *Handler {
	return &Handler{
		profiles: profiles,
	}
}

// RegisterRoutes 注册资料相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profiles", h.handleListProfiles)
	r.Get("/profiles/{profileID}", h.handleGetProfile)
}

// handleListProfiles 列出目录中的全部资料
func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.profiles.List())
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "profileID"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	p, ok := h.profiles.FindByID(id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "profile not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}
