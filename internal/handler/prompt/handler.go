package prompt

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	chatHandler "github.com/zhouzirui/navigator/backend/internal/handler/chat"
	"github.com/zhouzirui/navigator/backend/internal/model/prompt"
	chatService "github.com/zhouzirui/navigator/backend/internal/service/chat"
	"github.com/zhouzirui/navigator/backend/pkg/utils"
)

// Handler 示例提示的HTTP处理器
type Handler struct {
	prompts prompt.Store
	chatSvc *chatService.Service
}

// New 创建示例提示处理器
func New(prompts prompt.Store, chatSvc *chatService.Service) *Handler {
	return &Handler{
		prompts: prompts,
		chatSvc: chatSvc,
	}
}

// RegisterRoutes 注册示例提示相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/prompts", h.handleListPrompts)
	r.Post("/session/{sessionID}/prompts/{promptID}", h.handleSubmitPrompt)
}

// handleListPrompts 列出所有示例提示
func (h *Handler) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.prompts.List())
}

// handleSubmitPrompt 将提示内容填入输入框并立即提交
func (h *Handler) handleSubmitPrompt(w http.ResponseWriter, r *http.Request) {
	item, ok := h.prompts.FindByID(chi.URLParam(r, "promptID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "prompt not found")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := h.chatSvc.SetDraft(r.Context(), sessionID, item.Action); err != nil {
		utils.RespondError(w, chatHandler.StatusFor(err), err.Error())
		return
	}

	message, err := h.chatSvc.Send(r.Context(), sessionID, item.Action)
	if err != nil {
		utils.RespondError(w, chatHandler.StatusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusAccepted, message)
}
