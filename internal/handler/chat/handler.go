package chat

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	renderHandler "github.com/zhouzirui/navigator/backend/internal/handler/render"
	"github.com/zhouzirui/navigator/backend/internal/model/component"
	"github.com/zhouzirui/navigator/backend/internal/render"
	chatService "github.com/zhouzirui/navigator/backend/internal/service/chat"
	"github.com/zhouzirui/navigator/backend/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Route("/session/{sessionID}", func(s chi.Router) {
		s.Get("/", h.handleGetState)
		s.Delete("/", h.handleEndSession)
		s.Get("/transcript", h.handleTranscript)
		s.Post("/messages", h.handleSendMessage)
		s.Put("/draft", h.handleSetDraft)
		s.Get("/canvas", h.handleGetCanvas)
		s.Post("/canvas", h.handleToggleCanvas)
		s.Delete("/canvas", h.handleCloseCanvas)
	})
}

// StatusFor maps chat service errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, chatService.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, chatService.ErrAwaitingResponse):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.CreateSession(r.Context())
	if err != nil {
		utils.RespondError(w, StatusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, session)
}

// handleGetState 返回会话的完整状态
func (h *Handler) handleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.chatSvc.Snapshot(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, StatusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, state)
}

// handleEndSession 结束会话并取消未送达的回复
func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.EndSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		utils.RespondError(w, StatusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chatSvc.LoadTranscript(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, StatusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}

// handleSendMessage 发送用户消息，助手回复异步送达
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if !utils.DecodeJSON(w, r, &payload) {
		return
	}

	message, err := h.chatSvc.Send(r.Context(), chi.URLParam(r, "sessionID"), payload.Text)
	if err != nil {
		utils.RespondError(w, StatusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusAccepted, message)
}

func (h *Handler) handleSetDraft(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if !utils.DecodeJSON(w, r, &payload) {
		return
	}

	if err := h.chatSvc.SetDraft(r.Context(), chi.URLParam(r, "sessionID"), payload.Text); err != nil {
		utils.RespondError(w, StatusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetCanvas 渲染当前画布上的组件，支持 ?format=html
func (h *Handler) handleGetCanvas(w http.ResponseWriter, r *http.Request) {
	state, err := h.chatSvc.Snapshot(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, StatusFor(err), err.Error())
		return
	}

	views := render.Render(state.Canvas.Descriptors)
	if r.URL.Query().Get("format") == "html" {
		renderHandler.RespondHTML(w, views)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"open":  state.Canvas.Open,
		"views": views,
	})
}

func (h *Handler) handleToggleCanvas(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Descriptors []component.Descriptor `json:"descriptors"`
	}
	if !utils.DecodeJSON(w, r, &payload) {
		return
	}

	canvas, err := h.chatSvc.ToggleCanvas(r.Context(), chi.URLParam(r, "sessionID"), payload.Descriptors)
	if err != nil {
		utils.RespondError(w, StatusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, canvas)
}

func (h *Handler) handleCloseCanvas(w http.ResponseWriter, r *http.Request) {
	canvas, err := h.chatSvc.CloseCanvas(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, StatusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, canvas)
}
