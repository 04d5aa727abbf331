package stream

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	chatHandler "github.com/zhouzirui/navigator/backend/internal/handler/chat"
	chatService "github.com/zhouzirui/navigator/backend/internal/service/chat"
	"github.com/zhouzirui/navigator/backend/pkg/utils"
)

// Handler pushes session events to the browser via Server-Sent Events.
type Handler struct {
	chatSvc   *chatService.Service
	heartbeat time.Duration
	logger    *zap.Logger
}

// New creates a new stream handler. A heartbeat is written every heartbeat
// interval while no events flow.
func New(chatSvc *chatService.Service, heartbeat time.Duration) *Handler {
	return &Handler{
		chatSvc:   chatSvc,
		heartbeat: heartbeat,
		logger:    zap.L().Named("stream"),
	}
}

// RegisterRoutes mounts the SSE endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

// handleStream opens the event stream. The first event carries the current
// state so that clients never miss changes made before they subscribed.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ctx := r.Context()
	events, cancel, err := h.chatSvc.Subscribe(ctx, sessionID)
	if err != nil {
		utils.RespondError(w, chatHandler.StatusFor(err), err.Error())
		return
	}
	defer cancel()

	state, err := h.chatSvc.Snapshot(ctx, sessionID)
	if err != nil {
		utils.RespondError(w, chatHandler.StatusFor(err), err.Error())
		return
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	if err := utils.SendSSEEvent(w, flusher, "state", state); err != nil {
		return
	}

	h.logger.Info("stream opened", zap.String("session", sessionID))
	defer h.logger.Info("stream closed", zap.String("session", sessionID))

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := utils.SendSSEEvent(w, flusher, string(event.Type), event); err != nil {
				h.logger.Debug("stream write failed", zap.String("session", sessionID), zap.Error(err))
				return
			}
		case t := <-ticker.C:
			if err := utils.SendSSEEvent(w, flusher, "heartbeat", map[string]string{
				"time": t.UTC().Format(time.RFC3339),
			}); err != nil {
				return
			}
		}
	}
}
