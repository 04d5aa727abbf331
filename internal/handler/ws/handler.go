package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/navigator/backend/internal/model/chat"
	"github.com/zhouzirui/navigator/backend/internal/model/component"
	chatService "github.com/zhouzirui/navigator/backend/internal/service/chat"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler WebSocket会话处理器
type Handler struct {
	chatSvc  *chatService.Service
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// New 创建WebSocket处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: zap.L().Named("ws"),
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
}

// TextMessage carries user input for "text" and "draft" messages.
type TextMessage struct {
	Text string `json:"text"`
}

// CanvasMessage carries the descriptors of a "toggle_canvas" message.
type CanvasMessage struct {
	Descriptors []component.Descriptor `json:"descriptors"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// conn serialises writes; gorilla connections allow one concurrent writer.
type conn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(msg outgoingMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.WriteJSON(msg)
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	// Subscribe before taking the snapshot so no event falls between them.
	events, unsubscribe, err := h.chatSvc.Subscribe(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	defer unsubscribe()

	state, err := h.chatSvc.Snapshot(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	c := &conn{Conn: raw}
	defer c.Close()

	h.logger.Info("connection opened", zap.String("session", sessionID))
	defer h.logger.Info("connection closed", zap.String("session", sessionID))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = c.SetReadDeadline(time.Now().Add(readTimeout))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go h.pingLoop(ctx, c)
	go h.forward(ctx, cancel, c, events)

	if err := c.send(outgoingMessage{
		Type:      "connected",
		SessionID: sessionID,
		Data:      state,
		Timestamp: time.Now().Unix(),
	}); err != nil {
		return
	}

	for {
		var msg inboundMessage
		if err := c.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("read error", zap.String("session", sessionID), zap.Error(err))
			}
			return
		}
		if ctx.Err() != nil {
			return
		}

		_ = c.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.SessionID != "" && msg.SessionID != sessionID {
			h.sendError(c, sessionID, "session mismatch")
			continue
		}

		if err := h.handleMessage(ctx, sessionID, &msg); err != nil {
			h.sendError(c, sessionID, err.Error())
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, sessionID string, msg *inboundMessage) error {
	switch msg.Type {
	case "text":
		var payload TextMessage
		if err := decodeData(msg.Data, &payload); err != nil {
			return err
		}
		_, err := h.chatSvc.Send(ctx, sessionID, payload.Text)
		return err
	case "draft":
		var payload TextMessage
		if err := decodeData(msg.Data, &payload); err != nil {
			return err
		}
		return h.chatSvc.SetDraft(ctx, sessionID, payload.Text)
	case "toggle_canvas":
		var payload CanvasMessage
		if err := decodeData(msg.Data, &payload); err != nil {
			return err
		}
		_, err := h.chatSvc.ToggleCanvas(ctx, sessionID, payload.Descriptors)
		return err
	case "close_canvas":
		_, err := h.chatSvc.CloseCanvas(ctx, sessionID)
		return err
	default:
		return unknownTypeError(msg.Type)
	}
}

// forward relays session events until the session ends or the client leaves.
func (h *Handler) forward(ctx context.Context, cancel context.CancelFunc, c *conn, events <-chan chat.Event) {
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				_ = c.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
					time.Now().Add(writeTimeout))
				_ = c.Close()
				return
			}
			if err := c.send(outgoingMessage{
				Type:      string(event.Type),
				SessionID: event.SessionID,
				Data:      event,
				Timestamp: event.Time.Unix(),
			}); err != nil {
				h.logger.Debug("write event failed", zap.String("session", event.SessionID), zap.Error(err))
				return
			}
		}
	}
}

func (h *Handler) sendError(c *conn, sessionID, message string) {
	err := c.send(outgoingMessage{
		Type:      "error",
		SessionID: sessionID,
		Data:      map[string]string{"message": message},
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		h.logger.Debug("write error failed", zap.String("session", sessionID), zap.Error(err))
	}
}

// pingLoop 定期发送ping消息
func (h *Handler) pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
