package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	sessionHandler "github.com/zhouzirui/tractor-swipe/backend/internal/handler/session"
	sessionService "github.com/zhouzirui/tractor-swipe/backend/internal/service/session"
	"github.com/zhouzirui/tractor-swipe/backend/internal/service/swipe"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 5 * time.Second
)

// WebSocketHandler 实时手势通道：卡片组件把滑动、按钮和翻页事件推送过来，
// 服务端回推状态与通知。
type WebSocketHandler struct {
	sessions *sessionService.Service
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(sessions *sessionService.Service, logger *zap.Logger) *WebSocketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketHandler{
		sessions: sessions,
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// SlideMessage 卡片组件上报的当前索引
type SlideMessage struct {
	Index int `json:"index"`
}

// ButtonMessage 接受/拒绝按钮
type ButtonMessage struct {
	Button swipe.Button `json:"button"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// connection 串行化同一连接上的写操作
type connection struct {
	mu        sync.Mutex
	conn      *websocket.Conn
	sessionID string
	logger    *zap.Logger
}

func (c *connection) write(msg outgoingMessage) {
	msg.Timestamp = time.Now().Unix()
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(msg); err != nil {
		c.logger.Debug("websocket write failed", zap.String("type", msg.Type), zap.Error(err))
	}
}

func (c *connection) sendResult(data map[string]any) {
	c.write(outgoingMessage{Type: "result", SessionID: c.sessionID, Data: data})
}

func (c *connection) sendError(message string) {
	c.write(outgoingMessage{Type: "error", Data: map[string]string{"message": message}})
}

// Notify 实现 swipe.Notifier，把通知推送给前端的 toast / 弹窗层
func (c *connection) Notify(n swipe.Notification) {
	c.write(outgoingMessage{Type: "notification", SessionID: c.sessionID, Data: n})
}

// handleWebSocket 处理WebSocket连接
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	entry, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	logger := h.logger.With(zap.String("session", sessionID))
	logger.Info("websocket connected")

	c := &connection{conn: conn, sessionID: sessionID, logger: logger}
	detach := entry.Swipe.AttachNotifier(c)
	defer detach()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go pingLoop(ctx, conn)

	c.sendResult(map[string]any{
		"type":    "connected",
		"session": sessionHandler.NewSnapshot(entry),
	})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", zap.Error(err))
			}
			logger.Info("websocket disconnected")
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.SessionID != "" && msg.SessionID != sessionID {
			c.sendError("session mismatch")
			continue
		}

		h.handleMessage(ctx, c, entry, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, c *connection, entry *sessionService.Entry, msg *inboundMessage) {
	switch msg.Type {
	case "swipe":
		var input swipe.Input
		if err := json.Unmarshal(msg.Data, &input); err != nil {
			c.sendError("invalid swipe payload")
			return
		}
		h.applyGesture(ctx, c, entry, input)

	case "button":
		var press ButtonMessage
		if err := json.Unmarshal(msg.Data, &press); err != nil {
			c.sendError("invalid button payload")
			return
		}
		h.applyGesture(ctx, c, entry, swipe.Input{Button: press.Button})

	case "slide":
		var slide SlideMessage
		if err := json.Unmarshal(msg.Data, &slide); err != nil {
			c.sendError("invalid slide payload")
			return
		}
		c.sendResult(map[string]any{"type": "state", "state": entry.Swipe.SlideChanged(slide.Index)})

	case "dismiss":
		c.sendResult(map[string]any{"type": "state", "state": entry.Swipe.DismissPopup()})

	case "sync":
		c.sendResult(map[string]any{"type": "snapshot", "session": sessionHandler.NewSnapshot(entry)})

	default:
		c.sendError("unsupported message type: " + msg.Type)
	}
}

func (h *WebSocketHandler) applyGesture(ctx context.Context, c *connection, entry *sessionService.Entry, input swipe.Input) {
	turn, err := entry.Swipe.Handle(ctx, input)
	if err != nil {
		if errors.Is(err, swipe.ErrUnknownGesture) {
			c.sendError(err.Error())
			return
		}
		h.logger.Warn("gesture failed", zap.String("session", c.sessionID), zap.Error(err))
		c.sendError("swipe failed")
		return
	}
	c.sendResult(map[string]any{
		"type":       "turn",
		"turn":       turn,
		"matchCount": entry.Matches.Count(),
	})
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
