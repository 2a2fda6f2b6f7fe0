package api

import (
	"sync"
	"time"

	"questpath/internal/middleware"
	"questpath/internal/model"
	"questpath/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	MessageQuestCompleted = "quest_completed"
	MessageLevelUp        = "level_up"

	subscriberBuffer = 16
	writeWait        = 10 * time.Second
)


type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type subscriber struct {
	userID string
	send   chan Message
}

// ProgressHub fans ledger completions out to the user's open websocket
// feeds. A subscriber that falls behind loses messages instead of
// blocking the ledger.
type ProgressHub struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{subs: make(map[*subscriber]struct{})}
}

func (h *ProgressHub) subscribe(userID string) *subscriber {
	s := &subscriber{userID: userID, send: make(chan Message, subscriberBuffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

func (h *ProgressHub) unsubscribe(s *subscriber) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}

func (h *ProgressHub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for s := range h.subs {
		if s.userID == userID {
			n++
		}
	}
	return n
}

func (h *ProgressHub) OnCompletion(userID string, result model.CompletionResult) {
	messages := []Message{{Type: MessageQuestCompleted, Payload: newCompletionResponse(result)}}
	if result.LeveledUp {
		messages = append(messages, Message{Type: MessageLevelUp, Payload: gin.H{"level": result.NewLevel}})
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs {
		if s.userID != userID {
			continue
		}
		for _, m := range messages {
			select {
			case s.send <- m:
			default:
				logger.Logger().Warn("dropping progress message for slow subscriber",
					zap.String("user_id", userID),
					zap.String("type", m.Type))
			}
		}
	}
}

type progressRoutes struct {
	hub      *ProgressHub
	upgrader websocket.Upgrader
}

// NewProgressRoutes serves the progress feed. Browser upgrades are accepted
// only from the same host or one of origins.
func NewProgressRoutes(handler *gin.RouterGroup, hub *ProgressHub, authz *middleware.Authorization, origins middleware.Origins) {
	r := &progressRoutes{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     origins.CheckRequest,
		},
	}
	handler.GET("/ws/progress", authz.RequireSession(), r.handleWebSocket)
}

func (r *progressRoutes) handleWebSocket(c *gin.Context) {
	log := logger.Logger()
	user, _ := middleware.CurrentUser(c)

	conn, err := r.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := r.hub.subscribe(user.ID)
	defer func() {
		r.hub.unsubscribe(sub)
		conn.Close()
	}()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Info("websocket unexpected close", zap.Error(err))
				}
				return
			}
		}
	}()

	if err := r.write(conn, Message{Type: "progress", Payload: newUserResponse(*user)}); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case message := <-sub.send:
			if err := r.write(conn, message); err != nil {
				log.Error("error sending progress message", zap.Error(err))
				return
			}
		}
	}
}

func (r *progressRoutes) write(conn *websocket.Conn, message Message) error {
	out, err := json.Marshal(message)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, out)
}
