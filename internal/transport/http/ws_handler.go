package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10
)

// ConnectionObserver is notified when websocket connections open and close.
type ConnectionObserver interface {
	ConnectionOpened()
	ConnectionClosed()
}

type WSHandler struct {
	service  *app.QuizService
	hub      *Hub
	log      zerolog.Logger
	upgrader websocket.Upgrader
	conns    ConnectionObserver
}

func NewWSHandler(service *app.QuizService, hub *Hub, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		service:  service,
		hub:      hub,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// WithConnectionObserver sets the connection observer and returns h.
func (h *WSHandler) WithConnectionObserver(o ConnectionObserver) *WSHandler {
	h.conns = o
	return h
}

// buildUpgrader permits every origin when allowedOrigins is empty.
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	PinCode    string `json:"pinCode"`
	PlayerName string `json:"playerName"`
}

type pinPayload struct {
	PinCode string `json:"pinCode"`
}

// answerPayload uses pointers so a missing field is told apart from zero.
type answerPayload struct {
	PlayerID      string   `json:"playerId"`
	PinCode       string   `json:"pinCode"`
	AnswerIndex   *int     `json:"answerIndex"`
	TimeRemaining *float64 `json:"timeRemaining"`
}

// ServeWS upgrades HTTP requests to websockets and routes session events to the quiz use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	connLog := h.log.With().Str("conn_id", connID).Logger()
	c := h.hub.register(connID)
	if h.conns != nil {
		h.conns.ConnectionOpened()
		defer h.conns.ConnectionClosed()
	}
	connLog.Debug().Msg("connected")

	writerDone := make(chan struct{})
	go h.writePump(conn, c, writerDone, connLog)

	ctx := r.Context()
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				connLog.Warn().Err(err).Msg("unexpected close")
			}
			break
		}
		if err := h.dispatch(ctx, connID, inbound); err != nil {
			h.hub.SendTo(connID, domain.ErrorEvent(err))
			connLog.Debug().Err(err).Str("type", inbound.Type).Msg("event rejected")
		}
	}

	h.service.Leave(context.WithoutCancel(ctx), connID)
	h.hub.unregister(connID)
	<-writerDone
	connLog.Debug().Msg("disconnected")
}

func (h *WSHandler) dispatch(ctx context.Context, connID string, msg inboundMessage) error {
	switch msg.Type {
	case "join-quiz", "join":
		var p joinPayload
		if err := decode(msg.Payload, &p); err != nil {
			return err
		}
		_, err := h.service.Join(ctx, connID, p.PinCode, p.PlayerName)
		return err
	case "host-quiz", "watch":
		var p pinPayload
		if err := decode(msg.Payload, &p); err != nil {
			return err
		}
		_, err := h.service.Watch(ctx, connID, p.PinCode)
		return err
	case "start-quiz", "start":
		var p pinPayload
		if err := decode(msg.Payload, &p); err != nil {
			return err
		}
		return h.service.Start(ctx, connID, p.PinCode)
	case "next-question", "advance":
		var p pinPayload
		if err := decode(msg.Payload, &p); err != nil {
			return err
		}
		return h.service.Advance(ctx, connID, p.PinCode)
	case "submit-answer":
		var p answerPayload
		if err := decode(msg.Payload, &p); err != nil {
			return err
		}
		if p.PlayerID == "" || p.AnswerIndex == nil || p.TimeRemaining == nil {
			return domain.ErrInvalidPayload
		}
		_, err := h.service.SubmitAnswer(ctx, connID, p.PinCode, p.PlayerID, *p.AnswerIndex, *p.TimeRemaining)
		return err
	case "end-quiz", "end":
		var p pinPayload
		if err := decode(msg.Payload, &p); err != nil {
			return err
		}
		return h.service.End(ctx, connID, p.PinCode)
	default:
		return domain.ErrUnsupportedMessage
	}
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return domain.ErrInvalidPayload
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return domain.ErrInvalidPayload
	}
	return nil
}

// writePump is the only goroutine writing to conn.
func (h *WSHandler) writePump(conn *websocket.Conn, c *client, done chan<- struct{}, log zerolog.Logger) {
	defer close(done)
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Debug().Err(err).Msg("ws write error")
				// unblock the reader; unregister will close c.send
				_ = conn.Close()
				drain(c.send)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				drain(c.send)
				return
			}
		}
	}
}

func drain(ch <-chan domain.Event) {
	for range ch {
	}
}
