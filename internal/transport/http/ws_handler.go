package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"picreveal-quiz-service/internal/app"
	"picreveal-quiz-service/internal/domain"
	"picreveal-quiz-service/internal/game"
)

// GameDefaults carries the caller-side policy the core leaves out: default
// time limits per mode and the default grid size.
type GameDefaults struct {
	GridSize         int
	TimeLimitSeconds int
	SpeedTimeLimit   int
}

// TimeLimitFor resolves the default countdown for a mode; speed games run on
// the shorter clock.
func (d GameDefaults) TimeLimitFor(mode domain.Mode) int {
	if mode == domain.ModeSpeed && d.SpeedTimeLimit > 0 {
		return d.SpeedTimeLimit
	}
	return d.TimeLimitSeconds
}

type WSHandler struct {
	service  *app.GameService
	defaults GameDefaults
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, defaults GameDefaults) *WSHandler {
	return &WSHandler{
		service:  service,
		defaults: defaults,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Mode             domain.Mode `json:"mode"`
	GridSize         int         `json:"gridSize"`
	TimeLimitSeconds int         `json:"timeLimitSeconds"`
	BankID           string      `json:"bankId"`
}

type selectPayload struct {
	Cell int `json:"cell"`
}

type answerPayload struct {
	Option int `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the game
// session commands. Pass ?sessionId= to attach to a running session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	forwarderDone := make(chan struct{})
	subscribed := false

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// forward pumps session events to the writer until the connection closes.
	forward := func(events <-chan game.Event) {
		defer close(forwarderDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: string(ev.Type), Payload: ev}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}

	sendErr := func(err error) {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID != "" {
		snap, err := h.service.Snapshot(sessionID)
		if err != nil {
			sendErr(err)
			close(send)
			<-writerDone
			return
		}
		events, cancel, err := h.service.Subscribe(sessionID)
		if err != nil {
			sendErr(err)
			close(send)
			<-writerDone
			return
		}
		defer cancel()
		subscribed = true
		go forward(events)
		send <- outboundMessage[any]{Type: "snapshot", Payload: snap}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendErr(errInvalidPayload)
				continue
			}
			cfg := h.sessionConfig(payload)
			if sessionID == "" {
				snap, err := h.service.StartSession(r.Context(), cfg)
				if err != nil {
					sendErr(err)
					continue
				}
				sessionID = snap.ID
				events, cancel, err := h.service.Subscribe(sessionID)
				if err != nil {
					sendErr(err)
					continue
				}
				defer cancel()
				subscribed = true
				go forward(events)
				send <- outboundMessage[any]{Type: "sessionStarted", Payload: snap}
			} else {
				snap, err := h.service.Restart(r.Context(), sessionID, cfg)
				if err != nil {
					sendErr(err)
					continue
				}
				send <- outboundMessage[any]{Type: "sessionStarted", Payload: snap}
			}
		case "selectCell":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendErr(errInvalidPayload)
				continue
			}
			if _, err := h.service.SelectCell(sessionID, payload.Cell); err != nil {
				sendErr(err)
			}
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendErr(errInvalidPayload)
				continue
			}
			if _, err := h.service.SubmitAnswer(sessionID, payload.Option); err != nil {
				sendErr(err)
			}
		case "guessPicture":
			if err := h.service.ForceWin(sessionID); err != nil {
				sendErr(err)
			}
		case "reset":
			if err := h.service.ReturnToSetup(sessionID); err != nil {
				sendErr(err)
			}
		default:
			sendErr(errUnsupportedType)
		}
	}

	close(closeSignals)
	if subscribed {
		<-forwarderDone
	}
	close(send)
	<-writerDone
}

// sessionConfig fills config gaps from the service defaults; the core only
// sees fully resolved configs.
func (h *WSHandler) sessionConfig(payload startPayload) domain.SessionConfig {
	cfg := domain.SessionConfig{
		Mode:             payload.Mode,
		GridSize:         payload.GridSize,
		TimeLimitSeconds: payload.TimeLimitSeconds,
		BankID:           payload.BankID,
	}
	if cfg.Mode == "" {
		cfg.Mode = domain.ModeSolo
	}
	if cfg.GridSize == 0 {
		cfg.GridSize = h.defaults.GridSize
	}
	if cfg.TimeLimitSeconds == 0 {
		cfg.TimeLimitSeconds = h.defaults.TimeLimitFor(cfg.Mode)
	}
	return cfg
}
