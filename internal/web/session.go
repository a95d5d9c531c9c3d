package web

import (
	"context"
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tomz197/letterfall/internal/game"
	"github.com/tomz197/letterfall/internal/layout"
	"github.com/tomz197/letterfall/internal/loop/config"
	"github.com/tomz197/letterfall/internal/loop/server"
)

// session is one browser connection. Only the run goroutine writes to conn.
type session struct {
	conn   *websocket.Conn
	hub    server.GameServer
	handle *server.ClientHandle
	engine *game.Engine
	logger *log.Logger

	rank  *int
	dirty bool // State changed outside a tick; send a frame now
}

func newSession(conn *websocket.Conn, hub server.GameServer, name string, l layout.Layout, logger *log.Logger) *session {
	handle := hub.RegisterClient(name, "web")
	return &session{
		conn:   conn,
		hub:    hub,
		handle: handle,
		engine: game.New(game.Options{Layout: l}),
		logger: logger.With("client", handle.ID, "remote", conn.RemoteAddr()),
	}
}

// run drives the session until the browser disconnects or the hub stops.
func (s *session) run(ctx context.Context) {
	defer s.conn.Close()
	defer s.hub.UnregisterClient(s.handle.ID)

	s.conn.SetReadLimit(config.WebReadLimit)
	_ = s.conn.SetReadDeadline(time.Now().Add(config.WebPongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(config.WebPongWait))
	})

	msgs := make(chan ClientMessage, 32)
	done := make(chan struct{})
	defer close(done)
	go s.readLoop(msgs, done)

	ticker := time.NewTicker(config.WebTickTime)
	defer ticker.Stop()
	ping := time.NewTicker(config.WebPingPeriod)
	defer ping.Stop()

	if err := s.writeState(); err != nil {
		return
	}

	last := time.Now()
	frame := 0
	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-msgs:
			if !ok {
				return
			}
			s.apply(msg)
			s.drainEvents()

		case ev, ok := <-s.handle.EventsCh:
			if !ok {
				return
			}
			switch ev.Type {
			case server.EventScoreRecorded:
				rank := ev.Rank
				s.rank = &rank
				s.dirty = true
			case server.EventServerShutdown:
				s.write(ShutdownFrame{Type: FrameShutdown, Message: "The server is restarting. Please reconnect in a moment."})
				return
			}

		case <-ping.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(config.WebWriteWait)); err != nil {
				s.logger.Debug("ping failed", "err", err)
				return
			}

		case now := <-ticker.C:
			s.engine.Tick(now.Sub(last))
			last = now
			s.drainEvents()
			frame++
			if frame%config.WebFrameEvery != 0 && !s.dirty {
				continue
			}
			if err := s.writeState(); err != nil {
				return
			}
		}

		if s.dirty {
			if err := s.writeState(); err != nil {
				return
			}
		}
	}
}

// readLoop decodes browser messages until the connection fails.
func (s *session) readLoop(msgs chan<- ClientMessage, done <-chan struct{}) {
	defer close(msgs)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("read failed", "err", err)
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("malformed message", "err", err)
			continue
		}
		select {
		case msgs <- msg:
		case <-done:
			return
		}
	}
}

// apply handles one browser message.
func (s *session) apply(msg ClientMessage) {
	switch msg.Type {
	case MsgStart:
		if s.engine.Start() {
			s.rank = nil
		}
	case MsgRestart:
		s.engine.Restart()
		s.rank = nil
	case MsgKey:
		// Named keys such as "Shift" or "Enter" are not letters.
		if utf8.RuneCountInString(msg.Key) != 1 {
			return
		}
		r, _ := utf8.DecodeRuneInString(msg.Key)
		s.engine.HandleKey(r)
	case MsgLayout:
		l, err := layout.Parse(msg.Layout)
		if err != nil {
			s.logger.Warn("layout message", "err", err)
			return
		}
		s.engine.SetLayout(l)
	case MsgResize:
		s.engine.SetArea(clampSide(msg.Width), clampSide(msg.Height))
	default:
		s.logger.Debug("unknown message", "type", msg.Type)
		return
	}
	s.dirty = true
}

// drainEvents handles engine events queued by a message or a tick.
func (s *session) drainEvents() {
	for _, ev := range s.engine.Events() {
		s.handleGameEvent(ev)
	}
}

func (s *session) handleGameEvent(ev game.Event) {
	if ev.Type != game.EventGameOver {
		return
	}
	s.hub.SubmitResult(s.handle.ID, server.Result{
		Score:    ev.Score,
		Mistakes: ev.Mistakes,
		Speed:    ev.Speed,
		Layout:   ev.Layout,
		Duration: ev.Played,
	})
	s.logger.Debug("game over", "score", ev.Score)
}

func (s *session) writeState() error {
	s.dirty = false
	var nearest uint64
	if l, ok := s.engine.Nearest(); ok {
		nearest = l.ID
	}
	return s.write(newStateFrame(s.engine.Snapshot(), nearest, s.hub.GetSnapshot(), s.rank))
}

func (s *session) write(v any) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(config.WebWriteWait))
	if err := s.conn.WriteJSON(v); err != nil {
		s.logger.Debug("write failed", "err", err)
		return err
	}
	return nil
}

// clampSide limits a browser-reported size. Non-positive sizes are passed
// through so the engine ignores them.
func clampSide(v float64) float64 {
	if v > config.WebMaxAreaSide {
		return config.WebMaxAreaSide
	}
	return v
}
