// Package web serves the browser version of the game over WebSocket.
//
// Every connection plays its own game. The engine runs on the server and the
// page only draws the state frames it receives.
package web

import (
	_ "embed"
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tomz197/letterfall/internal/layout"
	"github.com/tomz197/letterfall/internal/loop/server"
)

//go:embed index.html
var indexPage []byte

// Handler routes the page, the score API and WebSocket sessions.
type Handler struct {
	hub      server.GameServer
	logger   *log.Logger
	layout   layout.Layout
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// NewHandler creates a handler whose sessions report to hub and start with
// the given layout.
func NewHandler(hub server.GameServer, logger *log.Logger, initial layout.Layout) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &Handler{
		hub:    hub,
		logger: logger,
		layout: initial,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The page may be served from another host behind a proxy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		mux: http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /{$}", h.serveIndex)
	h.mux.HandleFunc("GET /ws", h.serveWS)
	h.mux.HandleFunc("GET /api/scores", h.serveScores)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) serveIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

func (h *Handler) serveScores(w http.ResponseWriter, _ *http.Request) {
	top := h.hub.GetSnapshot().TopScores
	if top == nil {
		top = []server.TopScoreEntry{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(top); err != nil {
		h.logger.Warn("encode scores", "err", err)
	}
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		h.logger.Warn("websocket upgrade", "remote", r.RemoteAddr, "err", err)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "web"
	}

	s := newSession(conn, h.hub, name, h.layout, h.logger)
	s.run(r.Context())
}
