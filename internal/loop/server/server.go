package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/letterfall/internal/layout"
	"github.com/tomz197/letterfall/internal/loop/config"
	"github.com/tomz197/letterfall/internal/store"
)

// GameServer is the interface clients use to communicate with the hub.
// Decouples clients from the concrete Server so they can be tested alone.
type GameServer interface {
	RegisterClient(username, transport string) *ClientHandle
	UnregisterClient(clientID int)
	SubmitResult(clientID int, result Result)
	GetSnapshot() *Snapshot
}

// ScoreStore persists finished games.
type ScoreStore interface {
	RecordScore(ctx context.Context, sc store.Score) (int64, error)
	TopScores(ctx context.Context, limit int) ([]store.Score, error)
}

// Server tracks connected players and the leaderboard. Every client runs its
// own game; the hub only sees finished results.
type Server struct {
	store  ScoreStore
	logger *log.Logger

	snapshot     atomic.Pointer[Snapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	registerCh   chan *ClientHandle
	unregisterCh chan int
	resultCh     chan submission
	mu           sync.RWMutex

	top     []TopScoreEntry
	nextSeq int64
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the hub.
type ClientHandle struct {
	ID        int
	Username  string // Display name for this client
	Transport string // "local", "ssh" or "web"
	EventsCh  chan ClientEvent
}

// ClientEvent represents an event sent from the hub to a client.
type ClientEvent struct {
	Type ClientEventType
	Rank int // Leaderboard position for EventScoreRecorded, 0 if unranked
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventScoreRecorded ClientEventType = iota
	EventServerShutdown
)

type submission struct {
	clientID int
	result   Result
}

// NewServer creates a hub. st may be nil to keep scores in memory only.
func NewServer(st ScoreStore, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		store:        st,
		logger:       logger,
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		resultCh:     make(chan submission, 64),
	}
	s.snapshot.Store(&Snapshot{})
	return s
}

// Run starts the hub loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	s.seedLeaderboard(ctx)
	s.createSnapshot()

	ticker := time.NewTicker(config.HubTickTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.processRegistrations()
		s.processResults(ctx)
		s.createSnapshot()
	}
}

// Shutdown notifies all connected clients and waits for them to disconnect
// (up to the given timeout). The caller should cancel the Run context after
// Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client and returns its handle.
func (s *Server) RegisterClient(username, transport string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:        id,
		Username:  truncateUsername(username),
		Transport: transport,
		EventsCh:  make(chan ClientEvent, 16),
	}

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the hub.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// SubmitResult reports a finished game. Results are dropped when the queue is full.
func (s *Server) SubmitResult(clientID int, result Result) {
	select {
	case s.resultCh <- submission{clientID: clientID, result: result}:
	default:
		s.logger.Warn("result queue full, dropping result", "client", clientID, "score", result.Score)
	}
}

// GetSnapshot returns the current hub snapshot.
func (s *Server) GetSnapshot() *Snapshot {
	return s.snapshot.Load()
}

// seedLeaderboard loads the persisted top scores.
func (s *Server) seedLeaderboard(ctx context.Context) {
	if s.store == nil {
		return
	}
	scores, err := s.store.TopScores(ctx, config.TopScoresLimit)
	if err != nil {
		s.logger.Error("load leaderboard", "err", err)
		return
	}
	for _, sc := range scores {
		l, err := layout.Parse(sc.Layout)
		if err != nil {
			l = layout.Default
		}
		s.nextSeq++
		s.top = append(s.top, TopScoreEntry{
			Username:   sc.Username,
			Score:      sc.Score,
			Speed:      sc.Speed,
			Layout:     l,
			RecordedAt: sc.CreatedAt,
			seq:        s.nextSeq,
		})
	}
	s.logger.Info("leaderboard loaded", "entries", len(s.top))
}

// processRegistrations handles pending client registrations/unregistrations.
func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
			s.logger.Info("player joined", "client", handle.ID, "user", handle.Username, "via", handle.Transport)
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
				s.logger.Info("player left", "client", clientID, "user", handle.Username)
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

// processResults ranks and persists finished games.
func (s *Server) processResults(ctx context.Context) {
	for {
		select {
		case sub := <-s.resultCh:
			s.recordResult(ctx, sub)
		default:
			return
		}
	}
}

func (s *Server) recordResult(ctx context.Context, sub submission) {
	s.mu.RLock()
	handle, ok := s.clients[sub.clientID]
	s.mu.RUnlock()

	username := "anonymous"
	if ok {
		username = handle.Username
	}

	now := time.Now()
	s.nextSeq++
	entry := TopScoreEntry{
		Username:   username,
		Score:      sub.result.Score,
		Speed:      sub.result.Speed,
		Layout:     sub.result.Layout,
		RecordedAt: now,
		seq:        s.nextSeq,
	}

	var rank int
	s.top, rank = insertRanked(s.top, entry, config.TopScoresLimit)

	if s.store != nil {
		storeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		_, err := s.store.RecordScore(storeCtx, store.Score{
			Username:  username,
			Score:     sub.result.Score,
			Mistakes:  sub.result.Mistakes,
			Speed:     sub.result.Speed,
			Layout:    sub.result.Layout.String(),
			Duration:  sub.result.Duration,
			CreatedAt: now,
		})
		cancel()
		if err != nil {
			s.logger.Error("record score", "user", username, "err", err)
		}
	}

	s.logger.Info("game finished", "user", username, "score", sub.result.Score, "rank", rank)

	if ok {
		s.mu.RLock()
		// The client may have left while the result was stored.
		if _, still := s.clients[sub.clientID]; still {
			select {
			case handle.EventsCh <- ClientEvent{Type: EventScoreRecorded, Rank: rank}:
			default:
			}
		}
		s.mu.RUnlock()
	}
}

// createSnapshot publishes an immutable snapshot of the hub state.
func (s *Server) createSnapshot() {
	s.mu.RLock()
	players := len(s.clients)
	s.mu.RUnlock()

	top := make([]TopScoreEntry, len(s.top))
	copy(top, s.top)

	s.snapshot.Store(&Snapshot{
		Players:   players,
		TopScores: top,
	})
}

func truncateUsername(name string) string {
	if name == "" {
		name = "anonymous"
	}
	runes := []rune(name)
	if len(runes) > config.MaxUsernameLength {
		runes = runes[:config.MaxUsernameLength]
	}
	return string(runes)
}
