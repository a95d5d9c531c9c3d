package web

import (
	"github.com/tomz197/letterfall/internal/game"
	"github.com/tomz197/letterfall/internal/layout"
	"github.com/tomz197/letterfall/internal/loop/server"
)

// Message types sent by the browser.
const (
	MsgStart   = "start"
	MsgRestart = "restart"
	MsgKey     = "key"
	MsgLayout  = "layout"
	MsgResize  = "resize"
)

// Frame types sent to the browser.
const (
	FrameState    = "state"
	FrameShutdown = "shutdown"
)

// ClientMessage is a message from the browser.
type ClientMessage struct {
	Type   string  `json:"type"`
	Key    string  `json:"key,omitempty"`    // KeyboardEvent.key for "key"
	Layout string  `json:"layout,omitempty"` // "qwerty" or "dvorak"
	Width  float64 `json:"width,omitempty"`  // Play area size for "resize"
	Height float64 `json:"height,omitempty"`
}

// LetterView is a falling letter as the browser draws it.
type LetterView struct {
	ID   uint64  `json:"id"`
	Char string  `json:"char"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// StateFrame carries the full game state.
type StateFrame struct {
	Type      string                 `json:"type"`
	Phase     game.Phase             `json:"phase"`
	Score     int                    `json:"score"`
	Mistakes  int                    `json:"mistakes"`
	Speed     int                    `json:"speed"`
	Layout    layout.Layout          `json:"layout"`
	Width     float64                `json:"width"`
	Height    float64                `json:"height"`
	Letters   []LetterView           `json:"letters"`
	Nearest   uint64                 `json:"nearest,omitempty"`
	Players   int                    `json:"players"`
	TopScores []server.TopScoreEntry `json:"topScores"`
	Rank      *int                   `json:"rank,omitempty"` // Set once the hub has ranked the last game
}

// ShutdownFrame tells the browser the server is going away.
type ShutdownFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newStateFrame(st game.State, nearest uint64, hub *server.Snapshot, rank *int) StateFrame {
	letters := make([]LetterView, len(st.Letters))
	for i, l := range st.Letters {
		letters[i] = LetterView{ID: l.ID, Char: string(l.Char), X: l.X, Y: l.Y}
	}
	f := StateFrame{
		Type:     FrameState,
		Phase:    st.Phase,
		Score:    st.Score,
		Mistakes: st.Mistakes,
		Speed:    st.Speed,
		Layout:   st.Layout,
		Width:    st.Width,
		Height:   st.Height,
		Letters:  letters,
		Nearest:  nearest,
		Rank:     rank,
	}
	if hub != nil {
		f.Players = hub.Players
		f.TopScores = hub.TopScores
	}
	if f.TopScores == nil {
		f.TopScores = []server.TopScoreEntry{}
	}
	return f
}
