package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tomz197/letterfall/internal/layout"
	"github.com/tomz197/letterfall/internal/loop/server"
)

// frame mirrors StateFrame with the enum fields as plain strings.
type frame struct {
	Type     string       `json:"type"`
	Phase    string       `json:"phase"`
	Score    int          `json:"score"`
	Mistakes int          `json:"mistakes"`
	Layout   string       `json:"layout"`
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
	Letters  []LetterView `json:"letters"`
	Nearest  uint64       `json:"nearest"`
	Rank     *int         `json:"rank"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	hub := server.NewServer(nil, logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	ts := httptest.NewServer(NewHandler(hub, logger, layout.Dvorak))
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?name=tester"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", msg.Type, err)
	}
}

// waitFrame reads state frames until cond holds.
func waitFrame(t *testing.T, conn *websocket.Conn, what string, cond func(frame) bool) frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("waiting for %s: %v", what, err)
		}
		if f.Type == FrameState && cond(f) {
			return f
		}
	}
}

func nearestChar(f frame) string {
	for _, l := range f.Letters {
		if l.ID == f.Nearest {
			return l.Char
		}
	}
	return ""
}

func TestIndexServesPage(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, id := range []string{`id="app"`, `id="start-btn"`, `id="restart-btn"`, `id="dropdown-trigger"`, `id="qwerty"`, `id="dvorak"`} {
		if !strings.Contains(string(body), id) {
			t.Errorf("page is missing %s", id)
		}
	}
}

func TestScoresEndpointStartsEmpty(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/scores")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("body = %q, want []", body)
	}
}

func TestSessionPlaysGame(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts)

	f := waitFrame(t, conn, "initial state", func(frame) bool { return true })
	if f.Phase != "idle" || f.Layout != "dvorak" {
		t.Fatalf("initial frame = %+v", f)
	}

	// A malformed message does not end the session.
	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}

	send(t, conn, ClientMessage{Type: MsgResize, Width: 400, Height: 300})
	waitFrame(t, conn, "resize", func(f frame) bool { return f.Width == 400 && f.Height == 300 })

	send(t, conn, ClientMessage{Type: MsgLayout, Layout: "qwerty"})
	waitFrame(t, conn, "layout", func(f frame) bool { return f.Layout == "qwerty" })

	send(t, conn, ClientMessage{Type: MsgStart})
	f = waitFrame(t, conn, "first letter", func(f frame) bool { return f.Phase == "running" && len(f.Letters) > 0 })
	char := nearestChar(f)
	if !strings.Contains("ASDFJKL;", char) {
		t.Fatalf("letter %q is not on the qwerty home row", char)
	}

	send(t, conn, ClientMessage{Type: MsgKey, Key: "Shift"})
	send(t, conn, ClientMessage{Type: MsgKey, Key: strings.ToLower(char)})
	f = waitFrame(t, conn, "hit", func(f frame) bool { return f.Score == 1 })
	if f.Mistakes != 0 {
		t.Fatalf("mistakes = %d, named keys must not count", f.Mistakes)
	}
}

func TestSessionGameOverIsRanked(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, ClientMessage{Type: MsgStart})
	waitFrame(t, conn, "first letter", func(f frame) bool { return len(f.Letters) > 0 })

	for i := 0; i < 3; i++ {
		send(t, conn, ClientMessage{Type: MsgKey, Key: "z"})
	}
	f := waitFrame(t, conn, "ranked game over", func(f frame) bool { return f.Phase == "over" && f.Rank != nil })
	if *f.Rank != 1 || f.Mistakes != 3 {
		t.Fatalf("frame = %+v rank %d", f, *f.Rank)
	}

	send(t, conn, ClientMessage{Type: MsgRestart})
	f = waitFrame(t, conn, "restart", func(f frame) bool { return f.Phase == "running" })
	if f.Score != 0 || f.Mistakes != 0 || f.Rank != nil {
		t.Fatalf("restarted frame = %+v", f)
	}
}
