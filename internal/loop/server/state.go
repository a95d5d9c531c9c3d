package server

import (
	"time"

	"github.com/tomz197/letterfall/internal/layout"
)

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username   string        `json:"username"`
	Score      int           `json:"score"`
	Speed      int           `json:"speed"`
	Layout     layout.Layout `json:"layout"`
	RecordedAt time.Time     `json:"recordedAt"`
	seq        int64         // Submission order; earlier wins ties
}

// Snapshot is an immutable view of the hub for rendering.
type Snapshot struct {
	Players   int
	TopScores []TopScoreEntry
}

// Result is a finished game reported by a client.
type Result struct {
	Score    int
	Mistakes int
	Speed    int
	Layout   layout.Layout
	Duration time.Duration
}

// insertRanked inserts e into top (sorted by score desc, then seq asc), trims
// the list to limit entries and returns the new list and e's 1-based rank.
// The rank is 0 when e did not make the list.
func insertRanked(top []TopScoreEntry, e TopScoreEntry, limit int) ([]TopScoreEntry, int) {
	pos := len(top)
	for i, existing := range top {
		if e.Score > existing.Score || (e.Score == existing.Score && e.seq < existing.seq) {
			pos = i
			break
		}
	}
	if pos >= limit {
		return top, 0
	}

	top = append(top, TopScoreEntry{})
	copy(top[pos+1:], top[pos:])
	top[pos] = e
	if len(top) > limit {
		top = top[:limit]
	}
	return top, pos + 1
}
