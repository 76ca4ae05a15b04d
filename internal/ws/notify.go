package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

// MatchCreatedEvent is pushed to every connected client when the match
// engine creates a new row.
type MatchCreatedEvent struct {
	Type       string `json:"type"`
	MatchID    string `json:"match_id"`
	CriteriaID string `json:"criteria_id"`
	JobTitle   string `json:"job_title"`
	Company    string `json:"company"`
	Score      int    `json:"score"`
	URL        string `json:"url"`
	Timestamp  string `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

func NotifyMatchCreated(evt MatchCreatedEvent) {
	h := defaultHub.Load()
	if h == nil {
		return
	}

	evt.Type = "match_created"
	evt.Timestamp = time.Now().UTC().Format(time.RFC3339)

	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(b)
}
