package notify

import (
	"context"
	"log"
	"time"

	"jobfinder/internal/repository"
	"jobfinder/internal/ws"
)

const (
	ChannelImmediate = "notify:matches:immediate"
	ChannelDigest    = "notify:matches:digest"

	digestWindow = 24 * time.Hour
	digestLimit  = 50
)

// Publisher is the pub/sub slice of the cache client.
type Publisher interface {
	Publish(ctx context.Context, channel string, value any) error
}

// ImmediateEvent is published for matches scoring at or above the
// configured threshold.
type ImmediateEvent struct {
	MatchID    string `json:"match_id"`
	CriteriaID string `json:"criteria_id"`
	JobTitle   string `json:"job_title"`
	Company    string `json:"company"`
	Score      int    `json:"score"`
	URL        string `json:"url"`
}

// DigestEvent summarizes unreviewed matches from recently scraped jobs,
// highest score first.
type DigestEvent struct {
	GeneratedAt string        `json:"generated_at"`
	Count       int           `json:"count"`
	Matches     []DigestEntry `json:"matches"`
}

type DigestEntry struct {
	MatchID  string `json:"match_id"`
	JobTitle string `json:"job_title"`
	Company  string `json:"company"`
	Score    int    `json:"score"`
	URL      string `json:"url"`
}

// Notifier fans new matches out to websocket clients and, for the
// strongest ones, to the immediate pub/sub channel. The match engine
// never calls it directly; it hangs off the engine's creation hook.
type Notifier struct {
	matches   repository.MatchRepository
	publisher Publisher
	threshold int
	log       *log.Logger

	now func() time.Time
}

func New(matches repository.MatchRepository, publisher Publisher, threshold int, logger *log.Logger) *Notifier {
	if logger == nil {
		logger = log.Default()
	}
	return &Notifier{
		matches:   matches,
		publisher: publisher,
		threshold: threshold,
		log:       logger,
		now:       time.Now,
	}
}

// OnMatch receives every created match. Websocket clients see all of
// them; only scores at or above the threshold reach the immediate
// channel. Publish failures are logged, never propagated: notification
// is best effort and must not fail the pipeline.
func (n *Notifier) OnMatch(m repository.JobMatch, job repository.Job) {
	ws.NotifyMatchCreated(ws.MatchCreatedEvent{
		MatchID:    m.ID.String(),
		CriteriaID: m.CriteriaID.String(),
		JobTitle:   job.Title,
		Company:    job.Company,
		Score:      m.Score,
		URL:        job.URL,
	})

	if m.Score < n.threshold || n.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	evt := ImmediateEvent{
		MatchID:    m.ID.String(),
		CriteriaID: m.CriteriaID.String(),
		JobTitle:   job.Title,
		Company:    job.Company,
		Score:      m.Score,
		URL:        job.URL,
	}
	if err := n.publisher.Publish(ctx, ChannelImmediate, evt); err != nil {
		n.log.Printf("notify channel=%s match=%s err=%v", ChannelImmediate, m.ID, err)
		return
	}
	n.log.Printf("notify channel=%s match=%s score=%d", ChannelImmediate, m.ID, m.Score)
}

// Digest publishes a summary of unreviewed matches whose jobs were
// scraped inside the window. An empty window publishes nothing.
func (n *Notifier) Digest(ctx context.Context) error {
	since := n.now().UTC().Add(-digestWindow)
	rows, err := n.matches.ListNewSince(ctx, since, digestLimit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		n.log.Printf("notify channel=%s status=empty", ChannelDigest)
		return nil
	}

	evt := DigestEvent{
		GeneratedAt: n.now().UTC().Format(time.RFC3339),
		Count:       len(rows),
		Matches:     make([]DigestEntry, 0, len(rows)),
	}
	for _, row := range rows {
		evt.Matches = append(evt.Matches, DigestEntry{
			MatchID:  row.Match.ID.String(),
			JobTitle: row.Job.Title,
			Company:  row.Job.Company,
			Score:    row.Match.Score,
			URL:      row.Job.URL,
		})
	}

	if n.publisher == nil {
		return nil
	}
	if err := n.publisher.Publish(ctx, ChannelDigest, evt); err != nil {
		return err
	}
	n.log.Printf("notify channel=%s matches=%d", ChannelDigest, len(rows))
	return nil
}
