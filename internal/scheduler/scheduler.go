package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"jobfinder/internal/scraper"
	"jobfinder/internal/usecase"

	"github.com/robfig/cron/v3"
)

// Locker keeps overlapping schedules from double-running a source when
// several instances share the same database.
type Locker interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

// Digester is the daily summary hook.
type Digester interface {
	Digest(ctx context.Context) error
}

// Scheduler wraps robfig/cron and drives the scrape loop plus the daily
// digest.
type Scheduler struct {
	cron       *cron.Cron
	pipeline   usecase.PipelineUsecase
	registry   *scraper.Registry
	locker     Locker
	digester   Digester
	scrapeSpec string
	digestSpec string
	logger     *log.Logger
}

// New creates a Scheduler that scrapes every intervalHours hours and
// publishes the digest once a day at digestHour UTC.
func New(
	pipeline usecase.PipelineUsecase,
	registry *scraper.Registry,
	locker Locker,
	digester Digester,
	intervalHours int,
	digestHour int,
	logger *log.Logger,
) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(cron.DefaultLogger)),
		pipeline:   pipeline,
		registry:   registry,
		locker:     locker,
		digester:   digester,
		scrapeSpec: fmt.Sprintf("@every %dh", intervalHours),
		digestSpec: fmt.Sprintf("0 %d * * *", digestHour),
		logger:     logger,
	}
}

// Start registers the jobs and starts the scheduler. Also runs one
// scrape immediately so the board is populated without waiting for the
// first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.scrapeSpec, func() {
		s.runAll(ctx)
	}); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	if s.digester != nil {
		if _, err := s.cron.AddFunc(s.digestSpec, func() {
			if err := s.digester.Digest(ctx); err != nil {
				s.logger.Printf("scheduler job=digest err=%v", err)
			}
		}); err != nil {
			return fmt.Errorf("cron.AddFunc: %w", err)
		}
	}

	s.cron.Start()
	s.logger.Printf("scheduler status=started scrape=%q digest=%q", s.scrapeSpec, s.digestSpec)

	go s.runAll(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler, waiting for a running tick.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Printf("scheduler status=stopped")
}

// RunAll runs every registered producer once, in registry order. Used by
// the manual trigger endpoint as well as the cron tick.
func (s *Scheduler) RunAll(ctx context.Context) {
	s.runAll(ctx)
}

// RunSource runs one named producer. Unknown names are ignored; the
// trigger endpoint validates against the registry first.
func (s *Scheduler) RunSource(ctx context.Context, name string) {
	p, ok := s.registry.Lookup(name)
	if !ok {
		return
	}
	s.runOne(ctx, p)
}

func (s *Scheduler) runAll(ctx context.Context) {
	for _, p := range s.registry.All() {
		s.runOne(ctx, p)
	}
}

func (s *Scheduler) runOne(ctx context.Context, p scraper.Producer) {
	if !s.acquire(ctx, p.Source()) {
		s.logger.Printf("scheduler source=%s status=skipped reason=lock_held", p.Source())
		return
	}
	if _, err := s.pipeline.RunOnce(ctx, p); err != nil {
		s.logger.Printf("scheduler source=%s err=%v", p.Source(), err)
	}
}

func (s *Scheduler) acquire(ctx context.Context, source string) bool {
	if s.locker == nil {
		return true
	}
	ok, err := s.locker.SetIfNotExists(ctx, "scrape:lock:"+source, "1", 30*time.Minute)
	if err != nil {
		// Lock store down: run anyway, the upsert keys make reruns safe.
		return true
	}
	return ok
}
