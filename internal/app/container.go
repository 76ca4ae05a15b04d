package app

import (
	"context"
	"log"
	"strings"
	"time"

	"jobfinder/internal/config"
	"jobfinder/internal/database"
	dbpostgres "jobfinder/internal/database/postgres"
	"jobfinder/internal/infrastructure/cache"
	"jobfinder/internal/notify"
	"jobfinder/internal/repository"
	"jobfinder/internal/scraper"
	"jobfinder/internal/usecase"
	"jobfinder/internal/ws"
)

// Container wires every layer together once, at startup. Both binaries
// build one and pick the pieces they need.
type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub

	Jobs     repository.JobRepository
	Criteria repository.CriteriaRepository
	Matches  repository.MatchRepository
	Runs     repository.ScrapeRunRepository

	Registry *scraper.Registry
	Notifier *notify.Notifier

	Ingest   usecase.IngestUsecase
	Matcher  usecase.MatchUsecase
	Pipeline usecase.PipelineUsecase
	CritUC   usecase.CriteriaUsecase
	Listing  usecase.JobListUsecase
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	redisCache := cache.NewRedis(cfg.Redis, logger)

	jobs := repository.NewPostgresJobRepository(db)
	criteria := repository.NewPostgresCriteriaRepository(db)
	matches := repository.NewPostgresMatchRepository(db)
	runs := repository.NewPostgresScrapeRunRepository(db)

	notifier := notify.New(matches, redisCache, cfg.Notify.ImmediateScoreThreshold, logger)

	matcher := usecase.NewMatchUsecase(jobs, criteria, matches, notifier.OnMatch, logger)
	ingest := usecase.NewIngestUsecase(jobs, logger)
	pipeline := usecase.NewPipelineUsecase(runs, ingest, matcher, redisCache, logger)
	critUC := usecase.NewCriteriaUsecase(criteria, matcher, redisCache, logger)
	listing := usecase.NewJobListUsecase(matches, runs, redisCache, cfg.Scrape.ListingCacheTTL, logger)

	registry := scraper.DefaultRegistry()
	registerCareers(registry, cfg.Scrape)

	return &Container{
		Config:   cfg,
		DB:       db,
		Cache:    redisCache,
		Hub:      ws.NewHub(logger),
		Jobs:     jobs,
		Criteria: criteria,
		Matches:  matches,
		Runs:     runs,
		Registry: registry,
		Notifier: notifier,
		Ingest:   ingest,
		Matcher:  matcher,
		Pipeline: pipeline,
		CritUC:   critUC,
		Listing:  listing,
	}, nil
}

// registerCareers adds the configured company careers crawl, when one is
// configured.
func registerCareers(r *scraper.Registry, cfg config.ScrapeConfig) {
	name := strings.TrimSpace(cfg.CareersSourceName)
	if name == "" || strings.TrimSpace(cfg.CareersListURL) == "" {
		return
	}
	target := scraper.CareersTarget{
		SourceName:         name,
		ListURL:            cfg.CareersListURL,
		LinkSelector:       cfg.CareersLinkSelector,
		TitleSelector:      cfg.CareersTitleSelector,
		LocationSelector:   cfg.CareersLocSelector,
		DetailBodySelector: cfg.CareersBodySelector,
	}
	r.Register(name, func() scraper.Producer { return scraper.NewCareersPage(target) })
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
