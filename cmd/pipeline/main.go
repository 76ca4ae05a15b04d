package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"jobfinder/internal/app"
	"jobfinder/internal/config"
	"jobfinder/internal/database/migration"
	"jobfinder/internal/database/seeder"
)

// One-shot pipeline run, for cron jobs and local debugging. The server
// binary schedules the same thing internally.
func main() {
	source := flag.String("source", "all", "source to scrape, or \"all\"")
	timeout := flag.Duration("timeout", 15*time.Minute, "overall run timeout")
	seed := flag.Bool("seed", false, "insert starter search criteria when the table is empty")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := log.Default()

	c, err := app.NewContainer(cfg, logger)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer migCancel()
	r := migration.Runner{Dir: "migrations", Logger: logger}
	if err := r.Run(migCtx, c.DB.SQLDB()); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *seed {
		r := seeder.Runner{Seeders: seeder.Defaults()}
		if err := r.Run(ctx, c.DB); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	producers := c.Registry.All()
	if name := strings.ToLower(strings.TrimSpace(*source)); name != "all" {
		p, ok := c.Registry.Lookup(name)
		if !ok {
			log.Fatalf("unknown source %q, have: %v", name, c.Registry.Sources())
		}
		producers = producers[:0]
		producers = append(producers, p)
	}

	failed := 0
	for _, p := range producers {
		run, err := c.Pipeline.RunOnce(ctx, p)
		if err != nil {
			log.Fatalf("pipeline source=%s audit failure: %v", p.Source(), err)
		}
		if run.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		log.Fatalf("pipeline finished with %d failed source(s)", failed)
	}
}
