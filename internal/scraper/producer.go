// Package scraper contains the job-board producers. Each producer turns
// one external source into the normalized ScrapedJob record the rest of
// the pipeline consumes; site-specific parsing stays behind the Producer
// interface.
package scraper

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

// ScrapedJob is the normalized record every producer emits. A job has no
// identity beyond (Source, ExternalID); persistence assigns the rest.
type ScrapedJob struct {
	Source      string
	ExternalID  string
	URL         string
	Title       string
	Company     string
	Location    string
	IsRemote    bool
	SalaryMin   *int
	SalaryMax   *int
	Description string
	TechTags    []string
	PostedAt    *time.Time
}

// Producer is the pluggable source contract. Scrape returns a finite
// batch or fails; retries, politeness and pagination live inside the
// implementation.
type Producer interface {
	Source() string
	Scrape(ctx context.Context) ([]ScrapedJob, error)
}

// Registry maps source names to constructors so callers can trigger a
// single source by name without importing its implementation site.
type Registry struct {
	constructors map[string]func() Producer
}

func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]func() Producer)}
}

func (r *Registry) Register(name string, ctor func() Producer) {
	if r == nil || ctor == nil {
		return
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return
	}
	r.constructors[name] = ctor
}

// Lookup returns a fresh producer for the named source.
func (r *Registry) Lookup(name string) (Producer, bool) {
	if r == nil {
		return nil, false
	}
	ctor, ok := r.constructors[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// Sources lists registered source names, sorted for stable output.
func (r *Registry) Sources() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// All instantiates every registered producer in name order.
func (r *Registry) All() []Producer {
	names := r.Sources()
	out := make([]Producer, 0, len(names))
	for _, name := range names {
		p, ok := r.Lookup(name)
		if !ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

// DefaultRegistry registers every built-in producer.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(remoteOKSource, func() Producer { return NewRemoteOK() })
	r.Register(weWorkRemotelySource, func() Producer { return NewWeWorkRemotely() })
	r.Register(diceSource, func() Producer { return NewDice() })
	r.Register(indeedSource, func() Producer { return NewIndeed() })
	r.Register(linkedInSource, func() Producer { return NewLinkedIn() })
	return r
}

// StableExternalID derives a deterministic external id for
// sources that do not publish one. Same URL, same id, across runs.
func StableExternalID(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	h := sha1.Sum([]byte(u))
	return "urlsha1-" + hex.EncodeToString(h[:])
}
