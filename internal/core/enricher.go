package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/baxromumarov/jobscout/internal/content"
	"github.com/baxromumarov/jobscout/internal/jobs"
	"github.com/baxromumarov/jobscout/internal/observability"
	"github.com/baxromumarov/jobscout/internal/teamlyzer"
)

const component = "enricher"

// Enricher attaches Teamlyzer reputation facts to postings. Resolutions and profiles go
// through the cache when one is configured.
type Enricher struct {
	source    JobSource
	directory CompanyDirectory
	cache     Cache
	ttl       time.Duration
}

// NewEnricher builds an Enricher. cache may be nil.
func NewEnricher(source JobSource, directory CompanyDirectory, cache Cache, ttl time.Duration) *Enricher {
	return &Enricher{source: source, directory: directory, cache: cache, ttl: ttl}
}

// Enrich fetches posting id and attaches the profile of its employer. A negative pages uses
// the configured directory budget. Only the job fetch can fail; a company that cannot be
// resolved yields an empty profile.
func (e *Enricher) Enrich(ctx context.Context, id string, pages int) (teamlyzer.EnrichedJob, error) {
	rec, err := e.source.Detail(ctx, id)
	if err != nil {
		return teamlyzer.EnrichedJob{}, fmt.Errorf("get job %s: %w", id, err)
	}
	return e.EnrichRecord(ctx, rec, pages), nil
}

func (e *Enricher) EnrichRecord(ctx context.Context, rec jobs.Record, pages int) teamlyzer.EnrichedJob {
	job := jobs.FromRecord(rec)
	observability.AddJobsProcessed("enrich", 1)
	return teamlyzer.EnrichedJob{
		Job:     job,
		Company: e.CompanyProfile(ctx, job.CompanyName, pages),
	}
}

// CompanyProfile resolves name and scrapes its profile.
func (e *Enricher) CompanyProfile(ctx context.Context, name string, pages int) teamlyzer.CompanyProfile {
	slug, ok := e.resolve(ctx, name, pages)
	if !ok {
		return teamlyzer.EmptyProfile()
	}
	return e.profile(ctx, slug)
}

// resolve looks the company up, going through the cache when one is set. A cached miss only
// answers requests whose budget it covered. Inconclusive searches (some page failed without
// a hit) are never stored.
func (e *Enricher) resolve(ctx context.Context, name string, pages int) (string, bool) {
	key := content.Normalize(name)
	if key == "" {
		return "", false
	}
	if pages < 0 {
		pages = e.directory.FallbackPages()
	}

	if e.cache != nil {
		entry, hit, err := e.cache.LookupSlug(ctx, key, e.ttl)
		switch {
		case err != nil:
			e.cacheFailed("lookup slug", err)
		case hit && (entry.Found || entry.Pages >= pages):
			observability.IncCacheHit("slug")
			return entry.Slug, entry.Found
		}
	}

	res := e.directory.Resolve(ctx, name, pages)
	if ctx.Err() != nil || e.cache == nil {
		return res.Slug, res.Found
	}
	if !res.Conclusive() {
		slog.Warn("company search incomplete, not cached", "name", name, "failed_pages", res.Failed)
		return res.Slug, res.Found
	}
	if err := e.cache.SaveSlug(ctx, key, res.Slug, res.Found, res.Pages); err != nil {
		e.cacheFailed("save slug", err)
	}
	return res.Slug, res.Found
}

// profile scrapes slug through the cache. Profiles are stored only when both pages loaded.
func (e *Enricher) profile(ctx context.Context, slug string) teamlyzer.CompanyProfile {
	if e.cache != nil {
		p, hit, err := e.cache.LookupProfile(ctx, slug, e.ttl)
		switch {
		case err != nil:
			e.cacheFailed("lookup profile", err)
		case hit:
			observability.IncCacheHit("profile")
			return p
		}
	}

	p, err := e.directory.FetchProfile(ctx, slug)
	if e.cache == nil || ctx.Err() != nil {
		return p
	}
	if err != nil {
		slog.Warn("company profile incomplete, not cached", "slug", slug, "error", err)
		return p
	}
	if err := e.cache.SaveProfile(ctx, p); err != nil {
		e.cacheFailed("save profile", err)
	}
	return p
}

func (e *Enricher) cacheFailed(op string, err error) {
	observability.IncError(observability.ErrorStore, component)
	slog.Warn("cache "+op+" failed", "error", err)
}
