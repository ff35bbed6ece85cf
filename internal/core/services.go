package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/baxromumarov/jobscout/internal/itjobs"
	"github.com/baxromumarov/jobscout/internal/jobs"
	"github.com/baxromumarov/jobscout/internal/store"
	"github.com/baxromumarov/jobscout/internal/teamlyzer"
)

const (
	DefaultTopLimit     = 10
	DefaultCompanyLimit = 50
	DefaultSkillsLimit  = 1000
	DefaultZonesLimit   = 200

	partTime = "part-time"
)

// JobSource is the job board API. *itjobs.Client satisfies it.
type JobSource interface {
	List(ctx context.Context, params itjobs.SearchParams) (jobs.Payload, error)
	Search(ctx context.Context, params itjobs.SearchParams) (jobs.Payload, error)
	Get(ctx context.Context, id string) (jobs.Payload, error)
	Status(ctx context.Context) (jobs.Payload, error)
	Detail(ctx context.Context, id string) (jobs.Record, error)
}

// CompanyDirectory is the reputation site. *teamlyzer.Client satisfies it.
type CompanyDirectory interface {
	Resolve(ctx context.Context, name string, maxPages int) teamlyzer.Resolution
	FetchProfile(ctx context.Context, slug string) (teamlyzer.CompanyProfile, error)
	FallbackPages() int
	TopSkills(ctx context.Context, role string, pages, top int) ([]teamlyzer.TagCount, error)
}

// Cache persists resolutions and profiles between runs. *store.Store satisfies it.
type Cache interface {
	LookupSlug(ctx context.Context, nameKey string, ttl time.Duration) (store.SlugEntry, bool, error)
	SaveSlug(ctx context.Context, nameKey, slug string, found bool, pages int) error
	LookupProfile(ctx context.Context, slug string, ttl time.Duration) (teamlyzer.CompanyProfile, bool, error)
	SaveProfile(ctx context.Context, p teamlyzer.CompanyProfile) error
}

type ListingService struct {
	source JobSource
}

func NewListingService(source JobSource) *ListingService {
	return &ListingService{source: source}
}

// Top returns the n most recent postings.
func (s *ListingService) Top(ctx context.Context, n int) ([]jobs.CanonicalJob, error) {
	if n <= 0 {
		n = DefaultTopLimit
	}
	payload, err := s.source.List(ctx, itjobs.SearchParams{Limit: n})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs.FromPayload(payload), nil
}

// Search passes the query through and returns the response unchanged.
func (s *ListingService) Search(ctx context.Context, params itjobs.SearchParams) (jobs.Payload, error) {
	if strings.TrimSpace(params.Query) == "" {
		return jobs.Payload{}, errors.New("search query is empty")
	}
	if params.Limit <= 0 {
		params.Limit = DefaultTopLimit
	}
	payload, err := s.source.Search(ctx, params)
	if err != nil {
		return jobs.Payload{}, fmt.Errorf("search jobs: %w", err)
	}
	return payload, nil
}

// ListCompany returns part-time postings of company in location. The company name doubles
// as the search query.
func (s *ListingService) ListCompany(ctx context.Context, location, company string, limit int) ([]jobs.CanonicalJob, error) {
	location, company = strings.TrimSpace(location), strings.TrimSpace(company)
	if location == "" || company == "" {
		return nil, errors.New("location and company are required")
	}
	if limit <= 0 {
		limit = DefaultCompanyLimit
	}
	payload, err := s.source.Search(ctx, itjobs.SearchParams{
		Query:    company,
		Limit:    limit,
		Company:  company,
		Type:     partTime,
		Location: location,
	})
	if err != nil {
		return nil, fmt.Errorf("search company jobs: %w", err)
	}
	return jobs.FromPayload(payload), nil
}

func (s *ListingService) Get(ctx context.Context, id string) (jobs.Payload, error) {
	payload, err := s.source.Get(ctx, id)
	if err != nil {
		return jobs.Payload{}, fmt.Errorf("get job %s: %w", id, err)
	}
	return payload, nil
}

func (s *ListingService) Status(ctx context.Context) (jobs.Payload, error) {
	payload, err := s.source.Status(ctx)
	if err != nil {
		return jobs.Payload{}, fmt.Errorf("api status: %w", err)
	}
	return payload, nil
}

// WorkType reports remote, hybrid, on-site or other for one posting.
func (s *ListingService) WorkType(ctx context.Context, id string) (string, error) {
	rec, err := s.source.Detail(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get job %s: %w", id, err)
	}
	return jobs.WorkRegime(rec), nil
}
