package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/jobscout/internal/itjobs"
	"github.com/baxromumarov/jobscout/internal/jobs"
	"github.com/baxromumarov/jobscout/internal/store"
	"github.com/baxromumarov/jobscout/internal/teamlyzer"
)

var errNotFound = errors.New("not found")

type fakeSource struct {
	t        *testing.T
	list     string
	search   string
	details  map[string]string
	params   []itjobs.SearchParams
	detailed []string
}

func (f *fakeSource) payload(body string) jobs.Payload {
	p, err := jobs.DecodePayload([]byte(body))
	require.NoError(f.t, err)
	return p
}

func (f *fakeSource) List(_ context.Context, params itjobs.SearchParams) (jobs.Payload, error) {
	f.params = append(f.params, params)
	return f.payload(f.list), nil
}

func (f *fakeSource) Search(_ context.Context, params itjobs.SearchParams) (jobs.Payload, error) {
	f.params = append(f.params, params)
	return f.payload(f.search), nil
}

func (f *fakeSource) Get(_ context.Context, id string) (jobs.Payload, error) {
	body, ok := f.details[id]
	if !ok {
		return jobs.Payload{}, errNotFound
	}
	return f.payload(body), nil
}

func (f *fakeSource) Status(context.Context) (jobs.Payload, error) {
	return f.payload(`{"status":"ok"}`), nil
}

func (f *fakeSource) Detail(ctx context.Context, id string) (jobs.Record, error) {
	f.detailed = append(f.detailed, id)
	p, err := f.Get(ctx, id)
	if err != nil {
		return jobs.Record{}, err
	}
	return p.Unwrap(), nil
}

type fakeDirectory struct {
	slugs    map[string]string
	profiles map[string]teamlyzer.CompanyProfile
	// onPage places a company on a directory page; companies not listed are in the ranking.
	onPage map[string]int
	// down makes every page fetch fail.
	down bool
	// brokenBenefits fails the benefits page of these slugs.
	brokenBenefits map[string]bool
	resolved       []string
	budgets        []int
	scraped        []string
}

func (f *fakeDirectory) FallbackPages() int {
	return 2
}

func (f *fakeDirectory) Resolve(_ context.Context, name string, maxPages int) teamlyzer.Resolution {
	f.resolved = append(f.resolved, name)
	f.budgets = append(f.budgets, maxPages)
	res := teamlyzer.Resolution{Pages: maxPages}
	if f.down {
		res.Failed = 1 + maxPages
		return res
	}
	slug, ok := f.slugs[name]
	if !ok || f.onPage[name] > maxPages {
		return res
	}
	res.Slug, res.Found = slug, true
	return res
}

func (f *fakeDirectory) FetchProfile(_ context.Context, slug string) (teamlyzer.CompanyProfile, error) {
	f.scraped = append(f.scraped, slug)
	if f.down {
		p := teamlyzer.EmptyProfile()
		p.Slug = &slug
		return p, errors.New("teamlyzer down")
	}
	p, ok := f.profiles[slug]
	if !ok {
		p = teamlyzer.EmptyProfile()
		p.Slug = &slug
	}
	if f.brokenBenefits[slug] {
		p.Benefits = []string{}
		return p, errors.New("benefits " + slug + ": status 500")
	}
	return p, nil
}

func (f *fakeDirectory) TopSkills(_ context.Context, role string, _, top int) ([]teamlyzer.TagCount, error) {
	if role == "" {
		return nil, errors.New("role is empty")
	}
	return []teamlyzer.TagCount{{Skill: "python", Count: 3}, {Skill: "sql", Count: 2}}[:top], nil
}

type memoryCache struct {
	slugs    map[string]store.SlugEntry
	profiles map[string]teamlyzer.CompanyProfile
}

func newMemoryCache() *memoryCache {
	return &memoryCache{slugs: map[string]store.SlugEntry{}, profiles: map[string]teamlyzer.CompanyProfile{}}
}

func (m *memoryCache) LookupSlug(_ context.Context, key string, _ time.Duration) (store.SlugEntry, bool, error) {
	e, ok := m.slugs[key]
	return e, ok, nil
}

func (m *memoryCache) SaveSlug(_ context.Context, key, slug string, found bool, pages int) error {
	m.slugs[key] = store.SlugEntry{NameKey: key, Slug: slug, Found: found, Pages: pages}
	return nil
}

func (m *memoryCache) LookupProfile(_ context.Context, slug string, _ time.Duration) (teamlyzer.CompanyProfile, bool, error) {
	p, ok := m.profiles[slug]
	return p, ok, nil
}

func (m *memoryCache) SaveProfile(_ context.Context, p teamlyzer.CompanyProfile) error {
	m.profiles[*p.Slug] = p
	return nil
}
