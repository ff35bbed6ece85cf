package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/jobscout/internal/config"
	"github.com/baxromumarov/jobscout/internal/core"
	"github.com/baxromumarov/jobscout/internal/httpx"
	"github.com/baxromumarov/jobscout/internal/itjobs"
	"github.com/baxromumarov/jobscout/internal/jobs"
	"github.com/baxromumarov/jobscout/internal/teamlyzer"
)

type stubSource struct {
	list    string
	details map[string]string
	err     error
	limits  []int
}

func decode(body string) jobs.Payload {
	p, err := jobs.DecodePayload([]byte(body))
	if err != nil {
		panic(err)
	}
	return p
}

func (s *stubSource) List(_ context.Context, p itjobs.SearchParams) (jobs.Payload, error) {
	s.limits = append(s.limits, p.Limit)
	if s.err != nil {
		return jobs.Payload{}, s.err
	}
	return decode(s.list), nil
}

func (s *stubSource) Search(ctx context.Context, p itjobs.SearchParams) (jobs.Payload, error) {
	return s.List(ctx, p)
}

func (s *stubSource) Get(_ context.Context, id string) (jobs.Payload, error) {
	body, ok := s.details[id]
	if !ok {
		return jobs.Payload{}, &httpx.FetchError{URL: "https://api.test/job/get.json", Status: http.StatusNotFound}
	}
	return decode(body), nil
}

func (s *stubSource) Status(context.Context) (jobs.Payload, error) {
	return decode(`{"status":"ok"}`), nil
}

func (s *stubSource) Detail(ctx context.Context, id string) (jobs.Record, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return jobs.Record{}, err
	}
	return p.Unwrap(), nil
}

type stubDirectory struct {
	budgets []int
}

func (*stubDirectory) FallbackPages() int {
	return 3
}

func (d *stubDirectory) Resolve(_ context.Context, name string, pages int) teamlyzer.Resolution {
	d.budgets = append(d.budgets, pages)
	if name == "Acme" {
		return teamlyzer.Resolution{Slug: "acme", Found: true, Pages: pages}
	}
	return teamlyzer.Resolution{Pages: pages}
}

func (*stubDirectory) FetchProfile(_ context.Context, slug string) (teamlyzer.CompanyProfile, error) {
	p := teamlyzer.EmptyProfile()
	p.Slug = &slug
	p.Rating = teamlyzer.NewRating("3.8")
	return p, nil
}

func (*stubDirectory) TopSkills(context.Context, string, int, int) ([]teamlyzer.TagCount, error) {
	return []teamlyzer.TagCount{{Skill: "python", Count: 4}}, nil
}

func newTestServer(src *stubSource) *Server {
	dir := &stubDirectory{}
	return NewServer(Services{
		Listing:        core.NewListingService(src),
		Enricher:       core.NewEnricher(src, dir, nil, 0),
		Stats:          core.NewStatsService(src, dir, []string{"python", "aws"}),
		TeamlyzerPages: 3,
	})
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(&stubSource{}), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestTopJobs(t *testing.T) {
	s := newTestServer(&stubSource{list: `{"results":[{"id":1,"title":"Go Dev"}]}`})
	rec := get(t, s, "/api/jobs/top?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []jobs.CanonicalJob `json:"items"`
		Count int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "Go Dev", body.Items[0].Title)
}

func TestSearchEchoesPayload(t *testing.T) {
	s := newTestServer(&stubSource{list: `{"total":1,"results":[{"id":1}]}`})

	rec := get(t, s, "/api/jobs/search?q=golang")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":1,"results":[{"id":1}]}`, rec.Body.String())

	rec = get(t, s, "/api/jobs/search")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJobTypeAndNotFound(t *testing.T) {
	s := newTestServer(&stubSource{details: map[string]string{"1": `{"id":1,"body":"Trabalho remoto"}`}})

	rec := get(t, s, "/api/jobs/1/type")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"1","regime":"remote"}`, rec.Body.String())

	rec = get(t, s, "/api/jobs/2")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEnrichedJob(t *testing.T) {
	s := newTestServer(&stubSource{details: map[string]string{
		"7": `{"job":{"id":7,"title":"Dev","company":{"name":"Acme"}}}`,
	}})

	rec := get(t, s, "/api/jobs/7/enriched")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Job       jobs.CanonicalJob `json:"job"`
		Teamlyzer struct {
			Slug     string   `json:"slug"`
			Rating   float64  `json:"rating"`
			Benefits []string `json:"benefits"`
		} `json:"teamlyzer"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Acme", body.Job.CompanyName)
	assert.Equal(t, "acme", body.Teamlyzer.Slug)
	assert.Equal(t, 3.8, body.Teamlyzer.Rating)
	assert.Equal(t, []string{}, body.Teamlyzer.Benefits)
}

func TestCompanyProfileMiss(t *testing.T) {
	rec := get(t, newTestServer(&stubSource{}), "/api/companies/Nobody/profile")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"slug":null,"rating":null,"description":null,"salary_range":null,"benefits":[]}`, rec.Body.String())
}

func TestSkillStats(t *testing.T) {
	s := newTestServer(&stubSource{list: `[{"id":1,"title":"python","description":"aws","date":"2025-02-01"}]`})

	rec := get(t, s, "/api/stats/skills?start=2025-01-01&end=2025-12-31")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Counts json.RawMessage `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.JSONEq(t, `{"python":1,"aws":1}`, string(body.Counts))

	rec = get(t, s, "/api/stats/skills?start=bad")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMissingAPIKeyIsUnavailable(t *testing.T) {
	s := newTestServer(&stubSource{err: config.ErrMissingAPIKey})
	rec := get(t, s, "/api/stats/zones")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTeamlyzerSkillsRequiresRole(t *testing.T) {
	s := newTestServer(&stubSource{})
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/teamlyzer/skills").Code)

	rec := get(t, s, "/api/teamlyzer/skills?role=data+scientist")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"skill":"python","count":4}]`, rec.Body.String())
}

func TestStatsAndMetrics(t *testing.T) {
	s := newTestServer(&stubSource{})
	assert.Equal(t, http.StatusOK, get(t, s, "/stats").Code)
	assert.Equal(t, http.StatusOK, get(t, s, "/metrics").Code)
}

func TestPagesAndLimitAreCapped(t *testing.T) {
	src := &stubSource{list: `[]`}
	dir := &stubDirectory{}
	s := NewServer(Services{
		Listing:        core.NewListingService(src),
		Enricher:       core.NewEnricher(src, dir, nil, 0),
		Stats:          core.NewStatsService(src, dir, []string{"python"}),
		TeamlyzerPages: 3,
		MaxPages:       10,
		MaxLimit:       50,
	})

	require.Equal(t, http.StatusOK, get(t, s, "/api/companies/Nobody/profile?pages=100000").Code)
	require.Equal(t, http.StatusOK, get(t, s, "/api/companies/Nobody/profile?pages=4").Code)
	require.Equal(t, http.StatusOK, get(t, s, "/api/companies/Nobody/profile").Code)
	assert.Equal(t, []int{10, 4, 3}, dir.budgets)

	require.Equal(t, http.StatusOK, get(t, s, "/api/jobs/top?limit=100000").Code)
	require.Equal(t, http.StatusOK, get(t, s, "/api/jobs/top?limit=7").Code)
	assert.Equal(t, []int{50, 7}, src.limits)
}
