package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baxromumarov/jobscout/internal/config"
	"github.com/baxromumarov/jobscout/internal/httpx"
	"github.com/baxromumarov/jobscout/internal/itjobs"
	"github.com/baxromumarov/jobscout/internal/jobs"
	"github.com/baxromumarov/jobscout/internal/observability"
	"github.com/baxromumarov/jobscout/internal/stats"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"metrics": observability.Snapshot(),
	}
	if s.svc.Cache != nil {
		slugs, profiles, err := s.svc.Cache.Counts(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to read cache: "+err.Error())
			return
		}
		resp["cache"] = map[string]int{"slugs": slugs, "profiles": profiles}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	payload, err := s.svc.Listing.Status(r.Context())
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) handleTopJobs(w http.ResponseWriter, r *http.Request) {
	limit := s.limit(r)
	list, err := s.svc.Listing.Top(r.Context(), limit)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": list,
		"count": len(list),
	})
}

func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := itjobs.SearchParams{
		Query:    q.Get("q"),
		Limit:    s.limit(r),
		Company:  q.Get("company"),
		Type:     q.Get("type"),
		Contract: q.Get("contract"),
		Location: q.Get("location"),
		Page:     queryInt(r, "page", 1),
	}
	if strings.TrimSpace(params.Query) == "" {
		respondError(w, http.StatusBadRequest, "q is required")
		return
	}

	payload, err := s.svc.Listing.Search(r.Context(), params)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) handleCompanyJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	location, company := q.Get("location"), q.Get("company")
	if strings.TrimSpace(location) == "" || strings.TrimSpace(company) == "" {
		respondError(w, http.StatusBadRequest, "location and company are required")
		return
	}

	list, err := s.svc.Listing.ListCompany(r.Context(), location, company, s.limit(r))
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": list,
		"count": len(list),
	})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	payload, err := s.svc.Listing.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) handleJobType(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	regime, err := s.svc.Listing.WorkType(r.Context(), id)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": id, "regime": regime})
}

func (s *Server) handleEnrichedJob(w http.ResponseWriter, r *http.Request) {
	enriched, err := s.svc.Enricher.Enrich(r.Context(), chi.URLParam(r, "id"), s.pages(r))
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, enriched)
}

func (s *Server) handleCompanyProfile(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		respondError(w, http.StatusBadRequest, "company name is required")
		return
	}
	respondJSON(w, http.StatusOK, s.svc.Enricher.CompanyProfile(r.Context(), name, s.pages(r)))
}

func (s *Server) handleSkillStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	window, err := stats.ParseWindow(q.Get("start"), q.Get("end"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid window: "+err.Error())
		return
	}

	report, err := s.svc.Stats.Skills(r.Context(), window, s.limit(r))
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleZoneStats(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Stats.Zones(r.Context(), s.limit(r))
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleTeamlyzerSkills(w http.ResponseWriter, r *http.Request) {
	role := strings.TrimSpace(r.URL.Query().Get("role"))
	if role == "" {
		respondError(w, http.StatusBadRequest, "role is required")
		return
	}

	tags, err := s.svc.Stats.TeamlyzerSkills(r.Context(), role, s.pagesOr(r, 3), queryInt(r, "top", 10))
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

func (s *Server) pages(r *http.Request) int {
	return s.pagesOr(r, s.svc.TeamlyzerPages)
}

func (s *Server) pagesOr(r *http.Request, fallback int) int {
	return atMost(queryInt(r, "pages", fallback), s.svc.MaxPages)
}

func (s *Server) limit(r *http.Request) int {
	return atMost(queryInt(r, "limit", 0), s.svc.MaxLimit)
}

func atMost(v, ceiling int) int {
	if ceiling > 0 && v > ceiling {
		return ceiling
	}
	return v
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// respondUpstreamError maps a failed upstream call onto a status code.
func respondUpstreamError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	var fe *httpx.FetchError
	switch {
	case errors.Is(err, config.ErrMissingAPIKey):
		status = http.StatusServiceUnavailable
	case errors.Is(err, jobs.ErrNoJobID):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.As(err, &fe) && fe.Status == http.StatusNotFound:
		status = http.StatusNotFound
	}
	respondError(w, status, err.Error())
}
