package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/baxromumarov/jobscout/internal/core"
	"github.com/baxromumarov/jobscout/internal/observability"
)

// CacheCounter reports cache sizes for /stats. *store.Store satisfies it.
type CacheCounter interface {
	Counts(ctx context.Context) (slugs, profiles int, err error)
}

// Services are the operations exposed over HTTP. Cache may be nil.
type Services struct {
	Listing  *core.ListingService
	Enricher *core.Enricher
	Stats    *core.StatsService
	Cache    CacheCounter

	// TeamlyzerPages is the directory budget when a request does not set pages.
	TeamlyzerPages int
	// MaxPages and MaxLimit cap the pages and limit parameters; zero means no cap.
	MaxPages int
	MaxLimit int
}

type Server struct {
	router *chi.Mux
	svc    Services
}

func NewServer(svc Services) *Server {
	s := &Server{
		router: chi.NewRouter(),
		svc:    svc,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/stats", s.handleStats)
	s.router.Handle("/metrics", observability.MetricsHandler())

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)

		r.Get("/jobs/top", s.handleTopJobs)
		r.Get("/jobs/search", s.handleSearchJobs)
		r.Get("/jobs/company", s.handleCompanyJobs)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Get("/jobs/{id}/type", s.handleJobType)
		r.Get("/jobs/{id}/enriched", s.handleEnrichedJob)

		r.Get("/companies/{name}/profile", s.handleCompanyProfile)

		r.Get("/stats/skills", s.handleSkillStats)
		r.Get("/stats/zones", s.handleZoneStats)
		r.Get("/teamlyzer/skills", s.handleTeamlyzerSkills)
	})
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
