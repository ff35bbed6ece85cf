package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/baxromumarov/jobscout/internal/itjobs"
	"github.com/baxromumarov/jobscout/internal/jobs"
	"github.com/baxromumarov/jobscout/internal/observability"
	"github.com/baxromumarov/jobscout/internal/stats"
	"github.com/baxromumarov/jobscout/internal/teamlyzer"
)

// StatsService computes aggregate statistics over listed postings.
type StatsService struct {
	source     JobSource
	directory  CompanyDirectory
	vocabulary []string
}

func NewStatsService(source JobSource, directory CompanyDirectory, vocabulary []string) *StatsService {
	return &StatsService{source: source, directory: directory, vocabulary: vocabulary}
}

// Skills lists up to limit postings and counts the vocabulary inside window.
func (s *StatsService) Skills(ctx context.Context, window stats.Window, limit int) (stats.SkillReport, error) {
	if limit <= 0 {
		limit = DefaultSkillsLimit
	}
	payload, err := s.source.List(ctx, itjobs.SearchParams{Limit: limit})
	if err != nil {
		return stats.SkillReport{}, fmt.Errorf("list jobs: %w", err)
	}
	postings := jobs.FromPayload(payload)
	report := stats.CountSkills(postings, s.vocabulary, window)
	observability.AddJobsProcessed("skills", len(postings))
	slog.Info("skills counted",
		"listed", len(postings),
		"matched", len(report.Matched),
		"undated", report.Undated,
		"out_of_window", report.OutOfWindow,
	)
	return report, nil
}

// Zones lists up to limit postings, then fetches each one's detail to count zone and type.
// Listed postings without an id are skipped.
func (s *StatsService) Zones(ctx context.Context, limit int) (stats.ZoneReport, error) {
	if limit <= 0 {
		limit = DefaultZonesLimit
	}
	payload, err := s.source.List(ctx, itjobs.SearchParams{Limit: limit})
	if err != nil {
		return stats.ZoneReport{}, fmt.Errorf("list jobs: %w", err)
	}

	records := payload.Records()
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		id, err := jobs.RecordID(rec)
		if err != nil {
			slog.Debug("listed job skipped", "error", err)
			continue
		}
		ids = append(ids, id)
	}

	report := stats.CountZones(ctx, ids, s.source.Detail)
	observability.AddJobsProcessed("zones", report.Succeeded)
	slog.Info("zones counted", "ids", len(ids), "succeeded", report.Succeeded, "failed", report.Failed)
	return report, nil
}

// TeamlyzerSkills returns the most frequent job tags for role on Teamlyzer.
func (s *StatsService) TeamlyzerSkills(ctx context.Context, role string, pages, top int) ([]teamlyzer.TagCount, error) {
	tags, err := s.directory.TopSkills(ctx, role, pages, top)
	if err != nil {
		return nil, fmt.Errorf("teamlyzer skills for %q: %w", role, err)
	}
	return tags, nil
}
