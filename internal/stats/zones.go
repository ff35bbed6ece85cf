package stats

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/baxromumarov/jobscout/internal/jobs"
)

// DetailFunc fetches the full posting for id.
type DetailFunc func(ctx context.Context, id string) (jobs.Record, error)

type ZoneTypeCount struct {
	Zone    string `json:"zone"`
	JobType string `json:"job_type"`
	Count   int    `json:"count"`
}

// Outcome records what happened to one posting of a batch.
type Outcome struct {
	ID      string `json:"id"`
	Zone    string `json:"zone,omitempty"`
	JobType string `json:"job_type,omitempty"`
	Err     error  `json:"-"`
	Error   string `json:"error,omitempty"`
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

type ZoneReport struct {
	Counts    []ZoneTypeCount `json:"counts"`
	Outcomes  []Outcome       `json:"outcomes"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
}

// Failures returns the outcomes that did not contribute to the counts.
func (r ZoneReport) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

type zoneKey struct {
	zone, jobType string
}

// CountZones fetches each posting in turn and counts (zone, type) pairs. Keys are case
// sensitive. A failed fetch is recorded in the report and skipped.
func CountZones(ctx context.Context, ids []string, fetch DetailFunc) ZoneReport {
	report := ZoneReport{Counts: []ZoneTypeCount{}, Outcomes: make([]Outcome, 0, len(ids))}
	counts := map[zoneKey]int{}

	for _, id := range ids {
		outcome := Outcome{ID: id}
		rec, err := fetch(ctx, id)
		if err != nil {
			outcome.Err = err
			outcome.Error = err.Error()
			report.Failed++
			report.Outcomes = append(report.Outcomes, outcome)
			slog.Warn("job detail skipped", "id", id, "error", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		outcome.Zone = jobs.ResolveOr(rec.Fields, jobs.LocationRules, jobs.Unknown)
		outcome.JobType = jobs.ResolveOr(rec.Fields, jobs.TypeRules, jobs.Unknown)
		counts[zoneKey{outcome.Zone, outcome.JobType}]++
		report.Succeeded++
		report.Outcomes = append(report.Outcomes, outcome)
	}

	for k, n := range counts {
		report.Counts = append(report.Counts, ZoneTypeCount{Zone: k.zone, JobType: k.jobType, Count: n})
	}
	SortZoneCounts(report.Counts)
	return report
}

// SortZoneCounts orders by zone (case-insensitive), then count descending, then type.
func SortZoneCounts(counts []ZoneTypeCount) {
	sort.Slice(counts, func(i, j int) bool {
		a, b := counts[i], counts[j]
		if za, zb := strings.ToLower(a.Zone), strings.ToLower(b.Zone); za != zb {
			return za < zb
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if ta, tb := strings.ToLower(a.JobType), strings.ToLower(b.JobType); ta != tb {
			return ta < tb
		}
		// exact-case tie break
		if a.Zone != b.Zone {
			return a.Zone < b.Zone
		}
		return a.JobType < b.JobType
	})
}
