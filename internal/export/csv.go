package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/baxromumarov/jobscout/internal/jobs"
	"github.com/baxromumarov/jobscout/internal/stats"
	"github.com/baxromumarov/jobscout/internal/teamlyzer"
)

var (
	JobsHeader     = []string{"title", "company", "description", "publication_date", "salary", "location"}
	EnrichedHeader = []string{"id", "title", "company", "location", "type", "publication_date", "rating", "description", "salary", "benefits"}
	ZonesHeader    = []string{"zone", "job_type", "count"}
)

// WriteJobs writes one comma-separated row per posting. An empty list still gets the header.
func WriteJobs(w io.Writer, postings []jobs.CanonicalJob) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(JobsHeader); err != nil {
		return err
	}
	for _, j := range postings {
		row := []string{j.Title, j.CompanyName, j.Description, j.PublishedDate, j.Salary, j.Location}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEnriched writes semicolon-separated rows; benefits are joined with "; ".
func WriteEnriched(w io.Writer, rows []teamlyzer.EnrichedJob) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(EnrichedHeader); err != nil {
		return err
	}
	for _, e := range rows {
		p := e.Company
		rating := ""
		if p.Rating != nil {
			rating = p.Rating.String()
		}
		row := []string{
			e.Job.ID,
			e.Job.Title,
			e.Job.CompanyName,
			e.Job.Location,
			e.Job.JobType,
			e.Job.PublishedDate,
			rating,
			deref(p.Description),
			deref(p.SalaryRange),
			strings.Join(p.Benefits, "; "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteZones writes the zone/type table with the given delimiter (',' or ';').
func WriteZones(w io.Writer, counts []stats.ZoneTypeCount, delimiter rune) error {
	if delimiter != ',' && delimiter != ';' {
		return fmt.Errorf("unsupported delimiter %q", delimiter)
	}
	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	if err := cw.Write(ZonesHeader); err != nil {
		return err
	}
	for _, c := range counts {
		if err := cw.Write([]string{c.Zone, c.JobType, strconv.Itoa(c.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToFile creates path and runs write against it.
func ToFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
