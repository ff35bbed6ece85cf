package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/baxromumarov/jobscout/internal/app"
	"github.com/baxromumarov/jobscout/internal/export"
	"github.com/baxromumarov/jobscout/internal/itjobs"
	"github.com/baxromumarov/jobscout/internal/jobs"
	"github.com/baxromumarov/jobscout/internal/stats"
	"github.com/baxromumarov/jobscout/internal/teamlyzer"
)

type cli struct {
	app    *app.App
	stdout io.Writer
	stderr io.Writer
}

func (c *cli) exportJobs(path string, list []jobs.CanonicalJob) error {
	if path == "" {
		return nil
	}
	if err := export.ToFile(path, func(w io.Writer) error { return export.WriteJobs(w, list) }); err != nil {
		return err
	}
	fmt.Fprintf(c.stderr, "Exported %d jobs to %s\n", len(list), path)
	return nil
}

func (c *cli) top(ctx context.Context, args []string) error {
	fs := newFlagSet("top", c.stderr)
	csvPath := fs.String("csv", "", "Export the jobs to this CSV file")
	args, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if err := needArgs("top", args, 1, "N [--csv file]"); err != nil {
		return err
	}
	n, err := atoiArg("N", args[0])
	if err != nil {
		return err
	}

	list, err := c.app.Listing.Top(ctx, n)
	if err != nil {
		return err
	}
	if err := writeJSON(c.stdout, jobs.RawList(list)); err != nil {
		return err
	}
	return c.exportJobs(*csvPath, list)
}

func (c *cli) search(ctx context.Context, args []string) error {
	fs := newFlagSet("search", c.stderr)
	limit := fs.Int("limit", 10, "Number of results")
	company := fs.String("company", "", "Filter by company name")
	jobType := fs.String("type", "", "Filter by job type")
	contract := fs.String("contract", "", "Filter by contract type")
	location := fs.String("location", "", "Filter by location")
	page := fs.Int("page", 1, "Page number")
	args, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if err := needArgs("search", args, 1, "QUERY [flags]"); err != nil {
		return err
	}

	payload, err := c.app.Listing.Search(ctx, itjobs.SearchParams{
		Query:    strings.Join(args, " "),
		Limit:    *limit,
		Company:  *company,
		Type:     *jobType,
		Contract: *contract,
		Location: *location,
		Page:     *page,
	})
	if err != nil {
		return err
	}
	return writeJSON(c.stdout, payload)
}

func (c *cli) get(ctx context.Context, args []string) error {
	fs := newFlagSet("get", c.stderr)
	enrich := fs.Bool("enrich", false, "Attach the employer's Teamlyzer profile")
	pages := fs.Int("pages", c.app.Config.Teamlyzer.FallbackPages, "Directory pages to scan when the ranking has no match")
	csvPath := fs.String("csv", "", "Export the job to this CSV file")
	args, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if err := needArgs("get", args, 1, "ID [--enrich] [--pages n] [--csv file]"); err != nil {
		return err
	}
	id := args[0]

	if !*enrich {
		payload, err := c.app.Listing.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := writeJSON(c.stdout, payload); err != nil {
			return err
		}
		return c.exportJobs(*csvPath, []jobs.CanonicalJob{jobs.FromRecord(payload.Unwrap())})
	}

	enriched, err := c.app.Enricher.Enrich(ctx, id, *pages)
	if err != nil {
		return err
	}
	if err := writeJSON(c.stdout, enriched); err != nil {
		return err
	}
	if *csvPath == "" {
		return nil
	}
	rows := []teamlyzer.EnrichedJob{enriched}
	if err := export.ToFile(*csvPath, func(w io.Writer) error { return export.WriteEnriched(w, rows) }); err != nil {
		return err
	}
	fmt.Fprintf(c.stderr, "Exported 1 job to %s\n", *csvPath)
	return nil
}

func (c *cli) workType(ctx context.Context, args []string) error {
	if err := needArgs("type", args, 1, "ID"); err != nil {
		return err
	}
	regime, err := c.app.Listing.WorkType(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, regime)
	return nil
}

func (c *cli) listCompany(ctx context.Context, args []string) error {
	fs := newFlagSet("list-company", c.stderr)
	csvPath := fs.String("csv", "", "Export the jobs to this CSV file")
	args, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if err := needArgs("list-company", args, 2, "LOCATION COMPANY [LIMIT] [--csv file]"); err != nil {
		return err
	}
	limit := 0
	if len(args) > 2 {
		if limit, err = atoiArg("LIMIT", args[2]); err != nil {
			return err
		}
	}

	list, err := c.app.Listing.ListCompany(ctx, args[0], args[1], limit)
	if err != nil {
		return err
	}
	if err := writeJSON(c.stdout, jobs.RawList(list)); err != nil {
		return err
	}
	return c.exportJobs(*csvPath, list)
}

func (c *cli) skills(ctx context.Context, args []string) error {
	fs := newFlagSet("skills", c.stderr)
	limit := fs.Int("limit", 1000, "Maximum jobs to scan")
	csvPath := fs.String("csv", "", "Export the matched jobs to this CSV file")
	args, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if err := needArgs("skills", args, 2, "START END [--limit n] [--csv file]"); err != nil {
		return err
	}
	window, err := stats.ParseWindow(args[0], args[1])
	if err != nil {
		return err
	}

	report, err := c.app.Stats.Skills(ctx, window, *limit)
	if err != nil {
		return err
	}
	if err := writeJSON(c.stdout, []stats.SkillTable{report.Counts}); err != nil {
		return err
	}
	return c.exportJobs(*csvPath, report.Matched)
}

func (c *cli) statistics(ctx context.Context, args []string) error {
	fs := newFlagSet("statistics", c.stderr)
	limit := fs.Int("limit", 200, "Maximum jobs to scan")
	out := fs.String("out", "statistics.csv", "CSV output path")
	delimiter := fs.String("delimiter", ",", "CSV delimiter: ',' or ';'")
	args, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if err := needArgs("statistics", args, 1, "zone [--limit n] [--out file] [--delimiter ,|;]"); err != nil {
		return err
	}
	if group := strings.ToLower(strings.TrimSpace(args[0])); group != "zone" {
		return fmt.Errorf("unsupported grouping %q, use: statistics zone", args[0])
	}
	comma, err := parseDelimiter(*delimiter)
	if err != nil {
		return err
	}

	report, err := c.app.Stats.Zones(ctx, *limit)
	if err != nil {
		return err
	}
	if err := export.ToFile(*out, func(w io.Writer) error { return export.WriteZones(w, report.Counts, comma) }); err != nil {
		return err
	}
	fmt.Fprintf(c.stderr, "Wrote %d zone rows to %s (%d jobs, %d failed)\n",
		len(report.Counts), *out, report.Succeeded, report.Failed)
	return nil
}

func (c *cli) listSkills(ctx context.Context, args []string) error {
	fs := newFlagSet("list-skills", c.stderr)
	top := fs.Int("top", 10, "Number of skills to return")
	pages := fs.Int("pages", 3, "Teamlyzer result pages to scan")
	args, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if err := needArgs("list-skills", args, 1, "ROLE [--top n] [--pages n]"); err != nil {
		return err
	}

	tags, err := c.app.Stats.TeamlyzerSkills(ctx, strings.Join(args, " "), *pages, *top)
	if err != nil {
		return err
	}
	return writeJSON(c.stdout, tags)
}

func (c *cli) status(ctx context.Context) error {
	payload, err := c.app.Listing.Status(ctx)
	if err != nil {
		return err
	}
	return writeJSON(c.stdout, payload)
}
