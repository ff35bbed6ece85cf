package teamlyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/baxromumarov/jobscout/internal/content"
	"github.com/baxromumarov/jobscout/internal/jobs"
)

// CompanyProfile holds the reputation facts scraped for one company. Missing facts stay nil.
type CompanyProfile struct {
	Slug        *string  `json:"slug"`
	Rating      *Rating  `json:"rating"`
	Description *string  `json:"description"`
	SalaryRange *string  `json:"salary_range"`
	Benefits    []string `json:"benefits"`
}

// EnrichedJob is a posting together with the reputation facts of its employer.
type EnrichedJob struct {
	Job     jobs.CanonicalJob `json:"job"`
	Company CompanyProfile    `json:"teamlyzer"`
}

func EmptyProfile() CompanyProfile {
	return CompanyProfile{Benefits: []string{}}
}

// Profile scrapes the overview and benefits pages of slug. The two pages are independent:
// a failure on one leaves only its own fields nil.
func (c *Client) Profile(ctx context.Context, slug string) CompanyProfile {
	profile, _ := c.FetchProfile(ctx, slug)
	return profile
}

// FetchProfile is Profile that also reports the page failures. The profile is filled from
// whatever pages succeeded even when the error is non-nil.
func (c *Client) FetchProfile(ctx context.Context, slug string) (CompanyProfile, error) {
	profile := EmptyProfile()
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return profile, nil
	}
	profile.Slug = &slug

	var errs []error
	if page, err := c.fetchPage(ctx, c.profileURL(slug)); err != nil {
		slog.Warn("teamlyzer overview unavailable", "slug", slug, "error", err)
		errs = append(errs, fmt.Errorf("overview %s: %w", slug, err))
	} else {
		applyOverview(&profile, page)
	}

	if page, err := c.fetchPage(ctx, c.benefitsURL(slug)); err != nil {
		slog.Warn("teamlyzer benefits unavailable", "slug", slug, "error", err)
		errs = append(errs, fmt.Errorf("benefits %s: %w", slug, err))
	} else {
		profile.Benefits = ParseBenefits(benefitLines(page), c.topBenefits)
	}

	return profile, errors.Join(errs...)
}

func applyOverview(profile *CompanyProfile, page *content.Page) {
	org, hasOrg := page.OrganizationLD()

	profile.Rating = structuredRating(page, org, hasOrg)
	if profile.Rating == nil {
		profile.Rating = ParseRating(page.Text)
	}

	if hasOrg && utf8.RuneCountInString(org.Description) >= descriptionMinLen {
		desc := org.Description
		profile.Description = &desc
	} else {
		profile.Description = FindDescription(content.Lines(page.Text))
	}

	profile.SalaryRange = ParseSalary(page.Text)
}

func structuredRating(page *content.Page, org content.Organization, hasOrg bool) *Rating {
	if hasOrg && org.RatingValue != "" {
		return NewRating(org.RatingValue)
	}
	sel := page.Doc.Find(`[itemprop="ratingValue"]`).First()
	if sel.Length() == 0 {
		return nil
	}
	if v, ok := sel.Attr("content"); ok && strings.TrimSpace(v) != "" {
		return NewRating(v)
	}
	return NewRating(sel.Text())
}

// benefitLines renders the benefits page with list items as bullet lines.
func benefitLines(page *content.Page) []string {
	return content.Lines(page.BlockText())
}
