package teamlyzer

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/baxromumarov/jobscout/internal/content"
	"github.com/baxromumarov/jobscout/internal/observability"
	"github.com/baxromumarov/jobscout/internal/urlutil"
)

var (
	slugPath = regexp.MustCompile(`^[a-z0-9-]+$`)
	nonSlug  = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphens  = regexp.MustCompile(`-{2,}`)
)

// Paths under /companies/ that are site sections rather than company profiles.
var sectionSlugs = map[string]bool{
	"ranking":          true,
	"awards":           true,
	"jobs":             true,
	"remote-companies": true,
}

// minGuessLen guards the guess-inside-slug tier against very short names.
const minGuessLen = 3

type companyKey struct {
	target string // normalized name
	hyphen string // normalized name, spaces as hyphens
	guess  string // hyphen with everything outside [a-z0-9-] removed
}

func newCompanyKey(name string) (companyKey, bool) {
	target := content.Normalize(name)
	if target == "" {
		return companyKey{}, false
	}
	hyphen := strings.ReplaceAll(target, " ", "-")
	guess := nonSlug.ReplaceAllString(hyphen, "")
	guess = strings.Trim(hyphens.ReplaceAllString(guess, "-"), "-")
	return companyKey{target: target, hyphen: hyphen, guess: guess}, true
}

// ProfileSlugs lists the company profile slugs linked from page, in order, without duplicates.
// Slugs keep the case of the href; duplicates are found case-insensitively.
func ProfileSlugs(page *content.Page) []string {
	seen := map[string]bool{}
	var out []string
	for _, u := range page.Links("a[href]") {
		segs := urlutil.Segments(u.Path)
		if len(segs) != 2 || !strings.EqualFold(segs[0], "companies") {
			continue
		}
		slug, lower := segs[1], strings.ToLower(segs[1])
		if !slugPath.MatchString(lower) || sectionSlugs[lower] || seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, slug)
	}
	return out
}

// findSlug returns the listed slug equal to want, ignoring case.
func findSlug(slugs []string, want string) (string, bool) {
	if want == "" {
		return "", false
	}
	for _, slug := range slugs {
		if strings.EqualFold(slug, want) {
			return slug, true
		}
	}
	return "", false
}

func mentions(page *content.Page, key companyKey) bool {
	return strings.Contains(content.Normalize(page.Text), key.target)
}

func matchRanking(page *content.Page, key companyKey) (string, bool) {
	if !mentions(page, key) {
		return "", false
	}
	slugs := ProfileSlugs(page)
	for _, slug := range slugs {
		if strings.Contains(key.hyphen, strings.ToLower(slug)) {
			return slug, true
		}
	}
	return findSlug(slugs, key.guess)
}

func matchDirectory(page *content.Page, key companyKey) (string, bool) {
	if !mentions(page, key) {
		return "", false
	}
	slugs := ProfileSlugs(page)
	if slug, ok := findSlug(slugs, key.guess); ok {
		return slug, true
	}
	for _, slug := range slugs {
		if strings.Contains(key.hyphen, strings.ToLower(slug)) {
			return slug, true
		}
	}
	if len(key.guess) >= minGuessLen {
		for _, slug := range slugs {
			if strings.Contains(strings.ToLower(slug), key.guess) {
				return slug, true
			}
		}
	}
	return "", false
}

// Resolution is the outcome of one slug search. Pages is the directory budget actually
// used and Failed counts the pages that could not be fetched, ranking included.
type Resolution struct {
	Slug   string
	Found  bool
	Pages  int
	Failed int
}

// Conclusive reports whether the result can be trusted beyond this call: a hit always is,
// a miss only when every page in the budget was read.
func (r Resolution) Conclusive() bool {
	return r.Found || r.Failed == 0
}

// ResolveSlug maps a free-text company name to a Teamlyzer slug. The ranking page is tried
// first, then directory pages 1..maxPages; a negative maxPages uses the configured budget.
// Page failures count as no match.
func (c *Client) ResolveSlug(ctx context.Context, name string, maxPages int) (string, bool) {
	res := c.Resolve(ctx, name, maxPages)
	return res.Slug, res.Found
}

// Resolve is ResolveSlug with the page accounting kept.
func (c *Client) Resolve(ctx context.Context, name string, maxPages int) Resolution {
	if maxPages < 0 {
		maxPages = c.fallbackPages
	}
	res := Resolution{Pages: maxPages}
	key, ok := newCompanyKey(name)
	if !ok {
		return res
	}

	if page, err := c.fetchPage(ctx, c.rankingURL()); err != nil {
		res.Failed++
		slog.Warn("teamlyzer ranking unavailable", "error", err)
	} else if slug, ok := matchRanking(page, key); ok {
		observability.IncResolution("ranking")
		slog.Debug("company resolved", "name", name, "slug", slug, "source", "ranking")
		res.Slug, res.Found = slug, true
		return res
	}

	for p := 1; p <= maxPages; p++ {
		if ctx.Err() != nil {
			res.Failed += maxPages - p + 1
			return res
		}
		page, err := c.fetchPage(ctx, c.directoryURL(p))
		if err != nil {
			res.Failed++
			slog.Warn("teamlyzer directory page unavailable", "page", p, "error", err)
			continue
		}
		if slug, ok := matchDirectory(page, key); ok {
			observability.IncResolution("directory")
			slog.Debug("company resolved", "name", name, "slug", slug, "source", "directory", "page", p)
			res.Slug, res.Found = slug, true
			return res
		}
	}

	observability.IncResolution("miss")
	slog.Debug("company not resolved", "name", name, "pages", maxPages, "failed", res.Failed)
	return res
}
