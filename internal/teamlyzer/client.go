package teamlyzer

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/baxromumarov/jobscout/internal/config"
	"github.com/baxromumarov/jobscout/internal/content"
	"github.com/baxromumarov/jobscout/internal/httpx"
	"github.com/baxromumarov/jobscout/internal/observability"
)

const component = "teamlyzer"

// Fetcher retrieves a page body. httpx.CollyFetcher satisfies it.
type Fetcher interface {
	FetchBytes(ctx context.Context, rawURL string) ([]byte, int, error)
}

// Client scrapes company pages from Teamlyzer.
type Client struct {
	fetcher       Fetcher
	base          *url.URL
	fallbackPages int
	topBenefits   int
}

func NewClient(cfg config.Teamlyzer, fetcher Fetcher) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse teamlyzer base url: %w", err)
	}
	if fetcher == nil {
		fetcher = httpx.NewCollyFetcher(httpx.Options{
			UserAgent:         cfg.UserAgent,
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
			RespectRobots:     cfg.RespectRobots,
		})
	}
	topBenefits := cfg.TopBenefits
	if topBenefits <= 0 {
		topBenefits = 5
	}
	return &Client{
		fetcher:       fetcher,
		base:          base,
		fallbackPages: cfg.FallbackPages,
		topBenefits:   topBenefits,
	}, nil
}

// FallbackPages is the configured directory scan budget.
func (c *Client) FallbackPages() int {
	return c.fallbackPages
}

func (c *Client) pageURL(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) rankingURL() string {
	return c.pageURL("/companies/ranking", nil)
}

func (c *Client) directoryURL(page int) string {
	if page <= 1 {
		return c.pageURL("/companies/", nil)
	}
	return c.pageURL("/companies/", url.Values{"page": {strconv.Itoa(page)}})
}

func (c *Client) profileURL(slug string) string {
	return c.pageURL("/companies/"+url.PathEscape(slug), nil)
}

func (c *Client) benefitsURL(slug string) string {
	return c.pageURL("/companies/"+url.PathEscape(slug)+"/benefits-and-values", nil)
}

func (c *Client) jobsSearchURL(query string, page int) string {
	q := url.Values{"search": {query}, "order": {"most_relevant"}}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return c.pageURL("/companies/jobs", q)
}

func (c *Client) fetchPage(ctx context.Context, rawURL string) (*content.Page, error) {
	start := time.Now()
	body, status, err := c.fetcher.FetchBytes(ctx, rawURL)
	if err != nil {
		observability.IncError(observability.ClassifyFetchError(err), component)
		slog.Debug("teamlyzer fetch failed", "url", rawURL, "status", status, "error", err)
		return nil, err
	}
	observability.ObserveFetchDuration(component, time.Since(start).Seconds())
	observability.IncPagesFetched(component)

	page, err := content.ParsePage(rawURL, body)
	if err != nil {
		observability.IncError(observability.ErrorParsing, component)
		return nil, err
	}
	return page, nil
}
