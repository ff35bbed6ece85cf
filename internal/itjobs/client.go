package itjobs

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/baxromumarov/jobscout/internal/config"
	"github.com/baxromumarov/jobscout/internal/httpx"
	"github.com/baxromumarov/jobscout/internal/jobs"
	"github.com/baxromumarov/jobscout/internal/observability"
)

const component = "itjobs"

// SearchParams are the optional filters of the search and list endpoints.
// Zero values are omitted from the query string.
type SearchParams struct {
	Query    string
	Limit    int
	Company  string
	Type     string
	Contract string
	Location string
	Page     int
}

func (p SearchParams) values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val = strings.TrimSpace(val); val != "" {
			v.Set(key, val)
		}
	}
	set("q", p.Query)
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	set("company", p.Company)
	set("type", p.Type)
	set("contract", p.Contract)
	set("location", p.Location)
	if p.Page > 1 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	return v
}

// Client talks to the itjobs.pt job API.
type Client struct {
	cfg  config.Config
	http *httpx.PoliteClient
}

func NewClient(cfg config.Config, client *httpx.PoliteClient) *Client {
	if client == nil {
		client = httpx.NewPoliteClient(httpx.Options{
			UserAgent:         cfg.API.UserAgent,
			Timeout:           cfg.API.Timeout,
			RequestsPerSecond: cfg.API.RequestsPerSecond,
			Burst:             cfg.API.Burst,
		})
	}
	return &Client{cfg: cfg, http: client}
}

// List returns the most recent postings.
func (c *Client) List(ctx context.Context, params SearchParams) (jobs.Payload, error) {
	return c.call(ctx, "list", params.values())
}

func (c *Client) Search(ctx context.Context, params SearchParams) (jobs.Payload, error) {
	return c.call(ctx, "search", params.values())
}

// Get fetches one posting by id.
func (c *Client) Get(ctx context.Context, id string) (jobs.Payload, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return jobs.Payload{}, jobs.ErrNoJobID
	}
	v := url.Values{}
	v.Set("id", id)
	return c.call(ctx, "get", v)
}

func (c *Client) Status(ctx context.Context) (jobs.Payload, error) {
	return c.call(ctx, "status", url.Values{})
}

// Detail fetches one posting and unwraps it from its response envelope.
func (c *Client) Detail(ctx context.Context, id string) (jobs.Record, error) {
	p, err := c.Get(ctx, id)
	if err != nil {
		return jobs.Record{}, err
	}
	return p.Unwrap(), nil
}

func (c *Client) call(ctx context.Context, endpoint string, query url.Values) (jobs.Payload, error) {
	if c.cfg.API.Key == "" {
		return jobs.Payload{}, config.ErrMissingAPIKey
	}
	base, err := c.cfg.EndpointURL(endpoint)
	if err != nil {
		return jobs.Payload{}, err
	}
	u, err := url.Parse(base)
	if err != nil {
		return jobs.Payload{}, fmt.Errorf("parse %s url: %w", endpoint, err)
	}
	query.Set("api_key", c.cfg.API.Key)
	u.RawQuery = query.Encode()

	start := time.Now()
	body, err := c.http.GetBytes(ctx, u.String(), nil)
	if err != nil {
		observability.IncError(observability.ClassifyFetchError(err), component)
		return jobs.Payload{}, fmt.Errorf("itjobs %s: %w", endpoint, err)
	}
	observability.ObserveFetchDuration(component, time.Since(start).Seconds())
	observability.IncPagesFetched(component)

	payload, err := jobs.DecodePayload(body)
	if err != nil {
		observability.IncError(observability.ErrorParsing, component)
		return jobs.Payload{}, fmt.Errorf("itjobs %s: %w", endpoint, err)
	}
	slog.Debug("itjobs call", "endpoint", endpoint, "bytes", len(body))
	return payload, nil
}
