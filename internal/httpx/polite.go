package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"

	"github.com/baxromumarov/jobscout/internal/urlutil"
)

const maxBodyBytes = 16 << 20

// PoliteClient enforces per-host rate limits and, optionally, robots.txt rules.
// Every request is attempted once.
type PoliteClient struct {
	client      *http.Client
	opts        Options
	limiters    map[string]*rate.Limiter
	robotsCache map[string]*robotstxt.RobotsData
	mu          sync.Mutex
}

func NewPoliteClient(opts Options) *PoliteClient {
	return &PoliteClient{
		client:      &http.Client{Timeout: opts.timeout()},
		opts:        opts,
		limiters:    map[string]*rate.Limiter{},
		robotsCache: map[string]*robotstxt.RobotsData{},
	}
}

func (p *PoliteClient) limiterFor(host string) *rate.Limiter {
	host = urlutil.Host(host)
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(p.opts.limit(), p.opts.burst())
	p.limiters[host] = l
	return l
}

// NewRequest builds an HTTP GET request with context and a safe URL defaulting to https.
func NewRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	if rawURL == "" {
		return nil, errors.New("empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
}

func (p *PoliteClient) robotsFor(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	host := u.Host
	p.mu.Lock()
	if data, ok := p.robotsCache[host]; ok {
		p.mu.Unlock()
		return data, nil
	}
	p.mu.Unlock()

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.opts.UserAgent)

	if err := p.limiterFor(u.Hostname()).Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.robotsCache[host] = data
	p.mu.Unlock()
	return data, nil
}

// Do executes the request once. Non-2xx responses are closed and returned as *FetchError.
func (p *PoliteClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" && p.opts.UserAgent != "" {
		req.Header.Set("User-Agent", p.opts.UserAgent)
	}

	u := req.URL
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	target := redact(u)

	if p.opts.RespectRobots && !p.allowed(ctx, u, req.Method) {
		return nil, &FetchError{URL: target, Err: errors.New("blocked by robots.txt")}
	}

	if err := p.limiterFor(u.Hostname()).Wait(ctx); err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}

	resp, err := p.client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, &FetchError{URL: target, Err: stripURLError(err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &FetchError{URL: target, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	return resp, nil
}

// GetBytes fetches rawURL and returns the response body.
func (p *PoliteClient) GetBytes(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	req, err := NewRequest(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := p.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{URL: redact(req.URL), Status: resp.StatusCode, Err: err}
	}
	return body, nil
}

func (p *PoliteClient) allowed(ctx context.Context, u *url.URL, method string) bool {
	data, err := p.robotsFor(ctx, u)
	if err != nil {
		return true // fail open
	}
	group := data.FindGroup(p.opts.UserAgent)
	if group == nil {
		return true
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	if !group.Test(path) {
		return false
	}
	return strings.EqualFold(method, http.MethodGet) || strings.EqualFold(method, http.MethodHead)
}

// redact drops credentials carried in the query string.
func redact(u *url.URL) string {
	c := *u
	q := c.Query()
	for _, key := range []string{"api_key", "apikey", "key", "token"} {
		if q.Has(key) {
			q.Set(key, "REDACTED")
		}
	}
	c.RawQuery = q.Encode()
	return c.String()
}

func stripURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}
