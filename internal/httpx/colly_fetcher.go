package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"

	"github.com/baxromumarov/jobscout/internal/urlutil"
)

// CollyFetcher wraps Colly for polite HTML fetching. Each fetch is a single attempt on a
// fresh collector so callbacks never leak between pages.
type CollyFetcher struct {
	opts  Options
	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

func NewCollyFetcher(opts Options) *CollyFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = "jobscout/1.0"
	}
	return &CollyFetcher{
		opts:  opts,
		hosts: make(map[string]*rate.Limiter),
	}
}

// FetchBytes returns the body and status of rawURL.
func (f *CollyFetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, int, error) {
	var body []byte
	status, err := f.fetch(ctx, rawURL, func(c *colly.Collector) {
		c.OnResponse(func(r *colly.Response) {
			body = append([]byte(nil), r.Body...)
		})
	})
	return body, status, err
}

func (f *CollyFetcher) fetch(ctx context.Context, rawURL string, register func(*colly.Collector)) (int, error) {
	target, host, err := normalizeURL(rawURL)
	if err != nil {
		return 0, &FetchError{URL: rawURL, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return 0, &FetchError{URL: target, Err: err}
	}
	if err := f.limiterFor(host).Wait(ctx); err != nil {
		return 0, &FetchError{URL: target, Err: err}
	}

	status, err := f.fetchOnce(ctx, target, register)
	if err != nil {
		return status, &FetchError{URL: target, Status: status, Err: err}
	}
	return status, nil
}

func (f *CollyFetcher) fetchOnce(ctx context.Context, target string, register func(*colly.Collector)) (int, error) {
	c := f.newCollector()
	if register != nil {
		register(c)
	}

	status := 0
	var reqErr error
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		reqErr = err
	})

	collyCtx := colly.NewContext()
	collyCtx.Put("ctx", ctx)

	if err := c.Request(http.MethodGet, target, nil, collyCtx, nil); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return status, ctxErr
		}
		return status, err
	}
	if reqErr != nil {
		return status, reqErr
	}
	if status >= 300 {
		return status, fmt.Errorf("status %d", status)
	}
	if status == 0 {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		status = http.StatusOK
	}
	return status, nil
}

func (f *CollyFetcher) newCollector() *colly.Collector {
	c := colly.NewCollector(colly.UserAgent(f.opts.UserAgent))
	c.IgnoreRobotsTxt = !f.opts.RespectRobots
	c.AllowURLRevisit = true
	c.SetRequestTimeout(f.opts.timeout())

	c.OnRequest(func(r *colly.Request) {
		ctx := context.Background()
		if v := r.Ctx.GetAny("ctx"); v != nil {
			if reqCtx, ok := v.(context.Context); ok {
				ctx = reqCtx
			}
		}
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	return c
}

func (f *CollyFetcher) limiterFor(host string) *rate.Limiter {
	key := urlutil.Host(host)
	if key == "" {
		key = "default"
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.hosts[key]; ok {
		return l
	}
	l := rate.NewLimiter(f.opts.limit(), f.opts.burst())
	f.hosts[key] = l
	return l
}

func normalizeURL(rawURL string) (string, string, error) {
	if rawURL == "" {
		return "", "", errors.New("empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	return u.String(), u.Hostname(), nil
}
