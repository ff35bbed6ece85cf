package teamlyzer

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/jobscout/internal/config"
	"github.com/baxromumarov/jobscout/internal/httpx"
)

type fakeFetcher struct {
	pages map[string]string
	calls []string
}

func (f *fakeFetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, int, error) {
	f.calls = append(f.calls, rawURL)
	if err := ctx.Err(); err != nil {
		return nil, 0, &httpx.FetchError{URL: rawURL, Err: err}
	}
	body, ok := f.pages[rawURL]
	if !ok {
		return nil, http.StatusNotFound, &httpx.FetchError{URL: rawURL, Status: http.StatusNotFound, Err: errors.New("Not Found")}
	}
	return []byte(body), http.StatusOK, nil
}

func newFakeClient(t *testing.T) (*Client, *fakeFetcher) {
	t.Helper()
	f := &fakeFetcher{pages: map[string]string{}}
	cfg := config.Default().Teamlyzer
	cfg.BaseURL = "https://teamlyzer.test"
	c, err := NewClient(cfg, f)
	require.NoError(t, err)
	return c, f
}
