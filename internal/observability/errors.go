package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/baxromumarov/jobscout/internal/httpx"
)

const (
	ErrorNetwork   = "network"
	ErrorHTTP      = "http_status"
	ErrorParsing   = "parsing"
	ErrorRateLimit = "rate_limit"
	ErrorRobots    = "robots"
	ErrorStore     = "store"
	ErrorCanceled  = "canceled"
	ErrorUnknown   = "unknown"
)

func ClassifyFetchError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	if errors.Is(err, context.Canceled) {
		return ErrorCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorNetwork
	}
	var fe *httpx.FetchError
	if errors.As(err, &fe) {
		switch {
		case fe.Status == http.StatusTooManyRequests:
			return ErrorRateLimit
		case fe.Status >= 400:
			return ErrorHTTP
		case fe.Err != nil && strings.Contains(fe.Err.Error(), "robots"):
			return ErrorRobots
		default:
			return ErrorNetwork
		}
	}
	return ErrorUnknown
}

// ClassifyError extends ClassifyFetchError with decoding failures.
func ClassifyError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	if kind := ClassifyFetchError(err); kind != ErrorUnknown {
		return kind
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return ErrorParsing
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "decode") || strings.Contains(msg, "parse") || strings.Contains(msg, "invalid json") {
		return ErrorParsing
	}
	return ErrorUnknown
}
