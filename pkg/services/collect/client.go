// Package collect fetches raw market data from the external providers:
// DART filings, KIS quotes and Naver news. Each client carries its own
// rate limiter so batch workers share one token bucket per provider.
package collect

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Provider request budgets. Filings are the strictest upstream.
const (
	filingsPerSecond = 1
	quotesPerSecond  = 5
	newsPerSecond    = 10
)

// newHTTPClient builds the retrying client every provider shares. Retries
// cover transient 5xx and connection resets; 4xx returns immediately.
func newHTTPClient() *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = 15 * time.Second
	rc.Logger = nil
	return rc.StandardClient()
}

// limitedClient pairs an HTTP client with a provider token bucket.
type limitedClient struct {
	http    *http.Client
	limiter *rate.Limiter
}

func newLimitedClient(perSecond float64) *limitedClient {
	return &limitedClient{
		http:    newHTTPClient(),
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// do waits for a rate token before sending. A cancelled context aborts
// the wait and the request both.
func (c *limitedClient) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.http.Do(req.WithContext(ctx))
}
