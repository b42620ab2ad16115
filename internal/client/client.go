package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"flightops/aerodata/internal/constants"
	"flightops/aerodata/internal/fallback"
	"flightops/aerodata/internal/logging"
	"flightops/aerodata/internal/models/dtos"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultRetries   = 3
	defaultBaseDelay = 500 * time.Millisecond
)

var icaoPattern = regexp.MustCompile(`^[A-Z0-9]{3,4}$`)

// Client talks to the upstream aviation data provider. Every call carries a
// timeout, retries transient failures with exponential backoff, and delegates
// to the static fallback dataset before surfacing an error. A circuit breaker
// cuts over to fallback quickly during a hard upstream outage.
type Client struct {
	BaseURL    string
	APIToken   string
	HTTPClient *http.Client

	MaxRetries int
	BaseDelay  time.Duration

	breaker *gobreaker.CircuitBreaker[*exchange]
}

// exchange is one completed HTTP round trip. Responses that reached the
// server (any status) pass through the breaker as successes except 5xx;
// only transport failures and upstream outages trip it.
type exchange struct {
	status  int
	headers http.Header
	body    []byte
	path    string
}

// New creates a Client for the given provider endpoint.
func New(baseURL, apiToken string) *Client {
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIToken:   apiToken,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		MaxRetries: defaultRetries,
		BaseDelay:  defaultBaseDelay,
	}

	c.breaker = gobreaker.NewCircuitBreaker[*exchange](gobreaker.Settings{
		Name:     "aviation_api",
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn("Upstream circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return c
}

// GetByIdent fetches one airport by ICAO identifier. The returned source is
// "api" or "fallback". Malformed identifiers fail immediately and never fall
// back.
func (c *Client) GetByIdent(ctx context.Context, icao string) (*dtos.AirportRecord, string, error) {
	id := strings.ToUpper(strings.TrimSpace(icao))
	if !icaoPattern.MatchString(id) {
		return nil, "", newInvalidRequest("invalid airport identifier: " + icao)
	}

	var rec dtos.AirportRecord
	err := c.doGET(ctx, "/airport/"+id, nil, &rec)
	if err == nil {
		return &rec, string(constants.DataSourceAPI), nil
	}

	cerr := asClientError(err)
	if cerr.Code == constants.ErrCodeInvalidRequest || cerr.Code == constants.ErrCodeRateLimited {
		// Malformed requests never fall back; rate limiting propagates so the
		// caller can retry its cache instead.
		return nil, "", cerr
	}

	// Retries exhausted, or immediate not-found: try the static dataset
	logging.Warn("Upstream lookup failed, using fallback dataset",
		"icao", id,
		"code", cerr.Code,
	)
	fb, _ := fallback.Lookup(id)
	return fb, string(constants.DataSourceFallback), nil
}

// Search queries the upstream free-text search. A search that fails entirely
// degrades to the fallback dataset and then to an empty result rather than
// propagating; an outright malformed query is a hard error.
func (c *Client) Search(ctx context.Context, query string, opts dtos.SearchOptions) ([]dtos.AirportRecord, error) {
	q := strings.TrimSpace(query)
	if len(q) < 2 {
		return nil, newInvalidRequest("search query must be at least 2 characters")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	} else if limit > 50 {
		limit = 50
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("limit", strconv.Itoa(limit))
	if opts.Type != "" {
		params.Set("type", opts.Type)
	}

	var resp dtos.SearchResponse
	if err := c.doGET(ctx, "/airport/search", params, &resp); err != nil {
		logging.Warn("Upstream search failed, degrading to fallback dataset",
			"query", q,
			"error", err.Error(),
		)
		results := fallback.Search(q, limit)
		if results == nil {
			results = []dtos.AirportRecord{}
		}
		return results, nil
	}
	return resp.Airports, nil
}

// BatchResult carries per-identifier outcomes for one batch fetch. Sibling
// identifiers never fail because of one bad identifier.
type BatchResult struct {
	Records map[string]*dtos.AirportRecord
	Sources map[string]string
	Errors  map[string]*ClientError
}

// GetBatch fetches many airports, chunked at the provider's batch size and
// issued sequentially so the rate-limiter accounting stays accurate. Any
// identifier the API cannot resolve is retried once against the bundled
// fallback dataset before being reported as a per-item error.
func (c *Client) GetBatch(ctx context.Context, icaos []string) *BatchResult {
	result := &BatchResult{
		Records: map[string]*dtos.AirportRecord{},
		Sources: map[string]string{},
		Errors:  map[string]*ClientError{},
	}

	valid := make([]string, 0, len(icaos))
	for _, raw := range icaos {
		id := strings.ToUpper(strings.TrimSpace(raw))
		if !icaoPattern.MatchString(id) {
			result.Errors[raw] = newInvalidRequest("invalid airport identifier: " + raw)
			continue
		}
		valid = append(valid, id)
	}

	for start := 0; start < len(valid); start += constants.BatchChunkSize {
		end := start + constants.BatchChunkSize
		if end > len(valid) {
			end = len(valid)
		}
		c.fetchChunk(ctx, valid[start:end], result)
	}
	return result
}

func (c *Client) fetchChunk(ctx context.Context, chunk []string, result *BatchResult) {
	params := url.Values{}
	params.Set("icao_codes", strings.Join(chunk, ","))

	var resp dtos.BatchResponse
	err := c.doGET(ctx, "/airport/batch", params, &resp)

	resolved := map[string]bool{}
	if err == nil {
		for i := range resp.Airports {
			rec := resp.Airports[i]
			id := strings.ToUpper(rec.ICAOCode)
			if id == "" {
				id = strings.ToUpper(rec.Ident)
			}
			if id == "" {
				continue
			}
			result.Records[id] = &resp.Airports[i]
			result.Sources[id] = string(constants.DataSourceAPI)
			resolved[id] = true
		}
	}

	for _, id := range chunk {
		if resolved[id] {
			continue
		}
		// One retry against the bundled dataset before reporting an error
		if fb, bundled := fallback.Lookup(id); bundled {
			result.Records[id] = fb
			result.Sources[id] = string(constants.DataSourceFallback)
			continue
		}
		if err != nil {
			result.Errors[id] = asClientError(err)
		} else {
			result.Errors[id] = newNotFound(id)
		}
	}
}

// CheckHealth probes the provider's health endpoint.
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return newNetworkError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return newAPIError(resp.StatusCode, false)
	}
	return nil
}

// doGET performs an authenticated GET with retries and exponential backoff.
// Client errors (malformed request, not-found) are never retried.
func (c *Client) doGET(ctx context.Context, path string, params url.Values, result any) error {
	var lastErr *ClientError

	for attempt := 1; attempt <= c.MaxRetries; attempt++ {
		err := c.execute(ctx, path, params, result)
		if err == nil {
			return nil
		}

		cerr := asClientError(err)
		if !cerr.Retryable {
			return cerr
		}
		lastErr = cerr

		if attempt < c.MaxRetries {
			delay := c.BaseDelay * time.Duration(1<<(attempt-1))
			if cerr.RetryAfter > delay {
				delay = cerr.RetryAfter
			}
			logging.Debug("Retrying upstream request",
				"path", path,
				"attempt", attempt,
				"delay_ms", delay.Milliseconds(),
			)
			select {
			case <-ctx.Done():
				return newNetworkError(ctx.Err())
			case <-time.After(delay):
			}
		}
	}
	return lastErr
}

// execute runs one HTTP exchange through the circuit breaker and decodes the
// response.
func (c *Client) execute(ctx context.Context, path string, params url.Values, result any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apiToken", c.APIToken)
	endpoint := c.BaseURL + path + "?" + params.Encode()

	ex, err := c.breaker.Execute(func() (*exchange, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, newInvalidRequest(err.Error())
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, newNetworkError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return nil, newAPIError(resp.StatusCode, true)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, newNetworkError(err)
		}
		return &exchange{
			status:  resp.StatusCode,
			headers: resp.Header,
			body:    body,
			path:    path,
		}, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return &ClientError{
				Code:    constants.ErrCodeNetworkError,
				Message: "upstream circuit open: " + err.Error(),
			}
		}
		return err
	}

	if cerr := classifyStatus(ex); cerr != nil {
		return cerr
	}

	if err := json.Unmarshal(ex.body, result); err != nil {
		return newAPIError(http.StatusOK, false)
	}
	return nil
}

// classifyStatus maps upstream HTTP status codes onto the error taxonomy.
func classifyStatus(ex *exchange) *ClientError {
	switch {
	case ex.status == http.StatusOK:
		return nil
	case ex.status == http.StatusBadRequest:
		return newInvalidRequest("upstream rejected the request as malformed")
	case ex.status == http.StatusUnauthorized, ex.status == http.StatusForbidden:
		return newAPIError(ex.status, false)
	case ex.status == http.StatusNotFound:
		return newNotFound(ex.path)
	case ex.status == http.StatusTooManyRequests:
		return newRateLimited(parseRetryAfter(ex.headers))
	default:
		return newAPIError(ex.status, false)
	}
}

func parseRetryAfter(headers http.Header) time.Duration {
	if v := headers.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}
