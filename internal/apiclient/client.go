// Package apiclient implements product.Repository over the remote catalog
// REST API.
package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/rossa-autoparts/storefront/internal/domain/product"
	"github.com/rossa-autoparts/storefront/pkg/httpclient"
)

// Config holds the HTTP client settings.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.rossarepuestos.com".
	BaseURL string
	// Timeout bounds a full request, retries included. Zero means 10s.
	Timeout time.Duration
	// Retry controls transparent retries of idempotent requests.
	Retry httpclient.RetryConfig
	// TracerProvider instruments outgoing requests. The global provider is
	// used when nil.
	TracerProvider trace.TracerProvider
}

// StatusError is returned for unexpected HTTP response codes.
type StatusError struct {
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return "unexpected status " + strconv.Itoa(e.Status) + " from " + e.URL
}

var _ product.Repository = (*Client)(nil)

// Client talks to the product API. It is safe for concurrent use.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a Client for the API at cfg.BaseURL. The transport carries
// request IDs, retries and request logging, and is instrumented with
// OpenTelemetry.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("base URL %q must be absolute", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	transport := httpclient.Wrap(nil,
		httpclient.RequestID(),
		httpclient.LogRequests(),
		httpclient.Retry(cfg.Retry),
	)
	var otelOpts []otelhttp.Option
	if cfg.TracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(cfg.TracerProvider))
	}
	return &Client{
		base: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport, otelOpts...),
		},
	}, nil
}

// List fetches one catalog page matching q.
func (c *Client) List(ctx context.Context, q product.ListQuery) (*product.ListPage, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(max(q.Page, 1)))
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Model != "" {
		v.Set("compatibleModel", string(q.Model))
	}

	body, err := c.get(ctx, c.endpoint("api", "products"), v)
	if err != nil {
		return nil, err
	}
	page, err := decodeListPage(body)
	return page, errors.Wrap(err, "decode product page")
}

// Categories fetches the full category list.
func (c *Client) Categories(ctx context.Context) ([]product.Category, error) {
	body, err := c.get(ctx, c.endpoint("api", "categories"), nil)
	if err != nil {
		return nil, err
	}
	cats, err := decodeCategories(body)
	return cats, errors.Wrap(err, "decode categories")
}

// GetByID fetches a single product. A 404 maps to product.ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id string) (*product.Product, error) {
	body, err := c.get(ctx, c.endpoint("api", "products", id), nil)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusNotFound {
			return nil, product.ErrNotFound
		}
		return nil, err
	}
	p, err := decodeProductEnvelope(body)
	return p, errors.Wrap(err, "decode product")
}

func (c *Client) endpoint(parts ...string) *url.URL {
	return c.base.JoinPath(parts...)
}

func (c *Client) get(ctx context.Context, u *url.URL, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Status: resp.StatusCode, URL: req.URL.String()}
	}

	body, err := io.ReadAll(resp.Body)
	return body, errors.Wrap(err, "read body")
}
