// Package rajaongkir provides a client for the RajaOngkir shipping-rate API:
// province, city and subdistrict lookups, domestic and international cost
// calculation, and waybill tracking.
package rajaongkir

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds RajaOngkir client configuration.
type Config struct {
	APIKey      string
	AccountTier AccountTier // defaults to TierStarter

	// BaseURL overrides the tier-derived API root. Leave empty in production.
	BaseURL string

	// ExtraHeaders are sent with every request, for example "android-key".
	// They are applied after the defaults and win on a name collision, so
	// they can replace "key" or "content-type".
	ExtraHeaders map[string]string

	// Timeout applies to the default HTTP client. Ignored when HTTPClient is set.
	Timeout time.Duration

	// HTTPClient replaces the default *http.Client.
	HTTPClient Doer
}

// Client is the RajaOngkir API client. It is immutable after New and safe for
// concurrent use when its Doer is.
type Client struct {
	tier       AccountTier
	baseURL    string
	headers    http.Header
	httpClient Doer
	logger     *otelzap.Logger
	tracer     trace.Tracer
}

// New validates cfg and creates a client. Invalid tiers, a missing API key,
// an unparsable BaseURL or an unnamed extra header yield a *ConfigurationError.
// A nil logger or tracer disables logging or tracing.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) (*Client, error) {
	tier, err := ParseAccountTier(string(cfg.AccountTier))
	if err != nil {
		return nil, err
	}

	if cfg.APIKey == "" {
		return nil, &ConfigurationError{
			Field:   "api key",
			Message: "api key is required",
			Cause:   ErrMissingAPIKey,
		}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = tier.BaseURL()
	}
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &ConfigurationError{
			Field:   "base url",
			Message: "base url must be absolute: " + baseURL,
			Cause:   err,
		}
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	headers := make(http.Header)
	headers.Set("Content-Type", "application/x-www-form-urlencoded")
	headers.Set("key", cfg.APIKey)
	for name, value := range cfg.ExtraHeaders {
		if strings.TrimSpace(name) == "" {
			return nil, &ConfigurationError{
				Field:   "extra headers",
				Message: "header name must not be empty",
			}
		}
		headers.Set(name, value)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("rajaongkir")
	}

	return &Client{
		tier:       tier,
		baseURL:    baseURL,
		headers:    headers,
		httpClient: httpClient,
		logger:     logger,
		tracer:     tracer,
	}, nil
}

// Tier returns the account tier.
func (c *Client) Tier() AccountTier {
	return c.tier
}

// BaseURL returns the API root every path is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Headers returns a copy of the headers sent with every request.
func (c *Client) Headers() http.Header {
	return c.headers.Clone()
}

// Province lists all provinces, or one province when provinceID is set.
func (c *Client) Province(ctx context.Context, provinceID string) (*Response, error) {
	return c.do(ctx, provinceRequest(provinceID))
}

// City lists cities, optionally filtered by province or city id.
func (c *Client) City(ctx context.Context, req CityRequest) (*Response, error) {
	return c.do(ctx, cityRequest(req))
}

// Subdistrict lists the subdistricts of a city. Pro accounts only; the
// upstream enforces it.
func (c *Client) Subdistrict(ctx context.Context, req SubdistrictRequest) (*Response, error) {
	return c.do(ctx, subdistrictRequest(req))
}

// Cost calculates domestic shipping costs.
func (c *Client) Cost(ctx context.Context, req CostRequest) (*Response, error) {
	return c.do(ctx, costRequest(req))
}

// InternationalOrigin lists cities that can ship abroad.
func (c *Client) InternationalOrigin(ctx context.Context, req InternationalOriginRequest) (*Response, error) {
	return c.do(ctx, internationalOriginRequest(req))
}

// InternationalDestination lists destination countries, or one country when
// countryID is set.
func (c *Client) InternationalDestination(ctx context.Context, countryID string) (*Response, error) {
	return c.do(ctx, internationalDestinationRequest(countryID))
}

// InternationalCost calculates international shipping costs.
func (c *Client) InternationalCost(ctx context.Context, req InternationalCostRequest) (*Response, error) {
	return c.do(ctx, internationalCostRequest(req))
}

// Waybill tracks a shipment by waybill number.
func (c *Client) Waybill(ctx context.Context, req WaybillRequest) (*Response, error) {
	return c.do(ctx, waybillRequest(req))
}

// do issues one request and decodes the body. The HTTP status is recorded but
// never turned into an error.
func (c *Client) do(ctx context.Context, r *apiRequest) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "rajaongkir."+r.operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", r.method),
			attribute.String("rajaongkir.path", r.path),
			attribute.String("rajaongkir.tier", string(c.tier)),
		),
	)
	defer span.End()

	start := time.Now()

	httpReq, err := c.newHTTPRequest(ctx, r)
	if err != nil {
		return nil, c.fail(ctx, span, r, &TransportError{Operation: r.operation, Cause: err})
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.fail(ctx, span, r, &TransportError{Operation: r.operation, Cause: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(ctx, span, r, &TransportError{Operation: r.operation, Cause: err})
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	data, err := decodeBody(body)
	if err != nil {
		return nil, c.fail(ctx, span, r, &ResponseFormatError{
			Operation:  r.operation,
			StatusCode: resp.StatusCode,
			Body:       body,
			Cause:      err,
		})
	}

	c.logger.Ctx(ctx).Debug("RajaOngkir request completed",
		zap.String("operation", r.operation),
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Raw:        body,
		Data:       data,
	}, nil
}

// newHTTPRequest builds the outgoing request. GET parameters go in the query
// string, POST parameters in a form-encoded body.
func (c *Client) newHTTPRequest(ctx context.Context, r *apiRequest) (*http.Request, error) {
	target := c.baseURL + r.path

	var body io.Reader
	if r.method == http.MethodGet {
		if len(r.params) > 0 {
			target += "?" + r.params.Encode()
		}
	} else {
		body = strings.NewReader(r.params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header = c.headers.Clone()
	return req, nil
}

func (c *Client) fail(ctx context.Context, span trace.Span, r *apiRequest, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.Ctx(ctx).Error("RajaOngkir API error",
		zap.String("operation", r.operation),
		zap.String("path", r.path),
		zap.Error(err),
	)
	return err
}

var errEmptyBody = errors.New("empty response body")

func decodeBody(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errEmptyBody
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}
	return data, nil
}
