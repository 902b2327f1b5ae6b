package graphql_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	gqlgen "github.com/99designs/gqlgen/graphql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/ongkir/internal/graphql"
	"github.com/tournevent/ongkir/internal/telemetry"
	"github.com/tournevent/ongkir/pkg/rajaongkir"
	"github.com/tournevent/ongkir/pkg/rajaongkir/mock"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const okEnvelope = `{"rajaongkir":{"status":{"code":200,"description":"OK"}}}`

func newTestResolver(t *testing.T, transport *mock.Transport) (*graphql.Resolver, *telemetry.Metrics) {
	t.Helper()

	logger := otelzap.New(zap.NewNop())
	client, err := rajaongkir.New(rajaongkir.Config{
		APIKey:      "test-key",
		AccountTier: rajaongkir.TierPro,
		HTTPClient:  transport,
	}, logger, nil)
	require.NoError(t, err)

	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	return graphql.NewResolver(client, logger, metrics), metrics
}

func execute(t *testing.T, resolver *graphql.Resolver, query string, vars map[string]any) (map[string]any, *gqlgen.Response) {
	t.Helper()

	resp := resolver.Execute(context.Background(), &gqlgen.RawParams{Query: query, Variables: vars})
	if resp.Data == nil {
		return nil, resp
	}
	var data map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data, resp
}

func TestExecute_Province(t *testing.T) {
	transport := mock.NewTransport(okEnvelope)
	resolver, metrics := newTestResolver(t, transport)

	data, resp := execute(t, resolver, `{ province(id: 6) }`, nil)

	assert.Empty(t, resp.Errors)
	assert.Equal(t, map[string]any{
		"rajaongkir": map[string]any{
			"status": map[string]any{"code": float64(200), "description": "OK"},
		},
	}, data["province"])
	assert.Equal(t, "6", transport.Last().URL.Query().Get("province"))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("province", "200")))
}

func TestExecute_CostWithVariables(t *testing.T) {
	transport := mock.NewTransport(okEnvelope)
	resolver, _ := newTestResolver(t, transport)

	query := `query Cost($origin: ID!, $destination: ID!, $weight: Int) {
		cost(origin: $origin, destination: $destination, weight: $weight, courier: "jne", originType: "city", destinationType: "bogus")
	}`
	_, resp := execute(t, resolver, query, map[string]any{
		"origin":      "501",
		"destination": float64(114),
		"weight":      float64(1700),
	})

	require.Empty(t, resp.Errors)
	form := transport.Last().Form
	assert.Equal(t, "501", form.Get("origin"))
	assert.Equal(t, "114", form.Get("destination"))
	assert.Equal(t, "1700", form.Get("weight"))
	assert.Equal(t, "jne", form.Get("courier"))
	assert.Equal(t, "city", form.Get("originType"))
	_, hasDestinationType := form["destinationType"]
	assert.False(t, hasDestinationType)
}

func TestExecute_AliasesAndOrder(t *testing.T) {
	transport := mock.NewTransport(okEnvelope)
	resolver, _ := newTestResolver(t, transport)

	_, resp := execute(t, resolver, `{ tier: accountTier west: city(province: 9) health }`, nil)

	require.Empty(t, resp.Errors)
	raw := string(resp.Data)
	assert.Less(t, strings.Index(raw, `"tier"`), strings.Index(raw, `"west"`))
	assert.Less(t, strings.Index(raw, `"west"`), strings.Index(raw, `"health"`))
	assert.Contains(t, raw, `"tier":"pro"`)
	assert.Contains(t, raw, `"health":"ok"`)
}

func TestExecute_MissingRequiredArgument(t *testing.T) {
	transport := mock.NewTransport(okEnvelope)
	resolver, _ := newTestResolver(t, transport)

	data, resp := execute(t, resolver, `{ waybill(waybill: "SOCAG00183235715") province }`, nil)

	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "courier is required")
	assert.Equal(t, "BAD_USER_INPUT", resp.Errors[0].Extensions["code"])
	assert.Nil(t, data["waybill"])
	assert.NotNil(t, data["province"])
	assert.Len(t, transport.Requests(), 1, "only the province call should reach the upstream")
}

func TestExecute_UnknownField(t *testing.T) {
	resolver, _ := newTestResolver(t, mock.NewTransport(okEnvelope))

	_, resp := execute(t, resolver, `{ shippingLabel }`, nil)

	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "unknown field")
}

func TestExecute_TransportError(t *testing.T) {
	transport := &mock.Transport{Err: errors.New("connection refused")}
	resolver, metrics := newTestResolver(t, transport)

	data, resp := execute(t, resolver, `mutation { waybill(waybill: "X1", courier: "jne") }`, nil)

	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", resp.Errors[0].Extensions["code"])
	assert.Nil(t, data["waybill"])
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UpstreamErrors.WithLabelValues("waybill", "transport")))
}

func TestExecute_ResponseFormatError(t *testing.T) {
	resolver, _ := newTestResolver(t, mock.NewTransport("not json"))

	_, resp := execute(t, resolver, `{ internationalDestination }`, nil)

	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "UPSTREAM_BAD_RESPONSE", resp.Errors[0].Extensions["code"])
}

func TestExecute_SyntaxError(t *testing.T) {
	resolver, _ := newTestResolver(t, mock.NewTransport(okEnvelope))

	resp := resolver.Execute(context.Background(), &gqlgen.RawParams{Query: `{ province(`})

	assert.Nil(t, resp.Data)
	assert.NotEmpty(t, resp.Errors)
}

func TestExecute_OperationName(t *testing.T) {
	transport := mock.NewTransport(okEnvelope)
	resolver, _ := newTestResolver(t, transport)

	doc := `query A { province } query B { internationalOrigin(id: 152) }`

	resp := resolver.Execute(context.Background(), &gqlgen.RawParams{Query: doc, OperationName: "B"})
	require.Empty(t, resp.Errors)
	assert.Equal(t, "/api/v2/internationalOrigin", transport.Last().URL.Path)

	resp = resolver.Execute(context.Background(), &gqlgen.RawParams{Query: doc})
	require.Len(t, resp.Errors, 1)

	resp = resolver.Execute(context.Background(), &gqlgen.RawParams{Query: doc, OperationName: "C"})
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, `"C"`)
}

func TestExecute_AllFields(t *testing.T) {
	transport := mock.NewTransport(okEnvelope)
	resolver, _ := newTestResolver(t, transport)

	query := `{
		province
		city(province: "5", id: "39")
		subdistrict(city: 39, id: 537)
		cost(origin: 501, destination: 114)
		internationalOrigin(province: 6)
		internationalDestination(id: 108)
		internationalCost(origin: 152, destination: 108, courier: "pos")
		waybill(waybill: "SOCAG00183235715", courier: "jne")
	}`
	_, resp := execute(t, resolver, query, nil)

	require.Empty(t, resp.Errors)
	paths := make([]string, 0)
	for _, req := range transport.Requests() {
		paths = append(paths, req.URL.Path)
	}
	assert.ElementsMatch(t, []string{
		"/api/province",
		"/api/city",
		"/api/subdistrict",
		"/api/cost",
		"/api/v2/internationalOrigin",
		"/api/v2/internationalDestination",
		"/api/v2/internationalCost",
		"/api/waybill",
	}, paths)
}

func TestExecute_InlineFragmentFirst(t *testing.T) {
	resolver, _ := newTestResolver(t, mock.NewTransport(okEnvelope))

	data, resp := execute(t, resolver, `{ ... on Query { health } accountTier }`, nil)

	require.Empty(t, resp.Errors)
	assert.True(t, json.Valid(resp.Data))
	assert.Equal(t, map[string]any{"health": "ok", "accountTier": "pro"}, data)
}

func TestExecute_FragmentSpread(t *testing.T) {
	transport := mock.NewTransport(okEnvelope)
	resolver, _ := newTestResolver(t, transport)

	query := `query { ...Regions ... on Mutation { health } }
	fragment Regions on Query { province(id: 6) tier: accountTier }`
	data, resp := execute(t, resolver, query, nil)

	require.Empty(t, resp.Errors)
	assert.Len(t, data, 2)
	assert.Equal(t, "pro", data["tier"])
	assert.NotContains(t, data, "health")
	assert.Len(t, transport.Requests(), 1)
}

func TestExecute_UnknownFragment(t *testing.T) {
	resolver, _ := newTestResolver(t, mock.NewTransport(okEnvelope))

	data, resp := execute(t, resolver, `{ ...Missing health }`, nil)

	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, `"Missing"`)
	assert.Equal(t, "ok", data["health"])
}

func TestExecute_VariableDefaults(t *testing.T) {
	transport := mock.NewTransport(okEnvelope)
	resolver, _ := newTestResolver(t, transport)

	query := `query($id: ID = "6", $weight: Int = 2500) {
		province(id: $id)
		internationalCost(origin: 152, destination: 108, weight: $weight)
	}`

	_, resp := execute(t, resolver, query, nil)
	require.Empty(t, resp.Errors)

	var provinceQuery, costWeight string
	for _, req := range transport.Requests() {
		switch req.URL.Path {
		case "/api/province":
			provinceQuery = req.URL.Query().Get("province")
		case "/api/v2/internationalCost":
			costWeight = req.Form.Get("weight")
		}
	}
	assert.Equal(t, "6", provinceQuery)
	assert.Equal(t, "2500", costWeight)

	transport.Reset()
	_, resp = execute(t, resolver, `query($id: ID = "6") { province(id: $id) }`, map[string]any{"id": "9"})
	require.Empty(t, resp.Errors)
	assert.Equal(t, "9", transport.Last().URL.Query().Get("province"))
}

func TestExecute_EmptyDocument(t *testing.T) {
	resolver, _ := newTestResolver(t, mock.NewTransport(okEnvelope))

	resp := resolver.Execute(context.Background(), &gqlgen.RawParams{Query: `fragment F on Query { health }`})

	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "no operation provided", resp.Errors[0].Message)
}

func TestExecute_MutationFieldsRunInOrder(t *testing.T) {
	transport := mock.NewTransport(okEnvelope)
	resolver, _ := newTestResolver(t, transport)

	query := `mutation {
		a: waybill(waybill: "A1", courier: "jne")
		b: waybill(waybill: "B2", courier: "pos")
		c: waybill(waybill: "C3", courier: "tiki")
	}`
	_, resp := execute(t, resolver, query, nil)
	require.Empty(t, resp.Errors)

	var waybills []string
	for _, req := range transport.Requests() {
		waybills = append(waybills, req.Form.Get("waybill"))
	}
	assert.Equal(t, []string{"A1", "B2", "C3"}, waybills)
}

func TestExecute_QueryFieldsRunConcurrently(t *testing.T) {
	release := make(chan struct{})
	arrived := make(chan struct{}, 2)
	transport := mock.NewTransport(okEnvelope)
	transport.OnDo = func(req *http.Request) (*http.Response, error) {
		arrived <- struct{}{}
		<-release
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(okEnvelope)),
			Request:    req,
		}, nil
	}
	resolver, _ := newTestResolver(t, transport)

	done := make(chan *gqlgen.Response, 1)
	go func() {
		done <- resolver.Execute(context.Background(), &gqlgen.RawParams{Query: `{ first: province second: city }`})
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-arrived:
		case <-time.After(5 * time.Second):
			t.Fatal("query fields were not resolved concurrently")
		}
	}
	close(release)

	resp := <-done
	require.Empty(t, resp.Errors)
	raw := string(resp.Data)
	assert.Less(t, strings.Index(raw, `"first"`), strings.Index(raw, `"second"`))
}
